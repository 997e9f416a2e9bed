package symb_test

import (
	"fmt"

	"github.com/cwbudde/algo-control/ctl/symb"
)

func ExampleClassify() {
	s := symb.Sym("s")
	expr := symb.Mul(
		symb.Div(symb.Con(1), symb.Add(s, symb.Con(1))),
		symb.Fn("exp", symb.Neg(symb.Mul(symb.Con(0.5), s))),
	)

	cls := symb.Classify(expr, "s")
	fmt.Printf("%s delay=%.1f\n", cls.Kind, cls.DelayTime)

	// Output:
	// rational_delay delay=0.5
}

func ExampleRationalize() {
	s := symb.Sym("s")
	expr := symb.Div(symb.Con(1), symb.Mul(symb.Add(s, symb.Con(1)), symb.Add(s, symb.Con(2))))

	r, _ := symb.Rationalize(expr, "s")
	fmt.Println(r.Num, r.Den)

	// Output:
	// [1] [2 3 1]
}
