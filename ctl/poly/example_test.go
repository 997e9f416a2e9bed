package poly_test

import (
	"fmt"

	"github.com/cwbudde/algo-control/ctl/poly"
)

func ExampleFindRootsReal() {
	// (s+1)(s+2)(s+3) in ascending power order.
	res, _ := poly.FindRootsReal([]float64{6, 11, 6, 1})

	for _, r := range poly.SortRoots(res.Roots) {
		fmt.Printf("%.1f ", real(r))
	}

	fmt.Printf("converged=%v\n", res.Converged)

	// Output:
	// -1.0 -2.0 -3.0 converged=true
}

func ExampleMul() {
	// (1+s) * (2+s)
	p, _ := poly.Mul([]float64{1, 1}, []float64{2, 1})
	fmt.Println(p)

	// Output:
	// [2 3 1]
}
