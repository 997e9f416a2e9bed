package symb

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

func TestPadeNode_FirstOrder(t *testing.T) {
	// [1/1]: (1 - Ld*s/2) / (1 + Ld*s/2)
	e, err := PadeNode(2, 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Eval(e, map[string]complex128{"s": 0.25})
	if err != nil {
		t.Fatal(err)
	}

	// Ld*s = 0.5: (1 - 0.25)/(1 + 0.25) = 0.6
	if cmplx.Abs(got-complex(0.6, 0)) > 1e-14 {
		t.Errorf("got %v, want 0.6", got)
	}
}

func TestPadeNode_ApproximatesDelayAtLowFrequency(t *testing.T) {
	const ld = 0.4

	e, err := PadeNode(ld, 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	for _, w := range []float64{0.01, 0.05, 0.1, 0.2} {
		s := complex(0, w)

		got, err := Eval(e, map[string]complex128{"s": s})
		if err != nil {
			t.Fatal(err)
		}

		want := cmplx.Exp(-complex(ld, 0) * s)

		// [1/1] Pade matches exp(-x) through x^2, so the error is
		// O((w*Ld)^3).
		x := w * ld
		if cmplx.Abs(got-want) > x*x*x {
			t.Errorf("w=%v: |err| = %e exceeds O(x^3) = %e", w, cmplx.Abs(got-want), x*x*x)
		}

		if math.Abs(cmplx.Abs(got)-1) > x*x*x {
			t.Errorf("w=%v: magnitude %v drifted from 1", w, cmplx.Abs(got))
		}
	}
}

func TestPadeNode_ZeroOrderIsUnity(t *testing.T) {
	e, err := PadeNode(1.5, 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	c, ok := e.(Constant)
	if !ok || c.Value != 1 {
		t.Errorf("expected constant 1, got %s", e)
	}
}

func TestPadeNode_SecondOrderCoefficients(t *testing.T) {
	// [2/2] of exp(-x): (1 - x/2 + x^2/12) / (1 + x/2 + x^2/12).
	e, err := PadeNode(1, 2, 2)
	if err != nil {
		t.Fatal(err)
	}

	at := func(x float64) complex128 {
		v, err := Eval(e, map[string]complex128{"s": complex(x, 0)})
		if err != nil {
			t.Fatal(err)
		}

		return v
	}

	for _, x := range []float64{0.1, 0.5, 1.0} {
		want := (1 - x/2 + x*x/12) / (1 + x/2 + x*x/12)
		if cmplx.Abs(at(x)-complex(want, 0)) > 1e-13 {
			t.Errorf("x=%v: got %v, want %v", x, at(x), want)
		}
	}
}

func TestExpandPadeDelay_RewritesCall(t *testing.T) {
	// pade_delay(0.5, 1) / (s+1)
	e := Div(
		Fn(FuncPadeDelay, Con(0.5), Con(1)),
		Add(Sym("s"), Con(1)),
	)

	expanded, err := ExpandPadeDelay(e)
	if err != nil {
		t.Fatal(err)
	}

	// The expanded tree must be rational.
	if _, err := Rationalize(expanded, "s"); err != nil {
		t.Errorf("expanded tree not rational: %v", err)
	}
}

func TestExpandPadeDelay_DefaultsDenominatorOrder(t *testing.T) {
	two, err := ExpandPadeDelay(Fn(FuncPadeDelay, Con(1), Con(2)))
	if err != nil {
		t.Fatal(err)
	}

	three, err := ExpandPadeDelay(Fn(FuncPadeDelay, Con(1), Con(2), Con(2)))
	if err != nil {
		t.Fatal(err)
	}

	if two.String() != three.String() {
		t.Error("pade_delay(Ld, n) must equal pade_delay(Ld, n, n)")
	}
}

func TestExpandPadeDelay_RejectsNonIntegerOrder(t *testing.T) {
	_, err := ExpandPadeDelay(Fn(FuncPadeDelay, Con(1), Con(1.5)))
	if !errors.Is(err, ErrBadPadeOrder) {
		t.Errorf("expected ErrBadPadeOrder, got %v", err)
	}
}

func TestExpandPadeDelay_RejectsNegativeOrder(t *testing.T) {
	_, err := ExpandPadeDelay(Fn(FuncPadeDelay, Con(1), Neg(Con(1))))
	if !errors.Is(err, ErrBadPadeOrder) {
		t.Errorf("expected ErrBadPadeOrder, got %v", err)
	}
}
