package symb

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-control/ctl/poly"
)

// Rationalization errors. ErrNotRational is the expected outcome for
// transcendental expressions and marks the input as unclassifiable rather
// than broken; callers degrade the affected analysis instead of failing.
var (
	ErrNotRational = errors.New("symb: expression is not rational")
	ErrZeroDenom   = errors.New("symb: denominator is identically zero")
)

// Rational is a ratio of two real polynomials in ascending power order.
// The denominator is never empty; an absent denominator reduces to the
// constant polynomial [1].
type Rational struct {
	Num []float64
	Den []float64
}

// Rationalize reduces an expression over varName into a single
// numerator/denominator coefficient pair by combining nested fractions.
// All symbols other than varName must already be bound to constants (see
// [Bind]); an unbound symbol is an error. Transcendental sub-expressions
// make the whole expression non-rational.
func Rationalize(e Expr, varName string) (Rational, error) {
	r, err := rationalOf(e, varName)
	if err != nil {
		return Rational{}, err
	}

	r.Num = poly.Trim(r.Num)
	r.Den = poly.Trim(r.Den)

	if len(r.Den) == 1 && r.Den[0] == 0 {
		return Rational{}, ErrZeroDenom
	}

	return r, nil
}

func rationalOf(e Expr, varName string) (Rational, error) {
	switch n := e.(type) {
	case Constant:
		return Rational{Num: []float64{n.Value}, Den: []float64{1}}, nil

	case Symbol:
		if n.Name == varName {
			return Rational{Num: []float64{0, 1}, Den: []float64{1}}, nil
		}

		return Rational{}, fmt.Errorf("%w: %q", ErrUnboundSymbol, n.Name)

	case Unary:
		r, err := rationalOf(n.X, varName)
		if err != nil {
			return Rational{}, err
		}

		return Rational{Num: poly.Scale(r.Num, -1), Den: r.Den}, nil

	case Binary:
		return rationalOfBinary(n, varName)

	case Call:
		return Rational{}, fmt.Errorf("%w: function %q", ErrNotRational, n.Name)
	}

	return Rational{}, fmt.Errorf("%w: node %T", ErrNotRational, e)
}

func rationalOfBinary(b Binary, varName string) (Rational, error) {
	if b.Op == OpPow {
		return rationalOfPow(b, varName)
	}

	x, err := rationalOf(b.X, varName)
	if err != nil {
		return Rational{}, err
	}

	y, err := rationalOf(b.Y, varName)
	if err != nil {
		return Rational{}, err
	}

	switch b.Op {
	case OpAdd, OpSub:
		// x/a + y/b = (x*b + y*a) / (a*b)
		xb, err := poly.Mul(x.Num, y.Den)
		if err != nil {
			return Rational{}, err
		}

		ya, err := poly.Mul(y.Num, x.Den)
		if err != nil {
			return Rational{}, err
		}

		den, err := poly.Mul(x.Den, y.Den)
		if err != nil {
			return Rational{}, err
		}

		if b.Op == OpSub {
			ya = poly.Scale(ya, -1)
		}

		return Rational{Num: poly.Add(xb, ya), Den: den}, nil

	case OpMul:
		num, err := poly.Mul(x.Num, y.Num)
		if err != nil {
			return Rational{}, err
		}

		den, err := poly.Mul(x.Den, y.Den)
		if err != nil {
			return Rational{}, err
		}

		return Rational{Num: num, Den: den}, nil

	case OpDiv:
		num, err := poly.Mul(x.Num, y.Den)
		if err != nil {
			return Rational{}, err
		}

		den, err := poly.Mul(x.Den, y.Num)
		if err != nil {
			return Rational{}, err
		}

		return Rational{Num: num, Den: den}, nil
	}

	return Rational{}, fmt.Errorf("symb: invalid binary operator %d", b.Op)
}

func rationalOfPow(b Binary, varName string) (Rational, error) {
	k, ok := integerLiteral(b.Y)
	if !ok {
		return Rational{}, fmt.Errorf("%w: non-integer exponent", ErrNotRational)
	}

	base, err := rationalOf(b.X, varName)
	if err != nil {
		return Rational{}, err
	}

	neg := k < 0
	if neg {
		k = -k
	}

	num, err := poly.Pow(base.Num, k)
	if err != nil {
		return Rational{}, err
	}

	den, err := poly.Pow(base.Den, k)
	if err != nil {
		return Rational{}, err
	}

	if neg {
		num, den = den, num
	}

	return Rational{Num: num, Den: den}, nil
}

// integerLiteral extracts an integer constant, tolerating a unary or
// constant-folded negation.
func integerLiteral(e Expr) (int, bool) {
	switch n := e.(type) {
	case Constant:
		if n.Value != math.Trunc(n.Value) || math.IsInf(n.Value, 0) || math.IsNaN(n.Value) {
			return 0, false
		}

		return int(n.Value), true

	case Unary:
		k, ok := integerLiteral(n.X)
		if !ok {
			return 0, false
		}

		return -k, true
	}

	return 0, false
}
