package symb

import (
	"errors"
	"fmt"
)

// FuncPadeDelay is the call-convention name users write to request a
// rational stand-in for a dead time: pade_delay(Ld, n[, m]). m defaults to
// n when omitted.
const FuncPadeDelay = "pade_delay"

// ErrBadPadeOrder is returned when a pade_delay order argument is not a
// non-negative integer literal.
var ErrBadPadeOrder = errors.New("symb: pade order must be a non-negative integer literal")

// PadeNode constructs the [n/m] Pade approximation of exp(-Ld*s) as an
// expression tree over the symbol "s":
//
//	num(s) = sum_{k=0}^{n} (-1)^k a_k (Ld*s)^k
//	den(s) = sum_{k=0}^{m} b_k (Ld*s)^k
//
// The coefficients follow the closed-form recurrence
//
//	coeff(p, q, k) = prod_{i=0}^{k-1} (p-i) / ((p+q-i)(i+1))
//
// computed iteratively so moderate orders do not overflow the way a
// factorial formulation would. n = m = 0 reduces to the constant 1.
func PadeNode(ld float64, n, m int) (Expr, error) {
	if n < 0 || m < 0 {
		return nil, ErrBadPadeOrder
	}

	if n == 0 && m == 0 {
		return Con(1), nil
	}

	num := padeSum(ld, n, m, true)
	den := padeSum(ld, m, n, false)

	return Div(num, den), nil
}

// padeSum builds sum_k c_k (Ld*s)^k with alternating signs when alternate
// is set (the numerator of the exp(-x) approximant).
func padeSum(ld float64, p, q int, alternate bool) Expr {
	out := Expr(Con(1))
	coeff := 1.0

	for k := 1; k <= p; k++ {
		// Incremental recurrence step from coeff(p, q, k-1).
		i := k - 1
		coeff *= float64(p-i) / (float64(p+q-i) * float64(i+1))

		c := coeff
		if alternate && k%2 == 1 {
			c = -c
		}

		term := Mul(Con(c), powLdS(ld, k))
		out = Add(out, term)
	}

	return out
}

// powLdS builds (Ld*s)^k without a redundant power node for k = 1.
func powLdS(ld float64, k int) Expr {
	base := Mul(Con(ld), Sym("s"))
	if k == 1 {
		return base
	}

	return Pow(base, Con(float64(k)))
}

// ExpandPadeDelay rewrites every pade_delay(Ld, n[, m]) call in the tree
// into its rational approximation. Orders must be non-negative integer
// literals; Ld must be a constant (bind parameters first).
func ExpandPadeDelay(e Expr) (Expr, error) {
	switch n := e.(type) {
	case Constant, Symbol:
		return e, nil

	case Unary:
		x, err := ExpandPadeDelay(n.X)
		if err != nil {
			return nil, err
		}

		return Unary{Op: n.Op, X: x}, nil

	case Binary:
		x, err := ExpandPadeDelay(n.X)
		if err != nil {
			return nil, err
		}

		y, err := ExpandPadeDelay(n.Y)
		if err != nil {
			return nil, err
		}

		return Binary{Op: n.Op, X: x, Y: y}, nil

	case Call:
		args := make([]Expr, len(n.Args))

		for i, a := range n.Args {
			expanded, err := ExpandPadeDelay(a)
			if err != nil {
				return nil, err
			}

			args[i] = expanded
		}

		c := Call{Name: n.Name, Args: args}
		if c.Name != FuncPadeDelay {
			return c, nil
		}

		return expandPadeCall(c)
	}

	return e, nil
}

func expandPadeCall(c Call) (Expr, error) {
	if len(c.Args) < 2 || len(c.Args) > 3 {
		return nil, fmt.Errorf("%w: pade_delay expects 2 or 3 arguments, got %d", ErrArgumentCount, len(c.Args))
	}

	ld, ok := constantValue(c.Args[0])
	if !ok {
		return nil, fmt.Errorf("symb: pade_delay time must be constant, got %s", c.Args[0])
	}

	n, ok := integerLiteral(c.Args[1])
	if !ok || n < 0 {
		return nil, fmt.Errorf("%w: got %s", ErrBadPadeOrder, c.Args[1])
	}

	m := n
	if len(c.Args) == 3 {
		m, ok = integerLiteral(c.Args[2])
		if !ok || m < 0 {
			return nil, fmt.Errorf("%w: got %s", ErrBadPadeOrder, c.Args[2])
		}
	}

	return PadeNode(ld, n, m)
}
