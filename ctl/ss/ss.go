package ss

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-control/ctl/poly"
)

// Errors returned by realization construction.
var (
	ErrEmptyCoefficients = errors.New("ss: empty coefficient vector")
	ErrZeroDenominator   = errors.New("ss: denominator is identically zero")
	ErrImproper          = errors.New("ss: numerator degree exceeds denominator degree")
)

// Model is a SISO LTI system in observable canonical form:
//
//	x' = A*x + B*u
//	y  = C*x + D*u
//
// with C = [1, 0, ..., 0]. N == 0 marks the degenerate pure-gain model
// where only D carries information.
type Model struct {
	A [][]float64
	B []float64
	C []float64
	D float64
	N int
}

// Gain builds the order-zero model y = d*u.
func Gain(d float64) *Model {
	return &Model{D: d}
}

// FromTransferFunction builds the observable-canonical realization of
// num(s)/den(s), both in ascending power order. The denominator is
// normalized to monic first; trailing near-zero coefficients are stripped.
// A proper or biproper function is required: deg(num) <= deg(den).
func FromTransferFunction(num, den []float64) (*Model, error) {
	if len(num) == 0 || len(den) == 0 {
		return nil, ErrEmptyCoefficients
	}

	num = poly.Trim(num)
	den = poly.Trim(den)

	n := len(den) - 1
	lead := den[n]

	if lead == 0 {
		return nil, ErrZeroDenominator
	}

	if len(num)-1 > n {
		return nil, fmt.Errorf("%w: deg(num)=%d, deg(den)=%d", ErrImproper, len(num)-1, n)
	}

	// Monic normalization of both polynomials.
	a := poly.Scale(den, 1/lead)
	b := poly.Scale(num, 1/lead)

	if n <= 0 {
		return Gain(b[0] / a[0]), nil
	}

	// Pad the numerator to length n+1; its s^n coefficient is the direct
	// feedthrough.
	bp := make([]float64, n+1)
	copy(bp, b)
	d := bp[n]

	m := &Model{
		A: make([][]float64, n),
		B: make([]float64, n),
		C: make([]float64, n),
		D: d,
		N: n,
	}

	for i := range n {
		m.A[i] = make([]float64, n)

		// First column holds the negated denominator coefficients in
		// highest-order-first order; the superdiagonal is all ones.
		m.A[i][0] = -a[n-1-i]
		if i+1 < n {
			m.A[i][i+1] = 1
		}

		m.B[i] = bp[n-1-i] - a[n-1-i]*d
	}

	m.C[0] = 1

	return m, nil
}

// Output computes y = C*x + D*u for the current state.
func (m *Model) Output(x []float64, u float64) float64 {
	y := m.D * u
	for i, c := range m.C {
		y += c * x[i]
	}

	return y
}

// derivative writes A*x + B*u into dst.
func (m *Model) derivative(dst, x []float64, u float64) {
	for i := range m.A {
		v := m.B[i] * u
		for j, aij := range m.A[i] {
			v += aij * x[j]
		}

		dst[i] = v
	}
}

// ResponseAt reconstructs the transfer function value C*(sI-A)^-1*B + D at
// a complex frequency by solving the real-augmented linear system
//
//	[ Re(sI-A)  -Im(sI-A) ] [Re(x)]   [B]
//	[ Im(sI-A)   Re(sI-A) ] [Im(x)] = [0]
//
// with a dense LU solve. This is the realization cross-check used by the
// tests and by the analysis layer's self-validation; simulation never
// calls it.
func (m *Model) ResponseAt(s complex128) (complex128, error) {
	if m.N == 0 {
		return complex(m.D, 0), nil
	}

	n := m.N
	sigma, omega := real(s), imag(s)

	aug := mat.NewDense(2*n, 2*n, nil)
	rhs := mat.NewVecDense(2*n, nil)

	for i := range n {
		for j := range n {
			// P = sigma*I - A, Q = omega*I.
			p := -m.A[i][j]
			if i == j {
				p += sigma
			}

			var q float64
			if i == j {
				q = omega
			}

			aug.Set(i, j, p)
			aug.Set(i, j+n, -q)
			aug.Set(i+n, j, q)
			aug.Set(i+n, j+n, p)
		}

		rhs.SetVec(i, m.B[i])
	}

	var x mat.VecDense
	if err := x.SolveVec(aug, rhs); err != nil {
		return 0, fmt.Errorf("ss: singular at s=%v: %w", s, err)
	}

	var re, im float64
	for i, c := range m.C {
		re += c * x.AtVec(i)
		im += c * x.AtVec(i+n)
	}

	return complex(re+m.D, im), nil
}
