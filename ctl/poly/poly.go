package poly

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// Errors returned by polynomial operations.
var (
	ErrEmptyPolynomial = errors.New("poly: polynomial has no coefficients")
	ErrZeroLeading     = errors.New("poly: leading coefficient is zero")
)

// Tolerances used across the package. These are deliberately named rather
// than inlined so that the classifier, the contour generator and the margin
// calculator all agree on what counts as zero.
const (
	// CleanupTol is the magnitude below which trailing coefficients are
	// treated as numerical noise and stripped.
	CleanupTol = 1e-15

	// DivisionFloor is the smallest product magnitude allowed in the
	// Durand-Kerner denominator before the iterate is nudged instead.
	DivisionFloor = 1e-30
)

// fftMulThreshold is the result length above which polynomial products are
// computed via FFT instead of direct convolution.
const fftMulThreshold = 64

// Trim strips trailing coefficients with magnitude <= CleanupTol. The
// constant polynomial [0] is returned for an all-zero input so the result
// is never empty.
func Trim(c []float64) []float64 {
	n := len(c)
	for n > 1 && math.Abs(c[n-1]) <= CleanupTol {
		n--
	}

	if n == 0 {
		return []float64{0}
	}

	return c[:n:n]
}

// Degree returns the degree of the trimmed polynomial. The zero polynomial
// has degree 0 by this convention.
func Degree(c []float64) int {
	return len(Trim(c)) - 1
}

// Eval evaluates the polynomial at s using Horner's method on the
// ascending-order coefficients.
func Eval(c []float64, s complex128) complex128 {
	if len(c) == 0 {
		return 0
	}

	v := complex(c[len(c)-1], 0)
	for i := len(c) - 2; i >= 0; i-- {
		v = v*s + complex(c[i], 0)
	}

	return v
}

// EvalComplex evaluates a complex-coefficient polynomial at s.
func EvalComplex(c []complex128, s complex128) complex128 {
	if len(c) == 0 {
		return 0
	}

	v := c[len(c)-1]
	for i := len(c) - 2; i >= 0; i-- {
		v = v*s + c[i]
	}

	return v
}

// Add returns a + b, padded to the longer operand.
func Add(a, b []float64) []float64 {
	if len(b) > len(a) {
		a, b = b, a
	}

	out := make([]float64, len(a))
	copy(out, a)

	for i, v := range b {
		out[i] += v
	}

	return out
}

// Sub returns a - b.
func Sub(a, b []float64) []float64 {
	return Add(a, Scale(b, -1))
}

// Scale returns k * a.
func Scale(a []float64, k float64) []float64 {
	out := make([]float64, len(a))
	for i, v := range a {
		out[i] = k * v
	}

	return out
}

// Mul returns the product a * b. Small products use direct convolution;
// larger ones switch to FFT-based convolution, mirroring the crossover used
// for kernel convolution elsewhere in this module family.
func Mul(a, b []float64) ([]float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, ErrEmptyPolynomial
	}

	n := len(a) + len(b) - 1
	if n < fftMulThreshold {
		return mulDirect(a, b), nil
	}

	return mulFFT(a, b, n)
}

func mulDirect(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, av := range a {
		for j, bv := range b {
			out[i+j] += av * bv
		}
	}

	return out
}

func mulFFT(a, b []float64, n int) ([]float64, error) {
	fftSize := nextPowerOf2(n)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("poly: failed to create FFT plan: %w", err)
	}

	aPad := make([]complex128, fftSize)
	for i, v := range a {
		aPad[i] = complex(v, 0)
	}

	bPad := make([]complex128, fftSize)
	for i, v := range b {
		bPad[i] = complex(v, 0)
	}

	if err := plan.Forward(aPad, aPad); err != nil {
		return nil, fmt.Errorf("poly: forward FFT failed: %w", err)
	}

	if err := plan.Forward(bPad, bPad); err != nil {
		return nil, fmt.Errorf("poly: forward FFT failed: %w", err)
	}

	for i := range aPad {
		aPad[i] *= bPad[i]
	}

	if err := plan.Inverse(aPad, aPad); err != nil {
		return nil, fmt.Errorf("poly: inverse FFT failed: %w", err)
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = real(aPad[i])
	}

	return out, nil
}

// Pow returns a raised to a non-negative integer power by repeated
// multiplication. a^0 is the constant polynomial [1].
func Pow(a []float64, k int) ([]float64, error) {
	if k < 0 {
		return nil, fmt.Errorf("poly: negative exponent %d", k)
	}

	out := []float64{1}

	for range k {
		next, err := Mul(out, a)
		if err != nil {
			return nil, err
		}

		out = next
	}

	return out, nil
}

// ToComplex widens real ascending coefficients to complex128.
func ToComplex(c []float64) []complex128 {
	out := make([]complex128, len(c))
	for i, v := range c {
		out[i] = complex(v, 0)
	}

	return out
}

// MaxAbs returns the largest coefficient magnitude.
func MaxAbs(c []complex128) float64 {
	m := 0.0
	for _, v := range c {
		if a := cmplx.Abs(v); a > m {
			m = a
		}
	}

	return m
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
