package poly

import (
	"math"
	"math/cmplx"
	"sort"
)

// Defaults for the Durand-Kerner iteration. The caps are generous because
// the polynomials arising from loop-shaping transfer functions are of
// modest degree and usually converge within a few hundred iterations.
const (
	DefaultMaxIterations = 100000
	DefaultTolerance     = 1e-10

	// acceptableResidual is the post-cap residual below which an
	// unconverged iterate is still reported (Converged stays false).
	acceptableResidual = 1e-6
)

// RootConfig holds the Durand-Kerner iteration knobs.
type RootConfig struct {
	MaxIterations int
	Tolerance     float64
}

// RootOption mutates a RootConfig.
type RootOption func(*RootConfig)

// WithMaxIterations caps the number of simultaneous-update sweeps.
func WithMaxIterations(n int) RootOption {
	return func(cfg *RootConfig) {
		if n > 0 {
			cfg.MaxIterations = n
		}
	}
}

// WithTolerance sets the per-sweep correction magnitude below which the
// iteration is considered converged.
func WithTolerance(tol float64) RootOption {
	return func(cfg *RootConfig) {
		if tol > 0 {
			cfg.Tolerance = tol
		}
	}
}

// RootResult carries the roots together with an explicit convergence
// signal. The iteration never fails outright for non-degenerate input;
// instead Converged and MaxResidual let the caller decide how much to
// trust the estimates.
type RootResult struct {
	Roots       []complex128
	Converged   bool
	Iterations  int
	MaxResidual float64
}

// FindRoots computes all roots of a complex-coefficient polynomial given in
// ascending power order. A degree <= 0 polynomial yields an empty root set.
func FindRoots(coeffs []complex128, opts ...RootOption) (RootResult, error) {
	cfg := RootConfig{
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	c := trimComplex(coeffs)
	n := len(c) - 1

	if n <= 0 {
		return RootResult{Converged: true}, nil
	}

	lead := c[n]
	if cmplx.Abs(lead) <= CleanupTol {
		return RootResult{}, ErrZeroLeading
	}

	norm := make([]complex128, len(c))
	for i := range c {
		norm[i] = c[i] / lead
	}

	// Seed on the unit circle with a half-step angular offset so that no
	// initial guess lands on the real axis.
	roots := make([]complex128, n)
	for i := range n {
		angle := 2*math.Pi*float64(i)/float64(n) + math.Pi/(2*float64(n))
		roots[i] = cmplx.Rect(1, angle)
	}

	res := RootResult{Roots: roots}

	for iter := range cfg.MaxIterations {
		maxDelta := 0.0

		for i := range n {
			den := complex(1, 0)
			for j := range n {
				if i == j {
					continue
				}

				den *= roots[i] - roots[j]
			}

			if cmplx.Abs(den) < DivisionFloor {
				den = complex(DivisionFloor, 0)
			}

			delta := evalAscending(norm, roots[i]) / den
			roots[i] -= delta

			if d := cmplx.Abs(delta); d > maxDelta {
				maxDelta = d
			}
		}

		if maxDelta < cfg.Tolerance {
			res.Converged = true
			res.Iterations = iter + 1

			break
		}

		res.Iterations = iter + 1
	}

	for _, r := range roots {
		if v := cmplx.Abs(evalAscending(norm, r)); v > res.MaxResidual {
			res.MaxResidual = v
		}
	}

	// The correction-size test can stall on clustered roots even when the
	// iterates already sit on the roots. Accept by residual in that case.
	if !res.Converged && res.MaxResidual <= acceptableResidual {
		res.Converged = true
	}

	return res, nil
}

// FindRootsReal is FindRoots for real ascending coefficients.
func FindRootsReal(coeffs []float64, opts ...RootOption) (RootResult, error) {
	return FindRoots(ToComplex(Trim(coeffs)), opts...)
}

// SortRoots orders roots canonically: real part descending, then |imaginary
// part| descending so conjugate pairs stay adjacent with the positive
// imaginary member first. The input slice is not modified.
func SortRoots(roots []complex128) []complex128 {
	out := make([]complex128, len(roots))
	copy(out, roots)

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := real(out[i]), real(out[j])
		if !nearlyEqual(ri, rj) {
			return ri > rj
		}

		ai, aj := math.Abs(imag(out[i])), math.Abs(imag(out[j]))
		if !nearlyEqual(ai, aj) {
			return ai > aj
		}

		return imag(out[i]) > imag(out[j])
	})

	return out
}

func nearlyEqual(a, b float64) bool {
	const eps = 1e-12

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	return diff <= eps*math.Max(math.Abs(a), math.Abs(b))
}

func evalAscending(c []complex128, s complex128) complex128 {
	v := c[len(c)-1]
	for i := len(c) - 2; i >= 0; i-- {
		v = v*s + c[i]
	}

	return v
}

func trimComplex(c []complex128) []complex128 {
	n := len(c)
	for n > 1 && cmplx.Abs(c[n-1]) <= CleanupTol {
		n--
	}

	if n == 0 {
		return []complex128{0}
	}

	return c[:n:n]
}
