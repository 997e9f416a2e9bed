package freq

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-vecmath"
)

// Evaluator computes L(s) at one point of the complex plane. An error (or
// a non-finite result) marks that single sample as failed; it never aborts
// the sweep.
type Evaluator func(s complex128) (complex128, error)

// Response holds the sampled frequency response of a loop. All columns
// share the index of W. Failed[i] is true where the evaluator failed and
// L was substituted with zero.
type Response struct {
	W        []float64
	L        []complex128
	GainDB   []float64
	PhaseDeg []float64
	Failed   []bool
}

// Sweep evaluates L(j*w) over the ascending frequency grid and derives the
// gain and unwrapped-phase columns.
func Sweep(eval Evaluator, w []float64) Response {
	n := len(w)

	resp := Response{
		W:        w,
		L:        make([]complex128, n),
		GainDB:   make([]float64, n),
		PhaseDeg: make([]float64, n),
		Failed:   make([]bool, n),
	}

	re := make([]float64, n)
	im := make([]float64, n)

	for i, wi := range w {
		v, err := eval(complex(0, wi))
		if err != nil || !isFinite(v) {
			resp.Failed[i] = true
			v = 0
		}

		resp.L[i] = v
		re[i] = real(v)
		im[i] = imag(v)
	}

	mag := make([]float64, n)
	vecmath.Magnitude(mag, re, im)

	for i, m := range mag {
		// 20*log10(0) is -Inf by IEEE semantics, which is exactly what a
		// failed or identically zero sample should read as.
		resp.GainDB[i] = 20 * math.Log10(m)
	}

	unwrapDegrees(resp.L, resp.PhaseDeg)

	return resp
}

// unwrapDegrees fills dst with the continuous phase of the samples in
// degrees. A running offset absorbs every wrap: whenever the raw phase
// differs from the previous unwrapped value by more than 180 degrees, the
// nearest multiple of 360 is folded into the offset.
func unwrapDegrees(values []complex128, dst []float64) {
	const radToDeg = 180 / math.Pi

	offset := 0.0

	for i, v := range values {
		raw := cmplx.Phase(v) * radToDeg

		if i > 0 {
			delta := raw + offset - dst[i-1]
			if math.Abs(delta) > 180 {
				offset += math.Round(-delta/360) * 360
			}
		}

		dst[i] = raw + offset
	}
}

func isFinite(v complex128) bool {
	return !cmplx.IsNaN(v) && !cmplx.IsInf(v)
}
