package freq

import (
	"errors"
	"math"
	"math/cmplx"
)

// Errors returned by grid construction.
var (
	ErrBadRange  = errors.New("freq: range bounds must be positive and ordered")
	ErrBadPoints = errors.New("freq: grid needs at least two points")
)

// Default sweep bounds in rad/s, used when no roots are available to
// derive a better range from.
const (
	DefaultWMin = 0.01
	DefaultWMax = 100
)

// LogSpace returns n logarithmically spaced frequencies from wMin to wMax
// inclusive.
func LogSpace(wMin, wMax float64, n int) ([]float64, error) {
	if wMin <= 0 || wMax <= wMin {
		return nil, ErrBadRange
	}

	if n < 2 {
		return nil, ErrBadPoints
	}

	lo := math.Log10(wMin)
	hi := math.Log10(wMax)

	out := make([]float64, n)
	for i := range out {
		t := float64(i) / float64(n-1)
		out[i] = math.Pow(10, lo+t*(hi-lo))
	}

	// Pin the endpoints exactly despite rounding.
	out[0] = wMin
	out[n-1] = wMax

	return out, nil
}

// AutoRange derives sweep bounds from the corner frequencies of the given
// poles and zeros: one decade below the slowest and one above the fastest
// non-zero root magnitude. With no usable roots it falls back to the
// package defaults.
func AutoRange(poles, zeros []complex128) (wMin, wMax float64) {
	minMag := math.Inf(1)
	maxMag := 0.0

	consider := func(roots []complex128) {
		for _, r := range roots {
			m := cmplx.Abs(r)
			if m < 1e-9 {
				continue
			}

			minMag = math.Min(minMag, m)
			maxMag = math.Max(maxMag, m)
		}
	}

	consider(poles)
	consider(zeros)

	if maxMag == 0 {
		return DefaultWMin, DefaultWMax
	}

	wMin = math.Pow(10, math.Floor(math.Log10(minMag))-1)
	wMax = math.Pow(10, math.Ceil(math.Log10(maxMag))+1)

	return wMin, wMax
}
