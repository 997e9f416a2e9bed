package nyquist

import (
	"math"
	"math/cmplx"
)

// Evaluator computes the loop response L(s) at one point of the s-plane.
type Evaluator func(s complex128) (complex128, error)

// EvaluatedPoint pairs a contour point with the loop response there.
type EvaluatedPoint struct {
	Point
	L complex128
}

// Analysis is the evaluated contour together with the winding number of
// L(s) around -1. Points holds only the samples where evaluation succeeded
// with a finite value; failed samples are dropped, not substituted.
type Analysis struct {
	Points        []EvaluatedPoint
	N             int
	PoleFreqs     []float64
	HasOriginPole bool
	Epsilon       float64
}

// Analyze traces the D-contour for the grid w and evaluates eval once at
// every point. The returned curve and the winding number come from the same
// evaluation pass.
func Analyze(eval Evaluator, w []float64, imagAxisPoles []complex128, opts Options) (Analysis, error) {
	contour, err := Trace(w, imagAxisPoles, opts)
	if err != nil {
		return Analysis{}, err
	}

	points := make([]EvaluatedPoint, 0, len(contour.Points))
	values := make([]complex128, 0, len(contour.Points))

	for _, p := range contour.Points {
		v, err := eval(p.S)
		if err != nil || cmplx.IsNaN(v) || cmplx.IsInf(v) {
			continue
		}

		points = append(points, EvaluatedPoint{Point: p, L: v})
		values = append(values, v)
	}

	return Analysis{
		Points:        points,
		N:             WindingNumber(values),
		PoleFreqs:     contour.PoleFreqs,
		HasOriginPole: contour.HasOriginPole,
		Epsilon:       contour.Epsilon,
	}, nil
}

// WindingNumber counts the encirclements of -1 by the sampled curve,
// clockwise positive. The angle of L+1 is accumulated between consecutive
// samples with each difference normalized into (-pi, pi], so the count is
// exact as long as the curve is sampled densely enough that no single step
// swings the angle by more than half a turn.
func WindingNumber(values []complex128) int {
	if len(values) < 2 {
		return 0
	}

	total := 0.0
	prev := cmplx.Phase(values[0] + 1)

	for _, v := range values[1:] {
		cur := cmplx.Phase(v + 1)

		delta := cur - prev
		for delta <= -math.Pi {
			delta += 2 * math.Pi
		}

		for delta > math.Pi {
			delta -= 2 * math.Pi
		}

		total += delta
		prev = cur
	}

	return int(math.Round(-total / (2 * math.Pi)))
}
