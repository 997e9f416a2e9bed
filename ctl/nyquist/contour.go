package nyquist

import (
	"errors"
	"math"
	"math/cmplx"
	"sort"

	"github.com/cwbudde/algo-control/ctl/poly"
)

// Errors returned by contour construction.
var (
	ErrEmptyGrid = errors.New("nyquist: frequency grid needs at least two points")
	ErrBadOption = errors.New("nyquist: contour option out of range")
)

// Defaults for contour construction.
const (
	// DefaultEpsilon is the indentation radius requested when the caller
	// leaves it unset. The effective radius may be smaller; see Contour.
	DefaultEpsilon = 0.01

	// DefaultIndentPoints is the sample count per semicircle.
	DefaultIndentPoints = 50

	// DefaultDedupTol merges coincident endpoints where axis segments meet
	// indentation arcs.
	DefaultDedupTol = 1e-9
)

// gapShrink scales the smallest pole-to-pole or pole-to-bound gap when the
// requested epsilon would make adjacent indentations overlap. 0.4 keeps the
// radius strictly below half the gap.
const gapShrink = 0.4

// Options tunes contour construction. The zero value selects the package
// defaults.
type Options struct {
	Epsilon      float64
	IndentPoints int
	DedupTol     float64
}

func (o *Options) applyDefaults() error {
	if o.Epsilon == 0 {
		o.Epsilon = DefaultEpsilon
	}

	if o.IndentPoints == 0 {
		o.IndentPoints = DefaultIndentPoints
	}

	if o.DedupTol == 0 {
		o.DedupTol = DefaultDedupTol
	}

	if o.Epsilon < 0 || o.IndentPoints < 2 || o.DedupTol < 0 {
		return ErrBadOption
	}

	return nil
}

// Indentation marks a contour point as part of a semicircular detour around
// an imaginary-axis pole. PoleIm is the pole's imaginary part and Theta the
// arc parameter in [-pi/2, pi/2].
type Indentation struct {
	PoleIm float64
	Theta  float64
}

// Point is one sample of the D-contour. Indent is nil on the axis segments.
type Point struct {
	S      complex128
	Indent *Indentation
}

// Contour is the fully traced evaluation path plus the pole bookkeeping the
// winding-number analysis needs.
type Contour struct {
	Points        []Point
	PoleFreqs     []float64 // sorted unique |Im| of non-origin on-axis poles
	HasOriginPole bool
	Epsilon       float64 // effective indentation radius after shrinking
}

// Trace constructs the D-contour for the ascending frequency grid w,
// detouring around the given imaginary-axis poles. Poles are classified
// against the axis with poly.ImagAxisTol; off-axis entries are ignored.
//
// When two on-axis poles sit closer together than the requested epsilon
// allows, or a pole sits near the grid bounds, the radius is shrunk to
// gapShrink times the smallest gap so indentations never overlap each other
// or leave the swept band. Poles at or outside the grid bounds get no
// indentation but still appear in PoleFreqs.
func Trace(w []float64, imagAxisPoles []complex128, opts Options) (Contour, error) {
	if err := opts.applyDefaults(); err != nil {
		return Contour{}, err
	}

	if len(w) < 2 {
		return Contour{}, ErrEmptyGrid
	}

	freqs, hasOrigin := classifyAxisPoles(imagAxisPoles)

	wMin := w[0]
	wMax := w[len(w)-1]

	indent := indentableFreqs(freqs, wMin, wMax)
	eps := shrinkEpsilon(opts.Epsilon, indent, wMin, wMax)

	positive := positiveSweep(w, indent, eps, opts.IndentPoints)

	// The negative axis is the conjugate-reversed mirror of the positive
	// sweep. Mirroring an indentation arc flips both the pole frequency and
	// the arc parameter.
	points := make([]Point, 0, 2*len(positive)+opts.IndentPoints)
	for i := len(positive) - 1; i >= 0; i-- {
		p := positive[i]

		mirrored := Point{S: cmplx.Conj(p.S)}
		if p.Indent != nil {
			mirrored.Indent = &Indentation{
				PoleIm: -p.Indent.PoleIm,
				Theta:  -p.Indent.Theta,
			}
		}

		points = append(points, mirrored)
	}

	if hasOrigin {
		// The origin detour uses radius wMin so its endpoints coincide with
		// the ends of the two axis segments.
		points = append(points, arc(0, wMin, opts.IndentPoints)...)
	}

	points = append(points, positive...)

	return Contour{
		Points:        dedup(points, opts.DedupTol),
		PoleFreqs:     freqs,
		HasOriginPole: hasOrigin,
		Epsilon:       eps,
	}, nil
}

// classifyAxisPoles reduces the on-axis poles to their sorted unique
// positive frequencies and an origin flag. Frequencies within ImagAxisTol
// of each other collapse to one.
func classifyAxisPoles(poles []complex128) (freqs []float64, hasOrigin bool) {
	var mags []float64

	for _, p := range poles {
		if !poly.OnImagAxis(p) {
			continue
		}

		m := math.Abs(imag(p))
		if m <= poly.ImagAxisTol {
			hasOrigin = true

			continue
		}

		mags = append(mags, m)
	}

	sort.Float64s(mags)

	for _, m := range mags {
		if len(freqs) == 0 || m-freqs[len(freqs)-1] > poly.ImagAxisTol {
			freqs = append(freqs, m)
		}
	}

	return freqs, hasOrigin
}

// indentableFreqs keeps the pole frequencies strictly inside the swept band.
func indentableFreqs(freqs []float64, wMin, wMax float64) []float64 {
	var out []float64

	for _, f := range freqs {
		if f > wMin && f < wMax {
			out = append(out, f)
		}
	}

	return out
}

// shrinkEpsilon caps the indentation radius by the smallest gap between
// adjacent indentable poles and between each pole and the grid bounds.
func shrinkEpsilon(eps float64, freqs []float64, wMin, wMax float64) float64 {
	minGap := math.Inf(1)

	for i, f := range freqs {
		minGap = math.Min(minGap, f-wMin)
		minGap = math.Min(minGap, wMax-f)

		if i > 0 {
			minGap = math.Min(minGap, freqs[i]-freqs[i-1])
		}
	}

	if limit := gapShrink * minGap; limit < eps {
		return limit
	}

	return eps
}

// positiveSweep walks the grid from wMin to wMax, splicing an indentation
// arc in place of every band [f-eps, f+eps] around an indentable pole.
func positiveSweep(w []float64, freqs []float64, eps float64, nIndent int) []Point {
	points := make([]Point, 0, len(w)+len(freqs)*nIndent)
	next := 0

	for _, f := range freqs {
		for next < len(w) && w[next] < f-eps {
			points = append(points, Point{S: complex(0, w[next])})
			next++
		}

		points = append(points, arc(f, eps, nIndent)...)

		for next < len(w) && w[next] <= f+eps {
			next++
		}
	}

	for next < len(w) {
		points = append(points, Point{S: complex(0, w[next])})
		next++
	}

	return points
}

// arc samples the right-half-plane semicircle of the given radius around
// j*poleIm, from theta = -pi/2 (below the pole) to +pi/2 (above it).
func arc(poleIm, radius float64, n int) []Point {
	points := make([]Point, n)

	for k := range n {
		theta := -math.Pi/2 + math.Pi*float64(k)/float64(n-1)

		points[k] = Point{
			S:      complex(0, poleIm) + cmplx.Rect(radius, theta),
			Indent: &Indentation{PoleIm: poleIm, Theta: theta},
		}
	}

	return points
}

// dedup drops a point when it coincides with its predecessor, which happens
// where axis segments butt against arc endpoints. The earlier point wins so
// axis samples keep their nil Indent at the seam.
func dedup(points []Point, tol float64) []Point {
	if len(points) == 0 {
		return points
	}

	out := points[:1]

	for _, p := range points[1:] {
		if cmplx.Abs(p.S-out[len(out)-1].S) <= tol {
			continue
		}

		out = append(out, p)
	}

	return out
}
