package freq

import "math"

// GainMargin is the gain headroom at a phase-crossover frequency: the
// number of decibels the loop gain could rise before |L| reaches unity at
// -180 degrees.
type GainMargin struct {
	Frequency float64 // rad/s
	MarginDB  float64
}

// PhaseMargin is the phase headroom at a gain-crossover frequency: the
// degrees of additional lag tolerable at |L| = 0 dB.
type PhaseMargin struct {
	Frequency float64 // rad/s
	MarginDeg float64
}

// Margins aggregates every crossover found in a sweep. Multiple crossings
// of either kind are all reported; conditional stability shows up as a
// mixed-sign margin list.
type Margins struct {
	Gain  []GainMargin
	Phase []PhaseMargin
}

// Stable reports whether every computed margin is positive. An empty
// margin list does not count against stability; the Nyquist winding number
// is the authoritative verdict in that case.
func (m Margins) Stable() bool {
	for _, g := range m.Gain {
		if g.MarginDB <= 0 {
			return false
		}
	}

	for _, p := range m.Phase {
		if p.MarginDeg <= 0 {
			return false
		}
	}

	return true
}

// ComputeMargins locates all gain and phase crossovers in the response and
// reads the opposite column at each crossing via the same linear
// interpolation used to find it.
func ComputeMargins(resp Response) Margins {
	var out Margins

	for i := 1; i < len(resp.W); i++ {
		if resp.Failed[i-1] || resp.Failed[i] {
			continue
		}

		out.appendGainCrossover(resp, i-1, i)
		out.appendPhaseCrossovers(resp, i-1, i)
	}

	return out
}

// appendGainCrossover detects a 0 dB crossing between samples a and b and
// records the phase margin at the interpolated crossover frequency.
func (m *Margins) appendGainCrossover(resp Response, a, b int) {
	g1, g2 := resp.GainDB[a], resp.GainDB[b]

	crosses := (g1 >= 0 && g2 < 0) || (g1 <= 0 && g2 > 0)
	if !crosses || g1 == g2 {
		return
	}

	// Interpolation ratio on the dB values, not on linear magnitude.
	ratio := g1 / (g1 - g2)
	wc := resp.W[a] + ratio*(resp.W[b]-resp.W[a])
	phase := resp.PhaseDeg[a] + ratio*(resp.PhaseDeg[b]-resp.PhaseDeg[a])

	// Select the -180-congruent reference branch nearest the crossing.
	branch := math.Round((phase + 180) / 360)

	m.Phase = append(m.Phase, PhaseMargin{
		Frequency: wc,
		MarginDeg: 180 + phase - branch*360,
	})
}

// appendPhaseCrossovers detects crossings of any -180+360k line between
// samples a and b and records the gain margin at each.
func (m *Margins) appendPhaseCrossovers(resp Response, a, b int) {
	p1, p2 := resp.PhaseDeg[a], resp.PhaseDeg[b]

	k1 := math.Floor((p1 + 180) / 360)
	k2 := math.Floor((p2 + 180) / 360)

	if k1 == k2 || p1 == p2 {
		return
	}

	// The boundary actually crossed depends on the direction of travel.
	k := math.Max(k1, k2)
	target := -180 + 360*k

	ratio := (target - p1) / (p2 - p1)
	if ratio < 0 || ratio > 1 {
		return
	}

	wc := resp.W[a] + ratio*(resp.W[b]-resp.W[a])
	gain := resp.GainDB[a] + ratio*(resp.GainDB[b]-resp.GainDB[a])

	m.Gain = append(m.Gain, GainMargin{
		Frequency: wc,
		MarginDB:  -gain,
	})
}
