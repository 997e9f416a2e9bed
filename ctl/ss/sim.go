package ss

import "errors"

// Simulation parameter errors.
var (
	ErrBadTimeSpan = errors.New("ss: simulation time span must be positive")
	ErrBadPoints   = errors.New("ss: simulation needs at least two points")
	ErrNilSystem   = errors.New("ss: system must not be nil")
)

// StepConfig describes the fixed time grid of a simulation run. The step
// size is TMax/(Points-1).
type StepConfig struct {
	TMax   float64 // end of the simulated interval in seconds
	Points int     // number of output samples, including t=0
}

// Validate checks the grid parameters.
func (c StepConfig) Validate() error {
	if c.TMax <= 0 {
		return ErrBadTimeSpan
	}

	if c.Points < 2 {
		return ErrBadPoints
	}

	return nil
}

func (c StepConfig) dt() float64 {
	return c.TMax / float64(c.Points-1)
}

// StepTrace is the output of an open-loop step simulation. YT is nil when
// no second system was supplied.
type StepTrace struct {
	Time []float64
	YL   []float64
	YT   []float64
}

// LoopTrace is the output of a closed-loop step simulation: the loop
// output y and the error signal e = r - y that feeds the dead time.
type LoopTrace struct {
	Time []float64
	Y    []float64
	E    []float64
}

// SimulateStep integrates up to two independent systems under a delayed
// unit step u(t) = 1 for t >= delay, each with its own pure input delay.
// sysT may be nil. Both systems share the time grid.
func SimulateStep(sysL, sysT *Model, delayL, delayT float64, cfg StepConfig) (StepTrace, error) {
	if err := cfg.Validate(); err != nil {
		return StepTrace{}, err
	}

	if sysL == nil {
		return StepTrace{}, ErrNilSystem
	}

	trace := StepTrace{
		Time: make([]float64, cfg.Points),
		YL:   make([]float64, cfg.Points),
	}

	dt := cfg.dt()
	for i := range trace.Time {
		trace.Time[i] = float64(i) * dt
	}

	simulateOpenLoop(sysL, delayL, dt, trace.YL)

	if sysT != nil {
		trace.YT = make([]float64, cfg.Points)
		simulateOpenLoop(sysT, delayT, dt, trace.YT)
	}

	return trace, nil
}

func simulateOpenLoop(m *Model, delay, dt float64, out []float64) {
	u := func(t float64) float64 {
		if t >= delay {
			return 1
		}

		return 0
	}

	x := make([]float64, m.N)
	scratch := newRKScratch(m.N)

	for i := range out {
		t := float64(i) * dt
		out[i] = m.Output(x, u(t))

		if i+1 < len(out) && m.N > 0 {
			scratch.step(m, x, t, dt, u)
		}
	}
}

// SimulateClosedLoopStep simulates T(s) = R*e^(-s*delay) / (1 + R*e^(-s*delay))
// under a unit step reference, with the dead time inside the loop. The
// plant input is the delayed error u(t) = e(t-delay), obtained by linear
// interpolation over the error history computed so far: queries before t=0
// read 0 and queries past the current horizon hold the last known sample
// (RK4 substeps look up to one step ahead of the integration time).
// History lookups and substep evaluations share the same dt grid; mixing
// grids here introduces a delay-dependent bias.
func SimulateClosedLoopStep(sysR *Model, delay float64, cfg StepConfig) (LoopTrace, error) {
	if err := cfg.Validate(); err != nil {
		return LoopTrace{}, err
	}

	if sysR == nil {
		return LoopTrace{}, ErrNilSystem
	}

	trace := LoopTrace{
		Time: make([]float64, cfg.Points),
		Y:    make([]float64, cfg.Points),
		E:    make([]float64, cfg.Points),
	}

	dt := cfg.dt()
	hist := make([]float64, 0, cfg.Points)

	u := func(t float64) float64 {
		return sampleHistory(hist, (t-delay)/dt)
	}

	x := make([]float64, sysR.N)
	scratch := newRKScratch(sysR.N)

	for i := range trace.Time {
		t := float64(i) * dt
		trace.Time[i] = t

		y := sysR.Output(x, u(t))
		e := 1 - y

		trace.Y[i] = y
		trace.E[i] = e
		hist = append(hist, e)

		if i+1 < cfg.Points && sysR.N > 0 {
			scratch.step(sysR, x, t, dt, u)
		}
	}

	return trace, nil
}

// sampleHistory linearly interpolates the history at a fractional grid
// index. Indices before the origin read 0; indices at or past the last
// sample clamp to it.
func sampleHistory(hist []float64, idx float64) float64 {
	if idx < 0 || len(hist) == 0 {
		return 0
	}

	i := int(idx)
	if i >= len(hist)-1 {
		return hist[len(hist)-1]
	}

	frac := idx - float64(i)

	return hist[i] + frac*(hist[i+1]-hist[i])
}

// rkScratch holds the per-step work buffers so the integration loop does
// not allocate.
type rkScratch struct {
	k1, k2, k3, k4, tmp []float64
}

func newRKScratch(n int) *rkScratch {
	return &rkScratch{
		k1:  make([]float64, n),
		k2:  make([]float64, n),
		k3:  make([]float64, n),
		k4:  make([]float64, n),
		tmp: make([]float64, n),
	}
}

// step advances x from t to t+dt with the classical fourth-order
// Runge-Kutta scheme.
func (r *rkScratch) step(m *Model, x []float64, t, dt float64, u func(float64) float64) {
	half := dt / 2

	m.derivative(r.k1, x, u(t))

	for i := range x {
		r.tmp[i] = x[i] + half*r.k1[i]
	}

	m.derivative(r.k2, r.tmp, u(t+half))

	for i := range x {
		r.tmp[i] = x[i] + half*r.k2[i]
	}

	m.derivative(r.k3, r.tmp, u(t+half))

	for i := range x {
		r.tmp[i] = x[i] + dt*r.k3[i]
	}

	m.derivative(r.k4, r.tmp, u(t+dt))

	for i := range x {
		x[i] += dt / 6 * (r.k1[i] + 2*r.k2[i] + 2*r.k3[i] + r.k4[i])
	}
}
