package ss

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-control/internal/testutil"
)

func TestSimulateStep_FirstOrderBoundaries(t *testing.T) {
	// G(s) = 1/(s+1): y(0) = 0, y -> 1 monotonically, y(1) ~ 1-1/e.
	m, err := FromTransferFunction([]float64{1}, []float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}

	cfg := StepConfig{TMax: 8, Points: 801}

	trace, err := SimulateStep(m, nil, 0, 0, cfg)
	if err != nil {
		t.Fatal(err)
	}

	if trace.YL[0] != 0 {
		t.Errorf("y(0) = %v, want 0", trace.YL[0])
	}

	for i := 1; i < len(trace.YL); i++ {
		if trace.YL[i] < trace.YL[i-1]-1e-12 {
			t.Fatalf("response not monotone at t=%v", trace.Time[i])
		}
	}

	final := trace.YL[len(trace.YL)-1]
	if math.Abs(final-1) > 1e-3 {
		t.Errorf("y(8) = %v, want ~1", final)
	}

	// One time constant: dt = 0.01, so t=1 is sample 100.
	want := 1 - math.Exp(-1)
	if math.Abs(trace.YL[100]-want)/want > 0.01 {
		t.Errorf("y(1) = %v, want within 1%% of %v", trace.YL[100], want)
	}
}

func TestSimulateStep_InputDelayShiftsResponse(t *testing.T) {
	m, err := FromTransferFunction([]float64{1}, []float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}

	cfg := StepConfig{TMax: 4, Points: 401}

	trace, err := SimulateStep(m, nil, 1.0, 0, cfg)
	if err != nil {
		t.Fatal(err)
	}

	// Nothing happens before the input turns on.
	for i, y := range trace.YL {
		if trace.Time[i] < 1.0 && math.Abs(y) > 1e-12 {
			t.Fatalf("output %v before the delayed step at t=%v", y, trace.Time[i])
		}
	}

	// After the delay the response is the shifted first-order step.
	idx := 300 // t = 3.0, i.e. 2 time constants after the step
	want := 1 - math.Exp(-2)

	if math.Abs(trace.YL[idx]-want) > 0.01 {
		t.Errorf("y(3) = %v, want ~%v", trace.YL[idx], want)
	}
}

func TestSimulateStep_TwoSystems(t *testing.T) {
	l, err := FromTransferFunction([]float64{1}, []float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}

	tt, err := FromTransferFunction([]float64{1}, []float64{2, 1})
	if err != nil {
		t.Fatal(err)
	}

	trace, err := SimulateStep(l, tt, 0, 0, StepConfig{TMax: 5, Points: 501})
	if err != nil {
		t.Fatal(err)
	}

	if trace.YT == nil {
		t.Fatal("second trace missing")
	}

	// T = 1/(s+2) settles to 1/2.
	final := trace.YT[len(trace.YT)-1]
	if math.Abs(final-0.5) > 1e-3 {
		t.Errorf("yT(5) = %v, want ~0.5", final)
	}
}

func TestSimulateStep_PureGain(t *testing.T) {
	trace, err := SimulateStep(Gain(3), nil, 0.5, 0, StepConfig{TMax: 2, Points: 201})
	if err != nil {
		t.Fatal(err)
	}

	for i, y := range trace.YL {
		want := 0.0
		if trace.Time[i] >= 0.5 {
			want = 3
		}

		if y != want {
			t.Fatalf("gain model at t=%v: got %v, want %v", trace.Time[i], y, want)
		}
	}
}

func TestSimulateClosedLoopStep_ZeroDelayMatchesDirectPath(t *testing.T) {
	// R = 1/(s+1) under unity feedback gives T = 1/(s+2). With zero dead
	// time the delayed-feedback integrator must reproduce the direct
	// tf2ss simulation of T within integration tolerance.
	r, err := FromTransferFunction([]float64{1}, []float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}

	cfg := StepConfig{TMax: 5, Points: 2001}

	loop, err := SimulateClosedLoopStep(r, 0, cfg)
	if err != nil {
		t.Fatal(err)
	}

	direct, err := FromTransferFunction([]float64{1}, []float64{2, 1})
	if err != nil {
		t.Fatal(err)
	}

	ref, err := SimulateStep(direct, nil, 0, 0, cfg)
	if err != nil {
		t.Fatal(err)
	}

	testutil.RequireFinite(t, loop.Y)
	testutil.RequireSliceNearlyEqual(t, loop.Y, ref.YL, 0.01)
}

func TestSimulateClosedLoopStep_ErrorSignalConsistent(t *testing.T) {
	r, err := FromTransferFunction([]float64{1}, []float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}

	trace, err := SimulateClosedLoopStep(r, 0.2, StepConfig{TMax: 6, Points: 1201})
	if err != nil {
		t.Fatal(err)
	}

	for i := range trace.Y {
		if math.Abs(trace.E[i]-(1-trace.Y[i])) > 1e-12 {
			t.Fatalf("e != 1-y at t=%v", trace.Time[i])
		}
	}

	// A first-order plant with a small loop delay still settles near the
	// delay-free closed-loop gain 1/2.
	final := trace.Y[len(trace.Y)-1]
	if math.Abs(final-0.5) > 0.02 {
		t.Errorf("y(6) = %v, want ~0.5", final)
	}
}

func TestSimulateClosedLoopStep_DelayPostponesResponse(t *testing.T) {
	r, err := FromTransferFunction([]float64{1}, []float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}

	trace, err := SimulateClosedLoopStep(r, 1.0, StepConfig{TMax: 4, Points: 801})
	if err != nil {
		t.Fatal(err)
	}

	// The plant sees no input until the delayed error arrives.
	for i, y := range trace.Y {
		if trace.Time[i] < 1.0 && math.Abs(y) > 1e-12 {
			t.Fatalf("output %v before the loop delay elapsed at t=%v", y, trace.Time[i])
		}
	}
}

func TestSimulateClosedLoopStep_PureGainLoop(t *testing.T) {
	// R = K (static): the loop closes through the one-sample history
	// clamp, so e_{i+1} = 1 - K*e_i, which settles for K < 1 at
	// y = K/(1+K).
	trace, err := SimulateClosedLoopStep(Gain(0.5), 0, StepConfig{TMax: 1, Points: 101})
	if err != nil {
		t.Fatal(err)
	}

	final := trace.Y[len(trace.Y)-1]
	if math.Abs(final-1.0/3.0) > 0.01 {
		t.Errorf("steady state: got %v, want ~1/3", final)
	}
}

func TestStepConfigValidate(t *testing.T) {
	if err := (StepConfig{TMax: 0, Points: 10}).Validate(); err == nil {
		t.Error("expected error for zero time span")
	}

	if err := (StepConfig{TMax: 1, Points: 1}).Validate(); err == nil {
		t.Error("expected error for single point")
	}

	if err := (StepConfig{TMax: 1, Points: 2}).Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSampleHistory(t *testing.T) {
	hist := []float64{0, 1, 2}

	tests := []struct {
		idx  float64
		want float64
	}{
		{-0.5, 0}, // before the origin
		{0, 0},
		{0.5, 0.5}, // interpolated
		{1.25, 1.25},
		{2, 2},
		{5, 2}, // clamped past the horizon
	}
	for _, tt := range tests {
		if got := sampleHistory(hist, tt.idx); math.Abs(got-tt.want) > 1e-15 {
			t.Errorf("sampleHistory(%v) = %v, want %v", tt.idx, got, tt.want)
		}
	}

	if got := sampleHistory(nil, 1); got != 0 {
		t.Errorf("empty history: got %v, want 0", got)
	}
}
