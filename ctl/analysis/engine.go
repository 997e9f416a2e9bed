package analysis

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-control/ctl/freq"
	"github.com/cwbudde/algo-control/ctl/nyquist"
	"github.com/cwbudde/algo-control/ctl/poly"
	"github.com/cwbudde/algo-control/ctl/ss"
	"github.com/cwbudde/algo-control/ctl/symb"
)

// Defaults applied by Options.applyDefaults.
const (
	DefaultVarName    = "s"
	DefaultFreqPoints = 400
	DefaultStepTMax   = 10.0
	DefaultStepPoints = 501
)

// Options tunes one Engine. The zero value selects the package defaults
// with auto-ranged frequency bounds.
type Options struct {
	// VarName is the complex frequency variable of the loop expression.
	VarName string

	// WMin and WMax bound the frequency sweep in rad/s. Leaving both zero
	// derives the range from the pole and zero corner frequencies.
	WMin, WMax float64

	// FreqPoints is the sweep sample count.
	FreqPoints int

	// Step is the time grid shared by all step simulations.
	Step ss.StepConfig

	// Contour tunes the Nyquist D-contour construction.
	Contour nyquist.Options
}

func (o *Options) applyDefaults() {
	if o.VarName == "" {
		o.VarName = DefaultVarName
	}

	if o.FreqPoints == 0 {
		o.FreqPoints = DefaultFreqPoints
	}

	if o.Step == (ss.StepConfig{}) {
		o.Step = ss.StepConfig{TMax: DefaultStepTMax, Points: DefaultStepPoints}
	}
}

// Result is the complete analysis aggregate for one bound expression. It is
// immutable once returned; the Engine hands out the same pointer again when
// the input has not changed.
//
// Degradation is per-field: an unclassifiable expression leaves the root
// and simulation fields empty but still carries the frequency response,
// margins and Nyquist curve, which only need pointwise evaluation.
type Result struct {
	// InputHash identifies the bound expression this result was computed
	// from.
	InputHash uint64

	Kind      symb.StructureKind
	DelayTime float64
	Rational  symb.Rational

	// Poles and Zeros are the roots of the reduced rational part, sorted
	// canonically. Empty for the unknown kind.
	Poles poly.RootResult
	Zeros poly.RootResult

	// ClosedLoop holds the roots of D(s)+N(s), the unity-feedback
	// characteristic polynomial. Only computed for the pure rational kind;
	// a dead time makes the characteristic equation transcendental.
	ClosedLoop poly.RootResult

	// RHPPoles counts open-loop poles strictly in the right half plane.
	RHPPoles int

	Response freq.Response
	Margins  freq.Margins
	Nyquist  nyquist.Analysis

	// CriterionKnown reports whether the Nyquist criterion could be
	// applied: the open-loop pole count P must be trustworthy. When true,
	// ClosedLoopRHP = N + P and NyquistStable = (ClosedLoopRHP == 0).
	CriterionKnown bool
	ClosedLoopRHP  int
	NyquistStable  bool

	// Step holds the open-loop step traces (YT filled only when the
	// complementary sensitivity is realizable). Loop holds the closed-loop
	// trace with the dead time inside the loop; for the pure rational kind
	// the same information is in Step.YT. Nil when simulation is
	// unavailable for this input.
	Step *ss.StepTrace
	Loop *ss.LoopTrace
}

// Engine runs analyses and memoizes the symbolic expansion and the last
// result. Safe for concurrent use; calls are serialized.
type Engine struct {
	opts   Options
	worker *Worker

	mu        sync.Mutex
	exprHash  uint64
	expanded  symb.Expr
	inputHash uint64
	last      *Result
}

// New creates an Engine and starts its closed-loop pole worker.
func New(opts Options) *Engine {
	opts.applyDefaults()

	return &Engine{opts: opts, worker: NewWorker()}
}

// Close stops the background worker. The Engine must not be used after.
func (e *Engine) Close() {
	e.worker.Close()
}

// Analyze computes the full aggregate for the expression under the given
// parameter bindings. A failed symbolic expansion returns an error and
// leaves all cached state untouched, so the previous valid result remains
// available to the caller.
func (e *Engine) Analyze(expr symb.Expr, bindings map[string]float64) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	expanded, err := e.expandCached(expr)
	if err != nil {
		return nil, err
	}

	bound := symb.Bind(expanded, withoutVariable(bindings, e.opts.VarName))

	h := symb.Hash(bound)
	if e.last != nil && e.inputHash == h {
		return e.last, nil
	}

	res, err := e.compute(bound, h)
	if err != nil {
		return nil, err
	}

	e.inputHash = h
	e.last = res

	return res, nil
}

// Analyze is the one-shot form: a throwaway Engine analyzes a single input.
func Analyze(expr symb.Expr, bindings map[string]float64, opts Options) (*Result, error) {
	eng := New(opts)
	defer eng.Close()

	return eng.Analyze(expr, bindings)
}

// withoutVariable shields the frequency variable from parameter binding: a
// stray entry for it would collapse the whole expression to a constant.
func withoutVariable(bindings map[string]float64, varName string) map[string]float64 {
	if _, ok := bindings[varName]; !ok {
		return bindings
	}

	out := make(map[string]float64, len(bindings)-1)

	for k, v := range bindings {
		if k != varName {
			out[k] = v
		}
	}

	return out
}

func (e *Engine) expandCached(expr symb.Expr) (symb.Expr, error) {
	h := symb.Hash(expr)
	if e.expanded != nil && e.exprHash == h {
		return e.expanded, nil
	}

	expanded, err := symb.ExpandPadeDelay(expr)
	if err != nil {
		return nil, fmt.Errorf("analysis: expanding delay approximants: %w", err)
	}

	e.exprHash = h
	e.expanded = expanded

	return expanded, nil
}

func (e *Engine) compute(bound symb.Expr, inputHash uint64) (*Result, error) {
	res := &Result{InputHash: inputHash}

	cls := symb.Classify(bound, e.opts.VarName)
	res.Kind = cls.Kind
	res.DelayTime = cls.DelayTime
	res.Rational = cls.Reduced

	if cls.Kind != symb.StructureUnknown {
		if err := e.solveRoots(res, cls); err != nil {
			return nil, err
		}
	}

	if err := e.sweep(res, bound); err != nil {
		return nil, err
	}

	res.CriterionKnown = cls.Kind != symb.StructureUnknown && res.Poles.Converged
	if res.CriterionKnown {
		res.ClosedLoopRHP = res.Nyquist.N + res.RHPPoles
		res.NyquistStable = res.ClosedLoopRHP == 0
	}

	e.simulate(res, cls)

	return res, nil
}

func (e *Engine) solveRoots(res *Result, cls symb.Classification) error {
	poles, err := poly.FindRootsReal(cls.Reduced.Den)
	if err != nil {
		return fmt.Errorf("analysis: pole extraction: %w", err)
	}

	zeros, err := poly.FindRootsReal(cls.Reduced.Num)
	if err != nil {
		return fmt.Errorf("analysis: zero extraction: %w", err)
	}

	poles.Roots = poly.SortRoots(poles.Roots)
	zeros.Roots = poly.SortRoots(zeros.Roots)

	res.Poles = poles
	res.Zeros = zeros
	res.RHPPoles = poly.CountRHP(poles.Roots)

	if cls.Kind != symb.StructureRational {
		return nil
	}

	seq := e.worker.Submit(poly.Add(cls.Reduced.Den, cls.Reduced.Num))

	for upd := range e.worker.Updates() {
		if upd.Seq < seq {
			continue
		}

		if upd.Err != nil {
			return fmt.Errorf("analysis: closed-loop poles: %w", upd.Err)
		}

		res.ClosedLoop = upd.Roots

		break
	}

	return nil
}

func (e *Engine) sweep(res *Result, bound symb.Expr) error {
	wMin, wMax := e.opts.WMin, e.opts.WMax
	if wMin == 0 && wMax == 0 {
		wMin, wMax = freq.AutoRange(res.Poles.Roots, res.Zeros.Roots)
	}

	w, err := freq.LogSpace(wMin, wMax, e.opts.FreqPoints)
	if err != nil {
		return fmt.Errorf("analysis: frequency grid: %w", err)
	}

	eval := symb.Evaluator(bound, e.opts.VarName, nil)

	res.Response = freq.Sweep(freq.Evaluator(eval), w)
	res.Margins = freq.ComputeMargins(res.Response)

	nyq, err := nyquist.Analyze(nyquist.Evaluator(eval), w, poly.ImagAxisRoots(res.Poles.Roots), e.opts.Contour)
	if err != nil {
		return fmt.Errorf("analysis: nyquist contour: %w", err)
	}

	res.Nyquist = nyq

	return nil
}

// simulate fills the step traces where the classification permits. Improper
// rational parts have no state-space realization; the traces stay nil and
// everything else in the result remains valid.
func (e *Engine) simulate(res *Result, cls symb.Classification) {
	if cls.Kind == symb.StructureUnknown {
		return
	}

	sysL, err := ss.FromTransferFunction(cls.Reduced.Num, cls.Reduced.Den)
	if err != nil {
		return
	}

	switch cls.Kind {
	case symb.StructureRational:
		// T = N/(D+N) realizes directly unless leading terms cancel.
		sysT, err := ss.FromTransferFunction(cls.Reduced.Num, poly.Add(cls.Reduced.Den, cls.Reduced.Num))
		if err != nil {
			sysT = nil
		}

		trace, err := ss.SimulateStep(sysL, sysT, 0, 0, e.opts.Step)
		if err != nil {
			return
		}

		res.Step = &trace
	case symb.StructureRationalDelay:
		trace, err := ss.SimulateStep(sysL, nil, cls.DelayTime, 0, e.opts.Step)
		if err != nil {
			return
		}

		res.Step = &trace

		loop, err := ss.SimulateClosedLoopStep(sysL, cls.DelayTime, e.opts.Step)
		if err != nil {
			return
		}

		res.Loop = &loop
	}
}
