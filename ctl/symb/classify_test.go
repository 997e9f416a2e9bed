package symb

import (
	"math"
	"testing"
)

func TestClassify_PureRational(t *testing.T) {
	e := Div(Con(10), Mul(Sym("s"), Add(Sym("s"), Con(1))))

	c := Classify(e, "s")
	if c.Kind != StructureRational {
		t.Fatalf("expected rational, got %s", c.Kind)
	}

	if c.DelayTime != 0 {
		t.Errorf("unexpected delay time %v", c.DelayTime)
	}
}

func TestClassify_RationalTimesDelay(t *testing.T) {
	// 1/(s+1) * exp(-0.5*s)
	e := Mul(
		Div(Con(1), Add(Sym("s"), Con(1))),
		Fn("exp", Mul(Con(-0.5), Sym("s"))),
	)

	c := Classify(e, "s")
	if c.Kind != StructureRationalDelay {
		t.Fatalf("expected rational_delay, got %s", c.Kind)
	}

	if math.Abs(c.DelayTime-0.5) > 1e-15 {
		t.Errorf("delay time: got %v, want 0.5", c.DelayTime)
	}

	// The remainder must reduce to 1/(s+1).
	if len(c.Reduced.Den) != 2 {
		t.Errorf("rational part denominator: got %v", c.Reduced.Den)
	}
}

func TestClassify_DelayWrittenAsSTimesK(t *testing.T) {
	// exp(s * (-2)) / (s + 3)
	e := Div(
		Fn("exp", Mul(Sym("s"), Neg(Con(2)))),
		Add(Sym("s"), Con(3)),
	)

	c := Classify(e, "s")
	if c.Kind != StructureRationalDelay {
		t.Fatalf("expected rational_delay, got %s", c.Kind)
	}

	if math.Abs(c.DelayTime-2) > 1e-15 {
		t.Errorf("delay time: got %v, want 2", c.DelayTime)
	}
}

func TestClassify_UnaryMinusShape(t *testing.T) {
	// exp(-(0.3*s)) * 2/(s+1)
	e := Mul(
		Fn("exp", Neg(Mul(Con(0.3), Sym("s")))),
		Div(Con(2), Add(Sym("s"), Con(1))),
	)

	c := Classify(e, "s")
	if c.Kind != StructureRationalDelay {
		t.Fatalf("expected rational_delay, got %s", c.Kind)
	}

	if math.Abs(c.DelayTime-0.3) > 1e-15 {
		t.Errorf("delay time: got %v, want 0.3", c.DelayTime)
	}
}

func TestClassify_DelayInDenominator(t *testing.T) {
	// 1 / ((s+1) * exp(2*s)) carries the same dead time as exp(-2s)/(s+1).
	e := Div(
		Con(1),
		Mul(Add(Sym("s"), Con(1)), Fn("exp", Mul(Con(2), Sym("s")))),
	)

	c := Classify(e, "s")
	if c.Kind != StructureRationalDelay {
		t.Fatalf("expected rational_delay, got %s", c.Kind)
	}

	if math.Abs(c.DelayTime-2) > 1e-15 {
		t.Errorf("delay time: got %v, want 2", c.DelayTime)
	}
}

func TestClassify_PositiveExponentIsNotDelay(t *testing.T) {
	// exp(+s)/(s+1) is a predictor, not a delay.
	e := Div(Fn("exp", Sym("s")), Add(Sym("s"), Con(1)))

	c := Classify(e, "s")
	if c.Kind != StructureUnknown {
		t.Errorf("expected unknown, got %s", c.Kind)
	}
}

func TestClassify_NestedTranscendentalUnknown(t *testing.T) {
	// exp inside an addition is not a first-level factor.
	e := Add(Fn("exp", Neg(Sym("s"))), Div(Con(1), Sym("s")))

	c := Classify(e, "s")
	if c.Kind != StructureUnknown {
		t.Errorf("expected unknown, got %s", c.Kind)
	}
}

func TestClassify_TwoDelayFactorsUnknown(t *testing.T) {
	// Removing one exp factor still leaves a transcendental remainder.
	e := Mul(
		Fn("exp", Neg(Sym("s"))),
		Mul(Fn("exp", Neg(Sym("s"))), Div(Con(1), Sym("s"))),
	)

	c := Classify(e, "s")
	if c.Kind != StructureUnknown {
		t.Errorf("expected unknown, got %s", c.Kind)
	}
}

func TestSplitFactors_QuotientPositions(t *testing.T) {
	// a * b / c: c is in denominator position.
	e := Div(Mul(Sym("a"), Sym("b")), Sym("c"))

	factors := splitFactors(e)
	if len(factors) != 3 {
		t.Fatalf("expected 3 factors, got %d", len(factors))
	}

	if factors[0].inverted || factors[1].inverted || !factors[2].inverted {
		t.Errorf("inversion flags wrong: %+v", factors)
	}
}
