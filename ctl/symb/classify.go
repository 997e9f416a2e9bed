package symb

import "math"

// StructureKind labels what the classifier recognized.
type StructureKind int

// Structure kinds.
const (
	// StructureUnknown marks expressions that are neither rational nor a
	// rational function times a pure delay. This is a defined outcome,
	// not an error: consumers disable the affected analyses.
	StructureUnknown StructureKind = iota

	// StructureRational marks a pure rational function of s.
	StructureRational

	// StructureRationalDelay marks Rational(s) * exp(-T*s).
	StructureRationalDelay
)

func (k StructureKind) String() string {
	switch k {
	case StructureRational:
		return "rational"
	case StructureRationalDelay:
		return "rational_delay"
	default:
		return "unknown"
	}
}

// Classification is the result of structural analysis of an open-loop
// expression. RationalPart and Reduced are set for the rational and
// rational_delay kinds; DelayTime only for rational_delay.
type Classification struct {
	Kind         StructureKind
	RationalPart Expr
	Reduced      Rational
	DelayTime    float64
}

// Classify determines whether the expression is a pure rational function of
// varName, a rational function times a single dead-time factor exp(-T*s),
// or neither. The delay factor is only recognized among first-level
// multiplicative factors; a delay buried inside a nested transcendental
// combination yields StructureUnknown.
func Classify(e Expr, varName string) Classification {
	if r, err := Rationalize(e, varName); err == nil {
		return Classification{
			Kind:         StructureRational,
			RationalPart: e,
			Reduced:      r,
		}
	}

	factors := splitFactors(e)

	for i, f := range factors {
		delay, ok := delayTimeOf(f.expr, varName, f.inverted)
		if !ok {
			continue
		}

		rest := rebuildWithout(factors, i)

		r, err := Rationalize(rest, varName)
		if err != nil {
			continue
		}

		return Classification{
			Kind:         StructureRationalDelay,
			RationalPart: rest,
			Reduced:      r,
			DelayTime:    delay,
		}
	}

	return Classification{Kind: StructureUnknown}
}

// factor is one first-level multiplicative term. inverted marks factors
// sitting in denominator position.
type factor struct {
	expr     Expr
	inverted bool
}

// splitFactors flattens the top-level product/quotient structure. Only
// Binary mul/div nodes are descended; everything else is a single factor.
func splitFactors(e Expr) []factor {
	var walk func(e Expr, inverted bool, out []factor) []factor

	walk = func(e Expr, inverted bool, out []factor) []factor {
		if b, ok := e.(Binary); ok {
			switch b.Op {
			case OpMul:
				out = walk(b.X, inverted, out)
				return walk(b.Y, inverted, out)
			case OpDiv:
				out = walk(b.X, inverted, out)
				return walk(b.Y, !inverted, out)
			}
		}

		return append(out, factor{expr: e, inverted: inverted})
	}

	return walk(e, false, nil)
}

// rebuildWithout reassembles the product with factor i removed. An empty
// remainder becomes the constant 1.
func rebuildWithout(factors []factor, skip int) Expr {
	var out Expr

	for i, f := range factors {
		if i == skip {
			continue
		}

		term := f.expr

		if out == nil {
			if f.inverted {
				out = Div(Con(1), term)
			} else {
				out = term
			}

			continue
		}

		if f.inverted {
			out = Div(out, term)
		} else {
			out = Mul(out, term)
		}
	}

	if out == nil {
		return Con(1)
	}

	return out
}

// delayTimeOf recognizes exp(c*s) shapes and returns the positive dead
// time. A numerator factor needs c < 0 (exp(-T*s)); a denominator factor
// needs c > 0 (1/exp(T*s) is the same delay).
func delayTimeOf(e Expr, varName string, inverted bool) (float64, bool) {
	c, ok := e.(Call)
	if !ok || c.Name != "exp" || len(c.Args) != 1 {
		return 0, false
	}

	coeff, ok := linearCoefficient(c.Args[0], varName)
	if !ok {
		return 0, false
	}

	if inverted {
		coeff = -coeff
	}

	if !(coeff < 0) || math.IsInf(coeff, 0) {
		return 0, false
	}

	return -coeff, true
}

// linearCoefficient matches expressions of the form c*s (or s*c, -c*s,
// -(c*s), plain s) and returns c. Only first-level products are accepted.
func linearCoefficient(e Expr, varName string) (float64, bool) {
	switch n := e.(type) {
	case Symbol:
		if n.Name == varName {
			return 1, true
		}

	case Unary:
		c, ok := linearCoefficient(n.X, varName)
		if !ok {
			return 0, false
		}

		return -c, true

	case Binary:
		if n.Op != OpMul {
			return 0, false
		}

		if k, ok := constantValue(n.X); ok {
			c, ok := linearCoefficient(n.Y, varName)
			if !ok {
				return 0, false
			}

			return k * c, true
		}

		if k, ok := constantValue(n.Y); ok {
			c, ok := linearCoefficient(n.X, varName)
			if !ok {
				return 0, false
			}

			return k * c, true
		}
	}

	return 0, false
}

// constantValue folds constants and unary negations of constants.
func constantValue(e Expr) (float64, bool) {
	switch n := e.(type) {
	case Constant:
		return n.Value, true

	case Unary:
		v, ok := constantValue(n.X)
		if !ok {
			return 0, false
		}

		return -v, true
	}

	return 0, false
}
