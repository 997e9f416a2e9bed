package symb

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math/cmplx"
	"strconv"
	"strings"
)

// Errors returned by expression evaluation and transformation.
var (
	ErrUnboundSymbol   = errors.New("symb: unbound symbol")
	ErrUnknownFunction = errors.New("symb: unknown function")
	ErrArgumentCount   = errors.New("symb: wrong argument count")
	ErrDivisionByZero  = errors.New("symb: division by zero")
)

// Expr is a node of the closed expression variant set. The concrete types
// are Constant, Symbol, Unary, Binary and Call; traversals switch
// exhaustively over these five.
type Expr interface {
	// String renders a canonical, fully parenthesized form. Structurally
	// equal trees render identically, which is what Hash relies on.
	String() string

	isExpr()
}

// UnaryOp enumerates unary operators.
type UnaryOp int

// Unary operators.
const (
	OpNeg UnaryOp = iota
)

// BinaryOp enumerates binary operators.
type BinaryOp int

// Binary operators.
const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
)

// Constant is a real numeric literal.
type Constant struct {
	Value float64
}

// Symbol is a named variable.
type Symbol struct {
	Name string
}

// Unary applies a unary operator to one operand.
type Unary struct {
	Op UnaryOp
	X  Expr
}

// Binary applies a binary operator to two operands.
type Binary struct {
	Op   BinaryOp
	X, Y Expr
}

// Call applies a named function to its arguments.
type Call struct {
	Name string
	Args []Expr
}

func (Constant) isExpr() {}
func (Symbol) isExpr()   {}
func (Unary) isExpr()    {}
func (Binary) isExpr()   {}
func (Call) isExpr()     {}

// Con builds a Constant.
func Con(v float64) Constant { return Constant{Value: v} }

// Sym builds a Symbol.
func Sym(name string) Symbol { return Symbol{Name: name} }

// Neg builds -x.
func Neg(x Expr) Unary { return Unary{Op: OpNeg, X: x} }

// Add builds x + y.
func Add(x, y Expr) Binary { return Binary{Op: OpAdd, X: x, Y: y} }

// Sub builds x - y.
func Sub(x, y Expr) Binary { return Binary{Op: OpSub, X: x, Y: y} }

// Mul builds x * y.
func Mul(x, y Expr) Binary { return Binary{Op: OpMul, X: x, Y: y} }

// Div builds x / y.
func Div(x, y Expr) Binary { return Binary{Op: OpDiv, X: x, Y: y} }

// Pow builds x ^ y.
func Pow(x, y Expr) Binary { return Binary{Op: OpPow, X: x, Y: y} }

// Fn builds a function call.
func Fn(name string, args ...Expr) Call { return Call{Name: name, Args: args} }

func (c Constant) String() string {
	return strconv.FormatFloat(c.Value, 'g', -1, 64)
}

func (s Symbol) String() string { return s.Name }

func (u Unary) String() string {
	return "(-" + u.X.String() + ")"
}

func (b Binary) String() string {
	var op string

	switch b.Op {
	case OpAdd:
		op = "+"
	case OpSub:
		op = "-"
	case OpMul:
		op = "*"
	case OpDiv:
		op = "/"
	case OpPow:
		op = "^"
	}

	return "(" + b.X.String() + op + b.Y.String() + ")"
}

func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}

	return c.Name + "(" + strings.Join(parts, ",") + ")"
}

// Hash returns a content hash of the expression structure. Two structurally
// equal trees hash identically; the hash deliberately ignores nothing, so a
// changed constant yields a different hash.
func Hash(e Expr) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(e.String()))

	return h.Sum64()
}

// Eval evaluates the expression at the given complex variable bindings.
// Unbound symbols and unknown functions are reported as errors; division by
// exact zero as ErrDivisionByZero. Callers sampling near poles should treat
// these as per-point failures, not fatal conditions.
func Eval(e Expr, bindings map[string]complex128) (complex128, error) {
	switch n := e.(type) {
	case Constant:
		return complex(n.Value, 0), nil

	case Symbol:
		v, ok := bindings[n.Name]
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnboundSymbol, n.Name)
		}

		return v, nil

	case Unary:
		v, err := Eval(n.X, bindings)
		if err != nil {
			return 0, err
		}

		return -v, nil

	case Binary:
		x, err := Eval(n.X, bindings)
		if err != nil {
			return 0, err
		}

		y, err := Eval(n.Y, bindings)
		if err != nil {
			return 0, err
		}

		switch n.Op {
		case OpAdd:
			return x + y, nil
		case OpSub:
			return x - y, nil
		case OpMul:
			return x * y, nil
		case OpDiv:
			if y == 0 {
				return 0, ErrDivisionByZero
			}

			return x / y, nil
		case OpPow:
			return cmplx.Pow(x, y), nil
		}

		return 0, fmt.Errorf("symb: invalid binary operator %d", n.Op)

	case Call:
		return evalCall(n, bindings)
	}

	return 0, fmt.Errorf("symb: invalid expression node %T", e)
}

func evalCall(c Call, bindings map[string]complex128) (complex128, error) {
	if c.Name == FuncPadeDelay {
		// pade_delay survives evaluation only if ExpandPadeDelay was
		// skipped; evaluate it as the exact delay it approximates.
		expanded, err := expandPadeCall(c)
		if err != nil {
			return 0, err
		}

		return Eval(expanded, bindings)
	}

	if len(c.Args) != 1 {
		return 0, fmt.Errorf("%w: %s expects 1 argument, got %d", ErrArgumentCount, c.Name, len(c.Args))
	}

	arg, err := Eval(c.Args[0], bindings)
	if err != nil {
		return 0, err
	}

	switch c.Name {
	case "exp":
		return cmplx.Exp(arg), nil
	case "log", "ln":
		return cmplx.Log(arg), nil
	case "sqrt":
		return cmplx.Sqrt(arg), nil
	case "sin":
		return cmplx.Sin(arg), nil
	case "cos":
		return cmplx.Cos(arg), nil
	case "tan":
		return cmplx.Tan(arg), nil
	case "abs":
		return complex(cmplx.Abs(arg), 0), nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFunction, c.Name)
}

// Bind substitutes numeric values for symbols, returning a new tree where
// each bound symbol is replaced by a constant. Symbols without a binding
// are left in place.
func Bind(e Expr, values map[string]float64) Expr {
	switch n := e.(type) {
	case Constant:
		return n

	case Symbol:
		if v, ok := values[n.Name]; ok {
			return Con(v)
		}

		return n

	case Unary:
		return Unary{Op: n.Op, X: Bind(n.X, values)}

	case Binary:
		return Binary{Op: n.Op, X: Bind(n.X, values), Y: Bind(n.Y, values)}

	case Call:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = Bind(a, values)
		}

		return Call{Name: n.Name, Args: args}
	}

	return e
}

// Evaluator compiles the expression into a closure evaluating it at a
// complex value of the given variable, with all other bindings fixed.
// Evaluation failures are returned per call, never cached.
func Evaluator(e Expr, varName string, values map[string]float64) func(complex128) (complex128, error) {
	bound := Bind(e, values)

	return func(s complex128) (complex128, error) {
		return Eval(bound, map[string]complex128{varName: s})
	}
}
