package symb

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrBadEncoding is returned when a JSON expression document does not
// follow the node schema.
var ErrBadEncoding = errors.New("symb: malformed expression document")

// jsonNode is the wire shape of a single AST node. Exactly the fields for
// the declared type must be present:
//
//	{"type":"const","value":2.5}
//	{"type":"sym","name":"s"}
//	{"type":"neg","x":{...}}
//	{"type":"add","x":{...},"y":{...}}        (add|sub|mul|div|pow)
//	{"type":"call","name":"exp","args":[{...}]}
type jsonNode struct {
	Type  string          `json:"type"`
	Value *float64        `json:"value,omitempty"`
	Name  string          `json:"name,omitempty"`
	X     json.RawMessage `json:"x,omitempty"`
	Y     json.RawMessage `json:"y,omitempty"`
	Args  json.RawMessage `json:"args,omitempty"`
}

var binaryOpNames = map[BinaryOp]string{
	OpAdd: "add",
	OpSub: "sub",
	OpMul: "mul",
	OpDiv: "div",
	OpPow: "pow",
}

var binaryOpsByName = map[string]BinaryOp{
	"add": OpAdd,
	"sub": OpSub,
	"mul": OpMul,
	"div": OpDiv,
	"pow": OpPow,
}

// MarshalExpr encodes an expression tree as JSON.
func MarshalExpr(e Expr) ([]byte, error) {
	doc, err := toJSONValue(e)
	if err != nil {
		return nil, err
	}

	return json.Marshal(doc)
}

func toJSONValue(e Expr) (any, error) {
	switch n := e.(type) {
	case Constant:
		return map[string]any{"type": "const", "value": n.Value}, nil

	case Symbol:
		return map[string]any{"type": "sym", "name": n.Name}, nil

	case Unary:
		x, err := toJSONValue(n.X)
		if err != nil {
			return nil, err
		}

		return map[string]any{"type": "neg", "x": x}, nil

	case Binary:
		x, err := toJSONValue(n.X)
		if err != nil {
			return nil, err
		}

		y, err := toJSONValue(n.Y)
		if err != nil {
			return nil, err
		}

		return map[string]any{"type": binaryOpNames[n.Op], "x": x, "y": y}, nil

	case Call:
		args := make([]any, len(n.Args))

		for i, a := range n.Args {
			v, err := toJSONValue(a)
			if err != nil {
				return nil, err
			}

			args[i] = v
		}

		return map[string]any{"type": "call", "name": n.Name, "args": args}, nil
	}

	return nil, fmt.Errorf("%w: node %T", ErrBadEncoding, e)
}

// UnmarshalExpr decodes a JSON expression document.
func UnmarshalExpr(data []byte) (Expr, error) {
	var node jsonNode
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadEncoding, err)
	}

	switch node.Type {
	case "const":
		if node.Value == nil {
			return nil, fmt.Errorf("%w: const without value", ErrBadEncoding)
		}

		return Con(*node.Value), nil

	case "sym":
		if node.Name == "" {
			return nil, fmt.Errorf("%w: sym without name", ErrBadEncoding)
		}

		return Sym(node.Name), nil

	case "neg":
		x, err := unmarshalChild(node.X, "neg", "x")
		if err != nil {
			return nil, err
		}

		return Neg(x), nil

	case "add", "sub", "mul", "div", "pow":
		x, err := unmarshalChild(node.X, node.Type, "x")
		if err != nil {
			return nil, err
		}

		y, err := unmarshalChild(node.Y, node.Type, "y")
		if err != nil {
			return nil, err
		}

		return Binary{Op: binaryOpsByName[node.Type], X: x, Y: y}, nil

	case "call":
		if node.Name == "" {
			return nil, fmt.Errorf("%w: call without name", ErrBadEncoding)
		}

		var rawArgs []json.RawMessage
		if len(node.Args) > 0 {
			if err := json.Unmarshal(node.Args, &rawArgs); err != nil {
				return nil, fmt.Errorf("%w: call args: %v", ErrBadEncoding, err)
			}
		}

		args := make([]Expr, len(rawArgs))

		for i, raw := range rawArgs {
			a, err := UnmarshalExpr(raw)
			if err != nil {
				return nil, err
			}

			args[i] = a
		}

		return Call{Name: node.Name, Args: args}, nil
	}

	return nil, fmt.Errorf("%w: unknown node type %q", ErrBadEncoding, node.Type)
}

func unmarshalChild(raw json.RawMessage, typ, field string) (Expr, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s without %s", ErrBadEncoding, typ, field)
	}

	return UnmarshalExpr(raw)
}
