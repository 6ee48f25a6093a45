package content

import (
	"errors"
	"fmt"
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
)

// ErrNotNumeric is returned when an expression evaluates to something
// other than a finite number.
var ErrNotNumeric = errors.New("expression is not a number")

var exprEnv = map[string]any{
	"pi": math.Pi,
	"e":  math.E,
}

func unary(name string, fn func(float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		if len(params) != 1 {
			return nil, fmt.Errorf("%s expects 1 argument, got %d", name, len(params))
		}
		x, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}
		return fn(x), nil
	})
}

func binary(name string, fn func(float64, float64) float64) expr.Option {
	return expr.Function(name, func(params ...any) (any, error) {
		if len(params) != 2 {
			return nil, fmt.Errorf("%s expects 2 arguments, got %d", name, len(params))
		}
		x, err := toFloat(params[0])
		if err != nil {
			return nil, err
		}
		y, err := toFloat(params[1])
		if err != nil {
			return nil, err
		}
		return fn(x, y), nil
	})
}

// floatArith rewrites integer literals as floats so arithmetic cannot
// overflow, and % as a call to mod, which expr only defines on integers.
type floatArith struct{}

func (floatArith) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.IntegerNode:
		ast.Patch(node, &ast.FloatNode{Value: float64(n.Value)})
	case *ast.BinaryNode:
		if n.Operator == "%" {
			ast.Patch(node, &ast.CallNode{
				Callee:    &ast.IdentifierNode{Value: "mod"},
				Arguments: []ast.Node{n.Left, n.Right},
			})
		}
	}
}

var exprOptions = []expr.Option{
	expr.Env(exprEnv),
	expr.DisableAllBuiltins(),
	expr.Patch(floatArith{}),
	unary("sqrt", math.Sqrt),
	unary("abs", math.Abs),
	unary("exp", math.Exp),
	unary("ln", math.Log),
	unary("log", math.Log10),
	unary("sin", math.Sin),
	unary("cos", math.Cos),
	unary("tan", math.Tan),
	unary("floor", math.Floor),
	unary("ceil", math.Ceil),
	unary("round", math.Round),
	binary("min", math.Min),
	binary("max", math.Max),
	binary("mod", math.Mod),
}

// Evaluate computes an arithmetic expression: + - * / % ^, parentheses,
// the constants pi and e, and a few math functions.
func Evaluate(input string) (float64, error) {
	program, err := expr.Compile(input, exprOptions...)
	if err != nil {
		return 0, err
	}
	out, err := expr.Run(program, exprEnv)
	if err != nil {
		return 0, err
	}
	v, err := toFloat(out)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNotNumeric
	}
	return v, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrNotNumeric, v)
	}
}
