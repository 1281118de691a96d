package simulation

import "github.com/smilemakc/flowsim/internal/domain"

// Evaluate recursively evaluates a bound expression against a state's
// Values vector (C4.9, §4.9). Value leaves pass through; variable leaves
// read values[index]; unary/binary/call nodes apply the referenced
// function to the recursively evaluated arguments.
func Evaluate(expr *domain.BoundExpression, values []domain.Variant) (domain.Variant, error) {
	switch expr.Kind {
	case domain.ExprValue:
		return expr.Value, nil
	case domain.ExprVariable:
		if expr.Variable.Index < 0 || expr.Variable.Index >= len(values) {
			return domain.Variant{}, domain.NewValueError("variable index %d out of range", expr.Variable.Index)
		}
		return values[expr.Variable.Index], nil
	case domain.ExprUnary, domain.ExprBinary, domain.ExprCall:
		args := make([]domain.Variant, len(expr.Args))
		for i, a := range expr.Args {
			v, err := Evaluate(a, values)
			if err != nil {
				return domain.Variant{}, err
			}
			args[i] = v
		}
		return expr.Fn.Apply(args)
	default:
		return domain.Variant{}, domain.NewValueError("unknown expression kind %q", string(expr.Kind))
	}
}

// evaluateGraphical resolves a GraphicalFunctionRepr against the current
// state: read its driving parameter, interpolate (§4.4).
func evaluateGraphical(g *domain.GraphicalFunctionRepr, values []domain.Variant) (domain.Variant, error) {
	x, err := values[g.ParameterIndex].AsDouble()
	if err != nil {
		return domain.Variant{}, err
	}
	y, err := domain.Interpolate(g.Points, g.Method, x)
	if err != nil {
		return domain.Variant{}, err
	}
	return domain.NewDoubleVariant(y), nil
}
