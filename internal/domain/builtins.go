package domain

import "math"

// Fn is a concrete, bindable function reference (§3 BoundExpression: "leaf
// types are concrete function references, not strings"). The binder resolves
// an operator symbol or call name to one of these once, at compile time; the
// evaluator never again looks anything up by string.
type Fn struct {
	Name       string
	MinArgs    int
	MaxArgs    int // -1 means unbounded (variadic)
	ReturnType AtomType
	Apply      func(args []Variant) (Variant, error)
}

// Accepts reports whether n arguments satisfy fn's arity.
func (fn *Fn) Accepts(n int) bool {
	if n < fn.MinArgs {
		return false
	}
	if fn.MaxArgs >= 0 && n > fn.MaxArgs {
		return false
	}
	return true
}

func numericArgs(args []Variant) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		f, err := a.AsDouble()
		if err != nil {
			return nil, err
		}
		out[i] = f
	}
	return out, nil
}

func unaryNumeric(name string, f func(float64) float64) *Fn {
	return &Fn{
		Name: name, MinArgs: 1, MaxArgs: 1, ReturnType: AtomDouble,
		Apply: func(args []Variant) (Variant, error) {
			xs, err := numericArgs(args)
			if err != nil {
				return Variant{}, NewFunctionError(name, "%s", err)
			}
			return NewDoubleVariant(f(xs[0])), nil
		},
	}
}

func binaryNumeric(name string, f func(a, b float64) float64) *Fn {
	return &Fn{
		Name: name, MinArgs: 2, MaxArgs: 2, ReturnType: AtomDouble,
		Apply: func(args []Variant) (Variant, error) {
			xs, err := numericArgs(args)
			if err != nil {
				return Variant{}, NewFunctionError(name, "%s", err)
			}
			return NewDoubleVariant(f(xs[0], xs[1])), nil
		},
	}
}

func binaryComparison(name string, f func(a, b float64) bool) *Fn {
	return &Fn{
		Name: name, MinArgs: 2, MaxArgs: 2, ReturnType: AtomBool,
		Apply: func(args []Variant) (Variant, error) {
			xs, err := numericArgs(args)
			if err != nil {
				return Variant{}, NewFunctionError(name, "%s", err)
			}
			return NewBoolVariant(f(xs[0], xs[1])), nil
		},
	}
}

// Builtin function names (§4.10). Operator symbols map onto these via
// OperatorFunctionName.
const (
	FnNeg   = "__neg__"
	FnAdd   = "__add__"
	FnSub   = "__sub__"
	FnMul   = "__mul__"
	FnDiv   = "__div__"
	FnMod   = "__mod__"
	FnPow   = "__pow__"
	FnEq    = "__eq__"
	FnNe    = "__ne__"
	FnLt    = "__lt__"
	FnLe    = "__le__"
	FnGt    = "__gt__"
	FnGe    = "__ge__"
	FnSum   = "sum"
	FnMin   = "min"
	FnMax   = "max"
	FnAbs   = "abs"
	FnFloor = "floor"
	FnCeil  = "ceiling"
	FnRound = "round"
	FnExp   = "exp"
	FnPower = "power"
)

// OperatorFunctionName maps a source-level operator symbol onto its builtin
// function name (§4.3). ok is false for a symbol with no mapping (e.g. `^`
// when the parser grammar doesn't support it).
func OperatorFunctionName(symbol string, unary bool) (string, bool) {
	if unary {
		switch symbol {
		case "-":
			return FnNeg, true
		default:
			return "", false
		}
	}
	switch symbol {
	case "+":
		return FnAdd, true
	case "-":
		return FnSub, true
	case "*":
		return FnMul, true
	case "/":
		return FnDiv, true
	case "%":
		return FnMod, true
	case "^", "**":
		return FnPow, true
	case "==":
		return FnEq, true
	case "!=":
		return FnNe, true
	case "<":
		return FnLt, true
	case "<=":
		return FnLe, true
	case ">":
		return FnGt, true
	case ">=":
		return FnGe, true
	default:
		return "", false
	}
}

// BuiltinRegistry resolves a function name to its concrete Fn (C3).
type BuiltinRegistry struct {
	fns map[string]*Fn
}

// NewBuiltinRegistry builds the fixed registry of builtin functions (§4.10).
// Division and modulo follow IEEE-754 semantics on doubles: inf/nan
// propagate rather than erroring, matching float64's native behaviour.
func NewBuiltinRegistry() *BuiltinRegistry {
	r := &BuiltinRegistry{fns: make(map[string]*Fn)}

	r.register(unaryNumeric(FnNeg, func(a float64) float64 { return -a }))
	r.register(binaryNumeric(FnAdd, func(a, b float64) float64 { return a + b }))
	r.register(binaryNumeric(FnSub, func(a, b float64) float64 { return a - b }))
	r.register(binaryNumeric(FnMul, func(a, b float64) float64 { return a * b }))
	r.register(binaryNumeric(FnDiv, func(a, b float64) float64 { return a / b }))
	r.register(binaryNumeric(FnMod, func(a, b float64) float64 { return math.Mod(a, b) }))
	r.register(binaryNumeric(FnPow, func(a, b float64) float64 { return math.Pow(a, b) }))

	r.register(binaryComparison(FnEq, func(a, b float64) bool { return a == b }))
	r.register(binaryComparison(FnNe, func(a, b float64) bool { return a != b }))
	r.register(binaryComparison(FnLt, func(a, b float64) bool { return a < b }))
	r.register(binaryComparison(FnLe, func(a, b float64) bool { return a <= b }))
	r.register(binaryComparison(FnGt, func(a, b float64) bool { return a > b }))
	r.register(binaryComparison(FnGe, func(a, b float64) bool { return a >= b }))

	r.register(&Fn{
		Name: FnSum, MinArgs: 1, MaxArgs: -1, ReturnType: AtomDouble,
		Apply: func(args []Variant) (Variant, error) {
			xs, err := numericArgs(args)
			if err != nil {
				return Variant{}, NewFunctionError(FnSum, "%s", err)
			}
			total := 0.0
			for _, x := range xs {
				total += x
			}
			return NewDoubleVariant(total), nil
		},
	})
	r.register(&Fn{
		Name: FnMin, MinArgs: 1, MaxArgs: -1, ReturnType: AtomDouble,
		Apply: func(args []Variant) (Variant, error) {
			xs, err := numericArgs(args)
			if err != nil {
				return Variant{}, NewFunctionError(FnMin, "%s", err)
			}
			m := xs[0]
			for _, x := range xs[1:] {
				m = math.Min(m, x)
			}
			return NewDoubleVariant(m), nil
		},
	})
	r.register(&Fn{
		Name: FnMax, MinArgs: 1, MaxArgs: -1, ReturnType: AtomDouble,
		Apply: func(args []Variant) (Variant, error) {
			xs, err := numericArgs(args)
			if err != nil {
				return Variant{}, NewFunctionError(FnMax, "%s", err)
			}
			m := xs[0]
			for _, x := range xs[1:] {
				m = math.Max(m, x)
			}
			return NewDoubleVariant(m), nil
		},
	})

	r.register(unaryNumeric(FnAbs, math.Abs))
	r.register(unaryNumeric(FnFloor, math.Floor))
	r.register(unaryNumeric(FnCeil, math.Ceil))
	r.register(unaryNumeric(FnRound, math.Round))
	r.register(unaryNumeric(FnExp, math.Exp))
	r.register(binaryNumeric(FnPower, math.Pow))

	return r
}

func (r *BuiltinRegistry) register(fn *Fn) {
	r.fns[fn.Name] = fn
}

// Lookup resolves name to its Fn, if registered.
func (r *BuiltinRegistry) Lookup(name string) (*Fn, bool) {
	fn, ok := r.fns[name]
	return fn, ok
}
