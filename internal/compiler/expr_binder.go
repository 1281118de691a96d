package compiler

import (
	"fmt"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/smilemakc/flowsim/internal/domain"
)

// ParseFormula parses formula text into an unbound expression tree via the
// expr-lang/expr parser (§1 external "expression parser" collaborator). The
// returned *ast.Tree is this engine's UnboundExpression (§3); a parse
// failure should be surfaced by the caller as an ExpressionSyntaxError
// issue, not a binder error.
func ParseFormula(formula string) (*ast.Tree, error) {
	return parser.Parse(formula)
}

// RequiredNames collects every variable name referenced in tree, excluding
// names used purely as call targets. Builtin names are not filtered here —
// callers subtract builtin names themselves.
func RequiredNames(tree *ast.Tree) map[string]bool {
	out := make(map[string]bool)
	if tree == nil {
		return out
	}
	collectVars(tree.Node, out)
	return out
}

func collectVars(n ast.Node, out map[string]bool) {
	switch t := n.(type) {
	case nil:
		return
	case *ast.IdentifierNode:
		out[t.Value] = true
	case *ast.UnaryNode:
		collectVars(t.Node, out)
	case *ast.BinaryNode:
		collectVars(t.Left, out)
		collectVars(t.Right, out)
	case *ast.ConditionalNode:
		collectVars(t.Cond, out)
		collectVars(t.Exp1, out)
		collectVars(t.Exp2, out)
	case *ast.ChainNode:
		collectVars(t.Node, out)
	case *ast.CallNode:
		if _, isName := t.Callee.(*ast.IdentifierNode); !isName {
			collectVars(t.Callee, out)
		}
		for _, arg := range t.Arguments {
			collectVars(arg, out)
		}
	case *ast.BuiltinNode:
		for _, arg := range t.Arguments {
			collectVars(arg, out)
		}
	case *ast.ArrayNode:
		for _, e := range t.Nodes {
			collectVars(e, out)
		}
	}
}

// Binder rewrites an UnboundExpression into a domain.BoundExpression (§4.3):
// string variable references become BoundVariable{index, value_type}, and
// operator symbols/call names become concrete *domain.Fn references. The
// binder never reuses expr-lang's own evaluator — dispatch in this engine
// always goes through concrete Fn values, never a string-keyed environment.
type Binder struct {
	names    map[string]domain.BoundVariable
	registry *domain.BuiltinRegistry
}

// NewBinder builds a Binder resolving names via nameIndex and functions via
// registry.
func NewBinder(names map[string]domain.BoundVariable, registry *domain.BuiltinRegistry) *Binder {
	return &Binder{names: names, registry: registry}
}

// Bind walks tree and produces a BoundExpression, or an error describing the
// unknown name, unknown function, arity mismatch or type mismatch — the
// caller wraps this as an ExpressionError issue (§7).
func (b *Binder) Bind(tree *ast.Tree) (*domain.BoundExpression, error) {
	if tree == nil {
		return nil, fmt.Errorf("empty expression")
	}
	return b.bindNode(tree.Node)
}

func (b *Binder) bindNode(n ast.Node) (*domain.BoundExpression, error) {
	switch t := n.(type) {
	case *ast.IntegerNode:
		return domain.NewValueExpr(domain.NewIntVariant(int64(t.Value))), nil
	case *ast.FloatNode:
		return domain.NewValueExpr(domain.NewDoubleVariant(t.Value)), nil
	case *ast.BoolNode:
		return domain.NewValueExpr(domain.NewBoolVariant(t.Value)), nil
	case *ast.StringNode:
		return domain.NewValueExpr(domain.NewStringVariant(t.Value)), nil
	case *ast.IdentifierNode:
		bv, ok := b.names[t.Value]
		if !ok {
			return nil, fmt.Errorf("unknown name %q", t.Value)
		}
		return domain.NewVariableExpr(bv), nil
	case *ast.ChainNode:
		return b.bindNode(t.Node)
	case *ast.UnaryNode:
		fnName, ok := domain.OperatorFunctionName(t.Operator, true)
		if !ok {
			return nil, fmt.Errorf("unsupported unary operator %q", t.Operator)
		}
		fn, ok := b.registry.Lookup(fnName)
		if !ok {
			return nil, fmt.Errorf("unregistered builtin %q", fnName)
		}
		arg, err := b.bindNode(t.Node)
		if err != nil {
			return nil, err
		}
		if err := checkArgs(fn, []*domain.BoundExpression{arg}); err != nil {
			return nil, err
		}
		return domain.NewUnaryExpr(fn, arg), nil
	case *ast.BinaryNode:
		fnName, ok := domain.OperatorFunctionName(t.Operator, false)
		if !ok {
			return nil, fmt.Errorf("unsupported binary operator %q", t.Operator)
		}
		fn, ok := b.registry.Lookup(fnName)
		if !ok {
			return nil, fmt.Errorf("unregistered builtin %q", fnName)
		}
		left, err := b.bindNode(t.Left)
		if err != nil {
			return nil, err
		}
		right, err := b.bindNode(t.Right)
		if err != nil {
			return nil, err
		}
		if err := checkArgs(fn, []*domain.BoundExpression{left, right}); err != nil {
			return nil, err
		}
		return domain.NewBinaryExpr(fn, left, right), nil
	case *ast.CallNode:
		name, ok := calleeName(t.Callee)
		if !ok {
			return nil, fmt.Errorf("unsupported call target")
		}
		fn, ok := b.registry.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown function %q", name)
		}
		args := make([]*domain.BoundExpression, len(t.Arguments))
		for i, a := range t.Arguments {
			bound, err := b.bindNode(a)
			if err != nil {
				return nil, err
			}
			args[i] = bound
		}
		if err := checkArgs(fn, args); err != nil {
			return nil, err
		}
		return domain.NewCallExpr(fn, args), nil
	case *ast.BuiltinNode:
		// expr-lang parses calls to its own builtin names (max, min, abs, sum,
		// ...) as BuiltinNode rather than CallNode; bind them the same way.
		return b.bindNode(&ast.CallNode{Callee: &ast.IdentifierNode{Value: t.Name}, Arguments: t.Arguments})
	default:
		return nil, fmt.Errorf("unsupported expression syntax (%T)", n)
	}
}

func calleeName(n ast.Node) (string, bool) {
	id, ok := n.(*ast.IdentifierNode)
	if !ok {
		return "", false
	}
	return id.Value, true
}

// checkArgs validates arity (InvalidNumberOfArguments) and, per argument,
// that its static type is numeric-coercible (ArgumentTypeMismatch(pos)) —
// every builtin function operates on doubles/bools coerced to double.
func checkArgs(fn *domain.Fn, args []*domain.BoundExpression) error {
	if !fn.Accepts(len(args)) {
		return fmt.Errorf("invalid number of arguments for %s: got %d", fn.Name, len(args))
	}
	for pos, a := range args {
		vt := staticType(a)
		if vt.IsArray || (vt.Atom != domain.AtomInt && vt.Atom != domain.AtomDouble && vt.Atom != domain.AtomBool) {
			return fmt.Errorf("argument type mismatch at position %d for %s: %s", pos, fn.Name, vt)
		}
	}
	return nil
}

// staticType reports the ValueType a bound expression produces, without
// evaluating it.
func staticType(e *domain.BoundExpression) domain.ValueType {
	switch e.Kind {
	case domain.ExprValue:
		return e.Value.Type()
	case domain.ExprVariable:
		return e.Variable.ValueType
	default:
		return domain.ScalarType(e.Fn.ReturnType)
	}
}
