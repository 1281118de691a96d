package compiler

import (
	"fmt"

	"github.com/smilemakc/flowsim/internal/domain"
)

// env carries the shared, progressively-populated lookup tables every
// node-kind compiler (C7) needs: the frame itself, the builtin registry, and
// the name/object → BoundVariable index tables built up as earlier objects
// in dependency order are allocated their state slots.
type env struct {
	frame       domain.Frame
	registry    *domain.BuiltinRegistry
	names       map[domain.ObjectID]string
	nameIndex   map[string]domain.BoundVariable
	objectIndex map[domain.ObjectID]domain.BoundVariable
	issues      *domain.CompilationIssueCollection
}

// compileFormula implements the Formula node-kind compiler (§4.3, §4.4).
func compileFormula(e *env, id domain.ObjectID) (*domain.ComputationalRepresentation, domain.ValueType, bool, error) {
	raw, ok := e.frame.Attribute(id, "formula")
	if !ok {
		return nil, domain.ValueType{}, false, domain.NewObjectInternalError(
			domain.ErrAttributeExpectationFailure, id, "formula")
	}
	formula, err := raw.AsString()
	if err != nil {
		return nil, domain.ValueType{}, false, domain.NewObjectInternalError(
			domain.ErrStructureTypeMismatch, id, "formula attribute is not a string")
	}

	tree, perr := ParseFormula(formula)
	if perr != nil {
		e.issues.Add(id, domain.IssueExpressionSyntaxError, perr.Error())
		return nil, domain.ValueType{}, false, nil
	}

	required := RequiredNames(tree)
	delete(required, domain.NameTime)
	delete(required, domain.NameTimeDelta)
	delete(required, domain.NameSimulationStep)

	incoming := e.frame.Incoming(id, domain.EdgeParameter)
	for _, edge := range incoming {
		originName := e.names[edge.From]
		if required[originName] {
			delete(required, originName)
		} else {
			e.issues.Add(id, domain.IssueUnusedInput, originName)
		}
	}
	for name := range required {
		e.issues.Add(id, domain.IssueUnknownParameter, name)
	}

	binder := NewBinder(e.nameIndex, e.registry)
	bound, berr := binder.Bind(tree)
	if berr != nil {
		e.issues.Add(id, domain.IssueExpressionError, berr.Error())
		return nil, domain.ValueType{}, false, nil
	}
	repr := domain.FormulaRepr(bound)
	return &repr, domain.ScalarType(domain.AtomDouble), true, nil
}

// compileGraphicalFunction implements the Graphical Function node-kind
// compiler (§4.4).
func compileGraphicalFunction(e *env, id domain.ObjectID) (*domain.ComputationalRepresentation, domain.ValueType, bool, error) {
	pointsAttr, ok := e.frame.Attribute(id, "graphical_function_points")
	if !ok {
		return nil, domain.ValueType{}, false, domain.NewObjectInternalError(
			domain.ErrAttributeExpectationFailure, id, "graphical_function_points")
	}
	elems, err := pointsAttr.AsArray()
	if err != nil {
		return nil, domain.ValueType{}, false, domain.NewObjectInternalError(
			domain.ErrStructureTypeMismatch, id, "graphical_function_points is not an array")
	}
	points := make([]domain.Point, 0, len(elems))
	for _, elem := range elems {
		p, perr := elem.AsPoint()
		if perr != nil {
			return nil, domain.ValueType{}, false, domain.NewObjectInternalError(
				domain.ErrStructureTypeMismatch, id, "graphical_function_points element is not a point")
		}
		points = append(points, p)
	}

	method := domain.InterpolationStep
	if raw, ok := e.frame.Attribute(id, "interpolation_method"); ok {
		s, serr := raw.AsString()
		if serr == nil && domain.InterpolationMethod(s).IsValid() {
			method = domain.InterpolationMethod(s)
		} else {
			e.issues.Add(id, domain.IssueInvalidAttributeValue, fmt.Sprintf("interpolation_method: %q", s))
		}
	}

	incoming := e.frame.Incoming(id, domain.EdgeParameter)
	if len(incoming) != 1 {
		e.issues.Add(id, domain.IssueMissingRequiredParameter, "graphical function requires exactly one incoming parameter")
		return nil, domain.ValueType{}, false, nil
	}
	param, ok := e.objectIndex[incoming[0].From]
	if !ok {
		return nil, domain.ValueType{}, false, domain.NewObjectInternalError(
			domain.ErrObjectNotFound, incoming[0].From, "parameter origin not yet bound")
	}

	repr := domain.GraphicalRepr(domain.GraphicalFunctionRepr{
		Points: points, Method: method, ParameterIndex: param.Index,
	})
	return &repr, domain.ScalarType(domain.AtomDouble), true, nil
}

// compileDelay implements the Delay node-kind compiler (§4.4), allocating
// two internal state slots.
func compileDelay(e *env, id domain.ObjectID, alloc *allocator) (*domain.ComputationalRepresentation, domain.ValueType, bool, error) {
	durationAttr, ok := e.frame.Attribute(id, "delay_duration")
	if !ok {
		return nil, domain.ValueType{}, false, domain.NewObjectInternalError(
			domain.ErrAttributeExpectationFailure, id, "delay_duration")
	}
	durationI, err := durationAttr.AsInt()
	if err != nil {
		return nil, domain.ValueType{}, false, domain.NewObjectInternalError(
			domain.ErrStructureTypeMismatch, id, "delay_duration is not numeric")
	}
	if durationI < 0 {
		e.issues.Add(id, domain.IssueInvalidAttributeValue, "delay_duration must be >= 0")
		return nil, domain.ValueType{}, false, nil
	}

	incoming := e.frame.Incoming(id, domain.EdgeParameter)
	if len(incoming) != 1 {
		e.issues.Add(id, domain.IssueMissingRequiredParameter, "delay requires exactly one incoming parameter")
		return nil, domain.ValueType{}, false, nil
	}
	param, ok := e.objectIndex[incoming[0].From]
	if !ok {
		return nil, domain.ValueType{}, false, domain.NewObjectInternalError(
			domain.ErrObjectNotFound, incoming[0].From, "parameter origin not yet bound")
	}
	if param.ValueType.IsArray {
		e.issues.Add(id, domain.IssueUnsupportedDelayValue, "delay parameter must be a scalar atom")
		return nil, domain.ValueType{}, false, nil
	}

	var initial *domain.Variant
	if v, ok := e.frame.Attribute(id, "initial_value"); ok {
		initial = &v
	}

	queueIdx := alloc.alloc(domain.InternalStateContent(id), domain.ArrayType(param.ValueType.Atom),
		"delay_queue_"+id.String())
	initIdx := alloc.alloc(domain.InternalStateContent(id), param.ValueType, "delay_init_"+id.String())

	repr := domain.DelayReprOf(domain.DelayRepr{
		Steps:             uint32(durationI),
		InitialValue:      initial,
		ValueType:         param.ValueType.Atom,
		InitialValueIndex: initIdx,
		QueueIndex:        queueIdx,
		InputValueIndex:   param.Index,
	})
	return &repr, param.ValueType, true, nil
}

// compileSmooth implements the Smooth node-kind compiler (§4.4), allocating
// one internal state slot.
func compileSmooth(e *env, id domain.ObjectID, alloc *allocator) (*domain.ComputationalRepresentation, domain.ValueType, bool, error) {
	windowAttr, ok := e.frame.Attribute(id, "window_time")
	if !ok {
		return nil, domain.ValueType{}, false, domain.NewObjectInternalError(
			domain.ErrAttributeExpectationFailure, id, "window_time")
	}
	window, err := windowAttr.AsDouble()
	if err != nil {
		return nil, domain.ValueType{}, false, domain.NewObjectInternalError(
			domain.ErrStructureTypeMismatch, id, "window_time is not numeric")
	}
	if window == 0 {
		e.issues.Add(id, domain.IssueInvalidAttributeValue, "window_time must be non-zero")
		return nil, domain.ValueType{}, false, nil
	}

	incoming := e.frame.Incoming(id, domain.EdgeParameter)
	if len(incoming) != 1 {
		e.issues.Add(id, domain.IssueMissingRequiredParameter, "smooth requires exactly one incoming parameter")
		return nil, domain.ValueType{}, false, nil
	}
	param, ok := e.objectIndex[incoming[0].From]
	if !ok {
		return nil, domain.ValueType{}, false, domain.NewObjectInternalError(
			domain.ErrObjectNotFound, incoming[0].From, "parameter origin not yet bound")
	}
	if param.ValueType.IsArray {
		e.issues.Add(id, domain.IssueUnsupportedDelayValue, "smooth parameter must be a scalar atom")
		return nil, domain.ValueType{}, false, nil
	}

	smoothIdx := alloc.alloc(domain.InternalStateContent(id), param.ValueType, "smooth_value_"+id.String())

	repr := domain.SmoothReprOf(domain.SmoothRepr{
		WindowTime:       window,
		SmoothValueIndex: smoothIdx,
		InputValueIndex:  param.Index,
	})
	return &repr, param.ValueType, true, nil
}

// allocator hands out sequential state-variable indices, mirroring the
// invariant that StateVariable.Index equals position in the plan's list
// (§3).
type allocator struct {
	vars []domain.StateVariable
}

func (a *allocator) alloc(content domain.StateVariableContent, vt domain.ValueType, name string) int {
	idx := len(a.vars)
	a.vars = append(a.vars, domain.StateVariable{Index: idx, Content: content, ValueType: vt, Name: name})
	return idx
}
