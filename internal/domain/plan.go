package domain

import (
	"fmt"
	"strings"
)

// StateContentKind discriminates the four shapes a StateVariable's slot can
// hold (§3 StateVariable).
type StateContentKind string

const (
	ContentBuiltin        StateContentKind = "builtin"
	ContentObject         StateContentKind = "object"
	ContentInternalState  StateContentKind = "internal_state"
	ContentAdjustedResult StateContentKind = "adjusted_result"
)

// StateVariableContent is the tagged content of one StateVariable slot.
// Exactly the fields relevant to Kind are meaningful.
type StateVariableContent struct {
	Kind     StateContentKind
	Builtin  BuiltinKind
	ObjectID ObjectID
}

// BuiltinContent builds a Builtin(kind) content.
func BuiltinContent(kind BuiltinKind) StateVariableContent {
	return StateVariableContent{Kind: ContentBuiltin, Builtin: kind}
}

// ObjectContent builds an Object(id) content — a node's primary slot.
func ObjectContent(id ObjectID) StateVariableContent {
	return StateVariableContent{Kind: ContentObject, ObjectID: id}
}

// InternalStateContent builds an InternalState(id) content — a hidden
// stateful slot (delay queue, smoothed value, initial snapshot).
func InternalStateContent(id ObjectID) StateVariableContent {
	return StateVariableContent{Kind: ContentInternalState, ObjectID: id}
}

// AdjustedResultContent builds an AdjustedResult(id) content — a flow-rate's
// post-clamp slot.
func AdjustedResultContent(id ObjectID) StateVariableContent {
	return StateVariableContent{Kind: ContentAdjustedResult, ObjectID: id}
}

// StateVariable is one addressable slot of the flat state vector (§3). Index
// equals the slot's position in the plan's state-variable list.
type StateVariable struct {
	Index     int
	Content   StateVariableContent
	ValueType ValueType
	Name      string
}

// ExprKind discriminates the five BoundExpression node shapes (§3).
type ExprKind string

const (
	ExprValue    ExprKind = "value"
	ExprVariable ExprKind = "variable"
	ExprUnary    ExprKind = "unary"
	ExprBinary   ExprKind = "binary"
	ExprCall     ExprKind = "call"
)

// BoundVariable is a resolved variable reference (§3): a state-vector index
// plus the value type read from that slot, fixed at bind time.
type BoundVariable struct {
	Index     int
	ValueType ValueType
}

// BoundExpression is the bound AST (§3): leaf types are concrete function
// references (*Fn), never strings — the binder has already resolved every
// name and operator symbol by the time one of these exists.
type BoundExpression struct {
	Kind     ExprKind
	Value    Variant
	Variable BoundVariable
	Fn       *Fn
	Args     []*BoundExpression
}

// NewValueExpr builds a constant-value leaf.
func NewValueExpr(v Variant) *BoundExpression {
	return &BoundExpression{Kind: ExprValue, Value: v}
}

// NewVariableExpr builds a variable-reference leaf.
func NewVariableExpr(bv BoundVariable) *BoundExpression {
	return &BoundExpression{Kind: ExprVariable, Variable: bv}
}

// NewUnaryExpr builds a unary function application.
func NewUnaryExpr(fn *Fn, arg *BoundExpression) *BoundExpression {
	return &BoundExpression{Kind: ExprUnary, Fn: fn, Args: []*BoundExpression{arg}}
}

// NewBinaryExpr builds a binary function application.
func NewBinaryExpr(fn *Fn, a, b *BoundExpression) *BoundExpression {
	return &BoundExpression{Kind: ExprBinary, Fn: fn, Args: []*BoundExpression{a, b}}
}

// NewCallExpr builds a variadic/named-function call.
func NewCallExpr(fn *Fn, args []*BoundExpression) *BoundExpression {
	return &BoundExpression{Kind: ExprCall, Fn: fn, Args: args}
}

// CompKind discriminates the four ComputationalRepresentation shapes (§3).
type CompKind string

const (
	CompFormula   CompKind = "formula"
	CompGraphical CompKind = "graphical_function"
	CompDelay     CompKind = "delay"
	CompSmooth    CompKind = "smooth"
)

// GraphicalFunctionRepr is the Graphical Function computation shape (§4.4).
type GraphicalFunctionRepr struct {
	Points         []Point
	Method         InterpolationMethod
	ParameterIndex int
}

// DelayRepr is the Delay computation shape (§4.4, §4.7).
type DelayRepr struct {
	Steps             uint32
	InitialValue      *Variant
	ValueType         AtomType
	InitialValueIndex int
	QueueIndex        int
	InputValueIndex   int
}

// SmoothRepr is the Smooth computation shape (§4.4, §4.7).
type SmoothRepr struct {
	WindowTime       float64
	SmoothValueIndex int
	InputValueIndex  int
}

// ComputationalRepresentation is the tagged variant describing how a
// simulation object's value is produced each step (§3). The kernel dispatches
// on Kind; no virtual dispatch is used in the hot path (§9).
type ComputationalRepresentation struct {
	Kind      CompKind
	Formula   *BoundExpression
	Graphical *GraphicalFunctionRepr
	Delay     *DelayRepr
	Smooth    *SmoothRepr
}

// FormulaRepr wraps a bound formula expression.
func FormulaRepr(expr *BoundExpression) ComputationalRepresentation {
	return ComputationalRepresentation{Kind: CompFormula, Formula: expr}
}

// GraphicalRepr wraps a graphical-function computation.
func GraphicalRepr(r GraphicalFunctionRepr) ComputationalRepresentation {
	return ComputationalRepresentation{Kind: CompGraphical, Graphical: &r}
}

// DelayReprOf wraps a delay computation.
func DelayReprOf(r DelayRepr) ComputationalRepresentation {
	return ComputationalRepresentation{Kind: CompDelay, Delay: &r}
}

// SmoothReprOf wraps a smooth computation.
func SmoothReprOf(r SmoothRepr) ComputationalRepresentation {
	return ComputationalRepresentation{Kind: CompSmooth, Smooth: &r}
}

// SimulationObject is one compiled Stock, Flow or Auxiliary (§3). Computation
// is nil for Stock objects — a stock's value is produced by integration, not
// by a ComputationalRepresentation; Flow and Auxiliary objects always carry
// one.
type SimulationObject struct {
	ObjectID      ObjectID
	Role          NodeRole
	VariableIndex int
	ValueType     ValueType
	Computation   *ComputationalRepresentation
	Name          string
}

// BoundFlow is a compiled Flow's binding to its source/sink stocks and its
// estimated/adjusted state slots (§3, §4.5).
type BoundFlow struct {
	ObjectID            ObjectID
	EstimatedValueIndex int
	AdjustedValueIndex  int
	Priority            int32
	Drains              *ObjectID
	Fills               *ObjectID
}

// BoundStock is a compiled Stock's binding to its inflow/outflow index lists
// (§3, §4.6). Outflows is sorted ascending by priority.
type BoundStock struct {
	ObjectID        ObjectID
	VariableIndex   int
	AllowsNegative  bool
	Inflows         []int
	Outflows        []int
}

// BoundBuiltins indexes the three pre-bound builtin slots (§3).
type BoundBuiltins struct {
	Step       int
	Time       int
	TimeDelta  int
}

// SimulationPlan is the immutable, value-typed compilation output (§3, §9):
// built once per valid design, never mutated afterward. Derived index maps
// are computed once at construction.
type SimulationPlan struct {
	simulationObjects    []SimulationObject
	stateVariables       []StateVariable
	builtins             BoundBuiltins
	stocks               []BoundStock
	flows                []BoundFlow
	charts               []ObjectID
	simulationParameters SimulationSettings
	valueBindings        map[ObjectID]Variant

	objectIndex map[ObjectID]int
	nameIndex   map[string]int
}

// NewSimulationPlan assembles a SimulationPlan and its derived index maps
// from the compiler's final, ordered results. The slices are taken by value
// (copied) so the returned Plan cannot be mutated through the caller's
// backing arrays (§9: "owned context... Plan is produced by move").
func NewSimulationPlan(
	objects []SimulationObject,
	stateVars []StateVariable,
	builtins BoundBuiltins,
	stocks []BoundStock,
	flows []BoundFlow,
	charts []ObjectID,
	settings SimulationSettings,
	bindings map[ObjectID]Variant,
) *SimulationPlan {
	p := &SimulationPlan{
		simulationObjects:    append([]SimulationObject(nil), objects...),
		stateVariables:       append([]StateVariable(nil), stateVars...),
		builtins:             builtins,
		stocks:               append([]BoundStock(nil), stocks...),
		flows:                append([]BoundFlow(nil), flows...),
		charts:               append([]ObjectID(nil), charts...),
		simulationParameters: settings,
		valueBindings:        bindings,
		objectIndex:          make(map[ObjectID]int, len(objects)),
		nameIndex:            make(map[string]int, len(stateVars)),
	}
	if p.valueBindings == nil {
		p.valueBindings = make(map[ObjectID]Variant)
	}
	for _, o := range p.simulationObjects {
		p.objectIndex[o.ObjectID] = o.VariableIndex
	}
	for _, sv := range p.stateVariables {
		if sv.Name != "" {
			p.nameIndex[sv.Name] = sv.Index
		}
	}
	return p
}

// SimulationObjects returns the plan's compiled objects, in compilation
// (dependency) order.
func (p *SimulationPlan) SimulationObjects() []SimulationObject {
	return p.simulationObjects
}

// StateVariables returns the plan's flat state-variable descriptors, indexed
// identically to a SimulationState.values slice.
func (p *SimulationPlan) StateVariables() []StateVariable {
	return p.stateVariables
}

// Builtins returns the plan's three builtin slot indices.
func (p *SimulationPlan) Builtins() BoundBuiltins {
	return p.builtins
}

// Stocks returns the plan's compiled stocks.
func (p *SimulationPlan) Stocks() []BoundStock {
	return p.stocks
}

// Flows returns the plan's compiled flows.
func (p *SimulationPlan) Flows() []BoundFlow {
	return p.flows
}

// Charts returns the object IDs of every compiled Chart.
func (p *SimulationPlan) Charts() []ObjectID {
	return p.charts
}

// Settings returns the simulation settings the plan was compiled with.
func (p *SimulationPlan) Settings() SimulationSettings {
	return p.simulationParameters
}

// ValueBindings returns the compiled ValueBinding overrides.
func (p *SimulationPlan) ValueBindings() map[ObjectID]Variant {
	return p.valueBindings
}

// VariableIndex resolves id to its primary state-variable index.
func (p *SimulationPlan) VariableIndex(id ObjectID) (int, bool) {
	idx, ok := p.objectIndex[id]
	return idx, ok
}

// VariableIndexByName resolves name to its state-variable index.
func (p *SimulationPlan) VariableIndexByName(name string) (int, bool) {
	idx, ok := p.nameIndex[name]
	return idx, ok
}

// StateVariableCount returns the size of the flat state vector this plan
// describes.
func (p *SimulationPlan) StateVariableCount() int {
	return len(p.stateVariables)
}

// Describe renders a short, human-readable summary of the plan: object
// count by role, state-variable count, and solver settings. It is a
// diagnostic convenience, not a persistence format.
func (p *SimulationPlan) Describe() string {
	var stocks, flows, auxes int
	for _, o := range p.simulationObjects {
		switch o.Role {
		case RoleStock:
			stocks++
		case RoleFlow:
			flows++
		case RoleAuxiliary:
			auxes++
		}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "SimulationPlan: %d stocks, %d flows, %d auxiliaries, %d state slots, solver=%s\n",
		stocks, flows, auxes, len(p.stateVariables), p.simulationParameters.SolverType)
	return b.String()
}
