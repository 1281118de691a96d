package compiler

import (
	"github.com/rs/zerolog/log"

	"github.com/smilemakc/flowsim/internal/domain"
)

// Compile drives the full compilation pipeline (C6): dependency ordering,
// name resolution, node-kind compilation, flow/stock binding and plan
// assembly. It accumulates issues across every phase and returns
// CompilerError{Issues: ...} if any were raised, or CompilerError{Cause:
// ...} on the first violated frame precondition. A nil error means plan is
// a valid, immutable SimulationPlan.
func Compile(frame domain.Frame, settings domain.SimulationSettings) (plan *domain.SimulationPlan, err error) {
	settings = settings.Normalize()
	log.Debug().Msg("compiler: gathering simulation nodes")

	stockIDs := frame.Filter(domain.KindStock)
	flowIDs := frame.Filter(domain.KindFlowRate)
	flowSet := toSet(flowIDs)

	formulaSet := toSet(frame.FilterTrait(domain.TraitFormula))
	graphicalSet := toSet(frame.FilterTrait(domain.TraitGraphicalFunction))
	delaySet := toSet(frame.FilterTrait(domain.TraitDelay))
	smoothSet := toSet(frame.FilterTrait(domain.TraitSmooth))
	auxiliarySet := toSet(frame.FilterTrait(domain.TraitAuxiliary))

	// Every node carrying a computation trait is an Auxiliary (a FlowRate's
	// own Formula trait doesn't make it one too — flowSet subtracts those
	// out), so the Auxiliary node set is the union of all four computation
	// traits plus TraitAuxiliary itself, not TraitAuxiliary alone.
	auxSet := make(map[domain.ObjectID]bool, len(auxiliarySet)+len(formulaSet)+len(graphicalSet)+len(delaySet)+len(smoothSet))
	for _, set := range []map[domain.ObjectID]bool{auxiliarySet, formulaSet, graphicalSet, delaySet, smoothSet} {
		for id := range set {
			if !flowSet[id] {
				auxSet[id] = true
			}
		}
	}
	auxIDs := make([]domain.ObjectID, 0, len(auxSet))
	for id := range auxSet {
		auxIDs = append(auxIDs, id)
	}

	role := make(map[domain.ObjectID]domain.NodeRole, len(stockIDs)+len(flowIDs)+len(auxIDs))
	all := make([]domain.ObjectID, 0, len(stockIDs)+len(flowIDs)+len(auxIDs))
	for _, id := range stockIDs {
		role[id] = domain.RoleStock
		all = append(all, id)
	}
	for _, id := range flowIDs {
		role[id] = domain.RoleFlow
		all = append(all, id)
	}
	for _, id := range auxIDs {
		role[id] = domain.RoleAuxiliary
		all = append(all, id)
	}

	var paramEdges []domain.EdgeRef
	for _, id := range all {
		paramEdges = append(paramEdges, frame.Outgoing(id, domain.EdgeParameter)...)
	}

	log.Debug().Int("nodes", len(all)).Int("parameter_edges", len(paramEdges)).Msg("compiler: sorting dependencies")
	sortResult, serr := SortDependencies(all, paramEdges)
	if serr != nil {
		return nil, domain.NewInternalCompilerError(domain.NewInternalError(
			domain.ErrStructureTypeMismatch, serr.Error()))
	}

	issues := domain.NewCompilationIssueCollection()

	if sortResult.CycleNodes != nil {
		for id := range sortResult.CycleNodes {
			issues.Add(id, domain.IssueComputationCycle, "participates in a computation cycle")
		}
		for _, e := range CycleEdges(paramEdges, sortResult.CycleNodes) {
			issues.Add(e.ID, domain.IssueComputationCycle, "edge participates in a computation cycle")
		}
		return nil, domain.NewIssuesError(issues)
	}
	order := sortResult.Order

	log.Debug().Msg("compiler: resolving names")
	names, nerr := ResolveNames(order, frame, issues)
	if nerr != nil {
		return nil, domain.NewInternalCompilerError(nerr.(*domain.InternalError))
	}

	alloc := &allocator{}
	bt := alloc.alloc(domain.BuiltinContent(domain.BuiltinTime), domain.ScalarType(domain.AtomDouble), domain.NameTime)
	btd := alloc.alloc(domain.BuiltinContent(domain.BuiltinTimeDelta), domain.ScalarType(domain.AtomDouble), domain.NameTimeDelta)
	bstep := alloc.alloc(domain.BuiltinContent(domain.BuiltinStep), domain.ScalarType(domain.AtomInt), domain.NameSimulationStep)

	nameIndex := map[string]domain.BoundVariable{
		domain.NameTime:           {Index: bt, ValueType: domain.ScalarType(domain.AtomDouble)},
		domain.NameTimeDelta:      {Index: btd, ValueType: domain.ScalarType(domain.AtomDouble)},
		domain.NameSimulationStep: {Index: bstep, ValueType: domain.ScalarType(domain.AtomInt)},
	}
	objectIndex := make(map[domain.ObjectID]domain.BoundVariable)

	e := &env{
		frame:       frame,
		registry:    domain.NewBuiltinRegistry(),
		names:       names,
		nameIndex:   nameIndex,
		objectIndex: objectIndex,
		issues:      issues,
	}

	log.Debug().Msg("compiler: compiling node kinds")
	var simObjects []domain.SimulationObject
	var flowsPending []struct {
		id            domain.ObjectID
		estimatedIdx  int
		valueType     domain.ValueType
	}
	allowsNegative := make(map[domain.ObjectID]bool)

	for _, id := range order {
		r := role[id]
		nm := names[id]

		if r == domain.RoleStock {
			allowsAttr, ok := frame.Attribute(id, "allows_negative")
			if !ok {
				return nil, domain.NewInternalCompilerError(domain.NewObjectInternalError(
					domain.ErrAttributeExpectationFailure, id, "allows_negative"))
			}
			allowsNeg, aerr := allowsAttr.AsBool()
			if aerr != nil {
				return nil, domain.NewInternalCompilerError(domain.NewObjectInternalError(
					domain.ErrStructureTypeMismatch, id, "allows_negative is not a bool"))
			}
			allowsNegative[id] = allowsNeg

			vt := domain.ScalarType(domain.AtomDouble)
			idx := alloc.alloc(domain.ObjectContent(id), vt, nm)
			bindName(nameIndex, objectIndex, nm, id, idx, vt)
			simObjects = append(simObjects, domain.SimulationObject{
				ObjectID: id, Role: domain.RoleStock, VariableIndex: idx, ValueType: vt, Name: nm,
			})
			continue
		}

		var comp *domain.ComputationalRepresentation
		var vt domain.ValueType
		var ok bool
		var cerr error

		switch {
		case formulaSet[id]:
			comp, vt, ok, cerr = compileFormula(e, id)
		case graphicalSet[id]:
			comp, vt, ok, cerr = compileGraphicalFunction(e, id)
		case delaySet[id]:
			comp, vt, ok, cerr = compileDelay(e, id, alloc)
		case smoothSet[id]:
			comp, vt, ok, cerr = compileSmooth(e, id, alloc)
		default:
			cerr = domain.NewObjectInternalError(domain.ErrStructureTypeMismatch, id,
				"node carries no recognized computation trait")
		}
		if cerr != nil {
			if ie, isInternal := cerr.(*domain.InternalError); isInternal {
				return nil, domain.NewInternalCompilerError(ie)
			}
			return nil, domain.NewInternalCompilerError(domain.NewObjectInternalError(
				domain.ErrFormulaCompilationFailure, id, cerr.Error()))
		}
		if !ok {
			vt = domain.ScalarType(domain.AtomDouble)
		}

		idx := alloc.alloc(domain.ObjectContent(id), vt, nm)
		bindName(nameIndex, objectIndex, nm, id, idx, vt)

		simObjects = append(simObjects, domain.SimulationObject{
			ObjectID: id, Role: r, VariableIndex: idx, ValueType: vt, Computation: comp, Name: nm,
		})
		if r == domain.RoleFlow {
			flowsPending = append(flowsPending, struct {
				id           domain.ObjectID
				estimatedIdx int
				valueType    domain.ValueType
			}{id: id, estimatedIdx: idx, valueType: vt})
		}
	}

	log.Debug().Msg("compiler: binding flows and stocks")
	flows := make([]domain.BoundFlow, 0, len(flowsPending))
	for _, fp := range flowsPending {
		flows = append(flows, bindFlow(e, fp.id, fp.estimatedIdx, fp.valueType, alloc))
	}
	variableIndex := make(map[domain.ObjectID]int, len(simObjects))
	for _, o := range simObjects {
		variableIndex[o.ObjectID] = o.VariableIndex
	}
	stocks := bindStocks(stockIDs, allowsNegative, variableIndex, flows)

	charts := frame.Filter(domain.KindChart)

	if !issues.IsEmpty() {
		return nil, domain.NewIssuesError(issues)
	}

	builtins := domain.BoundBuiltins{Step: bstep, Time: bt, TimeDelta: btd}
	plan = domain.NewSimulationPlan(simObjects, alloc.vars, builtins, stocks, flows, charts, settings, nil)
	log.Debug().Int("state_slots", plan.StateVariableCount()).Msg("compiler: plan assembled")
	return plan, nil
}

func toSet(ids []domain.ObjectID) map[domain.ObjectID]bool {
	out := make(map[domain.ObjectID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func bindName(nameIndex map[string]domain.BoundVariable, objectIndex map[domain.ObjectID]domain.BoundVariable, name string, id domain.ObjectID, idx int, vt domain.ValueType) {
	bv := domain.BoundVariable{Index: idx, ValueType: vt}
	objectIndex[id] = bv
	if name != "" {
		nameIndex[name] = bv
	}
}
