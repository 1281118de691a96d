package compiler

import (
	"sort"

	"github.com/smilemakc/flowsim/internal/domain"
)

// bindFlow implements the flow half of C8 (§4.5): resolves drains/fills via
// the object's single incoming/outgoing Flow edge and allocates the
// AdjustedResult slot the integrator writes into post-scaling.
//
// A Flow edge into the flow node (stock → flow) means the flow drains that
// stock; a Flow edge out of the flow node (flow → stock) means it fills
// that stock. More than one edge on either side is rejected rather than
// picked arbitrarily.
func bindFlow(e *env, id domain.ObjectID, estimatedIndex int, valueType domain.ValueType, alloc *allocator) domain.BoundFlow {
	priority := int32(0)
	if raw, ok := e.frame.Attribute(id, "priority"); ok {
		if p, err := raw.AsInt(); err == nil {
			priority = int32(p)
		}
	}

	incoming := e.frame.Incoming(id, domain.EdgeFlow)
	outgoing := e.frame.Outgoing(id, domain.EdgeFlow)

	var drains, fills *domain.ObjectID
	switch {
	case len(incoming) > 1:
		e.issues.Add(id, domain.IssueInvalidAttributeValue, "flow has more than one incoming Flow edge")
	case len(incoming) == 1:
		d := incoming[0].From
		drains = &d
	}
	switch {
	case len(outgoing) > 1:
		e.issues.Add(id, domain.IssueInvalidAttributeValue, "flow has more than one outgoing Flow edge")
	case len(outgoing) == 1:
		f := outgoing[0].To
		fills = &f
	}

	adjustedIdx := alloc.alloc(domain.AdjustedResultContent(id), valueType, "")

	return domain.BoundFlow{
		ObjectID:            id,
		EstimatedValueIndex: estimatedIndex,
		AdjustedValueIndex:  adjustedIdx,
		Priority:            priority,
		Drains:              drains,
		Fills:               fills,
	}
}

// bindStocks implements the stock half of C8 (§4.6): for each stock,
// collects inflows (flows filling it) and outflows (flows draining it),
// sorting outflows ascending by priority, stable on ties.
func bindStocks(stockIDs []domain.ObjectID, allowsNegative map[domain.ObjectID]bool, variableIndex map[domain.ObjectID]int, flows []domain.BoundFlow) []domain.BoundStock {
	out := make([]domain.BoundStock, 0, len(stockIDs))
	for _, sid := range stockIDs {
		var inflows, outflows []int
		for i, f := range flows {
			if f.Fills != nil && *f.Fills == sid {
				inflows = append(inflows, i)
			}
			if f.Drains != nil && *f.Drains == sid {
				outflows = append(outflows, i)
			}
		}
		sort.SliceStable(outflows, func(a, b int) bool {
			return flows[outflows[a]].Priority < flows[outflows[b]].Priority
		})
		out = append(out, domain.BoundStock{
			ObjectID:       sid,
			VariableIndex:  variableIndex[sid],
			AllowsNegative: allowsNegative[sid],
			Inflows:        inflows,
			Outflows:       outflows,
		})
	}
	return out
}
