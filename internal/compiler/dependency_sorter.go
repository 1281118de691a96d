// Package compiler implements the design-to-plan compilation pipeline: name
// resolution, expression binding, node-kind compilation, flow/stock binding
// and plan assembly (C2, C5–C9, C14).
package compiler

import (
	"fmt"

	"github.com/katalvlaran/lvlath/core"
	"github.com/katalvlaran/lvlath/dfs"

	"github.com/smilemakc/flowsim/internal/domain"
)

// SortResult is the outcome of dependency sorting: either a deterministic
// topological order, or the set of objects/edges participating in a cycle.
type SortResult struct {
	Order      []domain.ObjectID
	CycleNodes map[domain.ObjectID]bool
}

// SortDependencies topologically orders nodes by the Parameter edges among
// them (C5). Producers precede consumers. On a cycle, no order is returned;
// instead every vertex and edge endpoint participating in a cycle is
// reported so the caller can attribute ComputationCycle issues.
//
// Grounded on lvlath/dfs: Parameter edges are loaded into a directed
// lvlath/core.Graph; lvlath/dfs.DetectCycles enumerates cycles up front, and
// lvlath/dfs.TopologicalSort produces the order on the cycle-free path. This
// replaces a hand-rolled Kahn's-algorithm implementation with the pack's own
// graph library — lvlath's vertex iteration is itself sorted ascending by
// (string) vertex ID, so the resulting order is deterministic across runs
// the same way an ascending-ObjectID Kahn tie-break would be.
func SortDependencies(nodes []domain.ObjectID, edges []domain.EdgeRef) (SortResult, error) {
	g := core.NewGraph(core.WithDirected(true))

	for _, id := range nodes {
		if err := g.AddVertex(id.String()); err != nil {
			return SortResult{}, fmt.Errorf("dependency sorter: add vertex %s: %w", id, err)
		}
	}
	for _, e := range edges {
		if _, err := g.AddEdge(e.From.String(), e.To.String(), 1); err != nil {
			return SortResult{}, fmt.Errorf("dependency sorter: add edge %s->%s: %w", e.From, e.To, err)
		}
	}

	// A Parameter edge whose endpoint was never added to nodes still creates
	// that vertex in g (core.Graph.AddEdge auto-vests missing endpoints), so
	// byString must be built from every vertex g actually holds, not just
	// from nodes, or such a vertex resolves to the zero ObjectID downstream.
	byString, perr := verticesByID(g)
	if perr != nil {
		return SortResult{}, perr
	}

	hasCycle, cycles, err := dfs.DetectCycles(g)
	if err != nil {
		return SortResult{}, fmt.Errorf("dependency sorter: detect cycles: %w", err)
	}
	if hasCycle {
		cycleNodes := make(map[domain.ObjectID]bool)
		for _, cycle := range cycles {
			for _, v := range cycle {
				id, ok := byString[v]
				if !ok {
					return SortResult{}, fmt.Errorf("dependency sorter: cycle vertex %q not found among graph vertices", v)
				}
				cycleNodes[id] = true
			}
		}
		return SortResult{CycleNodes: cycleNodes}, nil
	}

	order, err := dfs.TopologicalSort(g)
	if err != nil {
		return SortResult{}, fmt.Errorf("dependency sorter: topological sort: %w", err)
	}

	out := make([]domain.ObjectID, 0, len(order))
	for _, v := range order {
		id, ok := byString[v]
		if !ok {
			return SortResult{}, fmt.Errorf("dependency sorter: topological-order vertex %q not found among graph vertices", v)
		}
		out = append(out, id)
	}
	return SortResult{Order: out}, nil
}

// verticesByID parses every vertex g holds back into an ObjectID, keyed by
// its string form. Used instead of re-deriving the map from the caller's
// node list, which would miss vertices lvlath auto-created from edge
// endpoints that were never passed to SortDependencies.
func verticesByID(g *core.Graph) (map[string]domain.ObjectID, error) {
	vertexIDs := g.Vertices()
	byString := make(map[string]domain.ObjectID, len(vertexIDs))
	for _, v := range vertexIDs {
		id, err := domain.ParseObjectID(v)
		if err != nil {
			return nil, fmt.Errorf("dependency sorter: vertex %q is not a valid ObjectID: %w", v, err)
		}
		byString[v] = id
	}
	return byString, nil
}

// CycleEdges returns, from edges, those whose endpoints are both within
// cycleNodes — used to attribute ComputationCycle to the offending edges as
// well as the offending vertices (§4.1).
func CycleEdges(edges []domain.EdgeRef, cycleNodes map[domain.ObjectID]bool) []domain.EdgeRef {
	var out []domain.EdgeRef
	for _, e := range edges {
		if cycleNodes[e.From] && cycleNodes[e.To] {
			out = append(out, e)
		}
	}
	return out
}
