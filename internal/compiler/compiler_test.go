package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/flowsim/internal/compiler"
	"github.com/smilemakc/flowsim/internal/domain"
)

func stock(f *domain.MemoryFrame, name string) domain.ObjectID {
	id := domain.NewObjectID()
	f.AddObject(id, domain.KindStock)
	f.SetAttribute(id, "name", domain.NewStringVariant(name))
	f.SetAttribute(id, "allows_negative", domain.NewBoolVariant(false))
	return id
}

func aux(f *domain.MemoryFrame, name, formula string) domain.ObjectID {
	id := domain.NewObjectID()
	f.AddTrait(id, domain.TraitAuxiliary)
	f.AddTrait(id, domain.TraitFormula)
	f.SetAttribute(id, "name", domain.NewStringVariant(name))
	f.SetAttribute(id, "formula", domain.NewStringVariant(formula))
	return id
}

// TestCompile_StockWithNoFlows checks that a bare stock with no inflows or
// outflows compiles to a zero-Flows plan.
func TestCompile_StockWithNoFlows(t *testing.T) {
	f := domain.NewMemoryFrame()
	s := stock(f, "s")

	plan, err := compiler.Compile(f, domain.DefaultSimulationSettings())
	require.NoError(t, err)

	idx, ok := plan.VariableIndex(s)
	require.True(t, ok)
	assert.GreaterOrEqual(t, idx, 0)
	assert.Empty(t, plan.Flows())
	require.Len(t, plan.Stocks(), 1)
	assert.Empty(t, plan.Stocks()[0].Inflows)
	assert.Empty(t, plan.Stocks()[0].Outflows)
}

// TestCompile_TopologicalOrder checks that a producer is ordered, and
// evaluates, before its consumer.
func TestCompile_TopologicalOrder(t *testing.T) {
	f := domain.NewMemoryFrame()
	a := aux(f, "a", "1")
	b := aux(f, "b", "a + 1")
	f.AddEdge(domain.EdgeParameter, a, b)

	plan, err := compiler.Compile(f, domain.DefaultSimulationSettings())
	require.NoError(t, err)

	aIdx, ok := plan.VariableIndex(a)
	require.True(t, ok)
	bIdx, ok := plan.VariableIndex(b)
	require.True(t, ok)
	assert.Less(t, aIdx, bIdx)
}

// TestCompile_CycleDetected implements spec seed scenario 6: a two-node
// cycle formed entirely of Parameter edges must fail compilation with a
// ComputationCycle issue attributed to both participating nodes.
func TestCompile_CycleDetected(t *testing.T) {
	f := domain.NewMemoryFrame()
	a := aux(f, "a", "b + 1")
	b := aux(f, "b", "a + 1")
	f.AddEdge(domain.EdgeParameter, b, a)
	f.AddEdge(domain.EdgeParameter, a, b)

	_, err := compiler.Compile(f, domain.DefaultSimulationSettings())
	require.Error(t, err)

	var compErr *domain.CompilerError
	require.ErrorAs(t, err, &compErr)
	require.NotNil(t, compErr.Issues)

	found := map[domain.ObjectID]bool{}
	for _, issue := range compErr.Issues.All() {
		if issue.Kind == domain.IssueComputationCycle && issue.HasID {
			found[issue.ObjectID] = true
		}
	}
	assert.True(t, found[a])
	assert.True(t, found[b])
}

// TestCompile_DuplicateNameRejected checks that two simulation nodes sharing
// a name fail compilation with a DuplicateName issue.
func TestCompile_DuplicateNameRejected(t *testing.T) {
	f := domain.NewMemoryFrame()
	aux(f, "x", "1")
	aux(f, "x", "2")

	_, err := compiler.Compile(f, domain.DefaultSimulationSettings())
	require.Error(t, err)

	var compErr *domain.CompilerError
	require.ErrorAs(t, err, &compErr)
	require.NotNil(t, compErr.Issues)

	var sawDuplicate bool
	for _, issue := range compErr.Issues.All() {
		if issue.Kind == domain.IssueDuplicateName {
			sawDuplicate = true
		}
	}
	assert.True(t, sawDuplicate)
}

// TestCompile_UnknownParameterRejected checks that a formula referencing an
// undeclared name is reported rather than silently compiled.
func TestCompile_UnknownParameterRejected(t *testing.T) {
	f := domain.NewMemoryFrame()
	aux(f, "y", "nonexistent + 1")

	_, err := compiler.Compile(f, domain.DefaultSimulationSettings())
	require.Error(t, err)

	var compErr *domain.CompilerError
	require.ErrorAs(t, err, &compErr)
	require.NotNil(t, compErr.Issues)

	var sawUnknown bool
	for _, issue := range compErr.Issues.All() {
		if issue.Kind == domain.IssueUnknownParameter {
			sawUnknown = true
		}
	}
	assert.True(t, sawUnknown)
}

// TestCompile_GraphicalFunction implements spec seed scenario 3: a two-point
// graphical function compiles to a CompGraphical node carrying the
// requested interpolation method and its single driving parameter.
func TestCompile_GraphicalFunction(t *testing.T) {
	for _, method := range []domain.InterpolationMethod{
		domain.InterpolationLinear, domain.InterpolationStep, domain.InterpolationNearest,
	} {
		f := domain.NewMemoryFrame()
		x := aux(f, "x", "5")
		g := domain.NewObjectID()
		f.AddTrait(g, domain.TraitGraphicalFunction)
		f.SetAttribute(g, "name", domain.NewStringVariant("g"))
		f.SetAttribute(g, "graphical_function_points", domain.NewArrayVariant(domain.AtomPoint, []domain.Variant{
			domain.NewPointVariant(domain.Point{X: 0, Y: 0}),
			domain.NewPointVariant(domain.Point{X: 10, Y: 100}),
		}))
		f.SetAttribute(g, "interpolation_method", domain.NewStringVariant(string(method)))
		f.AddEdge(domain.EdgeParameter, x, g)

		plan, err := compiler.Compile(f, domain.DefaultSimulationSettings())
		require.NoError(t, err)

		xIdx, ok := plan.VariableIndex(x)
		require.True(t, ok)

		var found bool
		for _, obj := range plan.SimulationObjects() {
			if obj.ObjectID != g {
				continue
			}
			found = true
			require.NotNil(t, obj.Computation)
			require.Equal(t, domain.CompGraphical, obj.Computation.Kind)
			assert.Equal(t, method, obj.Computation.Graphical.Method)
			assert.Equal(t, xIdx, obj.Computation.Graphical.ParameterIndex)
			assert.Equal(t, []domain.Point{{X: 0, Y: 0}, {X: 10, Y: 100}}, obj.Computation.Graphical.Points)
		}
		assert.True(t, found)
	}
}
