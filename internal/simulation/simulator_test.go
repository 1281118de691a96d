package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/flowsim/internal/compiler"
	"github.com/smilemakc/flowsim/internal/domain"
)

// newStock registers a Stock object. Its initial value is not set here —
// scenarios that need a nonzero start seed it via ScenarioParameters.
func newStock(t *testing.T, f *domain.MemoryFrame, name string, allowsNegative bool) domain.ObjectID {
	t.Helper()
	id := domain.NewObjectID()
	f.AddObject(id, domain.KindStock)
	f.SetAttribute(id, "name", domain.NewStringVariant(name))
	f.SetAttribute(id, "allows_negative", domain.NewBoolVariant(allowsNegative))
	return id
}

func newFlow(t *testing.T, f *domain.MemoryFrame, name, formula string) domain.ObjectID {
	t.Helper()
	id := domain.NewObjectID()
	f.AddObject(id, domain.KindFlowRate)
	f.AddTrait(id, domain.TraitFormula)
	f.SetAttribute(id, "name", domain.NewStringVariant(name))
	f.SetAttribute(id, "formula", domain.NewStringVariant(formula))
	return id
}

func newAuxFormula(t *testing.T, f *domain.MemoryFrame, name, formula string) domain.ObjectID {
	t.Helper()
	id := domain.NewObjectID()
	f.AddTrait(id, domain.TraitAuxiliary)
	f.AddTrait(id, domain.TraitFormula)
	f.SetAttribute(id, "name", domain.NewStringVariant(name))
	f.SetAttribute(id, "formula", domain.NewStringVariant(formula))
	return id
}

func param(f *domain.MemoryFrame, from, to domain.ObjectID) {
	f.AddEdge(domain.EdgeParameter, from, to)
}

// TestSimulator_ExponentialGrowth implements spec seed scenario 1: a
// self-feeding stock with no outflow.
func TestSimulator_ExponentialGrowth(t *testing.T) {
	f := domain.NewMemoryFrame()
	x := newStock(t, f, "x", false)
	r := newFlow(t, f, "r", "0.1 * x")
	param(f, x, r)
	f.AddEdge(domain.EdgeFlow, r, x) // flow -> stock: r fills x

	plan, err := compiler.Compile(f, domain.SimulationSettings{
		InitialTime: 0, TimeDelta: 1, Steps: 3, SolverType: domain.SolverEuler, FlowScalingOrder: domain.OutflowFirst,
	})
	require.NoError(t, err)

	params := domain.NewScenarioParameters()
	xIdx, ok := plan.VariableIndex(x)
	require.True(t, ok)
	params.InitialValues[x] = domain.NewDoubleVariant(100)

	sim := NewSimulator(plan)
	result, err := sim.Run(context.Background(), params)
	require.NoError(t, err)

	series, err := result.UnsafeTimeSeriesAt(xIdx)
	require.NoError(t, err)
	require.Len(t, series, 4)
	assert.InDelta(t, 100, series[0], 1e-9)
	assert.InDelta(t, 110, series[1], 1e-9)
	assert.InDelta(t, 121, series[2], 1e-9)
	assert.InDelta(t, 133.1, series[3], 1e-9)
}

// TestSimulator_TwoStockDrainWithScaling implements spec seed scenario 2:
// a flow whose estimated rate would overdraw a non-negative stock.
func TestSimulator_TwoStockDrainWithScaling(t *testing.T) {
	f := domain.NewMemoryFrame()
	a := newStock(t, f, "a", false)
	b := newStock(t, f, "b", false)
	flow := newFlow(t, f, "flow", "100")
	f.AddEdge(domain.EdgeFlow, a, flow) // stock -> flow: flow drains a
	f.AddEdge(domain.EdgeFlow, flow, b) // flow -> stock: flow fills b

	plan, err := compiler.Compile(f, domain.SimulationSettings{
		InitialTime: 0, TimeDelta: 1, Steps: 2, SolverType: domain.SolverEuler, FlowScalingOrder: domain.OutflowFirst,
	})
	require.NoError(t, err)

	params := domain.NewScenarioParameters()
	params.InitialValues[a] = domain.NewDoubleVariant(10)
	params.InitialValues[b] = domain.NewDoubleVariant(0)

	sim := NewSimulator(plan)
	result, err := sim.Run(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, result.States, 3)

	aIdx, _ := plan.VariableIndex(a)
	bIdx, _ := plan.VariableIndex(b)
	require.Len(t, plan.Flows(), 1)
	adjIdx := plan.Flows()[0].AdjustedValueIndex

	av, _ := result.States[1].Values[aIdx].AsDouble()
	bv, _ := result.States[1].Values[bIdx].AsDouble()
	adj, _ := result.States[1].Values[adjIdx].AsDouble()
	assert.InDelta(t, 0, av, 1e-9)
	assert.InDelta(t, 10, bv, 1e-9)
	assert.InDelta(t, 10, adj, 1e-9)

	av2, _ := result.States[2].Values[aIdx].AsDouble()
	bv2, _ := result.States[2].Values[bIdx].AsDouble()
	adj2, _ := result.States[2].Values[adjIdx].AsDouble()
	assert.InDelta(t, 0, av2, 1e-9)
	assert.InDelta(t, 10, bv2, 1e-9)
	assert.InDelta(t, 0, adj2, 1e-9)
}

// TestSimulator_Delay implements spec seed scenario 4.
func TestSimulator_Delay(t *testing.T) {
	f := domain.NewMemoryFrame()
	delay := domain.NewObjectID()
	f.AddTrait(delay, domain.TraitDelay)
	f.SetAttribute(delay, "name", domain.NewStringVariant("d"))
	f.SetAttribute(delay, "delay_duration", domain.NewIntVariant(2))
	f.SetAttribute(delay, "initial_value", domain.NewIntVariant(0))

	step := newAuxFormula(t, f, "u", "simulation_step")
	param(f, step, delay)

	plan, err := compiler.Compile(f, domain.SimulationSettings{
		InitialTime: 0, TimeDelta: 1, Steps: 5, SolverType: domain.SolverEuler, FlowScalingOrder: domain.OutflowFirst,
	})
	require.NoError(t, err)

	sim := NewSimulator(plan)
	result, err := sim.Run(context.Background(), domain.NewScenarioParameters())
	require.NoError(t, err)

	dIdx, ok := plan.VariableIndex(delay)
	require.True(t, ok)
	series, err := result.UnsafeTimeSeriesAt(dIdx)
	require.NoError(t, err)
	expected := []float64{0, 0, 0, 1, 2, 3}
	require.Len(t, series, len(expected))
	for i, want := range expected {
		assert.InDeltaf(t, want, series[i], 1e-9, "step %d", i)
	}
}

// TestSimulator_Smooth implements the steady-state half of spec seed
// scenario 5: a constant input, whose smoothed value must converge to it.
func TestSimulator_Smooth(t *testing.T) {
	f := domain.NewMemoryFrame()
	input := newAuxFormula(t, f, "x", "10")
	smooth := domain.NewObjectID()
	f.AddTrait(smooth, domain.TraitSmooth)
	f.SetAttribute(smooth, "name", domain.NewStringVariant("s"))
	f.SetAttribute(smooth, "window_time", domain.NewDoubleVariant(2))
	param(f, input, smooth)

	plan, err := compiler.Compile(f, domain.SimulationSettings{
		InitialTime: 0, TimeDelta: 1, Steps: 3, SolverType: domain.SolverEuler, FlowScalingOrder: domain.OutflowFirst,
	})
	require.NoError(t, err)

	sim := NewSimulator(plan)
	result, err := sim.Run(context.Background(), domain.NewScenarioParameters())
	require.NoError(t, err)

	sIdx, ok := plan.VariableIndex(smooth)
	require.True(t, ok)
	series, err := result.UnsafeTimeSeriesAt(sIdx)
	require.NoError(t, err)
	expected := []float64{10, 10, 10, 10}
	require.Len(t, series, len(expected))
	for i, want := range expected {
		assert.InDeltaf(t, want, series[i], 1e-9, "step %d", i)
	}
}

// TestSimulator_ZeroSteps covers the steps=0 round-trip invariant (§8).
func TestSimulator_ZeroSteps(t *testing.T) {
	f := domain.NewMemoryFrame()
	newStock(t, f, "x", true)

	plan, err := compiler.Compile(f, domain.SimulationSettings{
		InitialTime: 0, TimeDelta: 1, Steps: 0, SolverType: domain.SolverEuler, FlowScalingOrder: domain.OutflowFirst,
	})
	require.NoError(t, err)

	sim := NewSimulator(plan)
	result, err := sim.Run(context.Background(), domain.NewScenarioParameters())
	require.NoError(t, err)
	assert.Len(t, result.States, 1)
}
