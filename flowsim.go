// Package flowsim compiles a Stock-and-Flow causal model into a
// SimulationPlan and drives it through the numerical kernel, re-exporting
// the domain/compiler/simulation packages' public surface as convenience
// aliases for callers who only need the top-level Compile/Simulate shape.
package flowsim

import (
	"context"

	"github.com/smilemakc/flowsim/internal/compiler"
	"github.com/smilemakc/flowsim/internal/domain"
	"github.com/smilemakc/flowsim/internal/simulation"
)

// ObjectID identifies a node or edge in a Frame (§3).
type ObjectID = domain.ObjectID

// Frame is the compiler's read-only view of a causal model (§2).
type Frame = domain.Frame

// MemoryFrame is the in-memory Frame implementation used to build a model
// before compiling it.
type MemoryFrame = domain.MemoryFrame

// SimulationSettings configures a run: time step, step count, solver and
// flow-scaling order (§6).
type SimulationSettings = domain.SimulationSettings

// ScenarioParameters overrides a subset of a plan's compiled initial values
// for one run (§6).
type ScenarioParameters = domain.ScenarioParameters

// SimulationPlan is the compiled, immutable artifact produced by Compile.
type SimulationPlan = domain.SimulationPlan

// Result is a completed run's accumulated trajectory.
type Result = simulation.Result

// SolverType selects Euler or RK4 integration.
type SolverType = domain.SolverType

// FlowScalingOrder selects the rule used to scale a non-negative stock's
// outflows when they would otherwise overdraw it.
type FlowScalingOrder = domain.FlowScalingOrder

// InterpolationMethod selects a Graphical Function's lookup behavior.
type InterpolationMethod = domain.InterpolationMethod

// Point is an (x, y) pair used by Graphical Function tables (§4.4).
type Point = domain.Point

// Variant is the tagged-union runtime value carried by every state slot.
type Variant = domain.Variant

const (
	SolverEuler = domain.SolverEuler
	SolverRK4   = domain.SolverRK4

	OutflowFirst = domain.OutflowFirst
	InflowFirst  = domain.InflowFirst

	InterpolationStep    = domain.InterpolationStep
	InterpolationLinear  = domain.InterpolationLinear
	InterpolationCubic   = domain.InterpolationCubic
	InterpolationNearest = domain.InterpolationNearest
)

// NewDoubleVariant wraps a float64 as a Variant.
func NewDoubleVariant(v float64) Variant { return domain.NewDoubleVariant(v) }

// NewIntVariant wraps an int64 as a Variant.
func NewIntVariant(v int64) Variant { return domain.NewIntVariant(v) }

// NewBoolVariant wraps a bool as a Variant.
func NewBoolVariant(v bool) Variant { return domain.NewBoolVariant(v) }

// NewStringVariant wraps a string as a Variant.
func NewStringVariant(v string) Variant { return domain.NewStringVariant(v) }

// NewFrame builds an empty, writable MemoryFrame.
func NewFrame() *MemoryFrame {
	return domain.NewMemoryFrame()
}

// DefaultSettings returns the documented default run settings: initial_time
// 0, time_delta 1, 10 steps, Euler solver, outflow-first flow scaling (§6).
func DefaultSettings() SimulationSettings {
	return domain.DefaultSimulationSettings()
}

// NewParameters builds an empty ScenarioParameters.
func NewParameters() ScenarioParameters {
	return domain.NewScenarioParameters()
}

// Compile validates and binds frame into an immutable SimulationPlan under
// settings. A non-nil error is always a *CompilerError.
func Compile(frame Frame, settings SimulationSettings) (*SimulationPlan, error) {
	return compiler.Compile(frame, settings)
}

// Simulate runs plan to completion under parameters, returning the
// accumulated Result.
func Simulate(ctx context.Context, plan *SimulationPlan, parameters ScenarioParameters) (Result, error) {
	sim := simulation.NewSimulator(plan)
	return sim.Run(ctx, parameters)
}

// CompileAndRun is a one-shot convenience combining Compile and Simulate.
func CompileAndRun(ctx context.Context, frame Frame, settings SimulationSettings, parameters ScenarioParameters) (Result, error) {
	plan, err := Compile(frame, settings)
	if err != nil {
		return Result{}, err
	}
	return Simulate(ctx, plan, parameters)
}
