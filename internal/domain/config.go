package domain

import "github.com/smilemakc/flowsim/internal/utils"

// SimulationSettings configures a simulation run (§6). The kernel always
// drives a step count: callers set Steps directly, or derive it from an end
// time with WithEndTime.
type SimulationSettings struct {
	InitialTime      float64
	TimeDelta        float64
	Steps            uint64
	SolverType       SolverType
	FlowScalingOrder FlowScalingOrder
}

// DefaultSimulationSettings returns the documented defaults: initial_time=0,
// time_delta=1, 10 steps, solver=euler, outflow-first flow scaling (§6, §4.8).
func DefaultSimulationSettings() SimulationSettings {
	return SimulationSettings{
		InitialTime:      0.0,
		TimeDelta:        1.0,
		Steps:            10,
		SolverType:       SolverEuler,
		FlowScalingOrder: OutflowFirst,
	}
}

// Normalize fills SolverType and FlowScalingOrder with their documented
// defaults when a caller builds SimulationSettings by hand and leaves either
// enum at its Go zero value. Steps, TimeDelta and InitialTime are never
// defaulted here — a zero Steps count is a meaningful "report only the
// initial state" run, not an unset field.
func (s SimulationSettings) Normalize() SimulationSettings {
	s.SolverType = utils.DefaultValue(s.SolverType, SolverEuler)
	s.FlowScalingOrder = utils.DefaultValue(s.FlowScalingOrder, OutflowFirst)
	return s
}

// WithEndTime returns a copy of s with Steps derived from endTime, matching
// endTime = initial_time + max(count-1,0)*time_delta rearranged for count.
func (s SimulationSettings) WithEndTime(endTime float64) SimulationSettings {
	if s.TimeDelta == 0 {
		s.Steps = 0
		return s
	}
	n := (endTime - s.InitialTime) / s.TimeDelta
	if n < 0 {
		n = 0
	}
	s.Steps = uint64(n)
	return s
}

// ScenarioParameters overrides a subset of compiled initial values for one
// simulation run (§6). Overrides are looked up by the object's ObjectID, not
// its state-variable index, so they survive plan recompilation.
type ScenarioParameters struct {
	InitialValues map[ObjectID]Variant
}

// NewScenarioParameters builds an empty ScenarioParameters.
func NewScenarioParameters() ScenarioParameters {
	return ScenarioParameters{InitialValues: make(map[ObjectID]Variant)}
}
