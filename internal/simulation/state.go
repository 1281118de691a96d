// Package simulation implements the numerical kernel that consumes a
// compiled SimulationPlan: state initialisation, the stock-flow evaluation
// loop, Euler/RK4 integration with non-negative-stock flow scaling, and the
// Simulator driver that accumulates a SimulationResult (C10–C13).
package simulation

import "github.com/smilemakc/flowsim/internal/domain"

// State is the flat Variant vector the kernel advances one step at a time
// (§3 SimulationState). It is cheap to clone — RK4's stages copy it by
// value so delay queues and smoothed values, which live inside Values
// rather than in side-tables, stay consistent across stages (§5).
type State struct {
	Step      uint64
	Time      float64
	TimeDelta float64
	Values    []domain.Variant
}

// NewState allocates a state of size n. Its slots hold the untyped Go zero
// Variant; InitState replaces each with the ZeroVariant of that slot's
// value type (§4.7 state initialisation step 1).
func NewState(n int) State {
	return State{Values: make([]domain.Variant, n)}
}

// Clone returns an independent copy of s; mutating the copy's Values never
// affects s's.
func (s State) Clone() State {
	values := make([]domain.Variant, len(s.Values))
	copy(values, s.Values)
	return State{Step: s.Step, Time: s.Time, TimeDelta: s.TimeDelta, Values: values}
}

// advance returns a copy of s with step and time incremented, builtins
// written to match, ready for the kernel to overwrite stock/flow/auxiliary
// slots (§4.7 Step: "S' <- S.advance(...); update builtins in S'").
func (s State) advance(builtins domain.BoundBuiltins) State {
	next := s.Clone()
	next.Step = s.Step + 1
	next.Time = s.Time + s.TimeDelta
	next.Values[builtins.Step] = domain.NewIntVariant(int64(next.Step))
	next.Values[builtins.Time] = domain.NewDoubleVariant(next.Time)
	next.Values[builtins.TimeDelta] = domain.NewDoubleVariant(next.TimeDelta)
	return next
}
