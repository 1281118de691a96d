package simulation

import (
	"fmt"
	"strings"

	"github.com/smilemakc/flowsim/internal/domain"
)

// Result is the Simulator's output (§6): the initial time/step settings the
// run was configured with, plus one State snapshot per step, including the
// initial state at index 0.
type Result struct {
	InitialTime float64
	TimeDelta   float64
	States      []State
}

// EndTime returns initial_time + max(len(states)-1, 0) * time_delta (§6).
func (r Result) EndTime() float64 {
	n := len(r.States) - 1
	if n < 0 {
		n = 0
	}
	return r.InitialTime + float64(n)*r.TimeDelta
}

// UnsafeTimeSeriesAt returns the double-coerced value of state-vector slot
// index across every recorded state (§6). The caller is trusted that the
// variable at index is always coercible to double — a GraphicalFunction or
// Formula output, never a string/point/array slot.
func (r Result) UnsafeTimeSeriesAt(index int) ([]float64, error) {
	out := make([]float64, len(r.States))
	for i, s := range r.States {
		if index < 0 || index >= len(s.Values) {
			return nil, domain.NewValueError("state variable index %d out of range", index)
		}
		v, err := s.Values[index].AsDouble()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// RegularTimeSeries is a double series sampled at a fixed time_delta
// starting at start_time (§6).
type RegularTimeSeries struct {
	StartTime float64
	TimeDelta float64
	Data      []float64
}

// RegularTimeSeries builds a RegularTimeSeries for the variable at index
// (§6).
func (r Result) RegularTimeSeries(index int) (RegularTimeSeries, error) {
	data, err := r.UnsafeTimeSeriesAt(index)
	if err != nil {
		return RegularTimeSeries{}, err
	}
	return RegularTimeSeries{StartTime: r.InitialTime, TimeDelta: r.TimeDelta, Data: data}, nil
}

// Summary renders a short, human-readable description of r: step count,
// time span, and final stock values by name, in plan order. Mirrors
// Plan.Describe() on the compiled side.
func (r Result) Summary(plan *domain.SimulationPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SimulationResult: %d states, time %.4g..%.4g (dt=%.4g)\n",
		len(r.States), r.InitialTime, r.EndTime(), r.TimeDelta)
	if len(r.States) == 0 {
		return b.String()
	}
	last := r.States[len(r.States)-1]
	for _, o := range plan.SimulationObjects() {
		if o.Role != domain.RoleStock {
			continue
		}
		v, err := last.Values[o.VariableIndex].AsDouble()
		if err != nil {
			continue
		}
		name := o.Name
		if name == "" {
			name = o.ObjectID.String()
		}
		fmt.Fprintf(&b, "  %s = %.6g\n", name, v)
	}
	return b.String()
}
