package simulation

import "github.com/smilemakc/flowsim/internal/domain"

// InitState builds the initial SimulationState for plan (§4.7 "State
// initialisation"). parameters overrides a subset of compiled initial
// values, keyed by ObjectID rather than state-vector index so they survive
// plan recompilation (§6 ScenarioParameters).
func InitState(plan *domain.SimulationPlan, parameters map[domain.ObjectID]domain.Variant) (State, error) {
	s := NewState(plan.StateVariableCount())
	for _, sv := range plan.StateVariables() {
		s.Values[sv.Index] = domain.ZeroVariant(sv.ValueType)
	}
	b := plan.Builtins()
	settings := plan.Settings()
	s.Time = settings.InitialTime
	s.TimeDelta = settings.TimeDelta
	s.Step = 0
	s.Values[b.Time] = domain.NewDoubleVariant(s.Time)
	s.Values[b.TimeDelta] = domain.NewDoubleVariant(s.TimeDelta)
	s.Values[b.Step] = domain.NewIntVariant(0)

	for _, obj := range plan.SimulationObjects() {
		if override, ok := parameters[obj.ObjectID]; ok {
			s.Values[obj.VariableIndex] = override
			continue
		}
		if obj.Role == domain.RoleStock {
			// Stocks with no override start at the Variant-zero of their
			// value type; a design may still drive this via a formula-less
			// initial-value ValueBinding, which the compiler does not yet
			// bind (see DESIGN.md).
			continue
		}
		if err := initObject(obj, &s); err != nil {
			return State{}, domain.NewSimulationError(obj.ObjectID, 0, err)
		}
	}
	return s, nil
}

func initObject(obj domain.SimulationObject, s *State) error {
	comp := obj.Computation
	switch comp.Kind {
	case domain.CompFormula:
		v, err := Evaluate(comp.Formula, s.Values)
		if err != nil {
			return err
		}
		s.Values[obj.VariableIndex] = v
	case domain.CompGraphical:
		v, err := evaluateGraphical(comp.Graphical, s.Values)
		if err != nil {
			return err
		}
		s.Values[obj.VariableIndex] = v
	case domain.CompDelay:
		initDelay(obj, comp.Delay, s)
	case domain.CompSmooth:
		initSmooth(obj, comp.Smooth, s)
	}
	return nil
}

func initDelay(obj domain.SimulationObject, d *domain.DelayRepr, s *State) {
	input := s.Values[d.InputValueIndex]
	output := input
	if d.InitialValue != nil {
		output = *d.InitialValue
	}
	s.Values[d.InitialValueIndex] = output
	queue := domain.ZeroVariant(domain.ArrayType(d.ValueType))
	if d.Steps > 0 {
		queue = queue.Pushed(input)
	}
	s.Values[d.QueueIndex] = queue
	s.Values[obj.VariableIndex] = output
}

func initSmooth(obj domain.SimulationObject, sm *domain.SmoothRepr, s *State) {
	input := s.Values[sm.InputValueIndex]
	s.Values[sm.SmoothValueIndex] = input
	s.Values[obj.VariableIndex] = input
}

// stepDelay implements the per-step Delay update (§4.7): pop the queue's
// front as output iff queue.len() >= steps, else fall back to the stored
// initial value; push the new input afterward. steps == 0 bypasses the
// queue entirely.
func stepDelay(obj domain.SimulationObject, d *domain.DelayRepr, s *State) {
	input := s.Values[d.InputValueIndex]
	if d.Steps == 0 {
		s.Values[obj.VariableIndex] = input
		return
	}
	queue := s.Values[d.QueueIndex]
	var output domain.Variant
	if uint32(queue.Len()) >= d.Steps {
		front, rest, _ := queue.PoppedFront()
		output = front
		queue = rest
	} else {
		output = s.Values[d.InitialValueIndex]
	}
	queue = queue.Pushed(input)
	s.Values[d.QueueIndex] = queue
	s.Values[obj.VariableIndex] = output
}

// stepSmooth implements the per-step Smooth update (§4.7): exponential
// blend of the current input against the stored smoothed value.
func stepSmooth(obj domain.SimulationObject, sm *domain.SmoothRepr, s *State) error {
	x, err := s.Values[sm.InputValueIndex].AsDouble()
	if err != nil {
		return err
	}
	prev, err := s.Values[sm.SmoothValueIndex].AsDouble()
	if err != nil {
		return err
	}
	alpha := s.TimeDelta / sm.WindowTime
	next := alpha*x + (1-alpha)*prev
	atom := s.Values[sm.SmoothValueIndex].Type().Atom
	nv := domain.VariantFromDouble(atom, next)
	s.Values[sm.SmoothValueIndex] = nv
	s.Values[obj.VariableIndex] = nv
	return nil
}

// updateAuxiliariesAndFlows re-evaluates every non-stock object's value
// against the current state (§4.7: "Update all auxiliary and flow-rate
// nodes by evaluating their expressions in S'"). When stateful is false
// (RK4 intra-stage refinement), Delay and Smooth nodes are left untouched:
// their queue/smoothing recurrences advance once per real step, never once
// per stage, or RK4's four stages would each push or blend independently.
func updateAuxiliariesAndFlows(plan *domain.SimulationPlan, s *State, stateful bool) error {
	for _, obj := range plan.SimulationObjects() {
		if obj.Role == domain.RoleStock {
			continue
		}
		comp := obj.Computation
		switch comp.Kind {
		case domain.CompFormula:
			v, err := Evaluate(comp.Formula, s.Values)
			if err != nil {
				return domain.NewSimulationError(obj.ObjectID, s.Step, err)
			}
			s.Values[obj.VariableIndex] = v
		case domain.CompGraphical:
			v, err := evaluateGraphical(comp.Graphical, s.Values)
			if err != nil {
				return domain.NewSimulationError(obj.ObjectID, s.Step, err)
			}
			s.Values[obj.VariableIndex] = v
		case domain.CompDelay:
			if stateful {
				stepDelay(obj, comp.Delay, s)
			}
		case domain.CompSmooth:
			if stateful {
				if err := stepSmooth(obj, comp.Smooth, s); err != nil {
					return domain.NewSimulationError(obj.ObjectID, s.Step, err)
				}
			}
		}
	}
	return nil
}
