package simulation

import "github.com/smilemakc/flowsim/internal/domain"

// stage is one integrator's-eye view of the plan: the flow-rate derivative
// and adjusted rates it produced, indexed identically to plan.Stocks() and
// plan.Flows().
type stage struct {
	stockDerivative []float64
	adjustedFlows   []float64
}

// scaleFlows implements §4.8's flow-scaling rule: for every stock with
// allows_negative=false and positive total outflow, shrink its outflows so
// they cannot overdraw the stock this step. estimated is read-only; the
// returned slice is a fresh copy with only protected outflow slots altered.
func scaleFlows(plan *domain.SimulationPlan, current []float64, estimated []float64, order domain.FlowScalingOrder) []float64 {
	adjusted := make([]float64, len(estimated))
	copy(adjusted, estimated)

	for i, s := range plan.Stocks() {
		if s.AllowsNegative {
			continue
		}
		var outflowTotal float64
		for _, idx := range s.Outflows {
			outflowTotal += estimated[idx]
		}
		if outflowTotal <= 0 {
			continue
		}

		scale := 1.0
		switch order {
		case domain.InflowFirst:
			var inflowTotal float64
			for _, idx := range s.Inflows {
				inflowTotal += estimated[idx]
			}
			if current[i]+inflowTotal < outflowTotal {
				scale = min1((current[i] + inflowTotal) / outflowTotal)
			}
		default: // OutflowFirst
			if outflowTotal > current[i] {
				scale = min1(current[i] / outflowTotal)
			}
		}
		if scale == 1.0 {
			continue
		}
		for _, idx := range s.Outflows {
			adjusted[idx] = estimated[idx] * scale
		}
	}
	return adjusted
}

func min1(x float64) float64 {
	if x < 1 {
		return x
	}
	return 1
}

// deriveStocks computes d[s] = (inflows - outflows) * dt for every stock,
// clamping non-negative stocks to max(-current, d[s]) (§4.8 "Derivative").
func deriveStocks(plan *domain.SimulationPlan, current []float64, adjusted []float64, dt float64) []float64 {
	d := make([]float64, len(plan.Stocks()))
	for i, s := range plan.Stocks() {
		var inflow, outflow float64
		for _, idx := range s.Inflows {
			inflow += adjusted[idx]
		}
		for _, idx := range s.Outflows {
			outflow += adjusted[idx]
		}
		delta := (inflow - outflow) * dt
		if !s.AllowsNegative && delta < -current[i] {
			delta = -current[i]
		}
		d[i] = delta
	}
	return d
}

// estimatedFlowValues reads the current (pre-integration) estimated rate of
// every flow out of s.
func estimatedFlowValues(plan *domain.SimulationPlan, s *State) ([]float64, error) {
	out := make([]float64, len(plan.Flows()))
	for i, f := range plan.Flows() {
		v, err := s.Values[f.EstimatedValueIndex].AsDouble()
		if err != nil {
			return nil, domain.NewSimulationError(f.ObjectID, s.Step, err)
		}
		out[i] = v
	}
	return out, nil
}

// computeStage evaluates one RK4 stage (or Euler's single stage): build a
// working copy of base with stocks offset by stockOffset and time advanced
// by timeOffset, refresh every Formula/Graphical node against that working
// state (Delay/Smooth are intentionally frozen — their recurrences run once
// per real step, never once per stage, §4.8), scale flows and derive stocks.
func computeStage(plan *domain.SimulationPlan, base *State, stockOffset []float64, timeOffset, dt float64, order domain.FlowScalingOrder) (stage, error) {
	working := base.Clone()
	working.Values[plan.Builtins().Time] = domain.NewDoubleVariant(base.Time + timeOffset)

	current := make([]float64, len(plan.Stocks()))
	for i, s := range plan.Stocks() {
		baseValue, err := base.Values[s.VariableIndex].AsDouble()
		if err != nil {
			return stage{}, domain.NewSimulationError(s.ObjectID, base.Step, err)
		}
		current[i] = baseValue + stockOffset[i]
		working.Values[s.VariableIndex] = domain.NewDoubleVariant(current[i])
	}

	if err := updateAuxiliariesAndFlows(plan, &working, false); err != nil {
		return stage{}, err
	}

	estimated, err := estimatedFlowValues(plan, &working)
	if err != nil {
		return stage{}, err
	}
	adjusted := scaleFlows(plan, current, estimated, order)
	derivative := deriveStocks(plan, current, adjusted, dt)

	return stage{stockDerivative: derivative, adjustedFlows: adjusted}, nil
}

// Integrate advances s by one step using settings' configured solver,
// writing new stock values and adjusted flow rates into s, then refreshing
// every auxiliary/flow-rate node in the resulting state (§4.7, §4.8).
func Integrate(plan *domain.SimulationPlan, s *State) error {
	settings := plan.Settings()
	dt := s.TimeDelta
	zeros := make([]float64, len(plan.Stocks()))

	var final stage
	var err error
	switch settings.SolverType {
	case domain.SolverRK4:
		final, err = integrateRK4(plan, s, dt, settings.FlowScalingOrder)
	default:
		final, err = computeStage(plan, s, zeros, 0, dt, settings.FlowScalingOrder)
	}
	if err != nil {
		return err
	}

	for i, st := range plan.Stocks() {
		current, cerr := s.Values[st.VariableIndex].AsDouble()
		if cerr != nil {
			return domain.NewSimulationError(st.ObjectID, s.Step, cerr)
		}
		s.Values[st.VariableIndex] = domain.NewDoubleVariant(current + final.stockDerivative[i])
	}
	for i, f := range plan.Flows() {
		s.Values[f.AdjustedValueIndex] = domain.NewDoubleVariant(final.adjustedFlows[i])
	}

	return updateAuxiliariesAndFlows(plan, s, true)
}

// integrateRK4 implements the classical four-stage formulation (§4.8): k1 at
// the current state, k2/k3 at the half-step, k4 at the full step, combined
// with (k1 + 2k2 + 2k3 + k4)/6. RK4 is acknowledged to interact poorly with
// non-negative clamping: each stage's derivative is clamped against that
// stage's own stock value, but the weighted combination is not clamped
// again, so a non-negative stock can end the step below zero.
func integrateRK4(plan *domain.SimulationPlan, s *State, dt float64, order domain.FlowScalingOrder) (stage, error) {
	zeros := make([]float64, len(plan.Stocks()))

	k1, err := computeStage(plan, s, zeros, 0, dt, order)
	if err != nil {
		return stage{}, err
	}
	k2, err := computeStage(plan, s, scaled(k1.stockDerivative, 0.5), dt/2, dt, order)
	if err != nil {
		return stage{}, err
	}
	k3, err := computeStage(plan, s, scaled(k2.stockDerivative, 0.5), dt/2, dt, order)
	if err != nil {
		return stage{}, err
	}
	k4, err := computeStage(plan, s, k3.stockDerivative, dt, dt, order)
	if err != nil {
		return stage{}, err
	}

	n := len(plan.Stocks())
	derivative := make([]float64, n)
	for i := 0; i < n; i++ {
		derivative[i] = (k1.stockDerivative[i] + 2*k2.stockDerivative[i] + 2*k3.stockDerivative[i] + k4.stockDerivative[i]) / 6
	}

	m := len(plan.Flows())
	adjusted := make([]float64, m)
	for i := 0; i < m; i++ {
		adjusted[i] = (k1.adjustedFlows[i] + 2*k2.adjustedFlows[i] + 2*k3.adjustedFlows[i] + k4.adjustedFlows[i]) / 6
	}

	return stage{stockDerivative: derivative, adjustedFlows: adjusted}, nil
}

func scaled(xs []float64, f float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x * f
	}
	return out
}
