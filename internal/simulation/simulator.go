package simulation

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/smilemakc/flowsim/internal/domain"
)

// Simulator drives a compiled SimulationPlan through its configured number
// of steps, accumulating a Result (C13). One Simulator owns exactly one
// run's State; parallel runs over the same Plan each need their own
// Simulator (§5 "Shared-resource policy").
type Simulator struct {
	plan *domain.SimulationPlan
}

// NewSimulator builds a Simulator over plan. plan is never mutated.
func NewSimulator(plan *domain.SimulationPlan) *Simulator {
	return &Simulator{plan: plan}
}

// Run initialises state from parameters and advances it plan.Settings().Steps
// times, returning the accumulated Result. If an evaluation error occurs
// mid-run, Run returns the states accumulated so far alongside the error
// (§7 "A partial Result... may be returned") — the caller decides whether a
// partial trajectory is useful.
func (sim *Simulator) Run(ctx context.Context, parameters domain.ScenarioParameters) (Result, error) {
	settings := sim.plan.Settings()
	log.Debug().Uint64("steps", settings.Steps).Str("solver", settings.SolverType.String()).Msg("simulator: starting run")

	initial, err := InitState(sim.plan, parameters.InitialValues)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		InitialTime: settings.InitialTime,
		TimeDelta:   settings.TimeDelta,
		States:      make([]State, 0, settings.Steps+1),
	}
	result.States = append(result.States, initial)

	current := initial
	for step := uint64(0); step < settings.Steps; step++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		next, err := sim.Step(&current)
		if err != nil {
			log.Debug().Err(err).Uint64("step", step).Msg("simulator: run stopped on evaluation error")
			return result, err
		}
		result.States = append(result.States, next)
		current = next
	}

	log.Debug().Int("states", len(result.States)).Msg("simulator: run complete")
	return result, nil
}

// Step advances s by one step (§4.7): advance builtins, integrate stocks
// with flow scaling, then refresh every auxiliary/flow-rate node — including
// the stateful Delay/Smooth recurrences — against the resulting state.
func (sim *Simulator) Step(s *State) (State, error) {
	next := s.advance(sim.plan.Builtins())
	if err := Integrate(sim.plan, &next); err != nil {
		return State{}, err
	}
	return next, nil
}
