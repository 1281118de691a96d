package flowsim

import (
	"fmt"

	"github.com/smilemakc/flowsim/internal/domain"
)

// ANSI colors & styles
const (
	colorReset = "\033[0m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
	colorGreen = "\033[32m"
	bold       = "\033[1m"
)

// DisplayResult prints a completed Result in a formatted, human-readable
// way. This is a helper function designed for examples, demos, and
// debugging — a real dashboard or export pipeline belongs outside this
// package (§1).
//
// Example usage:
//
//	plan, _ := flowsim.Compile(frame, flowsim.DefaultSettings())
//	result, _ := flowsim.Simulate(ctx, plan, flowsim.NewParameters())
//	flowsim.DisplayResult(result, plan)
func DisplayResult(result Result, plan *SimulationPlan) {
	title := func(text string) {
		fmt.Printf("\n%s%s=== %s ===%s\n\n", bold, colorBlue, text, colorReset)
	}
	section := func(text string) {
		fmt.Printf("%s%s%s\n", bold, text, colorReset)
	}
	kv := func(label string, value any) {
		fmt.Printf("  %s%-22s%s: %v\n", colorCyan, label, colorReset, value)
	}

	title("Simulation Result")

	section("Run:")
	kv("States Recorded", len(result.States))
	kv("Initial Time", result.InitialTime)
	kv("End Time", result.EndTime())
	kv("Time Delta", result.TimeDelta)

	if len(result.States) == 0 {
		return
	}
	last := result.States[len(result.States)-1]

	section("\nFinal Stocks:")
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
		kv(name, fmt.Sprintf("%s%.6g%s", colorGreen, v, colorReset))
	}

	if flows := plan.Flows(); len(flows) > 0 {
		section("\nFinal Flow Rates (adjusted):")
		names := make(map[domain.ObjectID]string, len(plan.SimulationObjects()))
		for _, o := range plan.SimulationObjects() {
			names[o.ObjectID] = o.Name
		}
		for _, fl := range flows {
			name := names[fl.ObjectID]
			if name == "" {
				name = fl.ObjectID.String()
			}
			v, err := last.Values[fl.AdjustedValueIndex].AsDouble()
			if err != nil {
				continue
			}
			kv(name, fmt.Sprintf("%.6g", v))
		}
	}

	fmt.Println()
}
