package flowsim_test

import (
	"context"
	"fmt"

	"github.com/smilemakc/flowsim"
)

// Example demonstrates building a frame, compiling it, and running it to
// completion: a self-feeding stock with no outflow (10% growth per step).
func Example() {
	f := flowsim.NewFrame()
	x := flowsim.NewStock(f, "x", false)
	r := flowsim.NewFlow(f, "r", "0.1 * x")
	flowsim.LinkParameter(f, x, r)
	flowsim.LinkFlow(f, r, x)

	settings := flowsim.DefaultSettings()
	settings.Steps = 3

	plan, err := flowsim.Compile(f, settings)
	if err != nil {
		fmt.Println("compile error:", err)
		return
	}
	xIdx, _ := plan.VariableIndex(x)

	params := flowsim.NewParameters()
	params.InitialValues[x] = flowsim.NewDoubleVariant(100)

	result, err := flowsim.Simulate(context.Background(), plan, params)
	if err != nil {
		fmt.Println("simulate error:", err)
		return
	}

	series, err := result.UnsafeTimeSeriesAt(xIdx)
	if err != nil {
		fmt.Println("read error:", err)
		return
	}
	for _, v := range series {
		fmt.Printf("%.1f\n", v)
	}
	// Output:
	// 100.0
	// 110.0
	// 121.0
	// 133.1
}
