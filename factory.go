package flowsim

import "github.com/smilemakc/flowsim/internal/domain"

// NewStock registers a Stock object on f and returns its ObjectID.
// allowsNegative controls whether the stock may go below zero (§4.8).
func NewStock(f *MemoryFrame, name string, allowsNegative bool) ObjectID {
	id := domain.NewObjectID()
	f.AddObject(id, domain.KindStock)
	f.SetAttribute(id, "name", domain.NewStringVariant(name))
	f.SetAttribute(id, "allows_negative", domain.NewBoolVariant(allowsNegative))
	return id
}

// NewFlow registers a FlowRate object driven by formula.
func NewFlow(f *MemoryFrame, name, formula string) ObjectID {
	id := domain.NewObjectID()
	f.AddObject(id, domain.KindFlowRate)
	f.AddTrait(id, domain.TraitFormula)
	f.SetAttribute(id, "name", domain.NewStringVariant(name))
	f.SetAttribute(id, "formula", domain.NewStringVariant(formula))
	return id
}

// NewAuxiliary registers an Auxiliary node driven by formula.
func NewAuxiliary(f *MemoryFrame, name, formula string) ObjectID {
	id := domain.NewObjectID()
	f.AddTrait(id, domain.TraitAuxiliary)
	f.AddTrait(id, domain.TraitFormula)
	f.SetAttribute(id, "name", domain.NewStringVariant(name))
	f.SetAttribute(id, "formula", domain.NewStringVariant(formula))
	return id
}

// NewGraphicalFunction registers an Auxiliary node looked up from points
// under method, driven by whichever single node is linked into it via
// LinkParameter.
func NewGraphicalFunction(f *MemoryFrame, name string, points []Point, method InterpolationMethod) ObjectID {
	id := domain.NewObjectID()
	f.AddTrait(id, domain.TraitGraphicalFunction)
	f.SetAttribute(id, "name", domain.NewStringVariant(name))
	elems := make([]domain.Variant, len(points))
	for i, p := range points {
		elems[i] = domain.NewPointVariant(p)
	}
	f.SetAttribute(id, "graphical_function_points", domain.NewArrayVariant(domain.AtomPoint, elems))
	f.SetAttribute(id, "interpolation_method", domain.NewStringVariant(string(method)))
	return id
}

// NewDelay registers a Delay node, driven by whichever single node is linked
// into it via LinkParameter. initialValue is optional; pass nil to output the
// input value captured at initialisation until duration steps have elapsed.
func NewDelay(f *MemoryFrame, name string, durationSteps uint32, initialValue *Variant) ObjectID {
	id := domain.NewObjectID()
	f.AddTrait(id, domain.TraitDelay)
	f.SetAttribute(id, "name", domain.NewStringVariant(name))
	f.SetAttribute(id, "delay_duration", domain.NewIntVariant(int64(durationSteps)))
	if initialValue != nil {
		f.SetAttribute(id, "initial_value", *initialValue)
	}
	return id
}

// NewSmooth registers a Smooth node, driven by whichever single node is
// linked into it via LinkParameter.
func NewSmooth(f *MemoryFrame, name string, windowTime float64) ObjectID {
	id := domain.NewObjectID()
	f.AddTrait(id, domain.TraitSmooth)
	f.SetAttribute(id, "name", domain.NewStringVariant(name))
	f.SetAttribute(id, "window_time", domain.NewDoubleVariant(windowTime))
	return id
}

// LinkParameter declares that to reads from's value as an input (§6).
func LinkParameter(f *MemoryFrame, from, to ObjectID) {
	f.AddEdge(domain.EdgeParameter, from, to)
}

// LinkFlow declares that flow drains stock (stock -> flow) or fills stock
// (flow -> stock), depending on which endpoint is the stock.
func LinkFlow(f *MemoryFrame, from, to ObjectID) {
	f.AddEdge(domain.EdgeFlow, from, to)
}
