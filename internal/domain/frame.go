package domain

import "sort"

// ObjectKind enumerates the node-shaped object types the frame can hold
// (§6). Edge-shaped relations (Parameter, Flow, ChartSeries) are a separate
// EdgeKind below.
type ObjectKind string

const (
	KindStock        ObjectKind = "stock"
	KindFlowRate     ObjectKind = "flow_rate"
	KindChart        ObjectKind = "chart"
	KindValueBinding ObjectKind = "value_binding"
)

// String returns the string representation of k.
func (k ObjectKind) String() string {
	return string(k)
}

// EdgeKind enumerates the edge-shaped relations the frame connects objects
// with (§6).
type EdgeKind string

const (
	EdgeParameter   EdgeKind = "parameter"
	EdgeFlow        EdgeKind = "flow"
	EdgeChartSeries EdgeKind = "chart_series"
)

// String returns the string representation of k.
func (k EdgeKind) String() string {
	return string(k)
}

// Trait enumerates the frame's node-kind traits (§6): a node may carry at
// most one of the "computation" traits (Formula/GraphicalFunction/Delay/
// Smooth) plus, independently, Simulation. GraphicalFunction, Delay and
// Smooth always imply Auxiliary (every such node is a derived quantity);
// Formula does not, since a FlowRate node carries it too without
// being an Auxiliary. AddTrait enforces this implication, so it cannot be
// silently forgotten by a caller.
type Trait string

const (
	TraitFormula           Trait = "formula"
	TraitGraphicalFunction Trait = "graphical_function"
	TraitDelay             Trait = "delay"
	TraitSmooth            Trait = "smooth"
	TraitAuxiliary         Trait = "auxiliary"
	TraitSimulation        Trait = "simulation"
)

// String returns the string representation of t.
func (t Trait) String() string {
	return string(t)
}

// EdgeRef is a typed, directed edge between two objects (§6 incoming/
// outgoing).
type EdgeRef struct {
	ID   ObjectID
	From ObjectID
	To   ObjectID
	Kind EdgeKind
}

// Frame is the narrow read interface the compiler consumes (§6): a validated
// graph/frame store supplying nodes and edges. The core never mutates it and
// never persists it; construction, validation and storage are all out of
// scope (§1).
type Frame interface {
	// Filter returns every object of the given kind, in no particular order.
	Filter(kind ObjectKind) []ObjectID
	// FilterTrait returns every object carrying the given trait.
	FilterTrait(trait Trait) []ObjectID
	// Incoming returns edges of kind directed into id.
	Incoming(id ObjectID, kind EdgeKind) []EdgeRef
	// Outgoing returns edges of kind directed out of id.
	Outgoing(id ObjectID, kind EdgeKind) []EdgeRef
	// Attribute reads a typed attribute off id, reporting absence via ok.
	Attribute(id ObjectID, name string) (Variant, bool)
}

// MemoryFrame is an in-memory reference ValidatedFrame, used by tests and
// the package example to construct a model without a real frame store
// (which is an explicit external collaborator / non-goal, §1).
type MemoryFrame struct {
	kinds  map[ObjectID]ObjectKind
	traits map[ObjectID]map[Trait]bool
	attrs  map[ObjectID]map[string]Variant
	edges  []EdgeRef
}

// NewMemoryFrame builds an empty MemoryFrame.
func NewMemoryFrame() *MemoryFrame {
	return &MemoryFrame{
		kinds:  make(map[ObjectID]ObjectKind),
		traits: make(map[ObjectID]map[Trait]bool),
		attrs:  make(map[ObjectID]map[string]Variant),
	}
}

// AddObject registers id as an object of kind.
func (m *MemoryFrame) AddObject(id ObjectID, kind ObjectKind) {
	m.kinds[id] = kind
	if _, ok := m.traits[id]; !ok {
		m.traits[id] = make(map[Trait]bool)
	}
}

// AddTrait marks id as carrying trait. Adding GraphicalFunction, Delay or
// Smooth also marks id Auxiliary, since every node carrying one of those is
// a derived quantity.
func (m *MemoryFrame) AddTrait(id ObjectID, trait Trait) {
	if _, ok := m.traits[id]; !ok {
		m.traits[id] = make(map[Trait]bool)
	}
	m.traits[id][trait] = true
	switch trait {
	case TraitGraphicalFunction, TraitDelay, TraitSmooth:
		m.traits[id][TraitAuxiliary] = true
	}
}

// SetAttribute sets a typed attribute on id.
func (m *MemoryFrame) SetAttribute(id ObjectID, name string, value Variant) {
	if _, ok := m.attrs[id]; !ok {
		m.attrs[id] = make(map[string]Variant)
	}
	m.attrs[id][name] = value
}

// AddEdge connects from -> to with the given kind, returning the new edge's
// ID.
func (m *MemoryFrame) AddEdge(kind EdgeKind, from, to ObjectID) ObjectID {
	id := NewObjectID()
	m.edges = append(m.edges, EdgeRef{ID: id, From: from, To: to, Kind: kind})
	return id
}

// Filter implements Frame.
func (m *MemoryFrame) Filter(kind ObjectKind) []ObjectID {
	var out []ObjectID
	for id, k := range m.kinds {
		if k == kind {
			out = append(out, id)
		}
	}
	sortIDs(out)
	return out
}

// FilterTrait implements Frame.
func (m *MemoryFrame) FilterTrait(trait Trait) []ObjectID {
	var out []ObjectID
	for id, ts := range m.traits {
		if ts[trait] {
			out = append(out, id)
		}
	}
	sortIDs(out)
	return out
}

// Incoming implements Frame.
func (m *MemoryFrame) Incoming(id ObjectID, kind EdgeKind) []EdgeRef {
	var out []EdgeRef
	for _, e := range m.edges {
		if e.Kind == kind && e.To == id {
			out = append(out, e)
		}
	}
	return out
}

// Outgoing implements Frame.
func (m *MemoryFrame) Outgoing(id ObjectID, kind EdgeKind) []EdgeRef {
	var out []EdgeRef
	for _, e := range m.edges {
		if e.Kind == kind && e.From == id {
			out = append(out, e)
		}
	}
	return out
}

// Attribute implements Frame.
func (m *MemoryFrame) Attribute(id ObjectID, name string) (Variant, bool) {
	byName, ok := m.attrs[id]
	if !ok {
		return Variant{}, false
	}
	v, ok := byName[name]
	return v, ok
}

func sortIDs(ids []ObjectID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
}
