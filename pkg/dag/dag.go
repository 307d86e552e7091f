package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] when the node ID is empty.
	// All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [DAG.AddEdge] when the From node
	// does not exist in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [DAG.AddEdge] when the To node
	// does not exist in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfLoop is returned by [DAG.AddEdge] when From and To are the
	// same node. A service cannot depend on itself.
	ErrSelfLoop = errors.New("self-loop edge")

	// ErrInvalidEdgeEndpoint is returned by [DAG.Validate] when an edge
	// references a node that doesn't exist. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrLayerOrder is returned by [DAG.ValidateLayering] when an edge does
	// not go from a strictly lower layer to a strictly higher layer.
	ErrLayerOrder = errors.New("edge must go from a lower layer to a higher layer")

	// ErrGraphHasCycle is returned by [DAG.Validate] when a cycle is detected.
	// This indicates the graph is not a valid DAG. Cycles are detected using
	// depth-first search with white/gray/black coloring.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// Metadata stores arbitrary key-value pairs attached to nodes or the graph.
// It is commonly used to record synthesis parameters (node count, depth, seed)
// so serialized graphs are self-describing. Metadata maps are never nil -
// they are automatically initialized to empty maps when needed.
type Metadata map[string]any

// Node represents a service in the dependency map.
//
// The zero value is not usable - ID must be set before adding to a DAG.
// Layer is assigned after all edges exist (see [AssignLayers]) and is used
// only for rendering.
type Node struct {
	ID    string   // Unique label (also used as display label)
	Layer int      // Topological generation (0 = source tier, increasing downstream)
	Meta  Metadata // Arbitrary key-value metadata (never nil after AddNode)
}

// Edge represents a directed dependency between two services.
// The edge points from the upstream service (From) to the downstream
// service that depends on it (To).
type Edge struct {
	From string // Source node ID
	To   string // Target node ID
}

// DAG is a directed acyclic graph modeling a service dependency map.
// Nodes keep their insertion order, which callers rely on for deterministic
// traversal and stable analysis results.
//
// The zero value is not usable - use New to create a valid DAG instance.
// DAG is not safe for concurrent use without external synchronization.
// Once built, a DAG is treated as immutable by the analyzer and renderer.
type DAG struct {
	nodes    map[string]*Node
	order    []string // node IDs in insertion order
	edges    []Edge
	edgeSet  map[Edge]struct{}
	outgoing map[string][]string // nodeID -> children IDs, in edge insertion order
	incoming map[string][]string // nodeID -> parent IDs, in edge insertion order
	layers   map[int][]*Node     // layer -> nodes in that layer
	meta     Metadata
}

// New creates an empty DAG with optional graph-level metadata.
// The metadata parameter can be nil, in which case an empty map is created.
func New(meta Metadata) *DAG {
	if meta == nil {
		meta = Metadata{}
	}
	return &DAG{
		nodes:    make(map[string]*Node),
		edgeSet:  make(map[Edge]struct{}),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
		layers:   make(map[int][]*Node),
		meta:     meta,
	}
}

// Meta returns the graph-level metadata map.
// The returned map is never nil and can be safely modified.
func (d *DAG) Meta() Metadata { return d.meta }

// AddNode adds a node to the graph and indexes it by its Layer.
// Returns ErrInvalidNodeID if the node ID is empty, or ErrDuplicateNodeID
// if a node with the same ID already exists. The node's Meta field is
// automatically initialized to an empty map if nil.
func (d *DAG) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	node := &n
	d.nodes[node.ID] = node
	d.order = append(d.order, node.ID)
	d.layers[node.Layer] = append(d.layers[node.Layer], node)
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode if the From node doesn't exist,
// ErrUnknownTargetNode if the To node doesn't exist, or ErrSelfLoop if
// both endpoints are the same node.
//
// Adding an edge that already exists is a no-op. This idempotency matters
// during synthesis, where the density pass may redraw a backbone edge.
func (d *DAG) AddEdge(e Edge) error {
	if _, ok := d.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := d.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if e.From == e.To {
		return ErrSelfLoop
	}
	if _, dup := d.edgeSet[e]; dup {
		return nil
	}
	d.edgeSet[e] = struct{}{}
	d.edges = append(d.edges, e)
	d.outgoing[e.From] = append(d.outgoing[e.From], e.To)
	d.incoming[e.To] = append(d.incoming[e.To], e.From)
	return nil
}

// HasEdge reports whether the edge from→to exists.
func (d *DAG) HasEdge(from, to string) bool {
	_, ok := d.edgeSet[Edge{From: from, To: to}]
	return ok
}

// SetLayers updates the layer assignments for nodes and rebuilds the layer
// index. Nodes not present in the layers map retain their current assignment.
// This is typically called by [AssignLayers] after the edge set is complete.
//
// The layer index (used by NodesInLayer) is completely rebuilt, so this
// operation is O(N) where N is the total number of nodes.
func (d *DAG) SetLayers(layers map[string]int) {
	d.layers = make(map[int][]*Node)
	for _, id := range d.order {
		n := d.nodes[id]
		if layer, ok := layers[n.ID]; ok {
			n.Layer = layer
		}
		d.layers[n.Layer] = append(d.layers[n.Layer], n)
	}
}

// Nodes returns all nodes in insertion order.
// The returned slice contains pointers to the actual node structs, so
// modifications affect the graph.
func (d *DAG) Nodes() []*Node {
	nodes := make([]*Node, 0, len(d.order))
	for _, id := range d.order {
		nodes = append(nodes, d.nodes[id])
	}
	return nodes
}

// Labels returns all node IDs in insertion order.
func (d *DAG) Labels() []string { return slices.Clone(d.order) }

// Edges returns a copy of all edges in the graph.
// The order matches insertion order.
func (d *DAG) Edges() []Edge { return slices.Clone(d.edges) }

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// Children returns the IDs of nodes that this node has edges to
// (downstream dependents). Returns nil if the node has no children or
// doesn't exist. The returned slice should not be modified.
func (d *DAG) Children(id string) []string { return d.outgoing[id] }

// Parents returns the IDs of nodes that have edges to this node
// (upstream dependencies). Returns nil if the node has no parents or
// doesn't exist. The returned slice should not be modified.
func (d *DAG) Parents(id string) []string { return d.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
// Returns 0 if the node doesn't exist.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
// Returns 0 if the node doesn't exist.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// Node returns the node with the given ID and true, or nil and false if
// not found. The returned pointer refers to the actual node in the graph.
func (d *DAG) Node(id string) (*Node, bool) {
	n, ok := d.nodes[id]
	return n, ok
}

// HasNode reports whether a node with the given ID exists.
func (d *DAG) HasNode(id string) bool {
	_, ok := d.nodes[id]
	return ok
}

// NodesInLayer returns all nodes assigned to the given layer.
// Returns nil if the layer is empty. The order follows node insertion order.
func (d *DAG) NodesInLayer(layer int) []*Node { return d.layers[layer] }

// LayerCount returns the number of distinct layers in the graph.
// Returns 0 for an empty graph.
func (d *DAG) LayerCount() int { return len(d.layers) }

// LayerIDs returns all layer indices in sorted ascending order.
// Returns an empty slice for an empty graph.
func (d *DAG) LayerIDs() []int {
	return slices.Sorted(maps.Keys(d.layers))
}

// MaxLayer returns the highest layer index, or 0 if the graph is empty.
func (d *DAG) MaxLayer() int {
	if len(d.layers) == 0 {
		return 0
	}
	ids := d.LayerIDs()
	return ids[len(ids)-1]
}

// Sources returns nodes with no incoming edges (entry points of the map),
// in insertion order. Returns nil for an empty graph.
func (d *DAG) Sources() []*Node {
	var sources []*Node
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			sources = append(sources, d.nodes[id])
		}
	}
	return sources
}

// Sinks returns nodes with no outgoing edges (terminal services), in
// insertion order. Returns nil for an empty graph.
func (d *DAG) Sinks() []*Node {
	var sinks []*Node
	for _, id := range d.order {
		if len(d.outgoing[id]) == 0 {
			sinks = append(sinks, d.nodes[id])
		}
	}
	return sinks
}

// Validate checks graph integrity and returns nil if valid.
// It verifies that all edges connect existing nodes and that the graph is
// acyclic. Returns ErrInvalidEdgeEndpoint if an edge references a missing
// node, or ErrGraphHasCycle if a cycle is detected.
//
// Cycle detection runs in O(N+E) time using depth-first search.
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		if _, ok := d.nodes[e.From]; !ok {
			return ErrInvalidEdgeEndpoint
		}
		if _, ok := d.nodes[e.To]; !ok {
			return ErrInvalidEdgeEndpoint
		}
	}
	return d.detectCycles()
}

// ValidateLayering checks that every edge goes from a strictly lower layer
// to a strictly higher layer. Call after [AssignLayers]; a freshly built
// graph with default zero layers will fail this check.
func (d *DAG) ValidateLayering() error {
	for _, e := range d.edges {
		src, okS := d.nodes[e.From]
		dst, okD := d.nodes[e.To]
		if !okS || !okD {
			return ErrInvalidEdgeEndpoint
		}
		if src.Layer >= dst.Layer {
			return ErrLayerOrder
		}
	}
	return nil
}

func (d *DAG) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int, len(d.nodes))
	var hasCycle bool

	var dfs func(id string)
	dfs = func(id string) {
		color[id] = gray
		for _, child := range d.outgoing[id] {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for _, id := range d.order {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrGraphHasCycle
			}
		}
	}
	return nil
}
