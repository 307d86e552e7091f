package graph

import (
	"fmt"

	"github.com/causemap/causemap/pkg/dag"
	"github.com/causemap/causemap/pkg/synth"
)

// Document is the canonical serialization format for service dependency
// maps. It is used for API responses, session storage, and file exchange
// between CLI invocations.
//
// The format is human-readable and designed for round-trip fidelity:
// synthesize → export → re-import produces an identical graph.
type Document struct {
	Params Params `json:"params" bson:"params"`
	Nodes  []Node `json:"nodes" bson:"nodes"`
	Edges  []Edge `json:"edges" bson:"edges"`
}

// Params records the synthesis parameters a graph was generated with,
// making every document self-describing and reproducible.
type Params struct {
	Nodes int    `json:"nodes" bson:"nodes"`
	Depth int    `json:"depth" bson:"depth"`
	Seed  uint64 `json:"seed" bson:"seed"`
}

// Node is a serialized service node with its rendering layer.
type Node struct {
	ID    string `json:"id" bson:"id"`
	Layer int    `json:"layer" bson:"layer"`
}

// Edge represents a directed dependency edge.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// FromDAG converts a DAG to its serialization document.
// Nodes and edges appear in graph insertion order, which for synthesized
// graphs is alphabetical label order, so output is deterministic.
func FromDAG(g *dag.DAG) Document {
	doc := Document{
		Params: paramsFromMeta(g.Meta()),
		Nodes:  make([]Node, 0, g.NodeCount()),
		Edges:  make([]Edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, Node{ID: n.ID, Layer: n.Layer})
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, Edge{From: e.From, To: e.To})
	}
	return doc
}

// ToDAG rebuilds a DAG from a serialization document.
// The document is validated structurally: duplicate or empty node IDs,
// edges referencing unknown nodes, cycles, and layer assignments that
// contradict edge direction are all rejected.
func ToDAG(doc Document) (*dag.DAG, error) {
	g := dag.New(dag.Metadata{
		synth.MetaNodes: doc.Params.Nodes,
		synth.MetaDepth: doc.Params.Depth,
		synth.MetaSeed:  doc.Params.Seed,
	})
	for _, n := range doc.Nodes {
		if err := g.AddNode(dag.Node{ID: n.ID, Layer: n.Layer}); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
	}
	for _, e := range doc.Edges {
		if err := g.AddEdge(dag.Edge{From: e.From, To: e.To}); err != nil {
			return nil, fmt.Errorf("edge %s->%s: %w", e.From, e.To, err)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := g.ValidateLayering(); err != nil {
		return nil, err
	}
	return g, nil
}

// paramsFromMeta extracts synthesis parameters from graph metadata.
// Missing or mistyped entries are left at their zero value; documents from
// non-synthesized graphs simply carry zero params.
func paramsFromMeta(meta dag.Metadata) Params {
	var p Params
	if v, ok := meta[synth.MetaNodes].(int); ok {
		p.Nodes = v
	}
	if v, ok := meta[synth.MetaDepth].(int); ok {
		p.Depth = v
	}
	if v, ok := meta[synth.MetaSeed].(uint64); ok {
		p.Seed = v
	}
	return p
}
