// Package dag provides the directed acyclic graph at the heart of causemap's
// service dependency maps.
//
// # Overview
//
// Causemap models a service landscape as a DAG: nodes are services, edges
// point from a service to the services that depend on it. This package
// provides the core data structure, organized into topological layers
// (generations) for layered rendering.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges
// with [DAG.AddEdge]. Node IDs must be unique, edges must connect existing
// nodes, and adding an edge twice is a no-op:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "A"})
//	g.AddNode(dag.Node{ID: "B"})
//	g.AddEdge(dag.Edge{From: "A", To: "B"})
//
// Query the structure with [DAG.Children], [DAG.Parents], [DAG.NodesInLayer],
// and related methods. Use [DAG.Validate] to verify acyclicity before
// analysis or rendering.
//
// # Layers
//
// [AssignLayers] computes topological generations via Kahn-style leveling:
// a node's layer is the length of the longest path reaching it from any
// source. Layers drive the left-to-right layered rendering and are not used
// by the root-cause analyzer. [DAG.ValidateLayering] checks the invariant
// that every edge crosses from a lower layer to a strictly higher one.
//
// # Ordering
//
// Nodes and edges are kept in insertion order and all traversal methods are
// deterministic. The synthesizer and analyzer both rely on this: identical
// inputs produce identical graphs, path enumerations, and rankings.
//
// # Concurrency
//
// DAG instances are not safe for concurrent mutation. Once synthesis
// completes, the graph is treated as immutable and may be read from
// multiple goroutines.
package dag
