// Package graph provides the canonical serialization format for service
// dependency maps.
//
// # Overview
//
// The in-memory [dag.DAG] is optimized for traversal; this package defines
// the flat [Document] used everywhere a graph crosses a process boundary:
// session stores, API payloads, and graph.json files written by the CLI.
//
// # Round-Trip Fidelity
//
// [FromDAG] and [ToDAG] are inverses for valid graphs. Nodes and edges are
// emitted in graph insertion order, so serializing the same graph twice
// yields byte-identical JSON. [ToDAG] re-validates structure on import:
// unknown edge endpoints, cycles, and layer assignments that contradict
// edge direction are rejected rather than silently accepted.
//
// # Parameters
//
// Every document carries the synthesis parameters ([Params]) of its graph,
// so a stored map can always be regenerated from its seed.
//
// [dag.DAG]: github.com/causemap/causemap/pkg/dag
package graph
