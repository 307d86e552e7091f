// Package nodelink renders service dependency maps as node-link diagrams.
//
// # Overview
//
// This package turns a synthesized DAG into a picture: services appear as
// circles connected by arrows, laid out left to right with one Graphviz
// rank per topological layer. Nodes the user flagged as unhealthy are
// filled red so the root-cause context is visible at a glance.
//
// # Usage
//
// Convert a DAG to DOT format, then render:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{IssueNodes: issues})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// [ToDOT] produces plain Graphviz DOT source that can be rendered in
// process via [RenderSVG] and [RenderPNG], or saved and processed with
// external Graphviz tools. The `rank=same` group per layer pins the
// layered structure that [dag.AssignLayers] computed.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which embeds Graphviz via
// WebAssembly; no system Graphviz installation is required.
//
// [dag.AssignLayers]: github.com/causemap/causemap/pkg/dag
package nodelink
