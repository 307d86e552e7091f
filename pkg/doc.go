// Package pkg provides the core libraries for Causemap service-map synthesis
// and root-cause analysis.
//
// # Overview
//
// Causemap generates randomized service dependency maps shaped like real
// microservice topologies and, given a set of services currently showing
// issues, ranks which of them is the likeliest root cause. The pkg directory
// is organized into five main areas:
//
//  1. [dag] - Layered directed acyclic graph structure and validation
//  2. [synth] - Deterministic dependency-map synthesis
//  3. [rootcause] - Path enumeration and root-cause ranking
//  4. [render] - Diagram rendering (Graphviz DOT, SVG, PNG)
//  5. [session] / [cache] - Persistence backends and render-artifact caching
//
// # Architecture
//
// The typical data flow through Causemap:
//
//	seed + parameters
//	         ↓
//	    [synth] package (backbone + extra edges + layering)
//	         ↓
//	    [dag] package (graph structure + validation)
//	         ↓
//	    [rootcause] package (path tracing + candidate ranking)
//	         ↓
//	    [render/nodelink] package (DOT/SVG/PNG diagrams)
//
// # Quick Start
//
// Synthesize a map and rank root causes:
//
//	import (
//	    "github.com/causemap/causemap/pkg/rootcause"
//	    "github.com/causemap/causemap/pkg/synth"
//	)
//
//	// 1. Synthesize a deterministic dependency map
//	g, _ := synth.Synthesize(12, 3, 42)
//
//	// 2. Rank root causes for the services showing issues
//	candidates, _ := rootcause.Analyze(g, []string{"C", "F", "H"})
//	for _, c := range candidates {
//	    fmt.Printf("%s: %d paths\n", c.Label, c.Count)
//	}
//
// # Main Packages
//
// [dag] - Directed acyclic graph with string-labeled nodes, insertion-ordered
// adjacency, longest-path layer assignment, and cycle detection.
//
// [synth] - Seeded random synthesis of connected layered DAGs. The same
// parameters always produce the same graph.
//
// [rootcause] - Enumerates simple paths between issue nodes in selection
// order, discards paths contained in later paths, and ranks path endpoints
// by how often they terminate a surviving path.
//
// [render/nodelink] - Left-to-right Graphviz diagrams with one column per
// layer and issue nodes highlighted.
//
// [graph] - JSON serialization types for maps and their sessions.
//
// [session] - Session persistence with memory, file, Redis, and MongoDB
// backends behind a single Store interface.
//
// [cache] - Render-artifact cache keyed by graph content, highlighted
// issues, and output format.
//
// [pipeline] - Complete generate → analyze → render pipeline shared by the
// CLI and the HTTP API.
//
// [errors] - Structured error codes surfaced consistently across the CLI
// and API.
//
// [observability] - Hook points for metrics instrumentation.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/synth/...    # Specific package
//	go test -run Example       # Examples only
//	go test -short ./pkg/...   # Skip property-based tests
//
// [dag]: https://pkg.go.dev/github.com/causemap/causemap/pkg/dag
// [synth]: https://pkg.go.dev/github.com/causemap/causemap/pkg/synth
// [rootcause]: https://pkg.go.dev/github.com/causemap/causemap/pkg/rootcause
// [render]: https://pkg.go.dev/github.com/causemap/causemap/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/causemap/causemap/pkg/render/nodelink
// [graph]: https://pkg.go.dev/github.com/causemap/causemap/pkg/graph
// [session]: https://pkg.go.dev/github.com/causemap/causemap/pkg/session
// [cache]: https://pkg.go.dev/github.com/causemap/causemap/pkg/cache
// [pipeline]: https://pkg.go.dev/github.com/causemap/causemap/pkg/pipeline
// [errors]: https://pkg.go.dev/github.com/causemap/causemap/pkg/errors
// [observability]: https://pkg.go.dev/github.com/causemap/causemap/pkg/observability
package pkg
