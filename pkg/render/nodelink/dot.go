package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/causemap/causemap/pkg/dag"
)

// Node fill colors. Issue nodes are flagged red, everything else stays in
// the calm default the original service maps used.
const (
	fillHealthy = "lightblue"
	fillIssue   = "lightcoral"
)

// Options configures node-link diagram rendering.
type Options struct {
	// IssueNodes lists the labels to highlight as unhealthy.
	IssueNodes []string

	// Detailed includes the layer index in node labels.
	// When false, only the node ID is shown.
	Detailed bool
}

// ToDOT converts a service map to Graphviz DOT format.
//
// The diagram flows left to right and every topological layer is pinned to
// its own rank, reproducing the multipartite layout the layer assignment
// was computed for. Nodes listed in opts.IssueNodes are filled red.
//
// The resulting DOT string can be rendered with [RenderSVG] or [RenderPNG],
// or saved for external Graphviz tooling.
func ToDOT(g *dag.DAG, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph servicemap {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fontsize=14, fixedsize=true, width=0.6];\n")
	buf.WriteString("  edge [color=gray, arrowsize=0.8];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(nodeAttrs(*n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, layer := range g.LayerIDs() {
		ids := make([]string, 0)
		for _, n := range g.NodesInLayer(layer) {
			ids = append(ids, fmt.Sprintf("%q;", n.ID))
		}
		fmt.Fprintf(&buf, "  { rank=same; %s }\n", strings.Join(ids, " "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n dag.Node, opts Options) []string {
	label := n.ID
	if opts.Detailed {
		label = fmt.Sprintf("%s\nL%d", n.ID, n.Layer)
	}

	fill := fillHealthy
	if slices.Contains(opts.IssueNodes, n.ID) {
		fill = fillIssue
	}

	return []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("fillcolor=%q", fill),
	}
}

// RenderSVG renders a DOT graph to SVG using in-process Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using in-process Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
