package synth

import (
	"strings"
	"testing"

	"github.com/causemap/causemap/pkg/dag"
	"github.com/causemap/causemap/pkg/errors"
)

func TestSynthesizeValidation(t *testing.T) {
	tests := []struct {
		name  string
		nodes int
		depth int
	}{
		{"too few nodes", 1, 2},
		{"zero nodes", 0, 2},
		{"negative nodes", -3, 2},
		{"too many nodes", 27, 2},
		{"zero depth", 10, 0},
		{"negative depth", 10, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Synthesize(tt.nodes, tt.depth, 1)
			if !errors.Is(err, errors.ErrCodeInvalidParameter) {
				t.Errorf("Synthesize(%d, %d) error = %v, want INVALID_PARAMETER", tt.nodes, tt.depth, err)
			}
		})
	}
}

func TestSynthesizeGolden(t *testing.T) {
	g, err := Synthesize(6, 2, 123)
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}

	wantEdges := []dag.Edge{
		{From: "A", To: "B"},
		{From: "B", To: "C"},
		{From: "C", To: "D"},
		{From: "D", To: "E"},
		{From: "D", To: "F"},
		{From: "A", To: "C"},
		{From: "C", To: "E"},
	}
	gotEdges := g.Edges()
	if len(gotEdges) != len(wantEdges) {
		t.Fatalf("edges = %v, want %v", gotEdges, wantEdges)
	}
	for i, want := range wantEdges {
		if gotEdges[i] != want {
			t.Errorf("edge[%d] = %v, want %v", i, gotEdges[i], want)
		}
	}

	wantLayers := map[string]int{"A": 0, "B": 1, "C": 2, "D": 3, "E": 4, "F": 4}
	for id, layer := range wantLayers {
		n, ok := g.Node(id)
		if !ok {
			t.Fatalf("node %s missing", id)
		}
		if n.Layer != layer {
			t.Errorf("layer(%s) = %d, want %d", id, n.Layer, layer)
		}
	}
}

func TestSynthesizeDeterminism(t *testing.T) {
	a, err := Synthesize(12, 3, 99)
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}
	b, err := Synthesize(12, 3, 99)
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}

	edgesA, edgesB := a.Edges(), b.Edges()
	if len(edgesA) != len(edgesB) {
		t.Fatalf("edge counts differ: %d vs %d", len(edgesA), len(edgesB))
	}
	for i := range edgesA {
		if edgesA[i] != edgesB[i] {
			t.Fatalf("edge[%d] differs: %v vs %v", i, edgesA[i], edgesB[i])
		}
	}
}

func TestSynthesizeSeedsDiffer(t *testing.T) {
	a, _ := Synthesize(15, 2, 1)
	b, _ := Synthesize(15, 2, 2)

	edgesA, edgesB := a.Edges(), b.Edges()
	if len(edgesA) == len(edgesB) {
		same := true
		for i := range edgesA {
			if edgesA[i] != edgesB[i] {
				same = false
				break
			}
		}
		if same {
			t.Error("different seeds produced identical edge lists")
		}
	}
}

func TestSynthesizeConnected(t *testing.T) {
	// Every node except the first has at least one parent, so the backbone
	// alone connects the graph.
	g, err := Synthesize(20, 2, 7)
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}
	labels := g.Labels()
	for _, id := range labels[1:] {
		if g.InDegree(id) < 1 {
			t.Errorf("node %s has no parent", id)
		}
	}
	if g.InDegree(labels[0]) != 0 {
		t.Errorf("first node %s has a parent", labels[0])
	}
}

func TestSynthesizeEdgeSpan(t *testing.T) {
	const depth = 3
	g, err := Synthesize(26, depth, 11)
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}
	for _, e := range g.Edges() {
		from := strings.IndexByte(Alphabet, e.From[0])
		to := strings.IndexByte(Alphabet, e.To[0])
		if from >= to {
			t.Errorf("edge %v goes backward", e)
		}
		if to-from > depth {
			t.Errorf("edge %v spans %d, want at most %d", e, to-from, depth)
		}
	}
}

func TestSynthesizeDepthClamps(t *testing.T) {
	// A depth beyond nodeCount-1 behaves like nodeCount-1.
	a, err := Synthesize(5, 4, 31)
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}
	b, err := Synthesize(5, 100, 31)
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}

	edgesA, edgesB := a.Edges(), b.Edges()
	if len(edgesA) != len(edgesB) {
		t.Fatalf("edge counts differ: %d vs %d", len(edgesA), len(edgesB))
	}
	for i := range edgesA {
		if edgesA[i] != edgesB[i] {
			t.Fatalf("edge[%d] differs: %v vs %v", i, edgesA[i], edgesB[i])
		}
	}
}

func TestSynthesizeMetadata(t *testing.T) {
	g, err := Synthesize(6, 2, 123)
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}
	meta := g.Meta()
	if meta[MetaNodes] != 6 || meta[MetaDepth] != 2 || meta[MetaSeed] != uint64(123) {
		t.Errorf("meta = %v, want nodes=6 depth=2 seed=123", meta)
	}
}

func TestSynthesizeValidGraph(t *testing.T) {
	g, err := Synthesize(26, 5, 1234)
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := g.ValidateLayering(); err != nil {
		t.Errorf("ValidateLayering() error = %v", err)
	}
}
