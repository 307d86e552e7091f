package dag

import (
	"errors"
	"reflect"
	"testing"
)

// buildDiamond creates A→B, A→C, B→D, C→D.
func buildDiamond(t *testing.T) *DAG {
	t.Helper()
	g := New(nil)
	for _, id := range []string{"A", "B", "C", "D"} {
		if err := g.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s) error: %v", id, err)
		}
	}
	for _, e := range []Edge{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}} {
		if err := g.AddEdge(e); err != nil {
			t.Fatalf("AddEdge(%v) error: %v", e, err)
		}
	}
	return g
}

func TestAddNode(t *testing.T) {
	g := New(nil)
	if err := g.AddNode(Node{ID: "A"}); err != nil {
		t.Fatalf("AddNode error: %v", err)
	}
	if err := g.AddNode(Node{ID: "A"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate AddNode error = %v, want ErrDuplicateNodeID", err)
	}
	if err := g.AddNode(Node{ID: ""}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("empty AddNode error = %v, want ErrInvalidNodeID", err)
	}
}

func TestAddEdge(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "A"})
	_ = g.AddNode(Node{ID: "B"})

	tests := []struct {
		name string
		edge Edge
		want error
	}{
		{"valid", Edge{"A", "B"}, nil},
		{"duplicate is no-op", Edge{"A", "B"}, nil},
		{"self loop", Edge{"A", "A"}, ErrSelfLoop},
		{"unknown source", Edge{"X", "B"}, ErrUnknownSourceNode},
		{"unknown target", Edge{"A", "X"}, ErrUnknownTargetNode},
		{"empty source is unknown", Edge{"", "B"}, ErrUnknownSourceNode},
		{"empty target is unknown", Edge{"A", ""}, ErrUnknownTargetNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.AddEdge(tt.edge)
			if tt.want == nil && err != nil {
				t.Fatalf("AddEdge(%v) error: %v", tt.edge, err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("AddEdge(%v) error = %v, want %v", tt.edge, err, tt.want)
			}
		})
	}

	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1 (duplicate must not count)", g.EdgeCount())
	}
}

func TestHasEdge(t *testing.T) {
	g := buildDiamond(t)
	if !g.HasEdge("A", "B") {
		t.Error("HasEdge(A, B) = false, want true")
	}
	if g.HasEdge("B", "A") {
		t.Error("HasEdge(B, A) = true, want false")
	}
}

func TestTraversal(t *testing.T) {
	g := buildDiamond(t)

	if got := g.Children("A"); !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Errorf("Children(A) = %v, want [B C]", got)
	}
	if got := g.Parents("D"); !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Errorf("Parents(D) = %v, want [B C]", got)
	}
	if got := g.OutDegree("A"); got != 2 {
		t.Errorf("OutDegree(A) = %d, want 2", got)
	}
	if got := g.InDegree("D"); got != 2 {
		t.Errorf("InDegree(D) = %d, want 2", got)
	}
}

func TestSourcesAndSinks(t *testing.T) {
	g := buildDiamond(t)

	sources := g.Sources()
	if len(sources) != 1 || sources[0].ID != "A" {
		t.Errorf("Sources() = %v, want [A]", sources)
	}
	sinks := g.Sinks()
	if len(sinks) != 1 || sinks[0].ID != "D" {
		t.Errorf("Sinks() = %v, want [D]", sinks)
	}
}

func TestLabelsInsertionOrder(t *testing.T) {
	g := New(nil)
	for _, id := range []string{"C", "A", "B"} {
		_ = g.AddNode(Node{ID: id})
	}
	if got := g.Labels(); !reflect.DeepEqual(got, []string{"C", "A", "B"}) {
		t.Errorf("Labels() = %v, want insertion order [C A B]", got)
	}
}

func TestValidateDetectsCycle(t *testing.T) {
	g := New(nil)
	for _, id := range []string{"A", "B", "C"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{"A", "B"})
	_ = g.AddEdge(Edge{"B", "C"})
	_ = g.AddEdge(Edge{"C", "A"})

	if err := g.Validate(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("Validate() error = %v, want ErrGraphHasCycle", err)
	}
}

func TestValidateAcyclic(t *testing.T) {
	g := buildDiamond(t)
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidateLayering(t *testing.T) {
	g := buildDiamond(t)
	AssignLayers(g)
	if err := g.ValidateLayering(); err != nil {
		t.Fatalf("ValidateLayering() error = %v", err)
	}

	// Force a violation: a child in the same layer as its parent.
	bad := New(nil)
	_ = bad.AddNode(Node{ID: "A", Layer: 1})
	_ = bad.AddNode(Node{ID: "B", Layer: 0})
	_ = bad.AddEdge(Edge{"A", "B"})
	if err := bad.ValidateLayering(); !errors.Is(err, ErrLayerOrder) {
		t.Errorf("ValidateLayering() error = %v, want ErrLayerOrder", err)
	}
}

func TestLayerQueries(t *testing.T) {
	g := buildDiamond(t)
	AssignLayers(g)

	if got := g.MaxLayer(); got != 2 {
		t.Errorf("MaxLayer() = %d, want 2", got)
	}
	if got := g.LayerCount(); got != 3 {
		t.Errorf("LayerCount() = %d, want 3", got)
	}
	middle := g.NodesInLayer(1)
	if len(middle) != 2 {
		t.Fatalf("NodesInLayer(1) = %v, want two nodes", middle)
	}
}

func TestNodeLookup(t *testing.T) {
	g := buildDiamond(t)

	n, ok := g.Node("B")
	if !ok || n.ID != "B" {
		t.Errorf("Node(B) = %v, %v", n, ok)
	}
	if _, ok := g.Node("Z"); ok {
		t.Error("Node(Z) found, want missing")
	}
	if !g.HasNode("C") || g.HasNode("Z") {
		t.Error("HasNode answers wrong")
	}
}
