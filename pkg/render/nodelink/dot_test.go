package nodelink

import (
	"strings"
	"testing"

	"github.com/causemap/causemap/pkg/dag"
	"github.com/causemap/causemap/pkg/synth"
)

func testGraph(t *testing.T) *dag.DAG {
	t.Helper()
	g, err := synth.Synthesize(6, 2, 123)
	if err != nil {
		t.Fatalf("Synthesize error: %v", err)
	}
	return g
}

func TestToDOTStructure(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{})

	for _, want := range []string{
		"digraph servicemap {",
		"rankdir=LR;",
		`"A" -> "B";`,
		`"C" -> "E";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTRanksPerLayer(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{})

	// Layer 4 holds E and F; they must share a rank group.
	if !strings.Contains(dot, `{ rank=same; "E"; "F"; }`) {
		t.Errorf("DOT missing shared rank for E and F:\n%s", dot)
	}
	if got := strings.Count(dot, "rank=same"); got != 5 {
		t.Errorf("rank groups = %d, want 5 (one per layer)", got)
	}
}

func TestToDOTIssueHighlight(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{IssueNodes: []string{"C", "F"}})

	if !strings.Contains(dot, `"C" [label="C", fillcolor="lightcoral"];`) {
		t.Errorf("issue node C not highlighted:\n%s", dot)
	}
	if !strings.Contains(dot, `"A" [label="A", fillcolor="lightblue"];`) {
		t.Errorf("healthy node A wrongly styled:\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{Detailed: true})

	if !strings.Contains(dot, `label="D\nL3"`) {
		t.Errorf("detailed label missing layer index:\n%s", dot)
	}
}

func TestToDOTDeterministic(t *testing.T) {
	g := testGraph(t)
	if ToDOT(g, Options{}) != ToDOT(g, Options{}) {
		t.Error("ToDOT output varies between calls")
	}
}
