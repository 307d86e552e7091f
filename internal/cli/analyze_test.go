package cli

import (
	"slices"
	"strings"
	"testing"

	"github.com/causemap/causemap/pkg/rootcause"
)

func TestNormalizeLabels(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"lowercase", []string{"a", "b"}, []string{"A", "B"}},
		{"mixed", []string{" c", "E "}, []string{"C", "E"}},
		{"already normal", []string{"A"}, []string{"A"}},
		{"empty", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeLabels(tt.in)
			if !slices.Equal(got, tt.want) {
				t.Errorf("normalizeLabels(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCandidateTable(t *testing.T) {
	out := candidateTable([]rootcause.Candidate{
		{Label: "E", Count: 5},
		{Label: "F", Count: 3},
	})

	for _, want := range []string{"Service", "Paths", "E", "F", "5", "3"} {
		if !strings.Contains(out, want) {
			t.Errorf("table should contain %q:\n%s", want, out)
		}
	}

	// Rank column reflects position, first candidate on top.
	if strings.Index(out, "E") > strings.Index(out, "F") {
		t.Error("top-ranked candidate should render first")
	}
}
