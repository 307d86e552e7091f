// Package rootcause ranks likely root causes of service issues.
//
// Given a dependency map and an ordered list of nodes flagged as unhealthy,
// the analyzer enumerates every simple directed path between flagged-node
// pairs, discards paths that are contained in a later-discovered path, and
// counts how often each node terminates a surviving path. Nodes that
// terminate many surviving paths are the strongest root-cause candidates.
//
// The analysis is a deterministic structural heuristic, not probabilistic
// inference: the same graph and the same ordered issue list always produce
// the same ranking. The order of the issue list is semantically significant
// and must be preserved end-to-end by callers.
package rootcause

import (
	"cmp"
	"slices"
	"strings"

	"github.com/causemap/causemap/pkg/dag"
	"github.com/causemap/causemap/pkg/errors"
)

// Candidate is a ranked root-cause candidate: a node label and the number
// of surviving paths it terminates.
type Candidate struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Path is a simple directed path through the dependency map, stored as the
// ordered sequence of node labels it visits.
type Path []string

// String returns the concatenation of the path's labels in traversal order.
// Because labels are single characters, the string is a faithful,
// order-preserving encoding of the path usable for containment tests.
func (p Path) String() string { return strings.Join(p, "") }

// Terminal returns the label of the path's final node.
// It operates on the structured label sequence, so it stays correct even
// for label alphabets longer than one character.
func (p Path) Terminal() string { return p[len(p)-1] }

// Analyze computes ranked root-cause candidates for the given ordered list
// of issue nodes. It is a pure function of its inputs: the graph is read
// but never mutated, and no internal randomness is involved.
//
// Candidates are sorted by count descending; nodes with equal counts retain
// the order in which they were first seen while scanning surviving paths.
//
// Fewer than two issue nodes, flagged nodes in mutually unreachable parts
// of the graph, and an empty survivor set all yield an empty result with a
// nil error: they communicate "no inferable root cause", not a failure.
//
// Returns an INVALID_INPUT error if an issue label does not exist in the
// graph, or if the graph violates the acyclicity precondition.
func Analyze(g *dag.DAG, issueNodes []string) ([]Candidate, error) {
	for _, label := range issueNodes {
		if !g.HasNode(label) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "issue node %q does not exist in graph", label)
		}
	}
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "graph precondition violated")
	}
	if len(issueNodes) < 2 {
		return nil, nil
	}

	paths := collectPaths(g, issueNodes)
	survivors := filterContained(paths)
	return rank(survivors), nil
}

// collectPaths enumerates every simple directed path between ordered pairs
// of issue nodes. Only pairs (i, j) with i < j in the caller-supplied order
// are considered; pairs are never symmetrized, so a pair whose natural path
// direction runs opposite to the list order contributes nothing. Pairs with
// no connecting path are silently skipped, as are pairs where the same
// label was flagged twice - a node is never a path to itself.
//
// Discovery order is preserved: outer loop over i, inner over j, innermost
// over the DFS enumeration for that pair.
func collectPaths(g *dag.DAG, issueNodes []string) []Path {
	var all []Path
	for i, start := range issueNodes {
		for _, end := range issueNodes[i+1:] {
			if start == end {
				continue
			}
			all = append(all, simplePaths(g, start, end)...)
		}
	}
	return all
}

// simplePaths returns every simple directed path from one node to another,
// in depth-first order following each node's child adjacency order. The
// graph is acyclic, so paths cannot revisit a node and enumeration always
// terminates; dense maps can still hold combinatorially many paths, which
// is accepted because graphs are bounded by the label alphabet.
func simplePaths(g *dag.DAG, from, to string) []Path {
	var paths []Path
	var walk func(id string, trail Path)
	walk = func(id string, trail Path) {
		trail = append(trail, id)
		if id == to {
			paths = append(paths, slices.Clone(trail))
			return
		}
		for _, child := range g.Children(id) {
			walk(child, trail)
		}
	}
	walk(from, nil)
	return paths
}

// filterContained applies the order-sensitive containment filter:
// path k survives iff no later-discovered path contains it as a substring.
//
// This is deliberately asymmetric. Each path is compared only against paths
// that come after it in discovery order - a path is never discarded because
// an earlier path contains it. A symmetric "substring of any other path"
// test is not equivalent and must not be substituted.
func filterContained(paths []Path) []Path {
	if len(paths) == 1 {
		return paths
	}

	encoded := make([]string, len(paths))
	for i, p := range paths {
		encoded[i] = p.String()
	}

	var survivors []Path
	for k, p := range paths {
		contained := false
		for _, later := range encoded[k+1:] {
			if strings.Contains(later, encoded[k]) {
				contained = true
				break
			}
		}
		if !contained {
			survivors = append(survivors, p)
		}
	}
	return survivors
}

// rank counts the terminal node of each surviving path and sorts the
// resulting candidates by count descending. The sort is stable, so nodes
// with equal counts keep their first-seen relative order.
func rank(survivors []Path) []Candidate {
	counts := make(map[string]int)
	var order []string
	for _, p := range survivors {
		terminal := p.Terminal()
		if _, seen := counts[terminal]; !seen {
			order = append(order, terminal)
		}
		counts[terminal]++
	}

	candidates := make([]Candidate, 0, len(order))
	for _, label := range order {
		candidates = append(candidates, Candidate{Label: label, Count: counts[label]})
	}
	slices.SortStableFunc(candidates, func(a, b Candidate) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return candidates
}
