// Package synth generates random layered service dependency maps.
//
// A synthesized graph is always a connected DAG: a backbone pass gives every
// node except the first exactly one parent drawn from a bounded window of
// earlier nodes, and a density pass adds extra forward edges inside the same
// window. Because every edge goes from a lower-index node to a higher-index
// node, acyclicity holds by construction and no cycle-detection pass is
// needed.
//
// Synthesis is deterministic for a fixed seed. The random generator is
// created per call and threaded explicitly; no global random state is
// touched, so concurrent or repeated runs stay isolated.
package synth

import (
	"math/rand/v2"
	"slices"

	"github.com/causemap/causemap/pkg/dag"
	"github.com/causemap/causemap/pkg/errors"
)

// Alphabet is the fixed ordered label alphabet for synthesized nodes.
// Node i is labeled Alphabet[i], which caps usable graphs at 26 nodes.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Parameter bounds for Synthesize.
const (
	MinNodes = 2
	MaxNodes = len(Alphabet)
	MinDepth = 1
)

// Metadata keys recorded on synthesized graphs.
const (
	MetaNodes = "nodes" // node count the graph was generated with
	MetaDepth = "depth" // maximum edge span
	MetaSeed  = "seed"  // random seed
)

// Synthesize builds a random connected DAG with nodeCount labeled nodes.
//
// maxDepth bounds the index span of every edge: node i can only connect to
// nodes within maxDepth positions of it. A maxDepth of nodeCount-1 or more
// behaves identically to nodeCount-1 because windows clamp at the ends of
// the node list.
//
// The result is deterministic for a fixed seed and carries its parameters
// as graph metadata. Layers are assigned before returning, so the graph is
// immediately renderable.
//
// Returns an INVALID_PARAMETER error if nodeCount is outside [2, 26] or
// maxDepth is less than 1.
func Synthesize(nodeCount, maxDepth int, seed uint64) (*dag.DAG, error) {
	if nodeCount < MinNodes {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "node count must be at least %d, got %d", MinNodes, nodeCount)
	}
	if nodeCount > MaxNodes {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "node count must be at most %d, got %d", MaxNodes, nodeCount)
	}
	if maxDepth < MinDepth {
		return nil, errors.New(errors.ErrCodeInvalidParameter, "max depth must be at least %d, got %d", MinDepth, maxDepth)
	}

	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	labels := make([]string, nodeCount)
	g := dag.New(dag.Metadata{
		MetaNodes: nodeCount,
		MetaDepth: maxDepth,
		MetaSeed:  seed,
	})
	for i := 0; i < nodeCount; i++ {
		labels[i] = string(Alphabet[i])
		if err := g.AddNode(dag.Node{ID: labels[i]}); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "add node %s", labels[i])
		}
	}

	addBackbone(g, labels, maxDepth, rng)
	addExtraEdges(g, labels, maxDepth, rng)
	dag.AssignLayers(g)

	return g, nil
}

// addBackbone gives every node except the first one parent chosen uniformly
// from the window of up to maxDepth preceding nodes. This alone makes the
// graph a connected in-tree rooted at the first node's component.
func addBackbone(g *dag.DAG, labels []string, maxDepth int, rng *rand.Rand) {
	for i := 1; i < len(labels); i++ {
		lo := max(0, i-maxDepth)
		parent := labels[lo+rng.IntN(i-lo)]
		// Both endpoints exist and parent index < i, so AddEdge cannot fail.
		_ = g.AddEdge(dag.Edge{From: parent, To: labels[i]})
	}
}

// addExtraEdges adds k forward edges per node, with k drawn uniformly from
// [0, window size] and children sampled without replacement from the window
// of up to maxDepth following nodes. A draw may duplicate a backbone edge;
// AddEdge treats that as a no-op.
func addExtraEdges(g *dag.DAG, labels []string, maxDepth int, rng *rand.Rand) {
	for i := range labels {
		hi := min(len(labels), i+maxDepth+1)
		window := slices.Clone(labels[i+1:hi])

		k := rng.IntN(len(window) + 1)
		for range k {
			j := rng.IntN(len(window))
			_ = g.AddEdge(dag.Edge{From: labels[i], To: window[j]})
			window = slices.Delete(window, j, j+1)
		}
	}
}
