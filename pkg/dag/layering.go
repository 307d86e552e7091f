package dag

// AssignLayers assigns every node to a topological generation based on its
// depth in the graph.
//
// AssignLayers uses a longest-path algorithm via topological sort (Kahn's
// algorithm) to compute layer assignments. Each node is placed at one plus
// the maximum layer of any of its parents, ensuring that:
//   - Source nodes (no incoming edges) are at layer 0
//   - Every edge goes from a strictly lower layer to a strictly higher layer
//   - Each node is pushed as deep as its longest incoming path requires
//
// Existing layer assignments are overwritten. Layers are used only for
// rendering the map; the analyzer never reads them.
//
// AssignLayers assumes the graph is acyclic. If cycles exist, nodes in the
// cycle never reach zero in-degree and remain at layer 0 (their default).
// Run [DAG.Validate] first when the edge set is not trusted.
//
// Time complexity is O(V + E). Space complexity is O(V) for the queue and
// layer/degree maps.
func AssignLayers(g *DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	layers := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if layer := layers[curr] + 1; layer > layers[child] {
				layers[child] = layer
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetLayers(layers)
}
