// Package components finds connected components of a graph snapshot via
// BFS, grounded on original_source/lib/algorithms/connected_components.h.
package components

import "github.com/gilchrisn/ikc-clustering/pkg/graphstore"

// Find returns the connected components of g as slices of internal ids.
// Components are emitted in order of first-reachable internal id (BFS
// starting-vertex enumeration order 0..N), so callers can rely on
// deterministic ordering within one snapshot.
func Find(g *graphstore.Graph) [][]int {
	n := g.NumNodes
	if n == 0 {
		return nil
	}

	visited := make([]bool, n)
	var result [][]int

	queue := make([]int, 0, n)
	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		component := []int{}
		queue = queue[:0]
		queue = append(queue, start)
		visited[start] = true

		for head := 0; head < len(queue); head++ {
			node := queue[head]
			component = append(component, node)
			for _, w := range g.Neighbors(node) {
				if !visited[w] {
					visited[w] = true
					queue = append(queue, w)
				}
			}
		}

		result = append(result, component)
	}

	return result
}
