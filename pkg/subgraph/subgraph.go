// Package subgraph extracts induced subgraphs from a graphstore.Graph while
// preserving original-id identity, grounded on
// original_source/lib/algorithms/kcore.h::create_subgraph.
package subgraph

import "github.com/gilchrisn/ikc-clustering/pkg/graphstore"

// Extract builds the induced subgraph of g on the vertex subset selection
// (an ordered list of internal ids in g). Vertex i of the result corresponds
// to selection[i] in g, and result.IDMap[i] == g.IDMap[selection[i]].
func Extract(g *graphstore.Graph, selection []int) *graphstore.Graph {
	h := graphstore.New()
	if len(selection) == 0 {
		return h
	}

	oldToNew := make(map[int]int, len(selection))
	h.NumNodes = len(selection)
	h.IDMap = make([]uint64, len(selection))
	h.RowPtr = make([]int, len(selection)+1)
	h.NodeMap = make(map[uint64]int, len(selection))

	for i, old := range selection {
		oldToNew[old] = i
		orig := g.OrigOf(old)
		h.IDMap[i] = orig
		h.NodeMap[orig] = i
	}

	edgeCounts := make([]int, len(selection))
	for i, old := range selection {
		for _, w := range g.Neighbors(old) {
			if _, ok := oldToNew[w]; ok {
				edgeCounts[i]++
			}
		}
	}

	for i := 0; i < len(selection); i++ {
		h.RowPtr[i+1] = h.RowPtr[i] + edgeCounts[i]
	}

	h.ColIdx = make([]int, h.RowPtr[len(selection)])
	cursor := append([]int(nil), h.RowPtr[:len(selection)]...)
	for i, old := range selection {
		for _, w := range g.Neighbors(old) {
			if newW, ok := oldToNew[w]; ok {
				h.ColIdx[cursor[i]] = newW
				cursor[i]++
			}
		}
	}

	h.NumEdges = len(h.ColIdx) / 2
	return h
}

// RemoveAndCompact returns a new graph with the given internal ids removed
// and indices compacted, preserving the id map for surviving vertices.
func RemoveAndCompact(g *graphstore.Graph, toRemove map[int]struct{}) *graphstore.Graph {
	remaining := make([]int, 0, g.NumNodes-len(toRemove))
	for v := 0; v < g.NumNodes; v++ {
		if _, gone := toRemove[v]; !gone {
			remaining = append(remaining, v)
		}
	}
	return Extract(g, remaining)
}
