// Package kcore computes k-core decompositions with the bin-sort peeling
// algorithm, grounded on original_source/lib/algorithms/kcore.h.
package kcore

import "github.com/gilchrisn/ikc-clustering/pkg/graphstore"

// Result is the outcome of a k-core decomposition: a core number per
// internal node id, and the maximum core number observed.
type Result struct {
	Core    []uint32
	MaxCore uint32
}

// Decompose runs the bin-sort peeling algorithm over g. It is
// deterministic given a fixed graph snapshot and bin insertion order;
// running it twice on the same graph yields bitwise-identical core vectors.
func Decompose(g *graphstore.Graph) Result {
	n := g.NumNodes
	result := Result{Core: make([]uint32, n)}
	if n == 0 {
		return result
	}

	degree := make([]int, n)
	maxDegree := 0
	for v := 0; v < n; v++ {
		degree[v] = g.Degree(v)
		if degree[v] > maxDegree {
			maxDegree = degree[v]
		}
	}

	bins := make([][]int, maxDegree+1)
	for v := 0; v < n; v++ {
		bins[degree[v]] = append(bins[degree[v]], v)
	}

	removed := make([]bool, n)
	var maxCore uint32

	for k := 0; k <= maxDegree; k++ {
		for len(bins[k]) > 0 {
			last := len(bins[k]) - 1
			u := bins[k][last]
			bins[k] = bins[k][:last]

			if removed[u] {
				continue
			}
			removed[u] = true
			result.Core[u] = uint32(k)
			if uint32(k) > maxCore {
				maxCore = uint32(k)
			}

			for _, w := range g.Neighbors(u) {
				if !removed[w] && degree[w] > k {
					degree[w]--
					bins[degree[w]] = append(bins[degree[w]], w)
				}
			}
		}
	}

	result.MaxCore = maxCore
	return result
}

// NodesAtLeast returns the internal ids whose core number is >= k, in
// increasing internal-id order.
func (r Result) NodesAtLeast(k uint32) []int {
	var nodes []int
	for v, c := range r.Core {
		if c >= k {
			nodes = append(nodes, v)
		}
	}
	return nodes
}
