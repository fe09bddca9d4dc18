// Package increment maintains per-vertex core numbers incrementally as
// edges are added to a graph, avoiding a full re-decomposition. Grounded on
// original_source/lib/algorithms/streaming_ikc.h::update_core_numbers_incremental,
// itself citing Sariyuce et al. (2013)'s promotion-only maintenance
// algorithm: edge insertion can only raise a vertex's core number, never
// lower it, so only the promotion half of the general maintenance problem
// is needed here.
package increment

import (
	"container/heap"

	"github.com/gilchrisn/ikc-clustering/pkg/graphstore"
)

type pqItem struct {
	core uint32
	node int
}

// priorityQueue is a min-heap over core number, the scheduling order the
// promotion algorithm requires.
type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].core < pq[j].core }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// Update recomputes core numbers affected by newEdges, which must already
// be reflected in g's adjacency (g.Neighbors includes them). coreNumbers is
// indexed by internal id, sized to g.NumNodes, and holds each vertex's core
// number from before newEdges were inserted; it is updated in place.
// maxCore is the core number maximum before the update. Update returns the
// set of promoted internal ids and the (possibly unchanged) new maximum.
func Update(g *graphstore.Graph, coreNumbers []uint32, newEdges []graphstore.Edge, maxCore uint32) (map[int]struct{}, uint32) {
	affected := make(map[int]struct{})
	if len(newEdges) == 0 {
		return affected, maxCore
	}

	var kMax uint32
	for _, e := range newEdges {
		if coreNumbers[e.U] > kMax {
			kMax = coreNumbers[e.U]
		}
		if coreNumbers[e.V] > kMax {
			kMax = coreNumbers[e.V]
		}
	}

	candidates := make(map[int]struct{})
	for _, e := range newEdges {
		if coreNumbers[e.U] >= kMax {
			candidates[e.U] = struct{}{}
		}
		if coreNumbers[e.V] >= kMax {
			candidates[e.V] = struct{}{}
		}
	}

	pq := make(priorityQueue, 0, len(candidates))
	for node := range candidates {
		pq = append(pq, pqItem{core: coreNumbers[node], node: node})
	}
	heap.Init(&pq)

	visited := make(map[int]struct{})

	for pq.Len() > 0 {
		item := heap.Pop(&pq).(pqItem)
		v, kCurrent := item.node, item.core

		if _, done := visited[v]; done {
			continue
		}
		visited[v] = struct{}{}

		neighbors := g.Neighbors(v)
		var neighborsInHigherCore uint32
		for _, w := range neighbors {
			if coreNumbers[w] >= kCurrent+1 {
				neighborsInHigherCore++
			}
		}

		// Promotion condition: degree within the (k+1)-core meets k+1.
		if neighborsInHigherCore >= kCurrent+1 {
			coreNumbers[v] = kCurrent + 1
			affected[v] = struct{}{}
			if coreNumbers[v] > maxCore {
				maxCore = coreNumbers[v]
			}

			for _, w := range neighbors {
				if coreNumbers[w] == kCurrent {
					if _, done := visited[w]; !done {
						heap.Push(&pq, pqItem{core: coreNumbers[w], node: w})
					}
				}
			}
		}
	}

	return affected, maxCore
}
