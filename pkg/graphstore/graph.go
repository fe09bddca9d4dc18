// Package graphstore implements the compressed adjacency store that backs
// the k-core clustering engine: a CSR (compressed sparse row) undirected
// graph plus a bijective mapping between sparse, user-chosen original
// vertex ids and the dense internal ids the algorithms operate on.
package graphstore

import "fmt"

// Edge is an undirected edge given in internal ids.
type Edge struct {
	U, V int
}

// Graph is a compressed-sparse-row undirected graph with an original<->internal
// id mapping. It is the workhorse data structure for every algorithm in this
// module: k-core decomposition, connected components, subgraph extraction,
// and the streaming controller all operate on internal ids and only cross
// back to original ids at cluster-emission time.
type Graph struct {
	NumNodes int
	NumEdges int // each undirected edge counted once

	RowPtr []int // len NumNodes+1
	ColIdx []int // len RowPtr[NumNodes], each edge appears twice

	// IDMap maps internal id -> original id.
	IDMap []uint64
	// NodeMap maps original id -> internal id.
	NodeMap map[uint64]int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		RowPtr:  []int{0},
		NodeMap: make(map[uint64]int),
	}
}

// NewWithCapacity pre-sizes the id map for numNodes vertices, useful when the
// caller already knows roughly how many nodes it will ingest.
func NewWithCapacity(numNodes int) *Graph {
	g := New()
	g.IDMap = make([]uint64, 0, numNodes)
	g.NodeMap = make(map[uint64]int, numNodes)
	return g
}

// Neighbors returns the neighbor slice for internal id v. The slice aliases
// the graph's ColIdx storage; callers must not mutate it, and must not hold
// on to it across a call that mutates the graph (AddNode/AddEdges may
// reallocate ColIdx).
func (g *Graph) Neighbors(v int) []int {
	return g.ColIdx[g.RowPtr[v]:g.RowPtr[v+1]]
}

// Degree returns the number of neighbors of internal id v.
func (g *Graph) Degree(v int) int {
	return g.RowPtr[v+1] - g.RowPtr[v]
}

// InternalOf returns the internal id for an original id, if present.
func (g *Graph) InternalOf(orig uint64) (int, bool) {
	v, ok := g.NodeMap[orig]
	return v, ok
}

// OrigOf returns the original id for an internal id.
func (g *Graph) OrigOf(internal int) uint64 {
	return g.IDMap[internal]
}

// AddNode allocates a new internal id for orig if it doesn't already exist.
// It is idempotent. New nodes start isolated (degree 0).
func (g *Graph) AddNode(orig uint64) int {
	if v, ok := g.NodeMap[orig]; ok {
		return v
	}
	v := g.NumNodes
	g.NumNodes++
	g.IDMap = append(g.IDMap, orig)
	g.NodeMap[orig] = v
	g.RowPtr = append(g.RowPtr, len(g.ColIdx))
	return v
}

// AddEdges bulk-inserts undirected edges given in internal ids, skipping
// self-loops and edges that already exist. It rebuilds RowPtr/ColIdx from
// scratch rather than mutating in place, since CSR does not support cheap
// insertion. NumEdges is
// incremented once per newly added edge.
func (g *Graph) AddEdges(edges []Edge) {
	if len(edges) == 0 {
		return
	}

	// existing adjacency sets, used both to dedupe against the current
	// graph and to dedupe within the incoming batch.
	adjSets := make([]map[int]struct{}, g.NumNodes)
	for v := 0; v < g.NumNodes; v++ {
		nbrs := g.Neighbors(v)
		set := make(map[int]struct{}, len(nbrs))
		for _, w := range nbrs {
			set[w] = struct{}{}
		}
		adjSets[v] = set
	}

	newAdj := make([][]int, g.NumNodes)
	added := 0
	for _, e := range edges {
		u, v := e.U, e.V
		if u == v {
			continue
		}
		if u < 0 || u >= g.NumNodes || v < 0 || v >= g.NumNodes {
			continue
		}
		if _, ok := adjSets[u][v]; ok {
			continue
		}
		adjSets[u][v] = struct{}{}
		adjSets[v][u] = struct{}{}
		newAdj[u] = append(newAdj[u], v)
		newAdj[v] = append(newAdj[v], u)
		added++
	}

	if added == 0 {
		return
	}

	degIncrease := make([]int, g.NumNodes)
	for v := range newAdj {
		degIncrease[v] = len(newAdj[v])
	}

	oldRowPtr := g.RowPtr
	oldColIdx := g.ColIdx

	newRowPtr := make([]int, g.NumNodes+1)
	for v := 0; v < g.NumNodes; v++ {
		oldDeg := oldRowPtr[v+1] - oldRowPtr[v]
		newRowPtr[v+1] = newRowPtr[v] + oldDeg + degIncrease[v]
	}

	newColIdx := make([]int, newRowPtr[g.NumNodes])
	for v := 0; v < g.NumNodes; v++ {
		dst := newRowPtr[v]
		dst += copy(newColIdx[dst:], oldColIdx[oldRowPtr[v]:oldRowPtr[v+1]])
		copy(newColIdx[dst:], newAdj[v])
	}

	g.RowPtr = newRowPtr
	g.ColIdx = newColIdx
	g.NumEdges += added
}

// Clone returns a deep copy of the graph, safe to mutate independently.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		NumNodes: g.NumNodes,
		NumEdges: g.NumEdges,
		RowPtr:   append([]int(nil), g.RowPtr...),
		ColIdx:   append([]int(nil), g.ColIdx...),
		IDMap:    append([]uint64(nil), g.IDMap...),
		NodeMap:  make(map[uint64]int, len(g.NodeMap)),
	}
	for k, v := range g.NodeMap {
		c.NodeMap[k] = v
	}
	return c
}

// Validate checks the CSR invariants: row_ptr bounds, undirected symmetry,
// no self-loops, no duplicate edges.
func (g *Graph) Validate() error {
	if g.RowPtr[0] != 0 {
		return fmt.Errorf("graphstore: row_ptr[0] = %d, want 0", g.RowPtr[0])
	}
	if len(g.RowPtr) != g.NumNodes+1 {
		return fmt.Errorf("graphstore: row_ptr has %d entries, want %d", len(g.RowPtr), g.NumNodes+1)
	}
	if g.RowPtr[g.NumNodes] != len(g.ColIdx) {
		return fmt.Errorf("graphstore: row_ptr[N]=%d, want len(col_idx)=%d", g.RowPtr[g.NumNodes], len(g.ColIdx))
	}
	for v := 0; v < g.NumNodes; v++ {
		seen := make(map[int]struct{}, g.Degree(v))
		for _, w := range g.Neighbors(v) {
			if w == v {
				return fmt.Errorf("graphstore: self-loop at node %d", v)
			}
			if _, dup := seen[w]; dup {
				return fmt.Errorf("graphstore: duplicate edge (%d,%d)", v, w)
			}
			seen[w] = struct{}{}

			found := false
			for _, u := range g.Neighbors(w) {
				if u == v {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("graphstore: asymmetric edge (%d,%d)", v, w)
			}
		}
	}
	return nil
}
