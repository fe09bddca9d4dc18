package increment

import (
	"testing"

	"github.com/gilchrisn/ikc-clustering/pkg/graphstore"
	"github.com/gilchrisn/ikc-clustering/pkg/kcore"
)

// buildSquareWithPendant builds a 4-cycle (core 2 throughout) with a pendant
// vertex (id 5) attached to vertex 1 (core 1).
func buildSquareWithPendant(t *testing.T) (*graphstore.Graph, [5]int) {
	t.Helper()
	g := graphstore.New()
	var ids [5]int
	for i := 0; i < 5; i++ {
		ids[i] = g.AddNode(uint64(i + 1))
	}
	g.AddEdges([]graphstore.Edge{
		{U: ids[0], V: ids[1]}, {U: ids[1], V: ids[2]}, {U: ids[2], V: ids[3]}, {U: ids[3], V: ids[0]},
		{U: ids[0], V: ids[4]},
	})
	return g, ids
}

func TestUpdateNoEdgesIsNoop(t *testing.T) {
	g, _ := buildSquareWithPendant(t)
	base := kcore.Decompose(g)
	affected, maxCore := Update(g, append([]uint32(nil), base.Core...), nil, base.MaxCore)
	if len(affected) != 0 {
		t.Fatalf("len(affected) = %d, want 0", len(affected))
	}
	if maxCore != base.MaxCore {
		t.Fatalf("maxCore = %d, want %d", maxCore, base.MaxCore)
	}
}

func TestUpdatePromotesPendantIntoTriangle(t *testing.T) {
	g, ids := buildSquareWithPendant(t)
	base := kcore.Decompose(g)
	coreNumbers := append([]uint32(nil), base.Core...)

	// Connect the pendant (currently core 1) to two members of the 2-core
	// cycle, giving it degree 3 among core>=2 neighbors; it should be
	// promoted to core 2, matching a from-scratch decomposition.
	newEdges := []graphstore.Edge{{U: ids[4], V: ids[1]}, {U: ids[4], V: ids[2]}}
	g.AddEdges(newEdges)

	affected, maxCore := Update(g, coreNumbers, newEdges, base.MaxCore)

	want := kcore.Decompose(g)
	if maxCore != want.MaxCore {
		t.Fatalf("maxCore = %d, want %d", maxCore, want.MaxCore)
	}
	for v := 0; v < g.NumNodes; v++ {
		if coreNumbers[v] != want.Core[v] {
			t.Errorf("node %d: core = %d, want %d", v, coreNumbers[v], want.Core[v])
		}
	}
	if _, ok := affected[ids[4]]; !ok {
		t.Error("expected the pendant vertex to be in the affected set")
	}
}

func TestUpdateLeavesUnaffectedNodesAlone(t *testing.T) {
	g, ids := buildSquareWithPendant(t)
	base := kcore.Decompose(g)
	coreNumbers := append([]uint32(nil), base.Core...)

	// Add an edge between two nodes already at the max core; no other node
	// should be promoted.
	newEdges := []graphstore.Edge{{U: ids[0], V: ids[2]}}
	g.AddEdges(newEdges)

	Update(g, coreNumbers, newEdges, base.MaxCore)

	if coreNumbers[ids[4]] != 1 {
		t.Fatalf("pendant core = %d, want unchanged at 1", coreNumbers[ids[4]])
	}
}
