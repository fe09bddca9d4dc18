package subgraph

import (
	"testing"

	"github.com/gilchrisn/ikc-clustering/pkg/graphstore"
)

func buildTrianglePlusPendant(t *testing.T) (*graphstore.Graph, [4]int) {
	t.Helper()
	g := graphstore.New()
	var ids [4]int
	for i := 0; i < 4; i++ {
		ids[i] = g.AddNode(uint64(i + 1))
	}
	g.AddEdges([]graphstore.Edge{
		{U: ids[0], V: ids[1]}, {U: ids[1], V: ids[2]}, {U: ids[0], V: ids[2]}, {U: ids[2], V: ids[3]},
	})
	return g, ids
}

func TestExtractPreservesOriginalIDs(t *testing.T) {
	g, ids := buildTrianglePlusPendant(t)
	selection := []int{ids[0], ids[1], ids[2]}

	h := Extract(g, selection)
	if h.NumNodes != 3 {
		t.Fatalf("NumNodes = %d, want 3", h.NumNodes)
	}
	for i, old := range selection {
		if h.IDMap[i] != g.OrigOf(old) {
			t.Errorf("IDMap[%d] = %d, want %d", i, h.IDMap[i], g.OrigOf(old))
		}
	}
	if h.NumEdges != 3 {
		t.Fatalf("NumEdges = %d, want 3 (the triangle)", h.NumEdges)
	}
}

func TestExtractDropsExternalEdges(t *testing.T) {
	g, ids := buildTrianglePlusPendant(t)
	h := Extract(g, []int{ids[0], ids[1], ids[2]})

	for i := 0; i < 3; i++ {
		if h.Degree(i) != 2 {
			t.Errorf("degree(%d) = %d, want 2 (pendant edge should be excluded)", i, h.Degree(i))
		}
	}
}

func TestRemoveAndCompact(t *testing.T) {
	g, ids := buildTrianglePlusPendant(t)
	h := RemoveAndCompact(g, map[int]struct{}{ids[3]: {}})

	if h.NumNodes != 3 {
		t.Fatalf("NumNodes = %d, want 3", h.NumNodes)
	}
	if h.NumEdges != 3 {
		t.Fatalf("NumEdges = %d, want 3", h.NumEdges)
	}
}

func TestExtractEmptySelection(t *testing.T) {
	g, _ := buildTrianglePlusPendant(t)
	h := Extract(g, nil)
	if h.NumNodes != 0 {
		t.Fatalf("NumNodes = %d, want 0", h.NumNodes)
	}
}
