package components

import (
	"testing"

	"github.com/gilchrisn/ikc-clustering/pkg/graphstore"
)

func TestFindTwoTriangles(t *testing.T) {
	g := graphstore.New()
	var ids [6]int
	for i := 0; i < 6; i++ {
		ids[i] = g.AddNode(uint64(i + 1))
	}
	g.AddEdges([]graphstore.Edge{
		{U: ids[0], V: ids[1]}, {U: ids[1], V: ids[2]}, {U: ids[0], V: ids[2]},
		{U: ids[3], V: ids[4]}, {U: ids[4], V: ids[5]}, {U: ids[3], V: ids[5]},
	})

	comps := Find(g)
	if len(comps) != 2 {
		t.Fatalf("len(comps) = %d, want 2", len(comps))
	}
	if len(comps[0]) != 3 || len(comps[1]) != 3 {
		t.Fatalf("component sizes = %d,%d, want 3,3", len(comps[0]), len(comps[1]))
	}
}

func TestFindEmptyGraph(t *testing.T) {
	g := graphstore.New()
	if comps := Find(g); comps != nil {
		t.Fatalf("Find(empty) = %v, want nil", comps)
	}
}

func TestFindIsolatedVertices(t *testing.T) {
	g := graphstore.New()
	g.AddNode(1)
	g.AddNode(2)
	comps := Find(g)
	if len(comps) != 2 {
		t.Fatalf("len(comps) = %d, want 2 singleton components", len(comps))
	}
}
