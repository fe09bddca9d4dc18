package kcore

import (
	"reflect"
	"testing"

	"github.com/gilchrisn/ikc-clustering/pkg/graphstore"
)

func buildPath5(t *testing.T) *graphstore.Graph {
	t.Helper()
	g := graphstore.New()
	ids := make([]int, 5)
	for i := range ids {
		ids[i] = g.AddNode(uint64(i + 1))
	}
	g.AddEdges([]graphstore.Edge{
		{U: ids[0], V: ids[1]}, {U: ids[1], V: ids[2]}, {U: ids[2], V: ids[3]}, {U: ids[3], V: ids[4]},
	})
	return g
}

func TestDecomposePathGraphAllCoreOne(t *testing.T) {
	g := buildPath5(t)
	res := Decompose(g)
	if res.MaxCore != 1 {
		t.Fatalf("MaxCore = %d, want 1", res.MaxCore)
	}
	for v, c := range res.Core {
		if c != 1 {
			t.Errorf("core[%d] = %d, want 1", v, c)
		}
	}
}

func TestDecomposeCompleteGraph(t *testing.T) {
	g := graphstore.New()
	n := 5
	ids := make([]int, n)
	for i := 0; i < n; i++ {
		ids[i] = g.AddNode(uint64(i))
	}
	var edges []graphstore.Edge
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			edges = append(edges, graphstore.Edge{U: ids[i], V: ids[j]})
		}
	}
	g.AddEdges(edges)

	res := Decompose(g)
	if res.MaxCore != uint32(n-1) {
		t.Fatalf("MaxCore = %d, want %d", res.MaxCore, n-1)
	}
}

func TestDecomposeEmptyGraph(t *testing.T) {
	g := graphstore.New()
	res := Decompose(g)
	if res.MaxCore != 0 || len(res.Core) != 0 {
		t.Fatalf("Decompose(empty) = %+v, want zero value", res)
	}
}

func TestDecomposeIsIdempotent(t *testing.T) {
	g := buildPath5(t)
	r1 := Decompose(g)
	r2 := Decompose(g)
	if !reflect.DeepEqual(r1.Core, r2.Core) || r1.MaxCore != r2.MaxCore {
		t.Fatalf("decomposition not idempotent: %+v vs %+v", r1, r2)
	}
}

func TestNodesAtLeast(t *testing.T) {
	g := buildPath5(t)
	res := Decompose(g)
	nodes := res.NodesAtLeast(1)
	if len(nodes) != 5 {
		t.Fatalf("NodesAtLeast(1) = %v, want all 5 nodes", nodes)
	}
	if len(res.NodesAtLeast(2)) != 0 {
		t.Fatalf("NodesAtLeast(2) should be empty for a path graph")
	}
}
