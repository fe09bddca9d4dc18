package ingest

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

func writeEdgeList(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "edges.tsv")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadEdgeListBasic(t *testing.T) {
	path := writeEdgeList(t, "1\t2\n2\t3\n1\t3\n")
	g, err := LoadEdgeList(path, 1)
	if err != nil {
		t.Fatalf("LoadEdgeList: %v", err)
	}
	if g.NumNodes != 3 || g.NumEdges != 3 {
		t.Fatalf("got NumNodes=%d NumEdges=%d, want 3/3", g.NumNodes, g.NumEdges)
	}
}

func TestLoadEdgeListSkipsSelfLoopsAndDuplicates(t *testing.T) {
	path := writeEdgeList(t, "1\t1\n1\t2\n2\t1\n\n# comment\n1\t2\n")
	g, err := LoadEdgeList(path, 1)
	if err != nil {
		t.Fatalf("LoadEdgeList: %v", err)
	}
	if g.NumNodes != 2 || g.NumEdges != 1 {
		t.Fatalf("got NumNodes=%d NumEdges=%d, want 2/1", g.NumNodes, g.NumEdges)
	}
}

func TestLoadEdgeListParallelMatchesSerial(t *testing.T) {
	var sb []byte
	for i := 0; i < 200; i++ {
		sb = append(sb, []byte(strconv.Itoa(i)+"\t"+strconv.Itoa(i+1)+"\n")...)
	}
	path := writeEdgeList(t, string(sb))

	serial, err := LoadEdgeList(path, 1)
	if err != nil {
		t.Fatalf("serial LoadEdgeList: %v", err)
	}
	parallel, err := LoadEdgeList(path, 8)
	if err != nil {
		t.Fatalf("parallel LoadEdgeList: %v", err)
	}

	if serial.NumNodes != parallel.NumNodes || serial.NumEdges != parallel.NumEdges {
		t.Fatalf("serial NumNodes=%d NumEdges=%d, parallel NumNodes=%d NumEdges=%d",
			serial.NumNodes, serial.NumEdges, parallel.NumNodes, parallel.NumEdges)
	}
	for i, id := range serial.IDMap {
		if parallel.IDMap[i] != id {
			t.Fatalf("IDMap[%d] differs between serial (%d) and parallel (%d) runs", i, id, parallel.IDMap[i])
		}
	}
}

func TestLoadEdgeListMissingFile(t *testing.T) {
	if _, err := LoadEdgeList("/nonexistent/path.tsv", 1); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
