package ikcio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gilchrisn/ikc-clustering/pkg/ikc"
)

func sampleClusters() []ikc.Cluster {
	return []ikc.Cluster{
		{Nodes: []uint64{1, 2, 3}, KValue: 2, Modularity: 1.0},
		{Nodes: []uint64{4}, KValue: 0, Modularity: -0.25},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleClusters()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	if lines[0] != "1,1,2,1" {
		t.Errorf("lines[0] = %q, want %q", lines[0], "1,1,2,1")
	}
	if lines[3] != "4,2,0,-0.25" {
		t.Errorf("lines[3] = %q, want %q", lines[3], "4,2,0,-0.25")
	}
}

func TestWriteTSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTSV(&buf, sampleClusters()); err != nil {
		t.Fatalf("WriteTSV: %v", err)
	}
	want := "1\t1\n2\t1\n3\t1\n4\t2\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected empty output, got %q", buf.String())
	}
}
