// Package ingest reads tab-separated edge-list files into a graphstore.Graph.
// Line parsing fans out across a worker pool, following the channel/WaitGroup
// pattern in pkg/materialization/instance_generator.go; graph construction
// stays single-threaded so dense internal ids are assigned deterministically
// in file order regardless of worker count. Line-splitting conventions are
// grounded on pkg/scar/graph.go.
package ingest

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/gilchrisn/ikc-clustering/pkg/graphstore"
)

type parsedLine struct {
	u, v uint64
	ok   bool
}

// LoadEdgeList reads path as a tab-separated (or generally whitespace
// separated) "u v" edge list, one edge per line, blank lines and lines
// starting with '#' ignored, and builds a graphstore.Graph. Self-loops are
// dropped and duplicate pairs (in either direction) are deduplicated.
// workers bounds the parsing worker pool; values <= 1 parse serially.
func LoadEdgeList(path string, workers int) (*graphstore.Graph, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: opening %s: %w", path, err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ingest: reading %s: %w", path, err)
	}

	parsed := parseLines(lines, workers)
	return buildGraph(parsed), nil
}

func parseLines(lines []string, workers int) []parsedLine {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(lines) {
		workers = 1 // avoid pool overhead for tiny inputs
	}

	parsed := make([]parsedLine, len(lines))
	if workers <= 1 {
		for i, line := range lines {
			parsed[i] = parseLine(line)
		}
		return parsed
	}

	indexChannel := make(chan int, len(lines))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexChannel {
				parsed[i] = parseLine(lines[i])
			}
		}()
	}
	for i := range lines {
		indexChannel <- i
	}
	close(indexChannel)
	wg.Wait()

	return parsed
}

func parseLine(line string) parsedLine {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return parsedLine{}
	}
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return parsedLine{}
	}
	u, err1 := strconv.ParseUint(parts[0], 10, 64)
	v, err2 := strconv.ParseUint(parts[1], 10, 64)
	if err1 != nil || err2 != nil {
		return parsedLine{}
	}
	return parsedLine{u: u, v: v, ok: true}
}

func buildGraph(parsed []parsedLine) *graphstore.Graph {
	g := graphstore.New()
	seen := make(map[[2]uint64]struct{})
	var edges []graphstore.Edge

	for _, p := range parsed {
		if !p.ok || p.u == p.v {
			continue
		}
		key := dedupKey(p.u, p.v)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		u := ensureNode(g, p.u)
		v := ensureNode(g, p.v)
		edges = append(edges, graphstore.Edge{U: u, V: v})
	}

	g.AddEdges(edges)
	return g
}

func ensureNode(g *graphstore.Graph, orig uint64) int {
	if v, ok := g.InternalOf(orig); ok {
		return v
	}
	return g.AddNode(orig)
}

func dedupKey(u, v uint64) [2]uint64 {
	if u > v {
		u, v = v, u
	}
	return [2]uint64{u, v}
}
