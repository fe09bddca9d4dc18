// Package streaming maintains an iterative k-core clustering incrementally
// as edges and nodes arrive, recomputing only the regions a mutation could
// have affected instead of rerunning batch IKC from scratch. Grounded on
// original_source/lib/algorithms/streaming_ikc.h (class StreamingIKC).
package streaming

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gilchrisn/ikc-clustering/internal/ikcerr"
	"github.com/gilchrisn/ikc-clustering/pkg/graphstore"
	"github.com/gilchrisn/ikc-clustering/pkg/ikc"
	"github.com/gilchrisn/ikc-clustering/pkg/increment"
	"github.com/gilchrisn/ikc-clustering/pkg/kcore"
	"github.com/gilchrisn/ikc-clustering/pkg/subgraph"
	"github.com/gilchrisn/ikc-clustering/pkg/validity"
)

// OrigEdge is an edge between two original (caller-chosen) vertex ids, the
// unit streaming callers add edges in.
type OrigEdge struct {
	U, V uint64
}

// UpdateStats reports what an update touched, including the timing fields
// original_source instruments each update with.
type UpdateStats struct {
	AffectedNodes       int
	InvalidatedClusters int
	ValidClusters       int
	MergeCandidates     int
	RecomputeTimeMS     float64
	TotalTimeMS         float64
}

const unassigned = -1

// Options configures a Controller.
type Options struct {
	ModularityFunc validity.ModularityFunc
	Logger         zerolog.Logger
	Workers        int
}

// Option mutates Options.
type Option func(*Options)

// WithModularityFunc selects the modularity predicate used for both initial
// and recomputed clustering.
func WithModularityFunc(f validity.ModularityFunc) Option {
	return func(o *Options) { o.ModularityFunc = f }
}

// WithLogger installs a structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithWorkers bounds the worker pool used by localized recomputation.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

// Controller holds the live graph, clustering, and core numbers needed to
// apply incremental updates. A Controller is safe for
// concurrent use.
type Controller struct {
	mu sync.Mutex

	graph     *graphstore.Graph // current, mutated graph
	origGraph *graphstore.Graph // frozen snapshot modularity is scored against

	clusters          []ikc.Cluster
	coreNumbers       []uint32
	clusterAssignment []int // internal id -> index into clusters, or unassigned
	maxCore           uint32

	minK      uint32
	lastStats UpdateStats
	opts      Options

	batchMode    bool
	pendingEdges []OrigEdge
	pendingNodes []uint64
}

// NewController creates a controller over g with the given minimum k
// threshold. g is cloned; both the live graph and the frozen original
// snapshot start from it.
func NewController(g *graphstore.Graph, minK uint32, opts ...Option) *Controller {
	o := Options{ModularityFunc: validity.ModularitySimplified, Workers: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return &Controller{
		graph:     g.Clone(),
		origGraph: g.Clone(),
		minK:      minK,
		opts:      o,
	}
}

// InitialClustering runs batch IKC over the current graph and adopts the
// result as the controller's live clustering.
func (c *Controller) InitialClustering(onIteration ikc.OnIteration) []ikc.Cluster {
	c.mu.Lock()
	defer c.mu.Unlock()

	clusters, _ := ikc.Run(c.graph, c.minK, c.origGraph,
		ikc.WithModularityFunc(c.opts.ModularityFunc),
		ikc.WithLogger(c.opts.Logger),
		ikc.WithWorkers(c.opts.Workers),
		ikc.WithOnIteration(onIteration),
	)
	c.clusters = clusters

	core := kcore.Decompose(c.graph)
	c.coreNumbers = core.Core
	c.maxCore = core.MaxCore

	c.updateClusterAssignmentsLocked()
	return c.clusters
}

// AddEdges inserts edges given as original vertex id pairs. Endpoints that
// do not exist are skipped with a warning log rather than failing the call
// (lenient, contrast Update's strict validation). If recompute is false,
// the edges are added to the graph but core numbers and clustering are left
// untouched; a later call with recompute=true seeds its core update only
// from its own edges, not from these. In batch mode, edges are only queued.
func (c *Controller) AddEdges(edges []OrigEdge, recompute bool) []ikc.Cluster {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.batchMode {
		c.pendingEdges = append(c.pendingEdges, edges...)
		return c.clusters
	}
	if len(edges) == 0 {
		return c.clusters
	}

	start := time.Now()

	internalEdges := make([]graphstore.Edge, 0, len(edges))
	for _, e := range edges {
		u, uOK := c.graph.InternalOf(e.U)
		v, vOK := c.graph.InternalOf(e.V)
		if !uOK || !vOK {
			c.opts.Logger.Warn().Uint64("u", e.U).Uint64("v", e.V).
				Msg("streaming: edge references non-existent node(s), skipping")
			continue
		}
		internalEdges = append(internalEdges, graphstore.Edge{U: u, V: v})
	}
	if len(internalEdges) == 0 {
		return c.clusters
	}

	c.graph.AddEdges(internalEdges)

	if !recompute {
		return c.clusters
	}

	for len(c.coreNumbers) < c.graph.NumNodes {
		c.coreNumbers = append(c.coreNumbers, 0)
	}
	affected, newMaxCore := increment.Update(c.graph, c.coreNumbers, internalEdges, c.maxCore)
	c.maxCore = newMaxCore

	recomputeStart := time.Now()
	validIdx, invalidIdx, nodesToRecompute := c.detectInvalidClustersLocked(affected)

	if len(invalidIdx) == 0 && len(nodesToRecompute) == 0 {
		c.lastStats = UpdateStats{
			AffectedNodes:   len(affected),
			ValidClusters:   len(c.clusters),
			RecomputeTimeMS: 0,
			TotalTimeMS:     msSince(start),
		}
		return c.clusters
	}

	newClusters := c.recomputeAffectedLocked(nodesToRecompute)

	updated := make([]ikc.Cluster, 0, len(validIdx)+len(newClusters))
	for _, idx := range validIdx {
		updated = append(updated, c.clusters[idx])
	}
	updated = append(updated, newClusters...)
	c.clusters = updated
	c.updateClusterAssignmentsLocked()

	c.lastStats = UpdateStats{
		AffectedNodes:       len(affected),
		InvalidatedClusters: len(invalidIdx),
		ValidClusters:       len(validIdx),
		MergeCandidates:     len(nodesToRecompute),
		RecomputeTimeMS:     msSince(recomputeStart),
		TotalTimeMS:         msSince(start),
	}

	return c.clusters
}

// AddNodes adds isolated vertices (original ids already present are
// ignored). If recompute is true, any node not already covered by a
// cluster becomes its own singleton cluster with k=0. In batch mode, nodes
// are only queued.
func (c *Controller) AddNodes(nodes []uint64, recompute bool) []ikc.Cluster {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addNodesLocked(nodes, recompute)
}

func (c *Controller) addNodesLocked(nodes []uint64, recompute bool) []ikc.Cluster {
	if c.batchMode {
		c.pendingNodes = append(c.pendingNodes, nodes...)
		return c.clusters
	}
	if len(nodes) == 0 {
		return c.clusters
	}

	for _, id := range nodes {
		if _, ok := c.graph.InternalOf(id); !ok {
			c.graph.AddNode(id)
			c.coreNumbers = append(c.coreNumbers, 0)
			c.clusterAssignment = append(c.clusterAssignment, unassigned)
		}
	}

	if recompute {
		for _, id := range nodes {
			internal, ok := c.graph.InternalOf(id)
			if ok && c.clusterAssignment[internal] == unassigned {
				c.clusters = append(c.clusters, ikc.Cluster{Nodes: []uint64{id}, KValue: 0, Modularity: 0.0})
			}
		}
		c.updateClusterAssignmentsLocked()
	}
	return c.clusters
}

// Update applies both edges and nodes in a single call, validating that
// every edge endpoint either already exists or is included in nodes; a
// violation is a hard error (strict, contrast AddEdges's lenient skip).
// Nodes are added first (without recomputation), then edges are
// added with recomputation, then any node still unclustered becomes a
// singleton.
func (c *Controller) Update(edges []OrigEdge, nodes []uint64) ([]ikc.Cluster, error) {
	c.mu.Lock()

	if len(edges) > 0 {
		nodesToAdd := make(map[uint64]struct{}, len(nodes))
		for _, id := range nodes {
			nodesToAdd[id] = struct{}{}
		}
		for _, e := range edges {
			_, uExists := c.graph.InternalOf(e.U)
			_, vExists := c.graph.InternalOf(e.V)
			_, uPending := nodesToAdd[e.U]
			_, vPending := nodesToAdd[e.V]
			if (!uExists && !uPending) || (!vExists && !vPending) {
				c.mu.Unlock()
				return nil, fmt.Errorf("%w: edge (%d, %d)", ikcerr.ErrMissingNode, e.U, e.V)
			}
		}
	}

	if len(nodes) > 0 {
		c.addNodesLocked(nodes, false)
	}
	c.mu.Unlock()

	if len(edges) > 0 {
		result := c.AddEdges(edges, true)

		c.mu.Lock()
		for _, id := range nodes {
			internal, ok := c.graph.InternalOf(id)
			if ok && c.clusterAssignment[internal] == unassigned {
				c.clusters = append(c.clusters, ikc.Cluster{Nodes: []uint64{id}, KValue: 0, Modularity: 0.0})
				result = c.clusters
			}
		}
		if len(nodes) > 0 {
			c.updateClusterAssignmentsLocked()
			result = c.clusters
		}
		c.mu.Unlock()
		return result, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addNodesLocked(nil, true), nil
}

// BeginBatch switches the controller into batch mode: subsequent AddEdges
// and AddNodes calls only queue their input.
func (c *Controller) BeginBatch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.batchMode = true
	c.pendingEdges = nil
	c.pendingNodes = nil
}

// CommitBatch leaves batch mode and applies every queued edge and node as
// one Update call. Calling CommitBatch while not in batch mode is a no-op
// that returns ikcerr.ErrNotInBatchMode alongside the unchanged clustering
// — callers that don't care may ignore the error.
func (c *Controller) CommitBatch() ([]ikc.Cluster, error) {
	c.mu.Lock()
	if !c.batchMode {
		c.opts.Logger.Warn().Msg("streaming: commit_batch called outside batch mode")
		clusters := c.clusters
		c.mu.Unlock()
		return clusters, ikcerr.ErrNotInBatchMode
	}
	c.batchMode = false
	edges, nodes := c.pendingEdges, c.pendingNodes
	c.pendingEdges, c.pendingNodes = nil, nil
	c.mu.Unlock()

	return c.Update(edges, nodes)
}

// detectInvalidClustersLocked partitions the current clustering into
// clusters unaffected by the promoted set, clusters that must be
// recomputed because they are no longer k-valid or have a viable merge
// candidate outside their boundary, and the set of (working-graph internal
// id) vertices any recomputation needs to cover.
func (c *Controller) detectInvalidClustersLocked(affected map[int]struct{}) (valid, invalid []int, nodesToRecompute map[int]struct{}) {
	nodesToRecompute = make(map[int]struct{})

	for idx, cluster := range c.clusters {
		clusterSet := make(map[uint64]struct{}, len(cluster.Nodes))
		for _, id := range cluster.Nodes {
			clusterSet[id] = struct{}{}
		}

		hasAffected := false
		for _, id := range cluster.Nodes {
			if internal, ok := c.graph.InternalOf(id); ok {
				if _, a := affected[internal]; a {
					hasAffected = true
					break
				}
			}
		}
		if !hasAffected {
			valid = append(valid, idx)
			continue
		}

		k := cluster.KValue
		kValid := true
		for _, id := range cluster.Nodes {
			internal, ok := c.graph.InternalOf(id)
			if !ok {
				kValid = false
				break
			}
			var internalDegree uint32
			for _, w := range c.graph.Neighbors(internal) {
				if _, in := clusterSet[c.graph.OrigOf(w)]; in {
					internalDegree++
				}
			}
			if internalDegree < k {
				kValid = false
				break
			}
		}
		if !kValid {
			invalid = append(invalid, idx)
			for _, id := range cluster.Nodes {
				if internal, ok := c.graph.InternalOf(id); ok {
					nodesToRecompute[internal] = struct{}{}
				}
			}
			continue
		}

		hasMergeCandidate := false
	mergeScan:
		for _, id := range cluster.Nodes {
			internal, ok := c.graph.InternalOf(id)
			if !ok {
				continue
			}
			for _, w := range c.graph.Neighbors(internal) {
				if _, in := clusterSet[c.graph.OrigOf(w)]; !in && c.coreNumbers[w] >= k {
					hasMergeCandidate = true
					break mergeScan
				}
			}
		}

		if !hasMergeCandidate {
			valid = append(valid, idx)
			continue
		}

		invalid = append(invalid, idx)
		for _, id := range cluster.Nodes {
			internal, ok := c.graph.InternalOf(id)
			if !ok {
				continue
			}
			nodesToRecompute[internal] = struct{}{}
			for _, w := range c.graph.Neighbors(internal) {
				if c.coreNumbers[w] >= k {
					nodesToRecompute[w] = struct{}{}
				}
			}
		}
	}

	return valid, invalid, nodesToRecompute
}

// recomputeAffectedLocked runs batch IKC over the induced subgraph of
// nodesToRecompute, scored against the controller's frozen original graph.
func (c *Controller) recomputeAffectedLocked(nodesToRecompute map[int]struct{}) []ikc.Cluster {
	if len(nodesToRecompute) == 0 {
		return nil
	}
	selection := make([]int, 0, len(nodesToRecompute))
	for v := range nodesToRecompute {
		selection = append(selection, v)
	}
	region := subgraph.Extract(c.graph, selection)
	newClusters, _ := ikc.Run(region, c.minK, c.origGraph,
		ikc.WithModularityFunc(c.opts.ModularityFunc),
		ikc.WithLogger(c.opts.Logger),
		ikc.WithWorkers(c.opts.Workers),
	)
	return newClusters
}

func (c *Controller) updateClusterAssignmentsLocked() {
	assignment := make([]int, c.graph.NumNodes)
	for i := range assignment {
		assignment[i] = unassigned
	}
	for idx, cluster := range c.clusters {
		for _, id := range cluster.Nodes {
			if internal, ok := c.graph.InternalOf(id); ok {
				assignment[internal] = idx
			}
		}
	}
	c.clusterAssignment = assignment
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

// Clusters returns the controller's current clustering.
func (c *Controller) Clusters() []ikc.Cluster {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clusters
}

// Graph returns the controller's live, mutated graph.
func (c *Controller) Graph() *graphstore.Graph {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph
}

// CoreNumbers returns the current per-vertex core numbers (internal-id
// indexed).
func (c *Controller) CoreNumbers() []uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.coreNumbers
}

// LastStats returns the UpdateStats produced by the most recent
// recomputing AddEdges/Update call.
func (c *Controller) LastStats() UpdateStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastStats
}

// MaxCore returns the current maximum core number.
func (c *Controller) MaxCore() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxCore
}

// IsBatchMode reports whether the controller is currently accumulating
// updates without recomputation.
func (c *Controller) IsBatchMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.batchMode
}
