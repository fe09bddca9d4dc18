// Package ikc implements the batch iterative k-core clustering loop:
// repeatedly extract the maximum k-core, split it into connected
// components, accept or reject each against k-validity and modularity, and
// continue on the residual graph. Grounded on
// original_source/lib/algorithms/ikc.h.
package ikc

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/gilchrisn/ikc-clustering/pkg/components"
	"github.com/gilchrisn/ikc-clustering/pkg/graphstore"
	"github.com/gilchrisn/ikc-clustering/pkg/kcore"
	"github.com/gilchrisn/ikc-clustering/pkg/subgraph"
	"github.com/gilchrisn/ikc-clustering/pkg/validity"
)

// Cluster is a single clustering result: a set of original vertex ids, the
// core value of the iteration that produced it (0 for singletons), and a
// modularity score.
type Cluster struct {
	Nodes      []uint64
	KValue     uint32
	Modularity float64
}

// RunStats summarizes one batch run, including per-run diagnostic counters
// mirroring original_source's own instrumentation.
type RunStats struct {
	Iterations           int
	KInvalidComponents   int
	NonModularComponents int
	MeanClusterSize      float64
	StdDevClusterSize    float64
}

// OnIteration is invoked once per outer peeling iteration with the current
// max core value and the number of nodes remaining in the working graph.
type OnIteration func(maxK uint32, nodesRemaining int)

// Options configures a Run call.
type Options struct {
	ModularityFunc validity.ModularityFunc
	OnIteration    OnIteration
	Logger         zerolog.Logger
	Workers        int
}

// Option mutates an Options value.
type Option func(*Options)

// WithModularityFunc selects the modularity predicate; the default is
// validity.ModularitySimplified.
func WithModularityFunc(f validity.ModularityFunc) Option {
	return func(o *Options) { o.ModularityFunc = f }
}

// WithOnIteration installs a progress callback.
func WithOnIteration(cb OnIteration) Option {
	return func(o *Options) { o.OnIteration = cb }
}

// WithLogger installs a structured logger; the zero value logs nothing.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithWorkers bounds the fork-join worker pool size used for the
// per-component validity/emission pass. A value <= 1 disables
// parallelism.
func WithWorkers(n int) Option {
	return func(o *Options) { o.Workers = n }
}

func resolveOptions(opts []Option) Options {
	o := Options{
		ModularityFunc: validity.ModularitySimplified,
		Workers:        1,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Run executes the batch IKC algorithm on a working copy of g (the caller's
// g is left untouched), with orig supplying the stable reference graph that
// modularity calculations are scored against. It returns the emitted
// clusters, partitioning the vertex set of g exactly once each.
func Run(g *graphstore.Graph, minK uint32, orig *graphstore.Graph, opts ...Option) ([]Cluster, RunStats) {
	o := resolveOptions(opts)
	working := g.Clone()

	var clusters []Cluster
	var singletonPool []uint64 // original ids accumulated from failed components
	var stats RunStats

	// flushSingletonPool emits the accumulated failed-component pool with a
	// flat zero modularity, matching original_source's own emission for this
	// pool. Unlike the original, it is called on every loop exit rather than
	// only the max_k<min_k branch, so invariant 2 (every input vertex appears
	// in exactly one cluster) holds even when the graph peels to empty
	// without ever going below min_k — see DESIGN.md.
	flushSingletonPool := func() {
		for _, id := range singletonPool {
			clusters = append(clusters, Cluster{Nodes: []uint64{id}, KValue: 0, Modularity: 0.0})
		}
		singletonPool = nil
	}

	for working.NumNodes > 0 {
		stats.Iterations++
		core := kcore.Decompose(working)
		maxK := core.MaxCore

		if o.OnIteration != nil {
			o.OnIteration(maxK, working.NumNodes)
		}
		o.Logger.Debug().Uint32("max_k", maxK).Int("nodes_remaining", working.NumNodes).Msg("ikc iteration")

		if maxK < minK {
			for v := 0; v < working.NumNodes; v++ {
				origID := working.OrigOf(v)
				var mod float64
				if internalInOrig, ok := orig.InternalOf(origID); ok {
					mod = validity.SingletonModularity(internalInOrig, orig)
				}
				clusters = append(clusters, Cluster{Nodes: []uint64{origID}, KValue: 0, Modularity: mod})
			}
			flushSingletonPool()
			return clusters, finalizeStats(stats, clusters)
		}

		kcoreNodes := core.NodesAtLeast(maxK)
		if len(kcoreNodes) == 0 {
			break
		}

		h := subgraph.Extract(working, kcoreNodes)
		comps := components.Find(h)

		accepted, toRemove, newSingletons, kInvalid, nonModular := processComponents(
			comps, h, working, orig, kcoreNodes, minK, maxK, o)

		clusters = append(clusters, accepted...)
		singletonPool = append(singletonPool, newSingletons...)
		stats.KInvalidComponents += kInvalid
		stats.NonModularComponents += nonModular

		working = subgraph.RemoveAndCompact(working, toRemove)
	}

	flushSingletonPool()
	return clusters, finalizeStats(stats, clusters)
}

// componentOutcome is a single worker's contribution, merged under a guard
// once computed.
type componentOutcome struct {
	cluster      *Cluster
	removeWorker []int // working-graph internal ids to remove
	singletons   []uint64
	kInvalid     bool
	nonModular   bool
}

// processComponents runs the k-valid/modularity pass over comps, optionally
// fanned out across a worker pool: each component's vertices are disjoint,
// so the pass is embarrassingly parallel; the cluster list, removal set and
// singleton pool are merged under a single guard while counters are atomic.
func processComponents(
	comps [][]int,
	h *graphstore.Graph,
	working *graphstore.Graph,
	orig *graphstore.Graph,
	kcoreNodes []int,
	minK uint32,
	maxK uint32,
	o Options,
) (accepted []Cluster, toRemove map[int]struct{}, singletons []uint64, kInvalid, nonModular int) {

	toRemove = make(map[int]struct{})
	outcomes := make([]componentOutcome, len(comps))

	compute := func(i int) {
		outcomes[i] = evaluateComponent(comps[i], h, working, orig, kcoreNodes, minK, maxK, o.ModularityFunc)
	}

	if o.Workers <= 1 || len(comps) <= 1 {
		for i := range comps {
			compute(i)
		}
	} else {
		g, _ := errgroup.WithContext(context.Background())
		g.SetLimit(o.Workers)
		for i := range comps {
			i := i
			g.Go(func() error {
				compute(i)
				return nil
			})
		}
		_ = g.Wait() // compute never returns an error
	}

	var mu sync.Mutex
	var kInvalidCount, nonModularCount atomic.Int64

	for _, out := range outcomes {
		mu.Lock()
		if out.cluster != nil {
			accepted = append(accepted, *out.cluster)
		}
		for _, v := range out.removeWorker {
			toRemove[v] = struct{}{}
		}
		singletons = append(singletons, out.singletons...)
		mu.Unlock()

		if out.kInvalid {
			kInvalidCount.Add(1)
		}
		if out.nonModular {
			nonModularCount.Add(1)
		}
	}

	return accepted, toRemove, singletons, int(kInvalidCount.Load()), int(nonModularCount.Load())
}

// evaluateComponent is the unit of fork-join work: it touches only comp's
// own vertices, so no synchronization is needed until the outcome is merged.
func evaluateComponent(
	comp []int,
	h *graphstore.Graph,
	working *graphstore.Graph,
	orig *graphstore.Graph,
	kcoreNodes []int,
	minK uint32,
	maxK uint32,
	modFunc validity.ModularityFunc,
) componentOutcome {

	reject := func(kInvalid bool) componentOutcome {
		out := componentOutcome{kInvalid: kInvalid, nonModular: !kInvalid}
		for _, hNode := range comp {
			workingNode := kcoreNodes[hNode]
			out.removeWorker = append(out.removeWorker, workingNode)
			out.singletons = append(out.singletons, working.OrigOf(workingNode))
		}
		return out
	}

	if !validity.KValid(comp, h, minK) {
		return reject(true)
	}

	origComp := make([]int, 0, len(comp))
	for _, hNode := range comp {
		origID := working.OrigOf(kcoreNodes[hNode])
		if v, ok := orig.InternalOf(origID); ok {
			origComp = append(origComp, v)
		}
	}

	modularity := modFunc(origComp, orig)
	if modularity <= 0 {
		// Dormant under the default simplified modularity (always 1.0);
		// preserved for the real-modularity variant.
		return reject(false)
	}

	nodes := make([]uint64, 0, len(comp))
	removeWorker := make([]int, 0, len(comp))
	for _, hNode := range comp {
		workingNode := kcoreNodes[hNode]
		nodes = append(nodes, working.OrigOf(workingNode))
		removeWorker = append(removeWorker, workingNode)
	}

	return componentOutcome{
		cluster:      &Cluster{Nodes: nodes, KValue: maxK, Modularity: modularity},
		removeWorker: removeWorker,
	}
}

func finalizeStats(stats RunStats, clusters []Cluster) RunStats {
	var sizes []float64
	for _, c := range clusters {
		if len(c.Nodes) > 1 {
			sizes = append(sizes, float64(len(c.Nodes)))
		}
	}
	if len(sizes) > 0 {
		mean, std := stat.MeanStdDev(sizes, nil)
		stats.MeanClusterSize = mean
		stats.StdDevClusterSize = std
	}
	return stats
}
