package hnsw

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/sketchnn/hnsw/graph"
	"github.com/sketchnn/hnsw/sketch"
)

// warmupQuorum is how many points the parallel pipeline inserts one at a
// time, serially, before switching to batched concurrent insertion. A
// graph with too few nodes has too little structure for the parallel
// phase's read-only search step to find meaningful neighbors, so building
// it up front keeps early batches from degenerating into near-random
// edges.
const warmupQuorum = 50_000

// Extend inserts points into the index. With cfg.Parallel set and enough
// points to clear the warm-up quorum, it uses the batched concurrent
// pipeline; otherwise it falls back to one insertion at a time.
func (b *Builder) Extend(points []sketch.Sketch) {
	if !b.cfg.Parallel || len(points) <= warmupQuorum {
		for _, p := range points {
			b.Insert(p)
		}
		return
	}
	b.extendParallel(points)
}

// pendingPoint carries one chunk member from the parallel pipeline's
// serial creation phase through its parallel search phase to its serial
// integration phase.
type pendingPoint struct {
	point   sketch.Sketch
	level   int
	baseIdx graph.Idx
	upNodes []graph.Idx // upNodes[l] for l in [0, level]; upNodes[0] == baseIdx

	entrySnapshot []graph.Idx // entry points at layer min(level, topLayerAtCreation)

	// selected[l] holds the neighbors chosen for layer l, for l in
	// [0, min(level, topLayerAtCreation)]; selected[0] is the base layer.
	selected [][]graph.Idx
}

// extendParallel runs the batched pipeline over points: pre-draws every
// point's level serially (so the resulting graph does not depend on
// worker scheduling), then processes points in chunks of workers*32,
// splitting each chunk into (a) serial node creation, (b) parallel
// read-only search+select, (c) serial connect+prune - mirroring the
// construction algorithm's own extend_parallel structure.
func (b *Builder) extendParallel(points []sketch.Sketch) {
	levels := assignLevels(b.rng, b.mult, len(points))

	warmup := warmupQuorum
	if warmup > len(points) {
		warmup = len(points)
	}
	for i := 0; i < warmup; i++ {
		b.insertAtLevel(points[i], levels[i])
	}

	rest := points[warmup:]
	restLevels := levels[warmup:]
	if len(rest) == 0 {
		return
	}

	workers := b.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunkSize := workers * 32
	if chunkSize <= 0 {
		chunkSize = 32
	}

	for start := 0; start < len(rest); start += chunkSize {
		end := start + chunkSize
		if end > len(rest) {
			end = len(rest)
		}
		b.extendChunk(rest[start:end], restLevels[start:end], workers)
	}
}

func (b *Builder) extendChunk(points []sketch.Sketch, levels []int, workers int) {
	pending := make([]*pendingPoint, len(points))

	// Phase a, serial: create every node this chunk will insert, including
	// upper-layer copies, and rewrite the entry point immediately for any
	// point whose level exceeds everything seen so far - exactly as a
	// serial Insert would, just batched ahead of the search phase.
	for i, point := range points {
		level := levels[i]
		baseIdx := b.base.Add(point)
		upNodes := make([]graph.Idx, level+1)
		upNodes[0] = baseIdx
		for l := 1; l <= level; l++ {
			store := b.layerStore(l)
			upNodes[l] = store.Add(graph.LayerNode[sketch.Sketch]{Point: point, Down: upNodes[l-1]})
		}

		entrySnapshot := []graph.Idx{b.entryPoint}
		topLayerAt := b.topLayer

		if level > b.topLayer {
			b.topLayer = level
			b.entryPoint = upNodes[level]
		}

		pending[i] = &pendingPoint{
			point:         point,
			level:         level,
			baseIdx:       baseIdx,
			upNodes:       upNodes,
			entrySnapshot: descendSnapshot(b, point, entrySnapshot, topLayerAt, level),
			selected:      make([][]graph.Idx, minInt(level, topLayerAt)+1),
		}
	}

	// Phase b, parallel read-only search+select. Safe because nothing writes
	// to the graph during this phase: every node was created in phase a,
	// and no edge is added until phase c.
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(workers)
	for _, job := range pending {
		job := job
		g.Go(func() error {
			b.searchAndSelectChunkMember(job)
			return nil
		})
	}
	_ = g.Wait()

	// Phase c, serial integration: connect and prune in original order, so
	// the result is independent of goroutine scheduling.
	for _, job := range pending {
		b.integrateChunkMember(job)
	}
}

// descendSnapshot performs the ef=1 top-down descent from entrySnapshot to
// layer min(level, topLayerAt), against the graph state as of the moment
// this point's node was created in phase a. It is computed in phase a
// (serially) rather than phase b, since it decides the first entry point
// each job's parallel search starts from.
func descendSnapshot(b *Builder, point sketch.Sketch, entry []graph.Idx, topLayerAt, level int) []graph.Idx {
	if topLayerAt == 0 {
		return entry
	}
	visited := b.visited.Get()
	candidates := b.heaps.Get()
	results := b.heaps.Get()
	defer func() {
		b.visited.Put(visited)
		b.heaps.Put(candidates)
		b.heaps.Put(results)
	}()

	for l := topLayerAt; l > level && l >= 1; l-- {
		store := b.layerStore(l)
		distTo := func(n graph.LayerNode[sketch.Sketch]) uint32 { return point.Distance(n.Point) }
		found := searchLayer(store, distTo, entry, 1, visited, candidates, results)
		visited.Reset()
		if len(found) > 0 {
			entry = []graph.Idx{graph.Idx(found[0].Key)}
		}
		entry = downOneLayer(store, entry)
	}
	return entry
}

func (b *Builder) searchAndSelectChunkMember(job *pendingPoint) {
	visited := b.visited.Get()
	candidates := b.heaps.Get()
	results := b.heaps.Get()
	defer func() {
		b.visited.Put(visited)
		b.heaps.Put(candidates)
		b.heaps.Put(results)
	}()

	entry := job.entrySnapshot
	top := len(job.selected) - 1 // min(level, topLayerAt)

	for l := top; l >= 1; l-- {
		store := b.layerStore(l)
		node := store.Get(job.upNodes[l])
		selected := searchAndSelect(store, node, layerDist, entry, b.cfg.EfConstruction, b.cfg.Connections, visited, candidates, results)
		job.selected[l] = selected
		if len(selected) == 0 {
			selected = entry
		}
		entry = downOneLayer(store, selected)
	}

	job.selected[0] = searchAndSelect(b.base, job.point, baseDist, entry, b.cfg.EfConstruction, b.cfg.Connections, visited, candidates, results)
}

func (b *Builder) integrateChunkMember(job *pendingPoint) {
	top := len(job.selected) - 1
	for l := top; l >= 1; l-- {
		store := b.layerStore(l)
		connectAndPrune(store, job.upNodes[l], job.selected[l], b.cfg.Connections, layerDist, b.stats.PrunesTotal.Inc)
	}
	connectAndPrune(b.base, job.baseIdx, job.selected[0], b.cfg.MaxConnections, baseDist, b.stats.PrunesTotal.Inc)

	b.stats.InsertsTotal.Inc()
	b.stats.GraphSize.Set(float64(b.base.Size()))
}
