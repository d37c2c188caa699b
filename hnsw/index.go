package hnsw

import (
	"time"

	"github.com/google/uuid"

	"github.com/sketchnn/hnsw/graph"
	"github.com/sketchnn/hnsw/sketch"
	"github.com/sketchnn/hnsw/structs"
)

// Index is a queryable snapshot of a Builder's graph. Freeze does not copy
// the underlying stores; it is the caller's responsibility to stop
// inserting into the Builder once an Index has been taken from it, since
// the two share the same arenas.
type Index struct {
	id  uuid.UUID
	cfg Config
	log Logger

	base   *graph.Store[sketch.Sketch]
	layers []*graph.Store[graph.LayerNode[sketch.Sketch]]

	entryPoint graph.Idx
	topLayer   int
	hasEntry   bool

	visited *structs.VisitedPool
	heaps   *structs.HeapPool
	stats   *Metrics
}

// Freeze produces a queryable Index view of the builder's current graph.
func (b *Builder) Freeze() *Index {
	return &Index{
		id:         b.id,
		cfg:        b.cfg,
		log:        b.log,
		base:       b.base,
		layers:     b.layers,
		entryPoint: b.entryPoint,
		topLayer:   b.topLayer,
		hasEntry:   b.hasEntry,
		visited:    b.visited,
		heaps:      b.heaps,
		stats:      b.stats,
	}
}

// Metrics exposes the index's Prometheus registry so callers can wire it
// into an HTTP /metrics endpoint.
func (idx *Index) Metrics() *Metrics { return idx.stats }

// Len returns the number of points held in the index.
func (idx *Index) Len() int { return idx.base.Size() }

// Config returns the configuration the index was built with.
func (idx *Index) Config() Config { return idx.cfg }

// ID returns the index's unique instance identifier.
func (idx *Index) ID() uuid.UUID { return idx.id }

// EntryPoint returns the base-layer or top-layer arena id construction
// currently descends from.
func (idx *Index) EntryPoint() graph.Idx { return idx.entryPoint }

// TopLayer returns the highest layer with any nodes in it.
func (idx *Index) TopLayer() int { return idx.topLayer }

// HasEntry reports whether the index holds at least one point.
func (idx *Index) HasEntry() bool { return idx.hasEntry }

// Base returns the base-layer store, for callers (persistence, tooling)
// that need to walk the raw arena.
func (idx *Index) Base() *graph.Store[sketch.Sketch] { return idx.base }

// Layers returns the non-base layer stores in ascending layer order
// (Layers()[0] is layer 1).
func (idx *Index) Layers() []*graph.Store[graph.LayerNode[sketch.Sketch]] { return idx.layers }

// NewFrozenIndex rebuilds a queryable Index directly from already-built
// stores, bypassing Builder entirely. It exists for persist.Load, which
// reconstructs a graph from a saved document rather than re-running
// construction.
func NewFrozenIndex(
	cfg Config,
	base *graph.Store[sketch.Sketch],
	layers []*graph.Store[graph.LayerNode[sketch.Sketch]],
	entryPoint graph.Idx,
	topLayer int,
	hasEntry bool,
) *Index {
	id := uuid.New()
	return &Index{
		id:         id,
		cfg:        cfg,
		log:        NewLogger().With().Str("index_id", id.String()).Logger(),
		base:       base,
		layers:     layers,
		entryPoint: entryPoint,
		topLayer:   topLayer,
		hasEntry:   hasEntry,
		visited:    structs.NewVisitedPool(base.Size()),
		heaps:      structs.NewHeapPool(),
		stats:      NewMetrics(),
	}
}

func (idx *Index) layerStore(layer int) *graph.Store[graph.LayerNode[sketch.Sketch]] {
	return idx.layers[layer-1]
}

// Search returns the k nearest neighbors of query by Hamming distance,
// ascending by (distance, key). ef controls the beam width of the final
// base-layer search; if ef is smaller than k it is silently raised to k,
// with a diagnostic logged, since an index that cannot return k candidates
// from a beam narrower than k is a misconfigured query, not a crash.
func (idx *Index) Search(query sketch.Sketch, k, ef int) []structs.DistanceRecord {
	start := time.Now()
	defer func() { idx.stats.QueryDuration.Observe(time.Since(start).Seconds()) }()
	idx.stats.QueriesTotal.Inc()

	if !idx.hasEntry || idx.base.Size() == 0 {
		return nil
	}
	if ef < k {
		idx.log.Warn().Int("ef", ef).Int("k", k).Msg("ef below k, raising ef to k")
		ef = k
	}

	visited := idx.visited.Get()
	candidates := idx.heaps.Get()
	results := idx.heaps.Get()
	defer func() {
		idx.visited.Put(visited)
		idx.heaps.Put(candidates)
		idx.heaps.Put(results)
	}()

	entry := []graph.Idx{idx.entryPoint}
	for l := idx.topLayer; l >= 1; l-- {
		store := idx.layerStore(l)
		distTo := func(n graph.LayerNode[sketch.Sketch]) uint32 { return query.Distance(n.Point) }
		found := searchLayer(store, distTo, entry, 1, visited, candidates, results)
		visited.Reset()
		if len(found) > 0 {
			entry = []graph.Idx{graph.Idx(found[0].Key)}
		}
		entry = downOneLayer(store, entry)
	}

	distTo := func(p sketch.Sketch) uint32 { return query.Distance(p) }
	found := searchLayer(idx.base, distTo, entry, ef, visited, candidates, results)
	if len(found) > k {
		found = found[:k]
	}
	return found
}
