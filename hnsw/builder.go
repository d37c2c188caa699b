package hnsw

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/sketchnn/hnsw/graph"
	"github.com/sketchnn/hnsw/sketch"
	"github.com/sketchnn/hnsw/structs"
)

// Builder assembles the multi-layer graph one point (or one batch of
// points) at a time. Layer 0 holds raw sketches; every layer above it
// holds a LayerNode pointing down to the same logical point one layer
// below. The builder owns the entry point and the current top layer,
// updated every time a point is drawn with a level higher than anything
// seen before.
type Builder struct {
	id    uuid.UUID
	cfg   Config
	rng   *rand.Rand
	mult  float64
	log   Logger
	stats *Metrics

	base   *graph.Store[sketch.Sketch]
	layers []*graph.Store[graph.LayerNode[sketch.Sketch]]

	entryPoint graph.Idx
	topLayer   int
	hasEntry   bool

	visited *structs.VisitedPool
	heaps   *structs.HeapPool
}

// NewBuilder validates cfg and returns an empty Builder ready to accept
// points. rng seeds level assignment, both per Insert and for the parallel
// pipeline's pre-drawn levels. Every builder gets a fresh instance
// id so logs and metrics from concurrently-built indexes in the same
// process can be told apart.
func NewBuilder(cfg Config, rng *rand.Rand) (*Builder, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	id := uuid.New()
	b := &Builder{
		id:      id,
		cfg:     cfg,
		rng:     rng,
		mult:    levelMultiplier(cfg.Connections),
		log:     NewLogger().With().Str("index_id", id.String()).Logger(),
		stats:   NewMetrics(),
		base:    graph.NewStore[sketch.Sketch](cfg.Size),
		visited: structs.NewVisitedPool(cfg.Size),
		heaps:   structs.NewHeapPool(),
	}
	return b, nil
}

// ID returns the builder's unique instance identifier.
func (b *Builder) ID() uuid.UUID { return b.id }

func (b *Builder) layerStore(layer int) *graph.Store[graph.LayerNode[sketch.Sketch]] {
	for len(b.layers) < layer {
		b.layers = append(b.layers, graph.NewStore[graph.LayerNode[sketch.Sketch]](b.cfg.Size))
	}
	return b.layers[layer-1]
}

func baseDist(a, b sketch.Sketch) uint32 { return a.Distance(b) }

func layerDist(a, b graph.LayerNode[sketch.Sketch]) uint32 {
	return a.Point.Distance(b.Point)
}

// Insert adds a single point to the index, assigning it a fresh random
// level and wiring it into every layer from the base up through that
// level, descending greedily from the current entry point the way a query
// would before beam-searching each layer it actually joins.
func (b *Builder) Insert(point sketch.Sketch) graph.Idx {
	level := assignLevel(b.rng, b.mult)
	return b.insertAtLevel(point, level)
}

func (b *Builder) insertAtLevel(point sketch.Sketch, level int) graph.Idx {
	baseIdx := b.base.Add(point)

	if !b.hasEntry {
		b.topLayer = level
		b.hasEntry = true
		top := baseIdx
		for l := 1; l <= level; l++ {
			store := b.layerStore(l)
			top = store.Add(graph.LayerNode[sketch.Sketch]{Point: point, Down: top})
		}
		b.entryPoint = top
		b.stats.InsertsTotal.Inc()
		b.stats.GraphSize.Set(float64(b.base.Size()))
		return baseIdx
	}

	visited := b.visited.Get()
	candidates := b.heaps.Get()
	results := b.heaps.Get()
	defer func() {
		b.visited.Put(visited)
		b.heaps.Put(candidates)
		b.heaps.Put(results)
	}()

	// Pass A, bottom-up: create this point's node in every layer it joins.
	// Down pointers can only be set correctly in this direction, since a
	// layer-l node's Down must name an already-existing layer-(l-1) node.
	upNodes := make([]graph.Idx, level+1) // upNodes[0] == baseIdx
	upNodes[0] = baseIdx
	for l := 1; l <= level; l++ {
		store := b.layerStore(l)
		down := upNodes[l-1]
		upNodes[l] = store.Add(graph.LayerNode[sketch.Sketch]{Point: point, Down: down})
	}

	// Pass B, top-down: descend the existing graph from the current entry
	// point to a good starting node at layer `level`, ef=1 the way a query
	// descends, then beam search + connect at every layer from `level` down
	// to the base, carrying the selected neighbors as next layer's entry
	// points (converted one layer down via each node's Down pointer).
	entry := []graph.Idx{b.entryPoint}
	for l := b.topLayer; l > level && l >= 1; l-- {
		store := b.layerStore(l)
		distTo := func(n graph.LayerNode[sketch.Sketch]) uint32 { return point.Distance(n.Point) }
		found := searchLayer(store, distTo, entry, 1, visited, candidates, results)
		visited.Reset()
		if len(found) > 0 {
			entry = []graph.Idx{graph.Idx(found[0].Key)}
		}
		entry = downOneLayer(store, entry)
	}

	for l := minInt(level, b.topLayer); l >= 1; l-- {
		store := b.layerStore(l)
		newIdx := upNodes[l]
		node := store.Get(newIdx)
		selected := insertLayer(store, newIdx, node, layerDist, entry, b.cfg.EfConstruction, b.cfg.Connections, b.cfg.Connections, visited, candidates, results, b.stats.PrunesTotal.Inc)
		visited.Reset()
		if len(selected) == 0 {
			selected = entry
		}
		entry = downOneLayer(store, selected)
	}

	insertLayer(b.base, baseIdx, point, baseDist, entry, b.cfg.EfConstruction, b.cfg.Connections, b.cfg.MaxConnections, visited, candidates, results, b.stats.PrunesTotal.Inc)

	if level > b.topLayer {
		b.topLayer = level
		b.entryPoint = upNodes[level]
	}

	b.stats.InsertsTotal.Inc()
	b.stats.GraphSize.Set(float64(b.base.Size()))

	return baseIdx
}

// downOneLayer converts a set of node ids local to store (layer l) into
// the ids of the same logical points one layer below, via each node's
// Down pointer. Used both by descent (ef=1) and by the real per-layer
// insert, since selected neighbors must be re-expressed in the next
// layer down's id space before they can seed that layer's search.
func downOneLayer(store *graph.Store[graph.LayerNode[sketch.Sketch]], ids []graph.Idx) []graph.Idx {
	out := make([]graph.Idx, 0, len(ids))
	for _, id := range ids {
		out = append(out, store.Get(id).Down)
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
