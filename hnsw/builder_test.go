package hnsw

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sketchnn/hnsw/graph"
	"github.com/sketchnn/hnsw/sketch"
)

func buildTestIndex(t *testing.T, n int, seed uint64) (*Index, []sketch.Sketch) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Size = n
	rng := rand.New(rand.NewPCG(seed, seed))
	b, err := NewBuilder(cfg, rng)
	require.NoError(t, err)
	points := make([]sketch.Sketch, n)
	for i := 0; i < n; i++ {
		points[i] = sketch.Random(rng)
		b.Insert(points[i])
	}
	return b.Freeze(), points
}

func TestBuilderSingleInsertHasNoEdges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 1
	rng := rand.New(rand.NewPCG(1, 1))
	b, err := NewBuilder(cfg, rng)
	require.NoError(t, err)
	p := sketch.Random(rng)
	idx := b.Insert(p)
	require.Equal(t, graph.Idx(0), idx)
	require.Equal(t, 0, b.base.Degree(idx))
}

func TestBuilderBaseLayerAdjacencyIsSymmetricAndBounded(t *testing.T) {
	idx, _ := buildTestIndex(t, 300, 10)
	base := idx.Base()
	for i := 0; i < base.Size(); i++ {
		for _, n := range base.Neighbors(graph.Idx(i)) {
			require.NotEqual(t, graph.Idx(i), n)
			require.Contains(t, base.Neighbors(n), graph.Idx(i))
		}
		require.LessOrEqual(t, base.Degree(graph.Idx(i)), idx.Config().MaxConnections)
	}
}

func TestBuilderUpperLayersAreContainedInLowerLayers(t *testing.T) {
	idx, _ := buildTestIndex(t, 400, 20)
	for l := 1; l < len(idx.Layers())+1; l++ {
		store := idx.layerStore(l)
		for i := 0; i < store.Size(); i++ {
			down := store.Get(graph.Idx(i)).Down
			if l == 1 {
				require.Less(t, int(down), idx.Base().Size())
			} else {
				below := idx.layerStore(l - 1)
				require.Less(t, int(down), below.Size())
			}
		}
	}
}

// TestSearchFindsTrueNearestAmongSmallSet is the recall scenario (S1-style):
// over a small enough index, ann search should agree with brute force.
func TestSearchFindsTrueNearestAmongSmallSet(t *testing.T) {
	idx, points := buildTestIndex(t, 500, 30)
	rng := rand.New(rand.NewPCG(99, 99))
	query := sketch.Random(rng)

	type scored struct {
		i int
		d uint32
	}
	brute := make([]scored, len(points))
	for i, p := range points {
		brute[i] = scored{i, query.Distance(p)}
	}
	sort.Slice(brute, func(a, b int) bool { return brute[a].d < brute[b].d })

	found := idx.Search(query, 10, 200)
	require.Len(t, found, 10)

	bruteBest := brute[0].d
	require.Equal(t, bruteBest, found[0].Dist, "top result should match brute-force nearest distance")
}

func TestSearchResultsAscendingAndWithinK(t *testing.T) {
	idx, _ := buildTestIndex(t, 300, 40)
	rng := rand.New(rand.NewPCG(7, 8))
	query := sketch.Random(rng)
	found := idx.Search(query, 15, 100)
	require.LessOrEqual(t, len(found), 15)
	for i := 1; i < len(found); i++ {
		require.True(t, found[i-1].Dist <= found[i].Dist)
	}
}

func TestSearchOnEmptyIndexReturnsNil(t *testing.T) {
	cfg := DefaultConfig()
	rng := rand.New(rand.NewPCG(1, 1))
	b, err := NewBuilder(cfg, rng)
	require.NoError(t, err)
	idx := b.Freeze()
	found := idx.Search(sketch.Random(rng), 5, 10)
	require.Nil(t, found)
}

func TestSearchRaisesEfBelowK(t *testing.T) {
	idx, _ := buildTestIndex(t, 100, 50)
	rng := rand.New(rand.NewPCG(2, 3))
	query := sketch.Random(rng)
	found := idx.Search(query, 20, 5)
	require.Greater(t, len(found), 5, "ef should have been raised from 5 to k")
	require.LessOrEqual(t, len(found), 20)
}

func TestSearchIsDeterministicForSameQuery(t *testing.T) {
	idx, _ := buildTestIndex(t, 200, 60)
	rng := rand.New(rand.NewPCG(3, 4))
	query := sketch.Random(rng)
	a := idx.Search(query, 10, 80)
	b := idx.Search(query, 10, 80)
	require.Equal(t, a, b)
}
