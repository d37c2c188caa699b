package hnsw

import (
	"github.com/sketchnn/hnsw/graph"
	"github.com/sketchnn/hnsw/structs"
)

// searchLayer is the beam search used both at construction time and at
// query time: starting from entryPoints, it greedily expands the
// frontier's closest unvisited candidate, stopping once the farthest
// surviving result is closer than the next candidate and the result set
// has reached ef. distTo computes the distance from the (implicit) query
// to a point of type T; the caller supplies visited/candidates/results
// borrowed from a pool so the hot path never allocates.
func searchLayer[T any](
	store *graph.Store[T],
	distTo func(T) uint32,
	entryPoints []graph.Idx,
	ef int,
	visited *structs.VisitedSet,
	candidates *structs.MinMaxHeap,
	results *structs.MinMaxHeap,
) []structs.DistanceRecord {
	for _, ep := range entryPoints {
		if visited.Visit(int(ep)) {
			continue
		}
		d := distTo(store.Get(ep))
		rec := structs.DistanceRecord{Dist: d, Key: int(ep)}
		candidates.Push(rec)
		results.Push(rec)
	}

	for {
		c, ok := candidates.PopMin()
		if !ok {
			break
		}
		if f, ok := results.PeekMax(); ok && results.Len() >= ef && c.Dist > f.Dist {
			break
		}
		for _, n := range store.Neighbors(graph.Idx(c.Key)) {
			if visited.Visit(int(n)) {
				continue
			}
			d := distTo(store.Get(n))
			f, full := results.PeekMax()
			if results.Len() < ef || (full && d < f.Dist) {
				rec := structs.DistanceRecord{Dist: d, Key: int(n)}
				candidates.Push(rec)
				results.Push(rec)
				if results.Len() > ef {
					results.PopMax()
				}
			}
		}
	}

	return results.DrainAsc()
}
