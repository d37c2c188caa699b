package hnsw

import (
	"sort"

	"github.com/sketchnn/hnsw/graph"
	"github.com/sketchnn/hnsw/structs"
)

// insertLayer performs a single point's insertion into one layer: beam
// search for candidates from the layer's current entry points, heuristic
// selection down to m neighbors, bidirectional connection, and - for any
// neighbor pushed over its degree cap - a prune pass that keeps the
// neighbor's adjacency diverse while always pinning the edge back to the
// point just inserted.
//
// distPP computes point-to-point distance within this layer; newPoint is
// the point being inserted at newIdx (already added to store by the
// caller). capAt bounds every node's degree in this layer (MaxConnections at
// the base layer, Connections above it).
func insertLayer[T any](
	store *graph.Store[T],
	newIdx graph.Idx,
	newPoint T,
	distPP func(a, b T) uint32,
	entryPoints []graph.Idx,
	ef, m, capAt int,
	visited *structs.VisitedSet,
	candidates, results *structs.MinMaxHeap,
	onPrune func(),
) []graph.Idx {
	selected := searchAndSelect(store, newPoint, distPP, entryPoints, ef, m, visited, candidates, results)
	connectAndPrune(store, newIdx, selected, capAt, distPP, onPrune)
	return selected
}

// searchAndSelect is insertLayer's read-only half: beam search followed by
// heuristic selection, touching nothing but the visited/candidate/result
// scratch space. It is safe to run concurrently for many different points
// against the same store as long as none of those points have had edges
// added yet - the parallel build pipeline's batched phase relies on
// exactly that property to search without locking.
func searchAndSelect[T any](
	store *graph.Store[T],
	newPoint T,
	distPP func(a, b T) uint32,
	entryPoints []graph.Idx,
	ef, m int,
	visited *structs.VisitedSet,
	candidates, results *structs.MinMaxHeap,
) []graph.Idx {
	distTo := func(p T) uint32 { return distPP(newPoint, p) }
	distBetween := func(a, b graph.Idx) uint32 { return distPP(store.Get(a), store.Get(b)) }

	found := searchLayer(store, distTo, entryPoints, ef, visited, candidates, results)
	return selectNeighbors(found, m, distBetween)
}

// connectAndPrune is insertLayer's mutating half: it wires newIdx to every
// selected neighbor and, for any neighbor pushed over capAt, prunes that
// neighbor's adjacency back down. It must run serially with respect to any
// other store mutation.
func connectAndPrune[T any](store *graph.Store[T], newIdx graph.Idx, selected []graph.Idx, capAt int, distPP func(a, b T) uint32, onPrune func()) {
	for _, nb := range selected {
		store.AddEdge(newIdx, nb)
	}
	for _, nb := range selected {
		if store.Degree(nb) > capAt {
			pruneNeighbor(store, nb, newIdx, capAt, distPP)
			if onPrune != nil {
				onPrune()
			}
		}
	}
}

// pruneNeighbor re-runs heuristic selection over nb's own neighbor list
// (now including the freshly inserted point) to bring its degree back
// under cap. The newly inserted point, mustKeep, is pinned into the result
// even if the heuristic would otherwise have dropped it: it is the
// neighbor nb was just connected to, and discarding it immediately would
// make the connect step above pointless. Symmetry is then restored by
// removing the reverse half of any edge the prune dropped.
func pruneNeighbor[T any](store *graph.Store[T], nb, mustKeep graph.Idx, capAt int, distPP func(a, b T) uint32) {
	old := append([]graph.Idx(nil), store.Neighbors(nb)...)

	nbPoint := store.Get(nb)
	cands := make([]structs.DistanceRecord, 0, len(old))
	for _, n := range old {
		cands = append(cands, structs.DistanceRecord{Dist: distPP(nbPoint, store.Get(n)), Key: int(n)})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].Less(cands[j]) })

	distBetween := func(a, b graph.Idx) uint32 { return distPP(store.Get(a), store.Get(b)) }
	kept := selectNeighbors(cands, capAt, distBetween)

	pinned := false
	for _, k := range kept {
		if k == mustKeep {
			pinned = true
			break
		}
	}
	if !pinned {
		if len(kept) >= capAt && capAt > 0 {
			kept = kept[:capAt-1]
		}
		kept = append(kept, mustKeep)
	}

	store.SetNeighbors(nb, kept)

	keptSet := make(map[graph.Idx]bool, len(kept))
	for _, k := range kept {
		keptSet[k] = true
	}
	for _, o := range old {
		if !keptSet[o] {
			store.RemoveEdge(nb, o)
		}
	}
}
