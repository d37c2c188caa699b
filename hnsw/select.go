package hnsw

import (
	"github.com/sketchnn/hnsw/graph"
	"github.com/sketchnn/hnsw/structs"
)

// selectNeighbors implements the diversity-preserving heuristic: candidates
// are considered in ascending distance-to-query order, and a candidate e is
// accepted only if it is closer to the query than it is to every neighbor
// already accepted. This rejects candidates that are redundant with an
// already-picked neighbor, which plain closest-M selection cannot do -
// closest-M happily keeps a tight cluster of near-duplicate neighbors and
// starves the graph of long-range edges.
func selectNeighbors(candidates []structs.DistanceRecord, m int, distBetween func(a, b graph.Idx) uint32) []graph.Idx {
	if m <= 0 {
		return nil
	}
	selected := make([]graph.Idx, 0, m)
	for _, cand := range candidates {
		if len(selected) >= m {
			break
		}
		e := graph.Idx(cand.Key)
		good := true
		for _, r := range selected {
			if distBetween(e, r) <= cand.Dist {
				good = false
				break
			}
		}
		if good {
			selected = append(selected, e)
		}
	}
	return selected
}
