package hnsw

import (
	"math"
	"math/rand/v2"
)

// levelMultiplier is 1/ln(M); assignLevel uses it the way the construction
// algorithm draws an exponentially-decaying layer count per point so the
// expected number of nodes shrinks by a factor of M at each layer up.
func levelMultiplier(m int) float64 {
	return 1.0 / math.Log(float64(m))
}

// assignLevel draws the highest layer index a newly-inserted point should
// participate in, via floor(-ln(u) / ln(M)) for u uniform in (0, 1). Layer
// 0 is the base layer every point belongs to; a drawn level of L means the
// point also gets inserted into layers 1..L.
func assignLevel(rng *rand.Rand, mult float64) int {
	u := rng.Float64()
	for u == 0 {
		u = rng.Float64()
	}
	return int(math.Floor(-math.Log(u) * mult))
}

// assignLevels pre-draws every point's level serially, up front, so that a
// parallel build produces the exact same per-point levels as a serial build
// given the same seed - levels are the one piece of randomness construction
// depends on, and drawing them from worker goroutines would make the result
// depend on scheduling order. The edges of a parallel build still differ
// from a serial build's, since chunk members search without each other's
// edges.
func assignLevels(rng *rand.Rand, mult float64, n int) []int {
	levels := make([]int, n)
	for i := range levels {
		levels[i] = assignLevel(rng, mult)
	}
	return levels
}
