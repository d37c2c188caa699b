package hnsw

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssignLevelNeverNegative(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	mult := levelMultiplier(16)
	for i := 0; i < 10_000; i++ {
		require.GreaterOrEqual(t, assignLevel(rng, mult), 0)
	}
}

func TestAssignLevelDistributionShrinksWithHeight(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	mult := levelMultiplier(16)
	counts := map[int]int{}
	n := 200_000
	for i := 0; i < n; i++ {
		counts[assignLevel(rng, mult)]++
	}
	// level 0 should be the overwhelming majority of draws.
	require.Greater(t, counts[0], n/2)
	// higher levels should be strictly rarer than the one below.
	for l := 1; l <= 3; l++ {
		require.Less(t, counts[l], counts[l-1])
	}
}

func TestAssignLevelsIsDeterministicForSeed(t *testing.T) {
	mult := levelMultiplier(16)
	rngA := rand.New(rand.NewPCG(42, 42))
	rngB := rand.New(rand.NewPCG(42, 42))
	a := assignLevels(rngA, mult, 500)
	b := assignLevels(rngB, mult, 500)
	require.Equal(t, a, b)
}
