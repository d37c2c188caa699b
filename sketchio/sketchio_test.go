package sketchio

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sketchnn/hnsw/sketch"
)

func TestSliceSourceDrain(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	points := []sketch.Sketch{sketch.Random(rng), sketch.Random(rng), sketch.Random(rng)}
	src := NewSliceSource(points)

	got, err := Drain(src)
	require.NoError(t, err)
	require.Equal(t, points, got)
}

func TestSliceSourceExhausted(t *testing.T) {
	src := NewSliceSource(nil)
	_, ok := src.Next()
	require.False(t, ok)
	require.NoError(t, src.Err())
}
