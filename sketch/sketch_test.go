package sketch

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistanceIdentity(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	s := Random(rng)
	require.Equal(t, uint32(0), s.Distance(s))
}

func TestDistanceSymmetric(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 2))
	a, b := Random(rng), Random(rng)
	require.Equal(t, a.Distance(b), b.Distance(a))
}

func TestDistanceKnownBits(t *testing.T) {
	a := FromBits([]uint64{0b1010})
	b := FromBits([]uint64{0b0110})
	// differ in bits 2 and 3 -> Hamming distance 2
	require.Equal(t, uint32(2), a.Distance(b))
}

// TestScalarSIMDAgree is the spec's property 7: scalar and SIMD kernels
// must agree bit-exactly across random sketch pairs.
func TestScalarSIMDAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	for i := 0; i < 100; i++ {
		a, b := Random(rng), Random(rng)
		require.Equal(t, DistanceScalar(a, b), DistanceSIMD(a, b), "pair %d", i)
	}
}
