// Package sketch implements the fixed-width binary point type the index
// searches over: a 1024-bit sketch compared under Hamming distance.
package sketch

import "math/rand/v2"

// Words is the number of 64-bit lanes in a Sketch (1024 bits / 64).
const Words = 16

// Sketch is an opaque 1024-bit binary point. It is the concrete Point
// implementation used throughout the index; distance is symmetric,
// non-negative, and zero for identical sketches.
type Sketch [Words]uint64

// FromBits builds a Sketch from up to Words 64-bit words, zero-padding any
// remainder.
func FromBits(words []uint64) Sketch {
	var s Sketch
	copy(s[:], words)
	return s
}

// Random returns a Sketch with bits drawn uniformly from rng.
func Random(rng *rand.Rand) Sketch {
	var s Sketch
	for i := range s {
		s[i] = rng.Uint64()
	}
	return s
}

// Distance returns the Hamming distance between s and other: the number of
// bit positions at which they differ. It satisfies distance(a,a) = 0 and is
// symmetric by construction (XOR is commutative).
func (s Sketch) Distance(other Sketch) uint32 {
	return DistanceScalar(s, other)
}
