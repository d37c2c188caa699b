package sketch

import "math/bits"

// DistanceScalar computes Hamming distance word-by-word: XOR followed by a
// popcount of each 64-bit lane, summed. This is the reference kernel that
// every other distance path must agree with bit-exactly.
func DistanceScalar(a, b Sketch) uint32 {
	var total uint32
	for i := range a {
		total += uint32(bits.OnesCount64(a[i] ^ b[i]))
	}
	return total
}

// DistanceSIMD computes the same Hamming distance but accumulates across
// four independent lanes before the final reduction, the shape a compiler
// auto-vectorizer (or a hand-written AVX2 popcount kernel swapped in behind
// this same signature) operates on. It must return bit-exact results
// against DistanceScalar for every input; that equality is a tested
// invariant, not an assumption.
func DistanceSIMD(a, b Sketch) uint32 {
	var lane [4]uint32
	for i := 0; i < Words; i += 4 {
		lane[0] += uint32(bits.OnesCount64(a[i] ^ b[i]))
		lane[1] += uint32(bits.OnesCount64(a[i+1] ^ b[i+1]))
		lane[2] += uint32(bits.OnesCount64(a[i+2] ^ b[i+2]))
		lane[3] += uint32(bits.OnesCount64(a[i+3] ^ b[i+3]))
	}
	return lane[0] + lane[1] + lane[2] + lane[3]
}
