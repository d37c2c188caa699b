package structs

import (
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMinMaxHeapPeekEmpty(t *testing.T) {
	h := NewMinMaxHeap()
	_, ok := h.PeekMin()
	require.False(t, ok)
	_, ok = h.PeekMax()
	require.False(t, ok)
}

func TestMinMaxHeapSingle(t *testing.T) {
	h := NewMinMaxHeap()
	h.Push(DistanceRecord{Dist: 7, Key: 1})
	min, ok := h.PeekMin()
	require.True(t, ok)
	require.Equal(t, DistanceRecord{Dist: 7, Key: 1}, min)
	max, ok := h.PeekMax()
	require.True(t, ok)
	require.Equal(t, DistanceRecord{Dist: 7, Key: 1}, max)
}

func TestMinMaxHeapPeekTracksExtremes(t *testing.T) {
	h := NewMinMaxHeap()
	values := []uint32{5, 1, 9, 3, 7, 2, 8, 0, 6, 4}
	for i, v := range values {
		h.Push(DistanceRecord{Dist: v, Key: i})
	}
	min, _ := h.PeekMin()
	max, _ := h.PeekMax()
	require.Equal(t, uint32(0), min.Dist)
	require.Equal(t, uint32(9), max.Dist)
}

func TestMinMaxHeapDrainAscIsSorted(t *testing.T) {
	rng := rand.New(rand.NewPCG(11, 22))
	h := NewMinMaxHeap()
	n := 500
	want := make([]DistanceRecord, 0, n)
	for i := 0; i < n; i++ {
		r := DistanceRecord{Dist: uint32(rng.IntN(1025)), Key: i}
		h.Push(r)
		want = append(want, r)
	}
	sort.Slice(want, func(i, j int) bool { return want[i].Less(want[j]) })

	got := h.DrainAsc()
	require.Equal(t, want, got)
	require.Equal(t, 0, h.Len())
}

func TestMinMaxHeapPopMinPopMaxInterleaved(t *testing.T) {
	rng := rand.New(rand.NewPCG(33, 44))
	h := NewMinMaxHeap()
	n := 300
	all := make([]DistanceRecord, 0, n)
	for i := 0; i < n; i++ {
		r := DistanceRecord{Dist: uint32(rng.IntN(1025)), Key: i}
		h.Push(r)
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Less(all[j]) })

	lo, hi := 0, len(all)-1
	for h.Len() > 0 {
		if hi-lo >= 0 && h.Len() > 1 {
			min, ok := h.PopMin()
			require.True(t, ok)
			require.Equal(t, all[lo], min)
			lo++

			max, ok := h.PopMax()
			require.True(t, ok)
			require.Equal(t, all[hi], max)
			hi--
		} else {
			min, ok := h.PopMin()
			require.True(t, ok)
			require.Equal(t, all[lo], min)
			lo++
		}
	}
}

func TestMinMaxHeapReset(t *testing.T) {
	h := NewMinMaxHeap()
	for i := 0; i < 10; i++ {
		h.Push(DistanceRecord{Dist: uint32(i), Key: i})
	}
	h.Reset()
	require.Equal(t, 0, h.Len())
	_, ok := h.PeekMin()
	require.False(t, ok)
	h.Push(DistanceRecord{Dist: 3, Key: 3})
	min, ok := h.PeekMin()
	require.True(t, ok)
	require.Equal(t, DistanceRecord{Dist: 3, Key: 3}, min)
}
