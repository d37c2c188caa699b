package structs

import "math/bits"

// MinMaxHeap is the bounded candidate frontier the spec calls for: O(1)
// peek at both ends, O(log n) push/pop at both ends, via the classic
// interleaved min-level/max-level heap (Atkinson et al.). Beam search
// relies on comparing a new candidate against PeekMax and extending the
// frontier from PopMin; a pair of ordinary heaps (one MinHeap, one
// MaxHeap, kept in sync) cannot offer both without double bookkeeping,
// which is why this is a real min-max heap rather than the teacher's
// two-heap trick.
//
// Items are packed into uint64 scalars (see record.go) rather than stored
// as *DistanceRecord, avoiding one allocation per candidate during search.
type MinMaxHeap struct {
	data []uint64
}

// NewMinMaxHeap returns an empty heap with a small pre-allocated capacity.
func NewMinMaxHeap() *MinMaxHeap {
	return &MinMaxHeap{data: make([]uint64, 0, 64)}
}

// Len returns the number of elements currently in the heap.
func (h *MinMaxHeap) Len() int { return len(h.data) }

// Reset empties the heap while keeping the underlying array, so pooled
// heaps can be reused across searches without reallocating.
func (h *MinMaxHeap) Reset() { h.data = h.data[:0] }

// Push inserts a new distance record into the frontier.
func (h *MinMaxHeap) Push(r DistanceRecord) {
	h.data = append(h.data, encode(r))
	h.pushUp(len(h.data) - 1)
}

// PeekMin returns the smallest record without removing it.
func (h *MinMaxHeap) PeekMin() (DistanceRecord, bool) {
	if len(h.data) == 0 {
		return DistanceRecord{}, false
	}
	return decode(h.data[0]), true
}

// PeekMax returns the largest record without removing it.
func (h *MinMaxHeap) PeekMax() (DistanceRecord, bool) {
	switch len(h.data) {
	case 0:
		return DistanceRecord{}, false
	case 1:
		return decode(h.data[0]), true
	case 2:
		return decode(h.data[1]), true
	default:
		idx := 1
		if h.data[2] > h.data[1] {
			idx = 2
		}
		return decode(h.data[idx]), true
	}
}

// PopMin removes and returns the smallest record.
func (h *MinMaxHeap) PopMin() (DistanceRecord, bool) {
	if len(h.data) == 0 {
		return DistanceRecord{}, false
	}
	top := h.data[0]
	last := len(h.data) - 1
	h.data[0] = h.data[last]
	h.data = h.data[:last]
	if len(h.data) > 0 {
		h.trickleDownMin(0)
	}
	return decode(top), true
}

// PopMax removes and returns the largest record.
func (h *MinMaxHeap) PopMax() (DistanceRecord, bool) {
	n := len(h.data)
	if n == 0 {
		return DistanceRecord{}, false
	}
	idx := 0
	if n >= 2 {
		idx = 1
		if n >= 3 && h.data[2] > h.data[1] {
			idx = 2
		}
	}
	top := h.data[idx]
	last := len(h.data) - 1
	h.data[idx] = h.data[last]
	h.data = h.data[:last]
	if idx < len(h.data) {
		h.trickleDownMax(idx)
	}
	return decode(top), true
}

// DrainAsc consumes the heap, returning its contents in ascending
// distance order. The heap is empty after this call.
func (h *MinMaxHeap) DrainAsc() []DistanceRecord {
	out := make([]DistanceRecord, 0, len(h.data))
	for {
		r, ok := h.PopMin()
		if !ok {
			break
		}
		out = append(out, r)
	}
	return out
}

func parentOf(i int) int      { return (i - 1) / 2 }
func grandparentOf(i int) int { return (parentOf(i) - 1) / 2 }

// level returns the depth of index i in the implicit binary tree, root at
// depth 0. Even depths are min levels, odd depths are max levels.
func level(i int) int { return bits.Len(uint(i+1)) - 1 }

func isMinLevel(i int) bool { return level(i)%2 == 0 }

func (h *MinMaxHeap) swap(i, j int) { h.data[i], h.data[j] = h.data[j], h.data[i] }

func (h *MinMaxHeap) pushUp(i int) {
	if i == 0 {
		return
	}
	p := parentOf(i)
	if isMinLevel(i) {
		if h.data[i] > h.data[p] {
			h.swap(i, p)
			h.pushUpMax(p)
		} else {
			h.pushUpMin(i)
		}
	} else {
		if h.data[i] < h.data[p] {
			h.swap(i, p)
			h.pushUpMin(p)
		} else {
			h.pushUpMax(i)
		}
	}
}

func (h *MinMaxHeap) pushUpMin(i int) {
	for i > 2 {
		gp := grandparentOf(i)
		if h.data[i] < h.data[gp] {
			h.swap(i, gp)
			i = gp
		} else {
			break
		}
	}
}

func (h *MinMaxHeap) pushUpMax(i int) {
	for i > 2 {
		gp := grandparentOf(i)
		if h.data[i] > h.data[gp] {
			h.swap(i, gp)
			i = gp
		} else {
			break
		}
	}
}

// descendant scans the (at most 6) children and grandchildren of i and
// returns the index holding the extreme value selected by less.
func (h *MinMaxHeap) descendant(i int, less func(a, b uint64) bool) int {
	best := -1
	consider := func(j int) {
		if j < len(h.data) && (best == -1 || less(h.data[j], h.data[best])) {
			best = j
		}
	}
	consider(2*i + 1)
	consider(2*i + 2)
	consider(4*i + 3)
	consider(4*i + 4)
	consider(4*i + 5)
	consider(4*i + 6)
	return best
}

func (h *MinMaxHeap) trickleDown(i int) {
	if isMinLevel(i) {
		h.trickleDownMin(i)
	} else {
		h.trickleDownMax(i)
	}
}

func (h *MinMaxHeap) trickleDownMin(i int) {
	for {
		m := h.descendant(i, func(a, b uint64) bool { return a < b })
		if m == -1 {
			return
		}
		if m >= 4*i+3 { // grandchild
			if h.data[m] >= h.data[i] {
				return
			}
			h.swap(m, i)
			p := parentOf(m)
			if h.data[m] > h.data[p] {
				h.swap(m, p)
			}
			i = m
			continue
		}
		if h.data[m] < h.data[i] {
			h.swap(m, i)
		}
		return
	}
}

func (h *MinMaxHeap) trickleDownMax(i int) {
	for {
		m := h.descendant(i, func(a, b uint64) bool { return a > b })
		if m == -1 {
			return
		}
		if m >= 4*i+3 { // grandchild
			if h.data[m] <= h.data[i] {
				return
			}
			h.swap(m, i)
			p := parentOf(m)
			if h.data[m] < h.data[p] {
				h.swap(m, p)
			}
			i = m
			continue
		}
		if h.data[m] > h.data[i] {
			h.swap(m, i)
		}
		return
	}
}
