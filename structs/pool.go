package structs

import "sync"

// VisitedPool hands out reset VisitedSets so concurrent searches (serial
// beam search reusing one set across calls, or the parallel build's worker
// goroutines each owning their own) never allocate the backing array per
// query. Checkout resets the set before returning it, so callers never see
// stale marks from a prior borrower.
type VisitedPool struct {
	size int
	pool sync.Pool
}

// NewVisitedPool returns a pool producing VisitedSets sized for indices in
// [0, size).
func NewVisitedPool(size int) *VisitedPool {
	p := &VisitedPool{size: size}
	p.pool.New = func() any { return NewVisitedSet(p.size) }
	return p
}

// Get returns a visited set ready for a fresh search.
func (p *VisitedPool) Get() *VisitedSet {
	v := p.pool.Get().(*VisitedSet)
	v.Grow(p.size)
	v.Reset()
	return v
}

// Put returns a visited set to the pool for reuse.
func (p *VisitedPool) Put(v *VisitedSet) {
	p.pool.Put(v)
}

// Grow widens every set the pool will hand out from now on, used when the
// index's node count grows past the pool's original sizing.
func (p *VisitedPool) Grow(size int) {
	if size > p.size {
		p.size = size
	}
}

// HeapPool hands out reset MinMaxHeaps, mirroring VisitedPool so beam
// search allocates neither its visited set nor its candidate frontier on
// the hot path.
type HeapPool struct {
	pool sync.Pool
}

// NewHeapPool returns a pool of empty MinMaxHeaps.
func NewHeapPool() *HeapPool {
	p := &HeapPool{}
	p.pool.New = func() any { return NewMinMaxHeap() }
	return p
}

// Get returns an empty heap ready for use.
func (p *HeapPool) Get() *MinMaxHeap {
	h := p.pool.Get().(*MinMaxHeap)
	h.Reset()
	return h
}

// Put returns a heap to the pool for reuse.
func (p *HeapPool) Put(h *MinMaxHeap) {
	p.pool.Put(h)
}
