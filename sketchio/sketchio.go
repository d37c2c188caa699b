// Package sketchio defines the boundary between the index and whatever
// bulk point storage format a caller uses to feed it. It intentionally
// stops at the interface: the dataset formats this is meant to front
// (large columnar sketch archives) are an external concern, wired in by
// whatever adapter a deployment needs, not by this module.
package sketchio

import "github.com/sketchnn/hnsw/sketch"

// PointSource streams sketches for bulk construction. Implementations
// typically wrap a dataset reader; Next returns (zero, false) once
// exhausted, and any read error is surfaced through Err after that.
type PointSource interface {
	Next() (sketch.Sketch, bool)
	Err() error
}

// ResultSink receives query results as they are produced, keyed by the
// query's identifier in the caller's own indexing scheme. Implementations
// typically batch these into an output dataset.
type ResultSink interface {
	Write(queryID int, neighbors []sketch.Sketch, distances []uint32) error
}

// SliceSource is the trivial in-memory PointSource, used by tests and by
// callers small enough not to need a streaming adapter.
type SliceSource struct {
	points []sketch.Sketch
	pos    int
}

// NewSliceSource wraps points as a PointSource.
func NewSliceSource(points []sketch.Sketch) *SliceSource {
	return &SliceSource{points: points}
}

// Next returns the next point, or (zero, false) once exhausted.
func (s *SliceSource) Next() (sketch.Sketch, bool) {
	if s.pos >= len(s.points) {
		return sketch.Sketch{}, false
	}
	p := s.points[s.pos]
	s.pos++
	return p, true
}

// Err always returns nil: a slice cannot fail to read.
func (s *SliceSource) Err() error { return nil }

// Drain collects every point from src into a slice, the form the index's
// batch construction entry points expect.
func Drain(src PointSource) ([]sketch.Sketch, error) {
	var out []sketch.Sketch
	for {
		p, ok := src.Next()
		if !ok {
			break
		}
		out = append(out, p)
	}
	return out, src.Err()
}
