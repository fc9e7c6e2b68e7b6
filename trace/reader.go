package trace

import (
	"cmp"

	"github.com/erigontech/difftrace/lattice"
	"github.com/erigontech/difftrace/ring"
	"github.com/erigontech/difftrace/trace/cursorlist"
	"github.com/erigontech/difftrace/trace/layers"
)

// Reader is the "reader handle" of §9's design note on cyclic references:
// a shared-ownership handle onto a Trace plus a locally tracked
// advance_by frontier representing this reader's own view of time
// coarsening. It exists so a dataflow operator can read from a trace
// whose writes depend on the operator's own output without a structural
// back-pointer: the cycle is broken by comparing a batch's upper with the
// trace's advertised frontier before reading, never by the reader holding
// a pointer back into whatever produced it.
type Reader[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]] struct {
	trace    *Trace[K, T, R]
	frontier lattice.Frontier[T]
}

// NewReader returns a reader handle over trace with an empty (no
// progress) local frontier.
func NewReader[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]](t *Trace[K, T, R]) *Reader[K, T, R] {
	return &Reader[K, T, R]{trace: t}
}

// ReadyFor reports whether the reader may safely observe batches with the
// given upper bound: every element of upper must be dominated by the
// trace's currently advertised frontier. This is the check that replaces
// a structural back-pointer when breaking a read/write cycle across
// dataflow operators.
func (r *Reader[K, T, R]) ReadyFor(upper *lattice.Frontier[T]) bool {
	traceFrontier := r.trace.Spine.Frontier()
	return upper.LessEqual(&traceFrontier)
}

// Cursor returns a merged cursor over the underlying trace's batches, for
// use once ReadyFor has confirmed the reader's required upper bound.
func (r *Reader[K, T, R]) Cursor() *cursorlist.List[K, T, R] {
	return r.trace.Cursor()
}

// CursorAt returns a cursor over the single batch whose [lower, upper)
// interval contains t, using the Spine's descriptor index (Spine.Locate),
// and reports whether a covering batch was
// found. Unlike Cursor, which merges every batch, this answers a
// point-in-time "which batch has this" query.
func (r *Reader[K, T, R]) CursorAt(t T) (*layers.Cursor[K, T, R], bool) {
	batch, ok := r.trace.Spine.Locate(t)
	if !ok {
		return nil, false
	}
	return batch.Cursor(), true
}

// AdvanceTo updates the reader's own locally tracked frontier — its view
// of how far it has coarsened time, independent of the trace's advertised
// frontier.
func (r *Reader[K, T, R]) AdvanceTo(frontier lattice.Frontier[T]) {
	r.frontier = frontier
}

// Frontier returns the reader's own locally tracked frontier.
func (r *Reader[K, T, R]) Frontier() lattice.Frontier[T] {
	return r.frontier.Clone()
}
