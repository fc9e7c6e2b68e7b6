// Package trace assembles a Batcher and a Spine into the Trace external
// contract of §6: new(default_time), insert(batch), cursor(), and
// advance_by(frontier). It is the top-level entry point a surrounding
// dataflow runtime drives.
package trace

import (
	"cmp"

	log "github.com/erigontech/erigon-lib/log/v3"

	"github.com/erigontech/difftrace/batcher"
	"github.com/erigontech/difftrace/lattice"
	"github.com/erigontech/difftrace/ring"
	"github.com/erigontech/difftrace/spine"
	"github.com/erigontech/difftrace/trace/cursorlist"
	"github.com/erigontech/difftrace/trace/layers"
)

// Trace owns one Spine and one Batcher, per the single-threaded
// cooperative concurrency model of §5: one logical worker owns both.
type Trace[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]] struct {
	Spine   *spine.Spine[K, T, R]
	Batcher *batcher.Batcher[K, T, R]
}

// New returns a Trace with an empty Spine and Batcher, both hashing keys
// with hashFn. logger may be nil.
func New[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]](hashFn layers.HashFunc[K], logger log.Logger) *Trace[K, T, R] {
	return &Trace[K, T, R]{
		Spine:   spine.New[K, T, R](hashFn, logger),
		Batcher: batcher.New[K, T, R](hashFn, logger),
	}
}

// Push buffers an update in the Batcher.
func (t *Trace[K, T, R]) Push(key K, when T, diff R) {
	t.Batcher.Push(key, when, diff)
}

// Seal seals the Batcher's buffered tuples for [lower, upper) and inserts
// the resulting batch into the Spine, running its merge cascade.
func (t *Trace[K, T, R]) Seal(lower, upper lattice.Frontier[T]) {
	batch := t.Batcher.Seal(lower, upper)
	t.Spine.Insert(batch)
}

// Cursor returns a merged CursorList over every batch in the Spine.
func (t *Trace[K, T, R]) Cursor() *cursorlist.List[K, T, R] {
	return t.Spine.Cursor()
}

// AdvanceBy updates the Spine's advertised frontier; the next merge that
// produces a new bottom batch materializes the coarsening.
func (t *Trace[K, T, R]) AdvanceBy(frontier lattice.Frontier[T]) {
	t.Spine.AdvanceBy(frontier)
}
