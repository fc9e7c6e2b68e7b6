// Package spine implements Spine (§4.7): the ordered, LSM-style stack of
// batches that gives the engine its amortized O(log N) merge behavior, and
// the Trace external contract of §6.
package spine

import (
	"cmp"

	log "github.com/erigontech/erigon-lib/log/v3"
	"go.uber.org/atomic"

	"github.com/erigontech/difftrace/desc"
	"github.com/erigontech/difftrace/internal/invariant"
	"github.com/erigontech/difftrace/lattice"
	"github.com/erigontech/difftrace/ring"
	"github.com/erigontech/difftrace/trace/cursorlist"
	"github.com/erigontech/difftrace/trace/layers"
)

// Spine is an ordered stack of batches, oldest (largest) at index 0 and
// newest (smallest) at the top (the end of the slice). It implements the
// Trace contract of §6: new, insert, cursor, advance_by.
type Spine[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]] struct {
	hashFn   layers.HashFunc[K]
	logger   log.Logger
	batches  []*layers.TrieLayer[K, T, R]
	frontier lattice.Frontier[T]

	index *descriptorIndex[T, K, R]

	rebuilding *atomic.Bool
}

// New returns an empty Spine hashing keys with hashFn.
func New[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]](hashFn layers.HashFunc[K], logger log.Logger) *Spine[K, T, R] {
	if logger == nil {
		logger = log.Root()
	}
	return &Spine[K, T, R]{
		hashFn:     hashFn,
		logger:     logger,
		index:      newDescriptorIndex[T, K, R](),
		rebuilding: atomic.NewBool(false),
	}
}

// Len returns the number of batches currently in the stack.
func (s *Spine[K, T, R]) Len() int {
	return len(s.batches)
}

// Frontier returns the Spine's advertised frontier: the compaction target
// the next bottom-batch merge will materialize.
func (s *Spine[K, T, R]) Frontier() lattice.Frontier[T] {
	return s.frontier.Clone()
}

// AdvanceBy updates the Spine's stored frontier. Per §4.7, this does not
// immediately coarsen any batch; the next merge that produces a new
// bottom batch materializes the coarsening.
func (s *Spine[K, T, R]) AdvanceBy(frontier lattice.Frontier[T]) {
	s.frontier = frontier
}

// Insert adds a freshly sealed (or otherwise externally produced) batch
// to the top of the stack and runs the two merge-triggering passes of
// §4.7: pre-insert draining, then post-insert cascading. Empty merge
// results are discarded. advance_by(frontier) is applied only when a
// merge produces the new bottommost batch.
func (s *Spine[K, T, R]) Insert(batch *layers.TrieLayer[K, T, R]) {
	if batch.Len() == 0 && batch.KeyCount() == 0 {
		// An empty incoming batch can never participate in a merge
		// usefully and the size-tiered conditions below are vacuous for
		// it; it is not stored, so its interval does not appear among
		// the Spine's Descriptions.
		return
	}
	s.drainSmaller(batch)
	s.batches = append(s.batches, batch.Retain())
	s.cascade()
	s.rebuildIndex()
}

// drainSmaller implements pre-insert draining: while the stack has at
// least two batches and the second-from-top is smaller than the
// incoming batch, pop the top two, merge, and push the result. This
// keeps larger batches below smaller ones so the ratio invariant applies
// to the correct pair once the incoming batch is pushed.
func (s *Spine[K, T, R]) drainSmaller(incoming *layers.TrieLayer[K, T, R]) {
	for len(s.batches) >= 2 && s.batches[len(s.batches)-2].Len() < incoming.Len() {
		s.mergeTop()
	}
}

// cascade implements post-insert cascading: while the stack has at least
// two batches and the second-from-top is smaller than twice the top
// batch, pop the top two, merge, and push the result, applying
// advance_by to a merge that becomes the new bottom batch.
func (s *Spine[K, T, R]) cascade() {
	for len(s.batches) >= 2 && s.batches[len(s.batches)-2].Len() < 2*s.batches[len(s.batches)-1].Len() {
		s.mergeTop()
	}
}

// mergeTop pops the top two batches, merges them (older.Merge(newer),
// matching the stack's oldest-first order), and pushes the result if
// nonempty. If the merge leaves the stack empty at the moment of the
// push, the merged batch is the new bottom batch and advance_by(frontier)
// is applied to it first.
func (s *Spine[K, T, R]) mergeTop() {
	n := len(s.batches)
	invariant.Require(n >= 2, "spine: mergeTop called with fewer than two batches")
	newer := s.batches[n-1]
	older := s.batches[n-2]
	s.batches = s.batches[:n-2]

	merged := older.Merge(newer)
	older.Release()
	newer.Release()
	mergesTotal.Inc()
	mergedBatchSizes.Update(float64(merged.Len()))

	if merged.Len() == 0 && merged.KeyCount() == 0 {
		return
	}
	if len(s.batches) == 0 {
		f := s.frontier.Clone()
		if !f.Empty() {
			coarsened := merged.AdvanceBy(&f)
			merged = coarsened
		}
	}
	s.batches = append(s.batches, merged.Retain())
	if s.logger != nil {
		s.logger.Debug("difftrace spine merged batches", "resultLen", merged.Len(), "stackDepth", len(s.batches))
	}
}

// Cursor returns a CursorList over every non-empty batch's cursor, oldest
// first.
func (s *Spine[K, T, R]) Cursor() *cursorlist.List[K, T, R] {
	cursors := make([]*layers.Cursor[K, T, R], 0, len(s.batches))
	for _, b := range s.batches {
		if b.Len() > 0 {
			cursors = append(cursors, b.Cursor())
		}
	}
	return cursorlist.New(cursors)
}

// BatchSizes returns the current batch lengths, oldest first, primarily
// for tests asserting the size-tiered invariant of §8.
func (s *Spine[K, T, R]) BatchSizes() []int {
	sizes := make([]int, len(s.batches))
	for i, b := range s.batches {
		sizes[i] = b.Len()
	}
	return sizes
}

// CheckInvariant reports whether every adjacent pair of batches satisfies
// len(A) >= 2*len(B), or A is the bottom batch, per §8's Spine invariant.
// It is intended for tests, not the hot path.
func (s *Spine[K, T, R]) CheckInvariant() bool {
	for i := 1; i < len(s.batches); i++ {
		a, b := s.batches[i-1], s.batches[i]
		if i-1 == 0 {
			continue
		}
		if a.Len() < 2*b.Len() {
			return false
		}
	}
	return true
}

func (s *Spine[K, T, R]) rebuildIndex() {
	s.index.rebuild(s.batches)
}

// Locate returns the batch whose [lower, upper) interval contains t,
// consulting the descriptor index rebuilt on every Insert, and reports
// whether one was found. This is the query the index exists for: a reader
// asking "which batch covers logical time t". The index is visited in
// stack order, so the lookup is linear in the number of batches.
func (s *Spine[K, T, R]) Locate(t T) (*layers.TrieLayer[K, T, R], bool) {
	return s.index.Locate(t)
}

// Descriptions returns the Description of every batch, oldest first.
func (s *Spine[K, T, R]) Descriptions() []desc.Description[T] {
	out := make([]desc.Description[T], len(s.batches))
	for i, b := range s.batches {
		out[i] = b.Description()
	}
	return out
}
