// Package batcher implements Batcher (§4.5): the engine's ingestion point.
// It accepts unsorted pushes, buffers them, periodically compacts by
// radix-sorting on key hash, and seals an immutable layer for a caller-
// supplied [lower, upper) interval.
package batcher

import (
	"cmp"
	"sort"

	log "github.com/erigontech/erigon-lib/log/v3"

	"github.com/erigontech/difftrace/consolidate"
	"github.com/erigontech/difftrace/desc"
	"github.com/erigontech/difftrace/internal/radix"
	"github.com/erigontech/difftrace/lattice"
	"github.com/erigontech/difftrace/ring"
	"github.com/erigontech/difftrace/trace/layers"
)

// bufferCapacity is the size of the active buffer and every filled buffer,
// per §4.5's "small active buffer (≈ 1024 tuples)".
const bufferCapacity = 1 << 10

// minCompactionThreshold is the floor Push uses for the compaction trigger
// max(2*sortedCount, minCompactionThreshold), per §4.5.
const minCompactionThreshold = 1000

// Batcher implements the external Batcher contract of §6.
type Batcher[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]] struct {
	hashFn layers.HashFunc[K]
	logger log.Logger

	active []tuple[K, T, R]
	filled [][]tuple[K, T, R]
	stash  [][]tuple[K, T, R]

	sortedCount int
	frontier    lattice.Frontier[T]
}

// New returns an empty Batcher hashing keys with hashFn. logger may be nil;
// per the AMBIENT STACK, the core never requires a logger to function.
func New[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]](hashFn layers.HashFunc[K], logger log.Logger) *Batcher[K, T, R] {
	if logger == nil {
		logger = log.Root()
	}
	return &Batcher[K, T, R]{hashFn: hashFn, logger: logger}
}

// Push appends (key, t, r) to the active buffer. When the active buffer
// fills, it is moved to the filled list and replaced from the stash (or
// freshly allocated); if the filled-buffer count then exceeds
// max(2*sortedCount, 1000), compact runs.
func (b *Batcher[K, T, R]) Push(key K, t T, r R) {
	tuplesPushed.Inc()
	b.frontier.Insert(t)
	b.active = append(b.active, tuple[K, T, R]{key: key, time: t, diff: r})
	if len(b.active) < bufferCapacity {
		return
	}
	b.filled = append(b.filled, b.active)
	b.active = b.takeBuffer()
	threshold := 2 * b.sortedCount
	if threshold < minCompactionThreshold {
		threshold = minCompactionThreshold
	}
	if len(b.filled) > threshold {
		b.compact()
	}
}

func (b *Batcher[K, T, R]) takeBuffer() []tuple[K, T, R] {
	if n := len(b.stash); n > 0 {
		buf := b.stash[n-1]
		b.stash = b.stash[:n-1]
		return buf[:0]
	}
	return make([]tuple[K, T, R], 0, bufferCapacity)
}

func (b *Batcher[K, T, R]) recycle(buf []tuple[K, T, R]) {
	b.stash = append(b.stash, buf[:0])
}

// compact radix-sorts every filled buffer by hash(key), consolidates each
// contiguous same-hash run, and re-chunks the result back into buffers.
// After compact, tuples sharing a key hash are contiguous and internally
// consolidated, per §4.5.
func (b *Batcher[K, T, R]) compact() {
	compactions.Inc()
	all := make([]tuple[K, T, R], 0, len(b.filled)*bufferCapacity)
	for _, buf := range b.filled {
		all = append(all, buf...)
		b.recycle(buf)
	}
	b.filled = b.filled[:0]

	radix.SortByKey(all, func(t tuple[K, T, R]) uint64 { return b.hashFn(t.key) })

	i := 0
	for i < len(all) {
		h := b.hashFn(all[i].key)
		j := i + 1
		for j < len(all) && b.hashFn(all[j].key) == h {
			j++
		}
		for _, e := range consolidateRun(all[i:j]) {
			b.append(e.key, e.time, e.diff)
		}
		i = j
	}
	b.sortedCount = len(b.filled)
	// Consolidation may have dropped every tuple at some time, so the
	// cached frontier is rebuilt from what is still held.
	b.recomputeFrontier()
	if b.logger != nil {
		b.logger.Debug("difftrace batcher compacted", "filledBuffers", b.sortedCount)
	}
}

func (b *Batcher[K, T, R]) append(key K, t T, r R) {
	b.active = append(b.active, tuple[K, T, R]{key: key, time: t, diff: r})
	if len(b.active) == bufferCapacity {
		b.filled = append(b.filled, b.active)
		b.active = b.takeBuffer()
	}
}

// consolidateRun sorts a same-hash run by (key, time) and consolidates
// equal (key, time) pairs, summing diffs and eliding zero sums. Grouping
// by the composite key lets the same consolidate.Consolidate primitive
// §4.1 describes serve both the batcher's compact/seal paths and the
// trie's merge/advance_by paths.
func consolidateRun[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]](run []tuple[K, T, R]) []tuple[K, T, R] {
	sort.Slice(run, func(i, j int) bool {
		if run[i].key != run[j].key {
			return run[i].key < run[j].key
		}
		return run[i].time.Compare(run[j].time) < 0
	})
	entries := make([]consolidate.Entry[keyTime[K, T], R], len(run))
	for i, t := range run {
		entries[i] = consolidate.Entry[keyTime[K, T], R]{Item: keyTime[K, T]{t.key, t.time}, Diff: t.diff}
	}
	entries = consolidate.Consolidate(entries)
	out := make([]tuple[K, T, R], len(entries))
	for i, e := range entries {
		out[i] = tuple[K, T, R]{key: e.Item.key, time: e.Item.time, diff: e.Diff}
	}
	return out
}

type keyTime[K cmp.Ordered, T lattice.Time[T]] struct {
	key  K
	time T
}

// Seal partitions all buffered tuples by whether their time lies in
// [lower, upper), per §4.5: the included set is radix-sorted by key hash,
// consolidated per hash bucket, and fed into a layers.Builder in strictly
// ascending (hash, key, time) order; the excluded set is retained for a
// future seal. Returns a fresh, immutable Batch with Description (lower,
// upper, lower).
func (b *Batcher[K, T, R]) Seal(lower, upper lattice.Frontier[T]) *layers.TrieLayer[K, T, R] {
	if len(b.active) > 0 {
		b.filled = append(b.filled, b.active)
		b.active = nil
	}
	filled := b.filled
	b.filled = nil

	var included []tuple[K, T, R]
	var retained []tuple[K, T, R]
	d := desc.Sealed(lower, upper)
	for _, buf := range filled {
		for _, t := range buf {
			if d.InInterval(t.time) {
				included = append(included, t)
			} else {
				retained = append(retained, t)
			}
		}
		b.recycle(buf)
	}
	b.active = b.takeBuffer()
	for _, t := range retained {
		b.append(t.key, t.time, t.diff)
	}

	radix.SortByKey(included, func(t tuple[K, T, R]) uint64 { return b.hashFn(t.key) })
	bld := layers.NewBuilder[K, T, R](b.hashFn)
	i := 0
	for i < len(included) {
		h := b.hashFn(included[i].key)
		j := i + 1
		for j < len(included) && b.hashFn(included[j].key) == h {
			j++
		}
		for _, e := range consolidateRun(included[i:j]) {
			bld.Push(e.key, e.time, e.diff)
		}
		i = j
	}
	batch := bld.Done(lower, upper)

	tuplesSealed.Add(len(included))
	sealSizes.Update(float64(len(included)))

	// Per §9's resolved Open Question, recompute the retained-tuple
	// frontier immediately rather than leaving it stale until the next
	// explicit Frontier() call.
	b.recomputeFrontier()
	if b.logger != nil {
		b.logger.Info("difftrace batcher sealed", "sealed", len(included), "retained", len(retained))
	}
	return batch
}

// Frontier returns the minimal antichain of all currently held times,
// across the active and filled buffers.
func (b *Batcher[K, T, R]) Frontier() lattice.Frontier[T] {
	return b.frontier.Clone()
}

func (b *Batcher[K, T, R]) recomputeFrontier() {
	var f lattice.Frontier[T]
	for _, t := range b.active {
		f.Insert(t.time)
	}
	for _, buf := range b.filled {
		for _, t := range buf {
			f.Insert(t.time)
		}
	}
	b.frontier = f
}
