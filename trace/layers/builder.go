package layers

import (
	"cmp"

	"go.uber.org/atomic"

	"github.com/erigontech/difftrace/desc"
	"github.com/erigontech/difftrace/internal/invariant"
	"github.com/erigontech/difftrace/lattice"
	"github.com/erigontech/difftrace/ring"
)

// Builder implements the TupleBuilder contract of §4.2: it accepts tuples
// in strictly non-decreasing (hash, key, time) order and never re-sorts.
// Violating that order is a programmer error (§7) and panics.
type Builder[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]] struct {
	hashFn HashFunc[K]

	keys    []K
	hashes  []uint64
	offsets []int32
	times   []T
	diffs   []R

	haveKey  bool
	lastKey  K
	lastHash uint64
	haveTime bool
	lastTime T
}

// NewBuilder returns an empty builder using hashFn to hash pushed keys.
func NewBuilder[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]](hashFn HashFunc[K]) *Builder[K, T, R] {
	return &Builder[K, T, R]{hashFn: hashFn}
}

// Push appends a (key, time, diff) tuple. key's hash, then key, then time
// (within a repeated key) must be non-decreasing relative to the previous
// push; Push panics otherwise.
func (b *Builder[K, T, R]) Push(key K, t T, r R) {
	h := b.hashFn(key)
	if b.haveKey {
		invariant.Require(
			h > b.lastHash || (h == b.lastHash && !(key < b.lastKey)),
			"out-of-order push: (hash=%d,key=%v) precedes (hash=%d,key=%v)",
			h, key, b.lastHash, b.lastKey,
		)
	}
	sameKey := b.haveKey && h == b.lastHash && key == b.lastKey
	if sameKey {
		invariant.Require(
			!b.haveTime || b.lastTime.Compare(t) <= 0,
			"out-of-order push: time for key %v is not non-decreasing", key,
		)
	} else {
		b.keys = append(b.keys, key)
		b.hashes = append(b.hashes, h)
		b.offsets = append(b.offsets, int32(len(b.times)))
		b.haveTime = false
	}
	b.times = append(b.times, t)
	b.diffs = append(b.diffs, r)
	b.haveKey, b.lastKey, b.lastHash = true, key, h
	b.haveTime, b.lastTime = true, t
}

// Done finalizes the builder into an immutable TrieLayer with the sealed
// Description (lower, upper, since=lower) of §4.5.
func (b *Builder[K, T, R]) Done(lower, upper lattice.Frontier[T]) *TrieLayer[K, T, R] {
	return b.DoneWithDescription(desc.Sealed(lower, upper))
}

// DoneWithDescription finalizes the builder with a caller-supplied
// Description, for merge and advance_by results whose Description is not a
// fresh seal.
func (b *Builder[K, T, R]) DoneWithDescription(d desc.Description[T]) *TrieLayer[K, T, R] {
	b.offsets = append(b.offsets, int32(len(b.times)))
	return &TrieLayer[K, T, R]{
		keys:        b.keys,
		hashes:      b.hashes,
		offsets:     b.offsets,
		times:       b.times,
		diffs:       b.diffs,
		hashFn:      b.hashFn,
		description: d,
		refs:        atomic.NewInt64(1),
	}
}
