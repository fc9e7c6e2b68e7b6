// Package layers implements the hashed trie layer (§4.2), its builder
// (§4.2), its cursor (§4.3), and the per-batch locality index (§4.3,
// §DOMAIN STACK) that accelerates seeks. A TrieLayer is the immutable
// batch: a two-level index (hash(key), key) → (time, diff)* plus a
// Description.
//
// The top level is stored in a flattened, columnar layout — parallel
// keys/hashes slices and a shared offsets slice indexing into shared
// times/diffs slices — rather than a nested generic child-layer type. This
// is a deliberate simplification of the polymorphic child-layer design the
// source generalizes to key/value tries: Go does not monomorphize nested
// generic structs the way the source's layering does, and the flattened
// layout is both simpler and friendlier to the bucket scans §4.3 performs.
package layers

import (
	"cmp"

	"go.uber.org/atomic"

	"github.com/erigontech/difftrace/desc"
	"github.com/erigontech/difftrace/lattice"
	"github.com/erigontech/difftrace/ring"
)

// HashFunc produces a stable, fixed-width hash for a key. The core never
// computes hashes itself (§1: "hashing trait plumbing" is out of scope);
// every layer and builder is configured with one.
type HashFunc[K any] func(K) uint64

// TrieLayer is an immutable hashed trie: keys ordered by (hash, key), each
// with a consolidated run of (time, diff) pairs. It satisfies the Batch
// external interface of §6.
type TrieLayer[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]] struct {
	keys    []K
	hashes  []uint64
	offsets []int32 // len(keys)+1; offsets[i]..offsets[i+1] bounds key i's (time,diff) run
	times   []T
	diffs   []R

	hashFn      HashFunc[K]
	description desc.Description[T]

	// refs mirrors this codebase's explicit retain/release discipline for
	// shared immutable segment files, applied here to in-memory layers:
	// the Spine retains a layer while it holds it in a stack slot and
	// releases it when a merge supersedes it, even though Go's garbage
	// collector would reclaim the backing slices on its own. Cursors and
	// reader handles do not retain a layer themselves; any other holder
	// that wants to be counted calls Retain. The explicit count lets a
	// holder ask "is anyone still looking at this batch" without depending
	// on GC timing.
	refs *atomic.Int64

	locality *LocalityIndex
}

// KeyCount returns the number of distinct keys in the layer.
func (l *TrieLayer[K, T, R]) KeyCount() int {
	return len(l.keys)
}

// Len returns the total number of (time, diff) tuples in the layer — the
// Batch.len() of §6.
func (l *TrieLayer[K, T, R]) Len() int {
	return len(l.times)
}

// Description returns the layer's (lower, upper, since) triple.
func (l *TrieLayer[K, T, R]) Description() desc.Description[T] {
	return l.description
}

// HashFn returns the layer's key-hashing function, reused by merge and
// advance_by to build their result layers.
func (l *TrieLayer[K, T, R]) HashFn() HashFunc[K] {
	return l.hashFn
}

// Locality returns the layer's locality index, or nil if none has been
// built.
func (l *TrieLayer[K, T, R]) Locality() *LocalityIndex {
	return l.locality
}

// SetLocality installs a locality index built by BuildLocalityIndex. It is
// safe to call once after construction, before the layer is shared across
// goroutines (the background rebuild path in spine serializes this).
func (l *TrieLayer[K, T, R]) SetLocality(li *LocalityIndex) {
	l.locality = li
}

// Retain increments the layer's reference count and returns the layer, so
// it can be chained at the point of storage (spine slot, cursor, reader).
func (l *TrieLayer[K, T, R]) Retain() *TrieLayer[K, T, R] {
	l.refs.Inc()
	return l
}

// Release decrements the layer's reference count. It reports whether this
// was the last reference; the caller may then drop any remaining
// references to the layer's storage.
func (l *TrieLayer[K, T, R]) Release() bool {
	return l.refs.Dec() == 0
}

// RefCount reports the current reference count, primarily for tests and
// diagnostics.
func (l *TrieLayer[K, T, R]) RefCount() int64 {
	return l.refs.Load()
}
