package layers

import (
	"cmp"
	"sort"

	"github.com/erigontech/difftrace/internal/invariant"
	"github.com/erigontech/difftrace/lattice"
	"github.com/erigontech/difftrace/ring"
)

// Cursor implements the TrieCursor contract of §4.3: navigation over a
// single immutable layer. Its lifetime is bounded by the layer it was
// created from; callers that intend to keep a cursor across calls that
// might otherwise let the layer go should Retain the layer first.
type Cursor[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]] struct {
	layer    *TrieLayer[K, T, R]
	keyPos   int
	valValid bool
}

// Cursor returns a new cursor positioned at the first key, per
// rewind_keys semantics.
func (l *TrieLayer[K, T, R]) Cursor() *Cursor[K, T, R] {
	c := &Cursor[K, T, R]{layer: l}
	c.RewindKeys()
	return c
}

// KeyValid reports whether the cursor is positioned at a key.
func (c *Cursor[K, T, R]) KeyValid() bool {
	return c.keyPos >= 0 && c.keyPos < len(c.layer.keys)
}

// Key returns the current key. It panics if the cursor is not KeyValid.
func (c *Cursor[K, T, R]) Key() K {
	invariant.Require(c.KeyValid(), "layers: Key read from an exhausted cursor")
	return c.layer.keys[c.keyPos]
}

// ValValid reports whether the cursor is positioned at a value of the
// current key. This key-only variant has a single implicit unit value per
// key, so ValValid is true exactly when the cursor has rewound onto it and
// not yet stepped past it.
func (c *Cursor[K, T, R]) ValValid() bool {
	return c.KeyValid() && c.valValid
}

// Val returns the unit value. For this key-only variant there is nothing
// to return beyond the fact that it is the current key's only value.
func (c *Cursor[K, T, R]) Val() struct{} {
	invariant.Require(c.ValValid(), "layers: Val read from an invalid cursor")
	return struct{}{}
}

// MapTimes applies f to every (time, diff) pair at the current key,
// rewinding the value position first.
func (c *Cursor[K, T, R]) MapTimes(f func(T, R)) {
	c.valValid = true
	if !c.KeyValid() {
		return
	}
	lo, hi := c.layer.offsets[c.keyPos], c.layer.offsets[c.keyPos+1]
	for i := lo; i < hi; i++ {
		f(c.layer.times[i], c.layer.diffs[i])
	}
}

// StepKey advances to the next key, becoming invalid past the last one.
func (c *Cursor[K, T, R]) StepKey() {
	c.keyPos++
	c.valValid = true
}

// StepVal advances past the current (sole) value.
func (c *Cursor[K, T, R]) StepVal() {
	c.valValid = false
}

// SeekVal is the value-level analogue of SeekKey. This key-only variant
// has one value per key, so seeking to it is just rewinding.
func (c *Cursor[K, T, R]) SeekVal(struct{}) {
	c.valValid = true
}

// RewindKeys resets the cursor to the first key.
func (c *Cursor[K, T, R]) RewindKeys() {
	c.keyPos = 0
	c.valValid = true
}

// RewindVals resets the cursor to the current key's (sole) value.
func (c *Cursor[K, T, R]) RewindVals() {
	c.valValid = true
}

// SeekKey advances to the first key >= k, ordered by (hash, key). It never
// moves backward: seeking to a key before the cursor's current position is
// a no-op from the caller's point of view only if the cursor is already
// past it (the search starts at the current position, matching the
// source's borrowed-storage, forward-only seek).
func (c *Cursor[K, T, R]) SeekKey(k K) {
	h := c.layer.hashFn(k)
	n := len(c.layer.keys)
	start := c.keyPos
	if start < 0 {
		start = 0
	}
	if li := c.layer.locality; li != nil && !li.MayContain(h) {
		// The bucket is known empty: a cheaper hash-only probe suffices,
		// skipping the (vacuous) intra-bucket key comparisons below.
		idx := start + sort.Search(n-start, func(i int) bool {
			return c.layer.hashes[start+i] >= h
		})
		for idx < n && c.layer.hashes[idx] == h {
			idx++
		}
		c.keyPos = idx
		c.valValid = true
		return
	}
	idx := start + sort.Search(n-start, func(i int) bool {
		j := start + i
		if c.layer.hashes[j] != h {
			return c.layer.hashes[j] > h
		}
		return !(c.layer.keys[j] < k)
	})
	c.keyPos = idx
	c.valValid = true
}
