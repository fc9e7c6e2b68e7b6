// Package cursorlist implements CursorList (§4.4): a k-way merged view
// over the cursors of several batches, presenting a single logical
// key/value stream without materializing the union.
package cursorlist

import (
	"cmp"

	"github.com/erigontech/difftrace/lattice"
	"github.com/erigontech/difftrace/ring"
	"github.com/erigontech/difftrace/trace/layers"
)

// List merges n layer cursors into one. key() is the minimum of the
// non-exhausted cursors' keys; step_key/seek_key advance every cursor
// currently at that minimum key together. Ties are broken by the order
// cursors were given to New — callers should supply them oldest batch
// first, per §4.4, but consumers must not rely on cross-batch time
// ordering within MapTimes.
type List[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]] struct {
	cursors []*layers.Cursor[K, T, R]
}

// New builds a CursorList over the given cursors, oldest batch first.
func New[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]](cursors []*layers.Cursor[K, T, R]) *List[K, T, R] {
	return &List[K, T, R]{cursors: cursors}
}

// minKey returns the smallest key among the non-exhausted cursors.
func (l *List[K, T, R]) minKey() (K, bool) {
	var min K
	found := false
	for _, c := range l.cursors {
		if !c.KeyValid() {
			continue
		}
		k := c.Key()
		if !found || k < min {
			min = k
			found = true
		}
	}
	return min, found
}

// KeyValid reports whether any underlying cursor still has a key.
func (l *List[K, T, R]) KeyValid() bool {
	_, ok := l.minKey()
	return ok
}

// Key returns the minimum key among the non-exhausted cursors.
func (l *List[K, T, R]) Key() K {
	k, _ := l.minKey()
	return k
}

// ValValid reports whether the current key has a value, per the key-only
// variant's single implicit unit value.
func (l *List[K, T, R]) ValValid() bool {
	return l.KeyValid()
}

// Val returns the unit value.
func (l *List[K, T, R]) Val() struct{} {
	return struct{}{}
}

// MapTimes concatenates every contributing cursor's MapTimes for the
// current minimum key. Per §4.4, the caller is responsible for
// consolidating across batches if it needs distinct-time semantics — the
// same (time, diff) occurrence in two different batches is not merged
// here.
func (l *List[K, T, R]) MapTimes(f func(T, R)) {
	k, ok := l.minKey()
	if !ok {
		return
	}
	for _, c := range l.cursors {
		if c.KeyValid() && c.Key() == k {
			c.MapTimes(f)
		}
	}
}

// StepKey advances every cursor currently at the minimum key.
func (l *List[K, T, R]) StepKey() {
	k, ok := l.minKey()
	if !ok {
		return
	}
	for _, c := range l.cursors {
		if c.KeyValid() && c.Key() == k {
			c.StepKey()
		}
	}
}

// SeekKey advances every cursor to the first key >= k.
func (l *List[K, T, R]) SeekKey(k K) {
	for _, c := range l.cursors {
		c.SeekKey(k)
	}
}

// StepVal advances past the current (sole) value on every cursor at the
// minimum key.
func (l *List[K, T, R]) StepVal() {
	k, ok := l.minKey()
	if !ok {
		return
	}
	for _, c := range l.cursors {
		if c.KeyValid() && c.Key() == k {
			c.StepVal()
		}
	}
}

// SeekVal is the value-level analogue of SeekKey; this key-only variant
// has one value per key, so it rewinds every cursor at the minimum key.
func (l *List[K, T, R]) SeekVal(v struct{}) {
	k, ok := l.minKey()
	if !ok {
		return
	}
	for _, c := range l.cursors {
		if c.KeyValid() && c.Key() == k {
			c.SeekVal(v)
		}
	}
}

// RewindKeys rewinds every underlying cursor to its first key.
func (l *List[K, T, R]) RewindKeys() {
	for _, c := range l.cursors {
		c.RewindKeys()
	}
}

// RewindVals rewinds every cursor at the minimum key to its first value.
func (l *List[K, T, R]) RewindVals() {
	k, ok := l.minKey()
	if !ok {
		return
	}
	for _, c := range l.cursors {
		if c.KeyValid() && c.Key() == k {
			c.RewindVals()
		}
	}
}
