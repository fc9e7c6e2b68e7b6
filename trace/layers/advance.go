package layers

import (
	"sort"

	"github.com/erigontech/difftrace/consolidate"
	"github.com/erigontech/difftrace/internal/invariant"
	"github.com/erigontech/difftrace/lattice"
)

// AdvanceBy produces a new layer whose times are each advanced to
// frontier per §4.6: entries that land on the same time after advancing
// are consolidated via ring addition, zero results are dropped, and keys
// with no surviving entries are dropped. The result's Description keeps
// Lower/Upper and sets Since = frontier.
//
// frontier must be non-empty; advancing by an empty frontier is a
// programmer error (there is no least time beyond an empty set of
// constraints).
func (l *TrieLayer[K, T, R]) AdvanceBy(frontier *lattice.Frontier[T]) *TrieLayer[K, T, R] {
	bld := NewBuilder[K, T, R](l.hashFn)
	for ki := range l.keys {
		lo, hi := l.offsets[ki], l.offsets[ki+1]
		staged := make([]consolidate.Entry[T, R], 0, hi-lo)
		for p := lo; p < hi; p++ {
			advanced, ok := lattice.AdvanceBy(l.times[p], frontier)
			invariant.Require(ok, "layers: AdvanceBy called with an empty frontier")
			staged = append(staged, consolidate.Entry[T, R]{Item: advanced, Diff: l.diffs[p]})
		}
		sort.Slice(staged, func(x, y int) bool { return staged[x].Item.Compare(staged[y].Item) < 0 })
		staged = consolidate.Consolidate(staged)
		for _, e := range staged {
			bld.Push(l.keys[ki], e.Item, e.Diff)
		}
	}
	d := l.description
	d.Since = frontier.Clone()
	return bld.DoneWithDescription(d)
}
