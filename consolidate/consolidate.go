// Package consolidate implements the engine's one piece of pure,
// error-free arithmetic: summing ring-valued diffs for adjacent equal keys
// and dropping the zero results. Every other component that needs
// consolidation (the trie merge, the batcher's compact and seal) sorts its
// input so that equal keys are adjacent, then calls Consolidate — there is
// exactly one place the summation-and-zero-elision logic lives.
package consolidate

import "github.com/erigontech/difftrace/ring"

// Entry pairs an item with its ring-valued multiplicity.
type Entry[D comparable, R ring.Ring[R]] struct {
	Item D
	Diff R
}

// Consolidate sums diffs for runs of adjacent equal items and elides
// zero-sum groups, writing the result over the front of entries and
// returning the shortened slice. entries must already be ordered so that
// equal items are contiguous; Consolidate never sorts.
//
// The output is never longer than the input, and the relative order of
// surviving groups is preserved.
func Consolidate[D comparable, R ring.Ring[R]](entries []Entry[D, R]) []Entry[D, R] {
	out := entries[:0]
	i := 0
	for i < len(entries) {
		item := entries[i].Item
		sum := entries[i].Diff
		j := i + 1
		for j < len(entries) && entries[j].Item == item {
			sum = sum.Add(entries[j].Diff)
			j++
		}
		if !sum.IsZero() {
			out = append(out, Entry[D, R]{Item: item, Diff: sum})
		}
		i = j
	}
	return out
}
