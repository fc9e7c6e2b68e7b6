package layers

import (
	"cmp"
	"sort"

	"github.com/erigontech/difftrace/consolidate"
	"github.com/erigontech/difftrace/desc"
	"github.com/erigontech/difftrace/lattice"
	"github.com/erigontech/difftrace/ring"
)

// Merge produces a new layer whose tuples are the multiset union of l and
// newer's tuples, per §4.2: identical (key, time) pairs collide and are
// consolidated via ring addition; zero-diff results and keys with no
// surviving times are elided.
//
// Merge assumes l covers the earlier (lower) logical interval and newer
// the later (higher) one — the calling convention the Spine uses when
// merging adjacent stack entries. The result's Description takes Lower
// from l, Upper from newer, and Since = Lower (the Spine applies
// AdvanceBy separately when a merge produces the new bottom batch, per
// §4.7).
func (l *TrieLayer[K, T, R]) Merge(newer *TrieLayer[K, T, R]) *TrieLayer[K, T, R] {
	bld := NewBuilder[K, T, R](l.hashFn)
	i, j := 0, 0
	na, nb := len(l.keys), len(newer.keys)
	for i < na || j < nb {
		switch {
		case j >= nb || (i < na && lessKeyEntry(l, i, newer, j)):
			pushKeyRun(bld, l, i)
			i++
		case i >= na || lessKeyEntry(newer, j, l, i):
			pushKeyRun(bld, newer, j)
			j++
		default:
			mergeKeyRun(bld, l, i, newer, j)
			i++
			j++
		}
	}
	return bld.DoneWithDescription(mergedDescription(l.description, newer.description))
}

func lessKeyEntry[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]](x *TrieLayer[K, T, R], xi int, y *TrieLayer[K, T, R], yi int) bool {
	if x.hashes[xi] != y.hashes[yi] {
		return x.hashes[xi] < y.hashes[yi]
	}
	return x.keys[xi] < y.keys[yi]
}

func pushKeyRun[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]](bld *Builder[K, T, R], l *TrieLayer[K, T, R], i int) {
	lo, hi := l.offsets[i], l.offsets[i+1]
	for p := lo; p < hi; p++ {
		bld.Push(l.keys[i], l.times[p], l.diffs[p])
	}
}

func mergeKeyRun[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]](bld *Builder[K, T, R], a *TrieLayer[K, T, R], ai int, b *TrieLayer[K, T, R], bi int) {
	aLo, aHi := a.offsets[ai], a.offsets[ai+1]
	bLo, bHi := b.offsets[bi], b.offsets[bi+1]
	staged := make([]consolidate.Entry[T, R], 0, int(aHi-aLo)+int(bHi-bLo))
	for p := aLo; p < aHi; p++ {
		staged = append(staged, consolidate.Entry[T, R]{Item: a.times[p], Diff: a.diffs[p]})
	}
	for p := bLo; p < bHi; p++ {
		staged = append(staged, consolidate.Entry[T, R]{Item: b.times[p], Diff: b.diffs[p]})
	}
	sort.Slice(staged, func(x, y int) bool { return staged[x].Item.Compare(staged[y].Item) < 0 })
	staged = consolidate.Consolidate(staged)
	key := a.keys[ai]
	for _, e := range staged {
		bld.Push(key, e.Item, e.Diff)
	}
}

func mergedDescription[T lattice.Time[T]](older, newer desc.Description[T]) desc.Description[T] {
	return desc.Description[T]{Lower: older.Lower, Upper: newer.Upper, Since: older.Lower.Clone()}
}
