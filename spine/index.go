package spine

import (
	"cmp"

	"github.com/tidwall/btree"

	"github.com/erigontech/difftrace/lattice"
	"github.com/erigontech/difftrace/ring"
	"github.com/erigontech/difftrace/trace/layers"
)

// descriptorIndex is the read-only descriptor index of §4.7: the batches
// ordered by their position in the stack (oldest first), which reader
// handles consult to find which batch, if any, covers a given logical
// time. Locate tests each entry's interval in turn, so a lookup is linear
// in the number of batches. It never participates in the merge-triggering logic in spine.go,
// which only ever compares adjacent-batch sizes; it is rebuilt wholesale
// whenever the batch stack changes, since the stack is always O(log N)
// batches and a full rebuild is therefore cheap relative to a merge.
type descriptorIndex[T lattice.Time[T], K cmp.Ordered, R ring.Ring[R]] struct {
	tree *btree.BTreeG[descriptorEntry[T, K, R]]
}

type descriptorEntry[T lattice.Time[T], K cmp.Ordered, R ring.Ring[R]] struct {
	rank  int
	batch *layers.TrieLayer[K, T, R]
}

func newDescriptorIndex[T lattice.Time[T], K cmp.Ordered, R ring.Ring[R]]() *descriptorIndex[T, K, R] {
	less := func(a, b descriptorEntry[T, K, R]) bool { return a.rank < b.rank }
	return &descriptorIndex[T, K, R]{tree: btree.NewBTreeG(less)}
}

func (idx *descriptorIndex[T, K, R]) rebuild(batches []*layers.TrieLayer[K, T, R]) {
	idx.tree.Clear()
	for rank, b := range batches {
		idx.tree.Set(descriptorEntry[T, K, R]{rank: rank, batch: b})
	}
}

// Locate returns the batch whose [lower, upper) interval contains t, and
// true, or the zero value and false if no indexed batch covers it. It
// ascends the index in stack order (oldest first) so that, should
// intervals ever overlap during a transient state, the earliest covering
// batch wins — matching the Spine's oldest-first iteration elsewhere.
func (idx *descriptorIndex[T, K, R]) Locate(t T) (*layers.TrieLayer[K, T, R], bool) {
	var found *layers.TrieLayer[K, T, R]
	idx.tree.Scan(func(e descriptorEntry[T, K, R]) bool {
		if e.batch.Description().InInterval(t) {
			found = e.batch
			return false
		}
		return true
	})
	return found, found != nil
}

// Len reports the number of batches currently indexed.
func (idx *descriptorIndex[T, K, R]) Len() int {
	return idx.tree.Len()
}
