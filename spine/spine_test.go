package spine_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/difftrace/lattice"
	"github.com/erigontech/difftrace/ring"
	"github.com/erigontech/difftrace/spine"
	"github.com/erigontech/difftrace/trace/layers"
)

func identityHash(k string) uint64 {
	var h uint64
	for i := 0; i < len(k); i++ {
		h = h*31 + uint64(k[i])
	}
	return h
}

func newSpine() *spine.Spine[string, lattice.Nat, ring.Int64] {
	return spine.New[string, lattice.Nat, ring.Int64](identityHash, nil)
}

func sealedBatch(t *testing.T, n int, lower, upper uint64) *layers.TrieLayer[string, lattice.Nat, ring.Int64] {
	t.Helper()
	b := layers.NewBuilder[string, lattice.Nat, ring.Int64](identityHash)
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("k%02d", i)
		b.Push(key, lattice.Nat(lower), 1)
	}
	return b.Done(lattice.NewFrontier(lattice.Nat(lower)), lattice.NewFrontier(lattice.Nat(upper)))
}

func TestInsertMergesSizeTieredBatches(t *testing.T) {
	s := newSpine()
	s.Insert(sealedBatch(t, 4, 0, 1))
	s.Insert(sealedBatch(t, 2, 1, 2))
	s.Insert(sealedBatch(t, 1, 2, 3))
	s.Insert(sealedBatch(t, 1, 3, 4))

	require.Equal(t, []int{8}, s.BatchSizes(), "4+2+1+1 collapses into a single bottom batch under the size-tiered discipline")
	require.True(t, s.CheckInvariant())
}

func TestInsertKeepsDisparateSizesSeparate(t *testing.T) {
	s := newSpine()
	s.Insert(sealedBatch(t, 100, 0, 1))
	s.Insert(sealedBatch(t, 1, 1, 2))

	require.Equal(t, []int{100, 1}, s.BatchSizes())
	require.True(t, s.CheckInvariant())
}

func TestCheckInvariantHoldsForEmptySpine(t *testing.T) {
	s := newSpine()
	require.True(t, s.CheckInvariant(), "an empty stack trivially satisfies the invariant")
}

func TestSpineCursorMergesAcrossBatches(t *testing.T) {
	s := newSpine()
	s.Insert(sealedBatch(t, 100, 0, 1))
	s.Insert(sealedBatch(t, 1, 1, 2))

	cur := s.Cursor()
	count := 0
	for cur.KeyValid() {
		count++
		cur.StepKey()
	}
	require.Equal(t, 100, count, "key \"k00\" is shared by both batches and counted once in the merged view")
}

func TestLocateFindsCoveringBatch(t *testing.T) {
	s := newSpine()
	s.Insert(sealedBatch(t, 100, 0, 1))
	s.Insert(sealedBatch(t, 1, 1, 2))

	batch, ok := s.Locate(lattice.Nat(0))
	require.True(t, ok)
	require.Equal(t, 100, batch.Len())

	batch, ok = s.Locate(lattice.Nat(1))
	require.True(t, ok)
	require.Equal(t, 1, batch.Len())

	_, ok = s.Locate(lattice.Nat(2))
	require.False(t, ok, "no batch's [lower, upper) interval covers time 2")
}

func TestAdvanceByAppliesOnlyToNewBottomBatch(t *testing.T) {
	s := newSpine()
	s.Insert(sealedBatch(t, 1, 0, 1))
	s.AdvanceBy(lattice.NewFrontier(lattice.Nat(5)))

	// A second, equal-sized insert triggers a merge that makes the result
	// the new (and only) bottom batch, which must then be advanced.
	s.Insert(sealedBatch(t, 1, 1, 2))

	require.Equal(t, 1, s.Len())
	descs := s.Descriptions()
	require.True(t, descs[0].Since.Dominates(lattice.Nat(5)))
}
