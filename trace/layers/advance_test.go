package layers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/difftrace/lattice"
	"github.com/erigontech/difftrace/ring"
)

func TestAdvanceByCoarsensTimes(t *testing.T) {
	b := newBuilder()
	b.Push("a", lattice.Nat(1), 1)
	b.Push("a", lattice.Nat(2), -1)
	b.Push("a", lattice.Nat(3), 1)
	batch := b.Done(lattice.NewFrontier(lattice.Nat(0)), lattice.NewFrontier(lattice.Nat(4)))

	frontier := lattice.NewFrontier(lattice.Nat(2))
	advanced := batch.AdvanceBy(&frontier)

	cur := advanced.Cursor()
	require.True(t, cur.KeyValid())
	var times []lattice.Nat
	var diffs []ring.Int64
	cur.MapTimes(func(tm lattice.Nat, d ring.Int64) {
		times = append(times, tm)
		diffs = append(diffs, d)
	})
	// times 1 and 2 both advance to 2 and cancel (+1, -1); time 3 stays at 3.
	require.Equal(t, []lattice.Nat{3}, times)
	require.Equal(t, []ring.Int64{1}, diffs)
}

func TestAdvanceByConsolidatesLandedTimes(t *testing.T) {
	b := newBuilder()
	b.Push("a", lattice.Nat(1), 1)
	b.Push("a", lattice.Nat(2), -1)
	batch := b.Done(lattice.NewFrontier(lattice.Nat(0)), lattice.NewFrontier(lattice.Nat(4)))

	frontier := lattice.NewFrontier(lattice.Nat(2))
	advanced := batch.AdvanceBy(&frontier)
	require.Equal(t, 0, advanced.KeyCount(), "both times advance to 2 and cancel")
}

func TestAdvanceBySetsSinceToFrontier(t *testing.T) {
	b := newBuilder()
	b.Push("a", lattice.Nat(1), 1)
	batch := b.Done(lattice.NewFrontier(lattice.Nat(0)), lattice.NewFrontier(lattice.Nat(4)))

	frontier := lattice.NewFrontier(lattice.Nat(2))
	advanced := batch.AdvanceBy(&frontier)
	require.True(t, advanced.Description().Since.Equal(&frontier))
}

func TestAdvanceByPanicsOnEmptyFrontier(t *testing.T) {
	b := newBuilder()
	b.Push("a", lattice.Nat(1), 1)
	batch := b.Done(lattice.NewFrontier(lattice.Nat(0)), lattice.NewFrontier(lattice.Nat(4)))

	var empty lattice.Frontier[lattice.Nat]
	require.Panics(t, func() {
		batch.AdvanceBy(&empty)
	})
}

func TestAdvanceByIsIdempotentOnAlreadyAdvancedBatch(t *testing.T) {
	b := newBuilder()
	b.Push("a", lattice.Nat(1), 1)
	b.Push("a", lattice.Nat(5), 1)
	batch := b.Done(lattice.NewFrontier(lattice.Nat(0)), lattice.NewFrontier(lattice.Nat(6)))

	frontier := lattice.NewFrontier(lattice.Nat(3))
	once := batch.AdvanceBy(&frontier)
	twice := once.AdvanceBy(&frontier)
	require.Equal(t, once.Len(), twice.Len())
	require.Equal(t, once.KeyCount(), twice.KeyCount())
}
