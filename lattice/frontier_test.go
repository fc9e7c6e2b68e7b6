package lattice_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/difftrace/lattice"
)

func TestFrontierInsertDominance(t *testing.T) {
	f := lattice.NewFrontier(lattice.Nat(3), lattice.Nat(5))
	require.ElementsMatch(t, []lattice.Nat{3}, f.Elements(), "3 precedes 5 in a total order, so only 3 is kept")

	changed := f.Insert(lattice.Nat(2))
	require.True(t, changed, "2 precedes the existing element 3 and evicts it")
	require.Equal(t, 1, f.Len())

	changed = f.Insert(lattice.Nat(9))
	require.False(t, changed, "9 lies beyond the existing element 2")
	require.ElementsMatch(t, []lattice.Nat{2}, f.Elements())
}

func TestFrontierDominatesAndLessEqual(t *testing.T) {
	a := lattice.NewFrontier(lattice.Nat(4))
	b := lattice.NewFrontier(lattice.Nat(2))

	require.True(t, a.Dominates(lattice.Nat(4)))
	require.True(t, a.Dominates(lattice.Nat(10)))
	require.False(t, a.Dominates(lattice.Nat(3)))

	require.True(t, a.LessEqual(&b), "a's only element 4 is dominated by b's element 2")
	require.False(t, b.LessEqual(&a), "b's element 2 is not dominated by a's element 4")
}

func TestFrontierCloneIsIndependent(t *testing.T) {
	a := lattice.NewFrontier(lattice.Nat(1))
	b := a.Clone()
	b.Insert(lattice.Nat(0))

	require.Equal(t, 1, a.Len())
	require.Equal(t, 1, b.Len())
	require.True(t, b.Dominates(lattice.Nat(0)))
	require.False(t, a.Dominates(lattice.Nat(0)))
}

func TestFrontierEqual(t *testing.T) {
	a := lattice.NewFrontier(lattice.Nat(1), lattice.Nat(2))
	b := lattice.NewFrontier(lattice.Nat(2), lattice.Nat(1))
	require.True(t, a.Equal(&b), "Equal is order-independent")

	c := lattice.NewFrontier(lattice.Nat(3))
	require.False(t, a.Equal(&c))
}

func TestAdvanceByIsJoinMeetOverFrontier(t *testing.T) {
	frontier := lattice.NewFrontier(lattice.Nat(5), lattice.Nat(8))

	got, ok := lattice.AdvanceBy(lattice.Nat(3), &frontier)
	require.True(t, ok)
	require.Equal(t, lattice.Nat(5), got, "the frontier keeps only 5 (8 lies beyond it), and join(3,5)=5")

	got, ok = lattice.AdvanceBy(lattice.Nat(9), &frontier)
	require.True(t, ok)
	require.Equal(t, lattice.Nat(9), got, "9 already exceeds the frontier element 5")
}

func TestAdvanceByEmptyFrontier(t *testing.T) {
	var empty lattice.Frontier[lattice.Nat]
	_, ok := lattice.AdvanceBy(lattice.Nat(1), &empty)
	require.False(t, ok)
}

func TestAdvanceByIdempotent(t *testing.T) {
	frontier := lattice.NewFrontier(lattice.Nat(5))
	once, ok := lattice.AdvanceBy(lattice.Nat(2), &frontier)
	require.True(t, ok)
	twice, ok := lattice.AdvanceBy(once, &frontier)
	require.True(t, ok)
	require.Equal(t, once, twice)
}
