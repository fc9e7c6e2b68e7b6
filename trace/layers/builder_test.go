package layers_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/difftrace/lattice"
	"github.com/erigontech/difftrace/ring"
	"github.com/erigontech/difftrace/trace/layers"
)

func identityHash(k string) uint64 {
	var h uint64
	for i := 0; i < len(k); i++ {
		h = h*31 + uint64(k[i])
	}
	return h
}

func newBuilder() *layers.Builder[string, lattice.Nat, ring.Int64] {
	return layers.NewBuilder[string, lattice.Nat, ring.Int64](identityHash)
}

func TestBuilderAcceptsNonDecreasingOrder(t *testing.T) {
	b := newBuilder()
	require.NotPanics(t, func() {
		b.Push("a", lattice.Nat(1), 1)
		b.Push("a", lattice.Nat(2), -1)
		b.Push("b", lattice.Nat(1), 1)
	})
	batch := b.Done(lattice.NewFrontier(lattice.Nat(0)), lattice.NewFrontier(lattice.Nat(3)))
	require.Equal(t, 2, batch.KeyCount())
	require.Equal(t, 3, batch.Len())
}

func TestBuilderPanicsOnOutOfOrderKey(t *testing.T) {
	b := newBuilder()
	b.Push("b", lattice.Nat(1), 1)
	require.Panics(t, func() {
		b.Push("a", lattice.Nat(1), 1)
	})
}

func TestBuilderPanicsOnOutOfOrderTime(t *testing.T) {
	b := newBuilder()
	b.Push("a", lattice.Nat(5), 1)
	require.Panics(t, func() {
		b.Push("a", lattice.Nat(3), 1)
	})
}

func TestBuilderDoneSealsSinceToLower(t *testing.T) {
	b := newBuilder()
	b.Push("a", lattice.Nat(1), 1)
	lower := lattice.NewFrontier(lattice.Nat(0))
	upper := lattice.NewFrontier(lattice.Nat(2))
	batch := b.Done(lower, upper)
	require.True(t, batch.Description().Since.Equal(&lower))
}
