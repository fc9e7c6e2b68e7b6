package trace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/difftrace/lattice"
	"github.com/erigontech/difftrace/ring"
	"github.com/erigontech/difftrace/trace"
)

func identityHash(k string) uint64 {
	var h uint64
	for i := 0; i < len(k); i++ {
		h = h*31 + uint64(k[i])
	}
	return h
}

func TestTracePushSealCursor(t *testing.T) {
	tr := trace.New[string, lattice.Nat, ring.Int64](identityHash, nil)

	tr.Push("a", lattice.Nat(1), 1)
	tr.Seal(lattice.NewFrontier(lattice.Nat(0)), lattice.NewFrontier(lattice.Nat(2)))

	tr.Push("a", lattice.Nat(3), -1)
	tr.Seal(lattice.NewFrontier(lattice.Nat(2)), lattice.NewFrontier(lattice.Nat(4)))

	cur := tr.Cursor()
	require.True(t, cur.KeyValid())
	var diffs []ring.Int64
	cur.MapTimes(func(_ lattice.Nat, d ring.Int64) {
		diffs = append(diffs, d)
	})
	require.ElementsMatch(t, []ring.Int64{1, -1}, diffs)
}

func TestReaderReadyForChecksTraceFrontier(t *testing.T) {
	tr := trace.New[string, lattice.Nat, ring.Int64](identityHash, nil)
	reader := trace.NewReader(tr)

	tr.Push("a", lattice.Nat(1), 1)
	tr.Seal(lattice.NewFrontier(lattice.Nat(0)), lattice.NewFrontier(lattice.Nat(2)))
	tr.AdvanceBy(lattice.NewFrontier(lattice.Nat(10)))

	notYet := lattice.NewFrontier(lattice.Nat(3))
	require.False(t, reader.ReadyFor(&notYet))
}

func TestReaderLocalFrontierIsIndependentOfTrace(t *testing.T) {
	tr := trace.New[string, lattice.Nat, ring.Int64](identityHash, nil)
	reader := trace.NewReader(tr)

	reader.AdvanceTo(lattice.NewFrontier(lattice.Nat(7)))
	require.True(t, reader.Frontier().Dominates(lattice.Nat(7)))
}

func TestReaderCursorAtLocatesCoveringBatch(t *testing.T) {
	tr := trace.New[string, lattice.Nat, ring.Int64](identityHash, nil)
	reader := trace.NewReader(tr)

	tr.Push("a", lattice.Nat(1), 1)
	tr.Seal(lattice.NewFrontier(lattice.Nat(0)), lattice.NewFrontier(lattice.Nat(2)))

	cur, ok := reader.CursorAt(lattice.Nat(1))
	require.True(t, ok)
	require.True(t, cur.KeyValid())
	require.Equal(t, "a", cur.Key())

	_, ok = reader.CursorAt(lattice.Nat(100))
	require.False(t, ok, "no batch covers a time past every batch's upper bound")
}
