package radix_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/difftrace/internal/radix"
)

func TestSortByKeyOrdersAscending(t *testing.T) {
	items := []uint64{9, 1, 5, 5, 0, 1 << 40, 42}
	radix.SortByKey(items, func(v uint64) uint64 { return v })
	require.True(t, sort.SliceIsSorted(items, func(i, j int) bool { return items[i] < items[j] }))
}

func TestSortByKeyIsStable(t *testing.T) {
	type labeled struct {
		key   uint64
		label int
	}
	items := []labeled{
		{key: 1, label: 0},
		{key: 1, label: 1},
		{key: 0, label: 2},
		{key: 1, label: 3},
	}
	radix.SortByKey(items, func(l labeled) uint64 { return l.key })

	require.Equal(t, uint64(0), items[0].key)
	require.Equal(t, []int{0, 1, 3}, []int{items[1].label, items[2].label, items[3].label})
}

func TestSortByKeyRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	items := make([]uint64, 2000)
	for i := range items {
		items[i] = rng.Uint64()
	}
	want := append([]uint64{}, items...)
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })

	radix.SortByKey(items, func(v uint64) uint64 { return v })
	require.Equal(t, want, items)
}

func TestSortByKeyShortInputsUntouched(t *testing.T) {
	empty := []uint64{}
	radix.SortByKey(empty, func(v uint64) uint64 { return v })
	require.Empty(t, empty)

	single := []uint64{42}
	radix.SortByKey(single, func(v uint64) uint64 { return v })
	require.Equal(t, []uint64{42}, single)
}
