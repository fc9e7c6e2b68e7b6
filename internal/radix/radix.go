// Package radix implements the LSB radix sort the batcher uses to group
// buffered tuples by key hash before consolidation (§4.5's Batcher names
// a radix sorter as a required state element but treats its internals as
// out of scope, §1); this is a plain, stable, byte-at-a-time
// counting-sort pass with no external library equivalent in this
// codebase's dependency surface, so it is one of the few pieces of this
// engine built on the standard library alone.
package radix

// SortByKey stably sorts items in place by the uint64 value key returns,
// using eight passes of an LSB radix sort (one per byte of the 64-bit
// key). It allocates one scratch buffer the size of items.
func SortByKey[T any](items []T, key func(T) uint64) {
	n := len(items)
	if n < 2 {
		return
	}
	scratch := make([]T, n)
	src, dst := items, scratch
	var count [257]int
	for pass := 0; pass < 8; pass++ {
		shift := uint(pass * 8)
		for i := range count {
			count[i] = 0
		}
		for _, it := range src {
			b := byte(key(it) >> shift)
			count[b+1]++
		}
		for i := 0; i < 256; i++ {
			count[i+1] += count[i]
		}
		for _, it := range src {
			b := byte(key(it) >> shift)
			dst[count[b]] = it
			count[b]++
		}
		src, dst = dst, src
	}
	// Eight passes is even, so src now aliases the original items slice
	// and no copy-back is required; the check below copies back only if
	// src and items ever differ.
	if len(src) > 0 && &src[0] != &items[0] {
		copy(items, src)
	}
}
