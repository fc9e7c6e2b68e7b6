package layers

import (
	"cmp"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/erigontech/difftrace/lattice"
	"github.com/erigontech/difftrace/ring"
)

// LocalityIndex is an optional, advisory per-batch index recording which
// hash buckets are non-empty, one bit per bucket keyed by the top byte of
// hash(key). It accelerates Cursor.SeekKey's common case of probing for a
// key whose bucket turns out to be absent; no correctness in §4.3 depends
// on it existing.
//
// This repurposes the locality-index idiom this codebase uses to record
// which segment files might hold a key (github.com/erigontech/erigon-lib
// state.LocalityIndex) from "which file" to "which in-memory bucket",
// using the same Roaring-bitmap existence-check shape.
type LocalityIndex struct {
	buckets *roaring64.Bitmap
}

func bucketOf(hash uint64) uint64 {
	return hash >> 56
}

// BuildLocalityIndex scans a layer's key hashes and returns the index of
// which of the 256 top-byte buckets are non-empty. Building it is pure and
// read-only with respect to the layer; it may be run concurrently with
// cursors over the same layer.
func BuildLocalityIndex[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]](l *TrieLayer[K, T, R]) *LocalityIndex {
	bm := roaring64.New()
	for _, h := range l.hashes {
		bm.Add(bucketOf(h))
	}
	return &LocalityIndex{buckets: bm}
}

// MayContain reports whether the bucket containing hash might be
// non-empty. A nil index always answers true (no information, fall back
// to the unaccelerated scan).
func (li *LocalityIndex) MayContain(hash uint64) bool {
	if li == nil {
		return true
	}
	return li.buckets.Contains(bucketOf(hash))
}
