package batcher

import (
	"cmp"

	"github.com/erigontech/difftrace/lattice"
	"github.com/erigontech/difftrace/ring"
)

type tuple[K cmp.Ordered, T lattice.Time[T], R ring.Ring[R]] struct {
	key  K
	time T
	diff R
}
