// Package desc implements Description: the (lower, upper, since) triple of
// antichains that describes the logical-time coverage and compaction state
// of a batch.
package desc

import "github.com/erigontech/difftrace/lattice"

// Description bounds the logical interval [Lower, Upper) of updates a
// batch covers, and records Since, the frontier up to which the batch's
// times have already been coarsened by advance_by. Since is always >=
// Lower component-wise: a batch can only have compressed history at least
// as far as the updates it claims to contain.
type Description[T lattice.Time[T]] struct {
	Lower lattice.Frontier[T]
	Upper lattice.Frontier[T]
	Since lattice.Frontier[T]
}

// New builds a Description from the given frontiers.
func New[T lattice.Time[T]](lower, upper, since lattice.Frontier[T]) Description[T] {
	return Description[T]{Lower: lower, Upper: upper, Since: since}
}

// Sealed builds the Description a Batcher.seal produces: since == lower,
// per §4.5.
func Sealed[T lattice.Time[T]](lower, upper lattice.Frontier[T]) Description[T] {
	return Description[T]{Lower: lower, Upper: upper, Since: lower.Clone()}
}

// InInterval reports whether t lies in [d.Lower, d.Upper): some element of
// Lower is <= t, and no element of Upper is <= t.
func (d Description[T]) InInterval(t T) bool {
	return d.Lower.Dominates(t) && !d.Upper.Dominates(t)
}

// Equal reports whether d and other describe the same interval and
// compaction state.
func (d Description[T]) Equal(other Description[T]) bool {
	return d.Lower.Equal(&other.Lower) && d.Upper.Equal(&other.Upper) && d.Since.Equal(&other.Since)
}
