package lattice

// Frontier is an antichain of times: a minimal set of pairwise incomparable
// elements. It represents either "the earliest times not yet observed" (a
// trace or batcher frontier) or one side of a Description's [lower, upper)
// interval.
//
// The zero value is the empty frontier, which closed intervals treat as
// "past all progress" and open intervals treat as "no constraint",
// depending on context — the type itself carries no such distinction.
type Frontier[T Time[T]] struct {
	elems []T
}

// NewFrontier builds a frontier from the given times, resolving dominance
// relationships the same way repeated Insert calls would.
func NewFrontier[T Time[T]](times ...T) Frontier[T] {
	var f Frontier[T]
	for _, t := range times {
		f.Insert(t)
	}
	return f
}

// Insert adds t to the frontier if it is not dominated by an existing
// element, evicting any existing element that t dominates. It reports
// whether the frontier changed.
func (f *Frontier[T]) Insert(t T) bool {
	for _, e := range f.elems {
		if e.LessEqual(t) {
			return false
		}
	}
	kept := f.elems[:0:0]
	for _, e := range f.elems {
		if !t.LessEqual(e) {
			kept = append(kept, e)
		}
	}
	f.elems = append(kept, t)
	return true
}

// Elements returns the frontier's elements. The caller must not mutate the
// returned slice.
func (f *Frontier[T]) Elements() []T {
	return f.elems
}

// Len returns the number of elements in the frontier.
func (f *Frontier[T]) Len() int {
	return len(f.elems)
}

// Empty reports whether the frontier has no elements.
func (f *Frontier[T]) Empty() bool {
	return len(f.elems) == 0
}

// Dominates reports whether some element of the frontier is <= t, i.e.
// whether t lies at or beyond this frontier.
func (f *Frontier[T]) Dominates(t T) bool {
	for _, e := range f.elems {
		if e.LessEqual(t) {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the frontier.
func (f *Frontier[T]) Clone() Frontier[T] {
	out := Frontier[T]{elems: make([]T, len(f.elems))}
	copy(out.elems, f.elems)
	return out
}

// Equal reports whether f and other contain the same elements, irrespective
// of order (a frontier has no canonical order beyond insertion history).
func (f *Frontier[T]) Equal(other *Frontier[T]) bool {
	if len(f.elems) != len(other.elems) {
		return false
	}
	for _, e := range f.elems {
		found := false
		for _, o := range other.elems {
			if e.Compare(o) == 0 {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// LessEqual reports whether every element of f is dominated by other, that
// is, other.Dominates(e) holds for each element e of f: every element of f
// lies at or beyond some element of other. For single-element frontiers
// {x} and {y}, x.LessEqual(y) holds exactly when y <= x.
func (f *Frontier[T]) LessEqual(other *Frontier[T]) bool {
	for _, e := range f.elems {
		if !other.Dominates(e) {
			return false
		}
	}
	return true
}
