// Package ring defines the diff-multiplicity contract: a value from a
// commutative ring with 0 and +. The engine only ever adds diffs and tests
// them against zero; it never multiplies or negates them directly (a
// concrete Ring implementation may expose negation for caller convenience,
// but the core never calls it).
package ring

// Ring constrains a diff type to support addition and a zero test. R should
// be a small, comparable value type.
type Ring[R any] interface {
	// Add returns the sum of the receiver and other.
	Add(other R) R
	// IsZero reports whether the value is the ring's additive identity.
	IsZero() bool
}
