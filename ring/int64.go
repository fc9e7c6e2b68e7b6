package ring

// Int64 is the diff ring used by the demonstration driver and most tests:
// ordinary signed 64-bit integers under addition. Overflow is not treated
// as a recoverable error; wrapping addition is exactly what Go's
// signed-integer arithmetic already does. OverflowingAdd is a separate,
// diagnostic-only entry point for callers that want to observe (but not
// prevent) a wrap — for example to increment a counter — without
// duplicating the wrap logic; the core itself never calls it.
type Int64 int64

var _ Ring[Int64] = Int64(0)

// Add returns the receiver plus other, wrapping silently on overflow.
func (d Int64) Add(other Int64) Int64 {
	return d + other
}

// IsZero reports whether d is the additive identity.
func (d Int64) IsZero() bool {
	return d == 0
}

// OverflowingAdd returns d+other along with whether the addition wrapped.
// It is the signed-overflow analogue of this codebase's SafeAdd
// (github.com/erigontech/erigon-lib/common/math), which detects unsigned
// carry via bits.Add64; two's-complement wraparound instead shows up as
// the result's sign disagreeing with same-signed operands. It is not used
// on the core's hot path (Add is); it exists for callers that want to log
// or count wraps.
func (d Int64) OverflowingAdd(other Int64) (Int64, bool) {
	sum := d + other
	sameSign := (d >= 0) == (other >= 0)
	overflowed := sameSign && (sum >= 0) != (d >= 0)
	return sum, overflowed
}
