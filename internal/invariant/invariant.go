// Package invariant centralizes the engine's programmer-error panics
// (§7: sorted-order violations, popping an empty stack, reading an
// exhausted cursor). These are assertion failures, never recoverable
// errors — they are never surfaced as Go errors and never retried. The
// panic message is annotated with the caller's frame via go-stack, the
// same caller-context idiom this codebase uses elsewhere for unexpected
// conditions.
package invariant

import (
	"fmt"

	"github.com/go-stack/stack"
)

// Require panics with msg (formatted with args) annotated by the caller's
// source location if cond is false.
func Require(cond bool, msg string, args ...any) {
	if cond {
		return
	}
	frame := stack.Caller(1)
	panic(fmt.Sprintf("%s: %s", frame, fmt.Sprintf(msg, args...)))
}
