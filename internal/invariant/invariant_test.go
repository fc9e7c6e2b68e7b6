package invariant_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erigontech/difftrace/internal/invariant"
)

func TestRequirePassesSilently(t *testing.T) {
	require.NotPanics(t, func() {
		invariant.Require(true, "unreachable")
	})
}

func TestRequirePanicsWithMessageAndCaller(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		msg, ok := r.(string)
		require.True(t, ok)
		require.Contains(t, msg, "bad index 3")
	}()
	invariant.Require(false, "bad index %d", 3)
}
