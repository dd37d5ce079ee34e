//go:build hamt_noxxhash

package hasher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestXXHashCompiledOut(t *testing.T) {
	t.Parallel()
	_, err := New(XXHash)
	require.ErrorIs(t, err, ErrUnsupportedBackend)
	require.NotContains(t, Available(), XXHash)
	require.Contains(t, Available(), Default)

	// the name still parses, so configs stay portable across builds
	parsed, err := ParseBackend("xxhash")
	require.NoError(t, err)
	require.Equal(t, XXHash, parsed)
}
