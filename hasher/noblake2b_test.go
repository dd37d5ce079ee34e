//go:build hamt_noblake2b

package hasher

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBlake2bCompiledOut(t *testing.T) {
	t.Parallel()
	_, err := New(Blake2b)
	require.ErrorIs(t, err, ErrUnsupportedBackend)
	require.NotContains(t, Available(), Blake2b)
	require.Contains(t, Available(), Default)

	// the name still parses, so configs stay portable across builds
	parsed, err := ParseBackend("blake2b")
	require.NoError(t, err)
	require.Equal(t, Blake2b, parsed)
}
