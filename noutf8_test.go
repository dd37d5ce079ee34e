//go:build hamt_noutf8

package hamt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrhy/hamt/keys"
)

func TestUTF8KeysCompiledOut(t *testing.T) {
	t.Parallel()
	_, err := New[int](&Config{KeyMode: keys.UTF8})
	require.ErrorIs(t, err, ErrUnsupportedBackend)
	require.ErrorIs(t, err, keys.ErrUnsupportedMode)
}
