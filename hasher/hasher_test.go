package hasher

import (
	"encoding/hex"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAvailableIncludesDefault(t *testing.T) {
	t.Parallel()
	require.Contains(t, Available(), Default)
	for _, b := range Available() {
		h, err := New(b)
		require.NoError(t, err, "backend %v", b)
		require.Equal(t, b, h.Backend())
	}
}

func TestUnknownBackend(t *testing.T) {
	t.Parallel()
	_, err := New(Backend(200))
	require.ErrorIs(t, err, ErrUnsupportedBackend)
	_, err = New(Custom)
	require.ErrorIs(t, err, ErrUnsupportedBackend)
}

func TestParseBackend(t *testing.T) {
	t.Parallel()
	for _, b := range []Backend{Default, XXHash, Blake2b, SHA256} {
		parsed, err := ParseBackend(b.String())
		require.NoError(t, err)
		require.Equal(t, b, parsed)
	}
	parsed, err := ParseBackend("BLAKE2B")
	require.NoError(t, err)
	require.Equal(t, Blake2b, parsed)
	_, err = ParseBackend("custom")
	require.ErrorIs(t, err, ErrUnsupportedBackend)
	_, err = ParseBackend("md5")
	require.ErrorIs(t, err, ErrUnsupportedBackend)
	require.Equal(t, "backend(99)", Backend(99).String())
}

func TestDigestsAreDeterministicAndFixedWidth(t *testing.T) {
	t.Parallel()
	inputs := [][]byte{nil, {}, []byte("a"), []byte("clients/tendermint-0/clientState"), make([]byte, 1000)}
	for _, b := range Available() {
		h, err := New(b)
		require.NoError(t, err)
		for _, in := range inputs {
			d1 := h.Digest(in)
			d2 := h.Digest(append([]byte(nil), in...))
			require.Len(t, d1, h.Size(), "backend %v", b)
			require.Equal(t, d1, d2, "backend %v", b)
		}
		require.NotEqual(t, h.Digest([]byte("a")), h.Digest([]byte("b")), "backend %v", b)
	}
}

func TestKnownVectors(t *testing.T) {
	t.Parallel()
	h, err := New(Default)
	require.NoError(t, err)
	require.Equal(t, Digest{0, 0, 0, 0, 0, 0, 0, 0}, h.Digest(nil))

	if h, err := New(XXHash); err == nil {
		require.Equal(t, "ef46db3751d8e999", hex.EncodeToString(h.Digest(nil)))
	}
	if h, err := New(SHA256); err == nil {
		require.Equal(t,
			"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			hex.EncodeToString(h.Digest(nil)))
	}
}

func TestBlake2bConcurrentUse(t *testing.T) {
	t.Parallel()
	h, err := New(Blake2b)
	if errors.Is(err, ErrUnsupportedBackend) {
		t.Skip("blake2b not compiled in")
	}
	require.NoError(t, err)
	want := h.Digest([]byte("shared"))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if string(h.Digest([]byte("shared"))) != string(want) {
					t.Error("digest changed under concurrent use")
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	h, err := New(Default)
	require.NoError(t, err)
	tr, err := Truncate(h, 2)
	require.NoError(t, err)
	require.Equal(t, 2, tr.Size())
	require.Equal(t, Default, tr.Backend())
	full := h.Digest([]byte("abc"))
	require.Equal(t, full[:2], tr.Digest([]byte("abc")))

	same, err := Truncate(h, h.Size())
	require.NoError(t, err)
	require.Equal(t, h, same)

	_, err = Truncate(h, 0)
	require.Error(t, err)
	_, err = Truncate(h, h.Size()+1)
	require.Error(t, err)
}

func TestCachedHasherHashesOnce(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	mock := NewMockHasher(ctrl)
	mock.EXPECT().Digest([]byte("k")).Return(Digest{1, 2, 3, 4}).Times(1)
	mock.EXPECT().Digest([]byte("j")).Return(Digest{5, 6, 7, 8}).Times(1)
	mock.EXPECT().Size().Return(4).AnyTimes()

	c, err := NewCached(mock, 16)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.Equal(t, Digest{1, 2, 3, 4}, c.Digest([]byte("k")))
		require.Equal(t, Digest{5, 6, 7, 8}, c.Digest([]byte("j")))
	}
	require.Equal(t, 4, c.Size())
}

func TestCachedHasherRejectsBadSize(t *testing.T) {
	t.Parallel()
	h, err := New(Default)
	require.NoError(t, err)
	_, err = NewCached(h, 0)
	require.Error(t, err)
}
