package hamt

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/jrhy/hamt/hasher"
	"github.com/jrhy/hamt/keys"
)

// Config sets parameters for a new map that cannot change for the maps
// derived from it.
type Config struct {
	// Backend selects the hash function. Ignored if Hasher is set.
	Backend hasher.Backend

	// Hasher, if not nil, is used instead of a built-in backend.
	Hasher hasher.Hasher

	// KeyMode selects which byte sequences are valid keys.
	KeyMode keys.Mode

	// KeyOptions tune the key encoder.
	KeyOptions keys.Options

	// BitWidth is the number of digest bits consumed per level, 1 to 6.
	// 0 means use DefaultBitWidth.
	BitWidth uint

	// DigestSize, if positive, truncates digests to this many bytes.
	DigestSize int

	// DigestCacheSize, if positive, remembers this many recent digests.
	DigestCacheSize int

	// Marshal encodes values for Root. Defaults to JSON.
	Marshal func(any) ([]byte, error)

	// Logger receives debug events. nil means no logging.
	Logger *zap.Logger
}

// settings are shared by every map derived from the same New call.
type settings struct {
	hasher   hasher.Hasher
	encoder  keys.Encoder
	bitWidth uint
	log      *zap.Logger

	// commit is the untruncated, uncached hasher that Root uses.
	commit  hasher.Hasher
	marshal func(any) ([]byte, error)
}

// customHasher reports a caller's Hasher as Custom whatever its own Backend
// says, so that it is never taken to place keys like a built-in backend.
type customHasher struct {
	hasher.Hasher
}

func (customHasher) Backend() hasher.Backend { return hasher.Custom }

func newSettings(cfg *Config) (*settings, error) {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	width := c.BitWidth
	if width == 0 {
		width = DefaultBitWidth
	}
	if width > maxBitWidth {
		return nil, fmt.Errorf("%w: BitWidth %d exceeds %d", ErrInvalidConfig, width, maxBitWidth)
	}
	var h hasher.Hasher
	if c.Hasher != nil {
		h = customHasher{c.Hasher}
	} else {
		var err error
		h, err = hasher.New(c.Backend)
		if err != nil {
			return nil, fmt.Errorf("hasher: %w", err)
		}
	}
	commit := h
	if c.DigestSize < 0 {
		return nil, fmt.Errorf("%w: negative DigestSize %d", ErrInvalidConfig, c.DigestSize)
	}
	if c.DigestSize > 0 {
		var err error
		h, err = hasher.Truncate(h, c.DigestSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	if h.Size() <= 0 {
		return nil, fmt.Errorf("%w: %v hasher has digest size %d", ErrInvalidConfig, h.Backend(), h.Size())
	}
	if c.DigestCacheSize < 0 {
		return nil, fmt.Errorf("%w: negative DigestCacheSize %d", ErrInvalidConfig, c.DigestCacheSize)
	}
	if c.DigestCacheSize > 0 {
		var err error
		h, err = hasher.NewCached(h, c.DigestCacheSize)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	enc, err := keys.New(c.KeyMode, c.KeyOptions)
	if errors.Is(err, keys.ErrUnsupportedMode) {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedBackend, err)
	} else if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	marshal := c.Marshal
	if marshal == nil {
		marshal = json.Marshal
	}
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log.Debug("new map",
		zap.Stringer("backend", h.Backend()),
		zap.Int("digestSize", h.Size()),
		zap.Stringer("keyMode", enc.Mode()),
		zap.Uint("bitWidth", width))
	return &settings{
		hasher:   h,
		encoder:  enc,
		bitWidth: width,
		log:      log,
		commit:   commit,
		marshal:  marshal,
	}, nil
}

// compatible reports whether tries built with s and o place equal keys at
// equal positions.
func (s *settings) compatible(o *settings) bool {
	if s == o {
		return true
	}
	if s.bitWidth != o.bitWidth || s.hasher.Size() != o.hasher.Size() {
		return false
	}
	b := s.hasher.Backend()
	return b != hasher.Custom && b == o.hasher.Backend()
}

// op encodes and hashes key for one operation.
func (s *settings) op(key []byte, e *edit) (*op, error) {
	enc, err := s.encoder.Encode(key)
	if err != nil {
		return nil, err
	}
	d := s.hasher.Digest(enc)
	if len(d) != s.hasher.Size() {
		panic(fmt.Sprintf("%v hasher returned %d-byte digest, want %d", s.hasher.Backend(), len(d), s.hasher.Size()))
	}
	return &op{
		key:    string(enc),
		digest: d,
		width:  s.bitWidth,
		edit:   e,
		log:    s.log,
	}, nil
}

// Map is an immutable map from byte-string keys to values of type V.
// Insert and Delete return new maps that share all untouched parts of the
// trie with the map they were derived from. A Map is safe for concurrent
// use by any number of goroutines.
type Map[V any] struct {
	root node[V]
	size int
	s    *settings
}

// New returns an empty map configured by cfg. A nil cfg uses the defaults.
func New[V any](cfg *Config) (*Map[V], error) {
	s, err := newSettings(cfg)
	if err != nil {
		return nil, err
	}
	return &Map[V]{s: s}, nil
}

// NewInMemory returns an empty map with the default backend and raw keys.
func NewInMemory[V any]() *Map[V] {
	m, err := New[V](nil)
	if err != nil {
		panic(fmt.Errorf("default config: %w", err))
	}
	return m
}

// Collect returns a map holding the pairs of seq. Later pairs replace
// earlier ones with the same key.
func Collect[V any](cfg *Config, seq iter.Seq2[[]byte, V]) (*Map[V], error) {
	m, err := New[V](cfg)
	if err != nil {
		return nil, err
	}
	b := m.Builder()
	for k, v := range seq {
		if err := b.Insert(k, v); err != nil {
			return nil, err
		}
	}
	return b.Map(), nil
}

func insertRoot[V any](root node[V], o *op, value V) (node[V], bool) {
	if root == nil {
		return newLeaf(o, value), true
	}
	return root.insert(o, 0, value)
}

func removeRoot[V any](root node[V], o *op) (node[V], bool) {
	if root == nil {
		return nil, false
	}
	return root.remove(o, 0)
}

func getRoot[V any](root node[V], o *op) (*entry[V], bool) {
	if root == nil {
		return nil, false
	}
	return root.get(o, 0)
}

// Insert returns a map with key set to value.
func (m *Map[V]) Insert(key []byte, value V) (*Map[V], error) {
	o, err := m.s.op(key, nil)
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}
	root, added := insertRoot(m.root, o, value)
	size := m.size
	if added {
		size++
	}
	return &Map[V]{root: root, size: size, s: m.s}, nil
}

// Get returns the value for key, and whether it was present.
func (m *Map[V]) Get(key []byte) (V, bool, error) {
	var zero V
	o, err := m.s.op(key, nil)
	if err != nil {
		return zero, false, fmt.Errorf("get: %w", err)
	}
	e, ok := getRoot(m.root, o)
	if !ok {
		return zero, false, nil
	}
	return e.value, true, nil
}

// Contains reports whether key is present.
func (m *Map[V]) Contains(key []byte) (bool, error) {
	_, ok, err := m.Get(key)
	return ok, err
}

// Delete returns a map without key. If key is absent, m itself is returned.
func (m *Map[V]) Delete(key []byte) (*Map[V], error) {
	o, err := m.s.op(key, nil)
	if err != nil {
		return nil, fmt.Errorf("delete: %w", err)
	}
	root, removed := removeRoot(m.root, o)
	if !removed {
		return m, nil
	}
	return &Map[V]{root: root, size: m.size - 1, s: m.s}, nil
}

// InsertString is Insert with a string key.
func (m *Map[V]) InsertString(key string, value V) (*Map[V], error) {
	return m.Insert([]byte(key), value)
}

// GetString is Get with a string key.
func (m *Map[V]) GetString(key string) (V, bool, error) {
	return m.Get([]byte(key))
}

// DeleteString is Delete with a string key.
func (m *Map[V]) DeleteString(key string) (*Map[V], error) {
	return m.Delete([]byte(key))
}

// Len returns the number of entries.
func (m *Map[V]) Len() int {
	return m.size
}

// Backend returns the hash backend, or hasher.Custom for a caller's Hasher.
func (m *Map[V]) Backend() hasher.Backend {
	return m.s.hasher.Backend()
}

// KeyMode returns the key encoding mode.
func (m *Map[V]) KeyMode() keys.Mode {
	return m.s.encoder.Mode()
}

// BitWidth returns the number of digest bits consumed per trie level.
func (m *Map[V]) BitWidth() uint {
	return m.s.bitWidth
}
