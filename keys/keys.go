// Package keys normalizes map keys into the bytes that are hashed and
// compared by the trie.
package keys

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEncoding is returned when a key is not valid under the
	// encoder's mode, e.g. ill-formed UTF-8.
	ErrInvalidEncoding = errors.New("invalid key encoding")

	// ErrKeyTooLarge is returned when an encoded key exceeds Options.MaxLen.
	ErrKeyTooLarge = errors.New("key too large")

	// ErrUnsupportedMode is returned for modes not compiled into this build.
	ErrUnsupportedMode = errors.New("unsupported key mode")
)

// Mode selects the key domain.
type Mode uint8

const (
	// Raw accepts any byte sequence unchanged.
	Raw Mode = iota
	// UTF8 accepts only well-formed UTF-8 text.
	UTF8
)

func (m Mode) String() string {
	switch m {
	case Raw:
		return "raw"
	case UTF8:
		return "utf8"
	}
	return fmt.Sprintf("mode(%d)", uint8(m))
}

// Options tune an Encoder.
type Options struct {
	// NormalizeNFC makes canonically equivalent strings the same key by
	// converting them to Unicode Normalization Form C. UTF8 mode only.
	NormalizeNFC bool

	// MaxLen limits the length of encoded keys in bytes. 0 means no limit.
	MaxLen int
}

// Encoder turns a caller's key into the bytes stored in the trie.
type Encoder interface {
	// Encode validates key and returns its encoded form. The result may
	// alias key.
	Encode(key []byte) ([]byte, error)
	Mode() Mode
}

var constructors = map[Mode]func(Options) Encoder{
	Raw: newRawEncoder,
}

// New returns the Encoder for mode.
func New(mode Mode, opts Options) (Encoder, error) {
	ctor, ok := constructors[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedMode, mode)
	}
	if opts.MaxLen < 0 {
		return nil, fmt.Errorf("negative MaxLen %d", opts.MaxLen)
	}
	if opts.NormalizeNFC && mode != UTF8 {
		return nil, fmt.Errorf("NormalizeNFC requires %v mode, not %v", UTF8, mode)
	}
	return ctor(opts), nil
}

// Supported reports whether mode is compiled into this build.
func Supported(mode Mode) bool {
	_, ok := constructors[mode]
	return ok
}

func checkLen(key []byte, maxLen int) error {
	if maxLen > 0 && len(key) > maxLen {
		return fmt.Errorf("%w: %d bytes, limit is %d", ErrKeyTooLarge, len(key), maxLen)
	}
	return nil
}

type rawEncoder struct {
	maxLen int
}

func newRawEncoder(opts Options) Encoder {
	return rawEncoder{opts.MaxLen}
}

func (e rawEncoder) Encode(key []byte) ([]byte, error) {
	if err := checkLen(key, e.maxLen); err != nil {
		return nil, err
	}
	return key, nil
}

func (rawEncoder) Mode() Mode { return Raw }
