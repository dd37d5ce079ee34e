//go:build !hamt_noutf8

package keys

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

func init() {
	constructors[UTF8] = func(opts Options) Encoder {
		return utf8Encoder{opts}
	}
}

type utf8Encoder struct {
	opts Options
}

func (e utf8Encoder) Encode(key []byte) ([]byte, error) {
	if !utf8.Valid(key) {
		return nil, fmt.Errorf("%w: ill-formed UTF-8 at byte %d", ErrInvalidEncoding, firstInvalid(key))
	}
	if e.opts.NormalizeNFC && !norm.NFC.IsNormal(key) {
		key = norm.NFC.Bytes(key)
	}
	if err := checkLen(key, e.opts.MaxLen); err != nil {
		return nil, err
	}
	return key, nil
}

func (utf8Encoder) Mode() Mode { return UTF8 }

// firstInvalid returns the offset of the first ill-formed sequence in b.
func firstInvalid(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}
