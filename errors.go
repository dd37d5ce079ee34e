package hamt

import (
	"errors"

	"github.com/jrhy/hamt/hasher"
	"github.com/jrhy/hamt/keys"
)

var (
	// ErrInvalidEncoding is returned by Insert, Get and Delete when a key is
	// not valid in the map's key mode.
	ErrInvalidEncoding = keys.ErrInvalidEncoding

	// ErrKeyTooLarge is returned when a key exceeds keys.Options.MaxLen.
	ErrKeyTooLarge = keys.ErrKeyTooLarge

	// ErrUnsupportedBackend is returned by New when the requested hash
	// backend or key mode is not compiled into this build.
	ErrUnsupportedBackend = hasher.ErrUnsupportedBackend

	// ErrInvalidConfig is returned by New for out-of-range settings.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrIncompatible is returned when comparing maps whose tries are shaped
	// by different hash functions or bit widths.
	ErrIncompatible = errors.New("maps are not structurally comparable")
)
