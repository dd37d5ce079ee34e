// Package hasher provides the digest functions used to address entries in a
// hash trie. Backends are selected by a Backend value when a map is created;
// which backends exist depends on the build tags the module was compiled with.
package hasher

//go:generate mockgen -source hasher.go -destination hasher_mocks.go -package hasher

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnsupportedBackend is returned when a backend is requested that was not
// compiled into this build.
var ErrUnsupportedBackend = errors.New("unsupported backend")

// Digest is the fixed-width output of a Hasher.
type Digest []byte

// Hasher turns an encoded key into a Digest. Implementations must be
// deterministic and safe for concurrent use.
type Hasher interface {
	// Digest returns the digest of data. The result must not be modified by
	// the caller, and the Hasher must not retain data.
	Digest(data []byte) Digest
	// Size is the width of every digest in bytes.
	Size() int
	// Backend identifies the algorithm.
	Backend() Backend
}

// Backend selects a hash algorithm.
type Backend uint8

const (
	// Default is murmur3 (64 bit): fast, not collision resistant.
	Default Backend = iota
	// XXHash is xxHash64: fast, not collision resistant.
	XXHash
	// Blake2b is personalised blake2b-256, for keys from untrusted sources.
	Blake2b
	// SHA256 is SHA-256.
	SHA256
	// Custom is reported by hashers supplied by the caller.
	Custom
)

var backendNames = map[Backend]string{
	Default: "default",
	XXHash:  "xxhash",
	Blake2b: "blake2b",
	SHA256:  "sha256",
	Custom:  "custom",
}

func (b Backend) String() string {
	if name, ok := backendNames[b]; ok {
		return name
	}
	return fmt.Sprintf("backend(%d)", uint8(b))
}

// ParseBackend returns the Backend with the given name, as printed by String.
func ParseBackend(name string) (Backend, error) {
	for b, n := range backendNames {
		if strings.EqualFold(n, name) && b != Custom {
			return b, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedBackend, name)
}

var constructors = map[Backend]func() (Hasher, error){}

// register is called from the init of each backend's file, so that backends
// excluded by build tags are simply absent.
func register(b Backend, ctor func() (Hasher, error)) {
	if _, dup := constructors[b]; dup {
		panic(fmt.Sprintf("backend %v registered twice", b))
	}
	constructors[b] = ctor
}

// New returns a Hasher for the given backend, or ErrUnsupportedBackend if it
// is not compiled in.
func New(b Backend) (Hasher, error) {
	ctor, ok := constructors[b]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedBackend, b)
	}
	h, err := ctor()
	if err != nil {
		return nil, fmt.Errorf("%v: %w", b, err)
	}
	return h, nil
}

// Available lists the backends compiled into this build, in ascending order.
func Available() []Backend {
	res := make([]Backend, 0, len(constructors))
	for b := range constructors {
		res = append(res, b)
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}
