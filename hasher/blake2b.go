//go:build !hamt_noblake2b

package hasher

import (
	"fmt"
	"hash"
	"sync"

	"github.com/minio/blake2b-simd"
)

// blake2bPerson domain-separates key digests from other blake2b uses of the
// same bytes.
var blake2bPerson = []byte("hamt-key-digest")

const blake2bSize = 32

func init() {
	register(Blake2b, newBlake2bHasher)
}

type blake2bHasher struct {
	pool *sync.Pool
}

func newBlake2bHasher() (Hasher, error) {
	config := &blake2b.Config{
		Size:   blake2bSize,
		Person: blake2bPerson,
	}
	// validate the config once, so that the pool never sees an error
	if _, err := blake2b.New(config); err != nil {
		return nil, fmt.Errorf("blake2b config: %w", err)
	}
	return blake2bHasher{
		pool: &sync.Pool{
			New: func() interface{} {
				h, err := blake2b.New(config)
				if err != nil {
					panic(err)
				}
				return h
			},
		},
	}, nil
}

func (b blake2bHasher) Digest(data []byte) Digest {
	h := b.pool.Get().(hash.Hash)
	h.Reset()
	h.Write(data)
	d := h.Sum(make(Digest, 0, blake2bSize))
	b.pool.Put(h)
	return d
}

func (blake2bHasher) Size() int { return blake2bSize }

func (blake2bHasher) Backend() Backend { return Blake2b }
