package hasher

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

// cachedHasher remembers the digests of recently hashed keys. Digests are
// immutable, so a cached digest may be handed to any number of callers.
type cachedHasher struct {
	Hasher
	cache *lru.ARCCache
}

// NewCached wraps h with an ARC cache of the given number of digests. It only
// pays off for backends that are expensive relative to a cache lookup, like
// Blake2b and SHA256, on workloads that touch the same keys repeatedly.
func NewCached(h Hasher, size int) (Hasher, error) {
	cache, err := lru.NewARC(size)
	if err != nil {
		return nil, fmt.Errorf("digest cache: %w", err)
	}
	return &cachedHasher{h, cache}, nil
}

func (c *cachedHasher) Digest(data []byte) Digest {
	key := string(data)
	if d, ok := c.cache.Get(key); ok {
		return d.(Digest)
	}
	d := c.Hasher.Digest(data)
	c.cache.Add(key, d)
	return d
}
