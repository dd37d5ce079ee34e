package hasher

import "fmt"

type truncatedHasher struct {
	Hasher
	size int
}

// Truncate returns a Hasher whose digests are the first size bytes of h's.
// Shorter digests make shallower tries at the price of more full-digest
// collisions, which the trie resolves by comparing keys.
func Truncate(h Hasher, size int) (Hasher, error) {
	if size <= 0 || size > h.Size() {
		return nil, fmt.Errorf("cannot truncate %d-byte %v digest to %d bytes", h.Size(), h.Backend(), size)
	}
	if size == h.Size() {
		return h, nil
	}
	return truncatedHasher{h, size}, nil
}

func (t truncatedHasher) Digest(data []byte) Digest {
	return t.Hasher.Digest(data)[:t.size:t.size]
}

func (t truncatedHasher) Size() int { return t.size }
