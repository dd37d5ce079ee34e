//go:build !hamt_nosha256

package hasher

import (
	"github.com/minio/sha256-simd"
)

func init() {
	register(SHA256, func() (Hasher, error) { return sha256Hasher{}, nil })
}

type sha256Hasher struct{}

func (sha256Hasher) Digest(data []byte) Digest {
	sum := sha256.Sum256(data)
	return sum[:]
}

func (sha256Hasher) Size() int { return sha256.Size }

func (sha256Hasher) Backend() Backend { return SHA256 }
