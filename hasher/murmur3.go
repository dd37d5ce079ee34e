package hasher

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

func init() {
	register(Default, func() (Hasher, error) { return murmur3Hasher{}, nil })
}

type murmur3Hasher struct{}

func (murmur3Hasher) Digest(data []byte) Digest {
	d := make(Digest, 8)
	binary.BigEndian.PutUint64(d, murmur3.Sum64(data))
	return d
}

func (murmur3Hasher) Size() int { return 8 }

func (murmur3Hasher) Backend() Backend { return Default }
