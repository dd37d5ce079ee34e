package hamt

import (
	"encoding/binary"
	"fmt"

	"github.com/jrhy/hamt/hasher"
)

const (
	leafTag byte = iota + 1
	collisionTag
	branchTag
)

// Root returns a digest committing to the map's keys and values, computed
// with the map's backend at its full width. Since the trie's shape depends
// only on its keys, maps with the same settings and the same contents have
// the same Root however they were built. The empty map's Root is all zero.
//
// Values are encoded with Config.Marshal. Branch digests are remembered, so
// a map derived from one whose Root is known only hashes the changed path.
func (m *Map[V]) Root() (hasher.Digest, error) {
	if m.root == nil {
		return make(hasher.Digest, m.s.commit.Size()), nil
	}
	d, err := commit(m.root, m.s)
	if err != nil {
		return nil, fmt.Errorf("root: %w", err)
	}
	return d, nil
}

func commit[V any](n node[V], s *settings) (hasher.Digest, error) {
	var (
		buf []byte
		err error
	)
	switch n := n.(type) {
	case *leaf[V]:
		buf, err = appendEntry([]byte{leafTag}, &n.entry, s.marshal)
		if err != nil {
			return nil, err
		}
	case *collision[V]:
		buf = []byte{collisionTag}
		for i := range n.entries {
			buf, err = appendEntry(buf, &n.entries[i], s.marshal)
			if err != nil {
				return nil, err
			}
		}
	case *branch[V]:
		if d := n.sum.Load(); d != nil {
			return *d, nil
		}
		buf = binary.BigEndian.AppendUint64([]byte{branchTag}, n.bitmap)
		for _, c := range n.children {
			d, err := commit(c, s)
			if err != nil {
				return nil, err
			}
			buf = append(buf, d...)
		}
		d := s.commit.Digest(buf)
		n.sum.Store(&d)
		return d, nil
	default:
		panic(fmt.Sprintf("unexpected node %T", n))
	}
	return s.commit.Digest(buf), nil
}

func appendEntry[V any](buf []byte, e *entry[V], marshal func(any) ([]byte, error)) ([]byte, error) {
	v, err := marshal(e.value)
	if err != nil {
		return nil, fmt.Errorf("marshal value of %q: %w", e.key, err)
	}
	buf = binary.AppendUvarint(buf, uint64(len(e.key)))
	buf = append(buf, e.key...)
	buf = binary.AppendUvarint(buf, uint64(len(v)))
	return append(buf, v...), nil
}
