package hamt

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math/bits"
	"sort"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/jrhy/hamt/hasher"
)

// node is one of *branch, *leaf or *collision. A nil node is the empty
// trie; branches never hold nil children.
//
// Nodes reachable from a published Map are never modified. A Builder may
// modify nodes carrying its own edit token in place, since nothing else can
// reach them until the Builder publishes.
type node[V any] interface {
	get(o *op, depth uint) (*entry[V], bool)
	insert(o *op, depth uint, value V) (node[V], bool)
	remove(o *op, depth uint) (node[V], bool)
	each(f func(*entry[V]) bool) bool
}

// bucket is a leaf or collision: the nodes that hold entries.
type bucket[V any] interface {
	node[V]
	digest() hasher.Digest
}

type entry[V any] struct {
	key   string
	value V
}

// edit identifies the Builder that owns a node. It is not zero-sized, so
// each token gets a distinct address.
type edit struct {
	_ byte
}

// op carries the encoded key and its digest down the trie for one
// operation.
type op struct {
	key    string
	digest hasher.Digest
	width  uint
	edit   *edit
	log    *zap.Logger
}

func newLeaf[V any](o *op, value V) *leaf[V] {
	return &leaf[V]{hash: o.digest, entry: entry[V]{key: o.key, value: value}}
}

type leaf[V any] struct {
	hash hasher.Digest
	entry[V]
}

func (l *leaf[V]) digest() hasher.Digest { return l.hash }

func (l *leaf[V]) get(o *op, _ uint) (*entry[V], bool) {
	if l.key != o.key {
		return nil, false
	}
	return &l.entry, true
}

func (l *leaf[V]) insert(o *op, depth uint, value V) (node[V], bool) {
	if l.key == o.key {
		return newLeaf(o, value), false
	}
	if bytes.Equal(l.hash, o.digest) {
		if ce := o.log.Check(zap.DebugLevel, "digest collision"); ce != nil {
			ce.Write(zap.String("digest", hex.EncodeToString(o.digest)), zap.Uint("depth", depth))
		}
		entries := []entry[V]{l.entry, {key: o.key, value: value}}
		if o.key < l.key {
			entries[0], entries[1] = entries[1], entries[0]
		}
		return &collision[V]{hash: l.hash, entries: entries, edit: o.edit}, true
	}
	return split[V](o, depth, l, newLeaf(o, value)), true
}

func (l *leaf[V]) remove(o *op, _ uint) (node[V], bool) {
	if l.key != o.key {
		return l, false
	}
	return nil, true
}

func (l *leaf[V]) each(f func(*entry[V]) bool) bool {
	return f(&l.entry)
}

// collision holds two or more entries whose keys share a full digest,
// sorted by key.
type collision[V any] struct {
	hash    hasher.Digest
	entries []entry[V]
	edit    *edit
}

func (c *collision[V]) digest() hasher.Digest { return c.hash }

func (c *collision[V]) find(key string) (int, bool) {
	i := sort.Search(len(c.entries), func(i int) bool { return c.entries[i].key >= key })
	return i, i < len(c.entries) && c.entries[i].key == key
}

func (c *collision[V]) editable(e *edit, extra int) *collision[V] {
	if e != nil && c.edit == e {
		return c
	}
	entries := make([]entry[V], len(c.entries), len(c.entries)+extra)
	copy(entries, c.entries)
	return &collision[V]{hash: c.hash, entries: entries, edit: e}
}

func (c *collision[V]) get(o *op, _ uint) (*entry[V], bool) {
	if !bytes.Equal(c.hash, o.digest) {
		return nil, false
	}
	i, found := c.find(o.key)
	if !found {
		return nil, false
	}
	return &c.entries[i], true
}

func (c *collision[V]) insert(o *op, depth uint, value V) (node[V], bool) {
	if !bytes.Equal(c.hash, o.digest) {
		return split[V](o, depth, c, newLeaf(o, value)), true
	}
	i, found := c.find(o.key)
	if found {
		nc := c.editable(o.edit, 0)
		nc.entries[i].value = value
		return nc, false
	}
	nc := c.editable(o.edit, 1)
	nc.entries = append(nc.entries, entry[V]{})
	copy(nc.entries[i+1:], nc.entries[i:])
	nc.entries[i] = entry[V]{key: o.key, value: value}
	return nc, true
}

func (c *collision[V]) remove(o *op, _ uint) (node[V], bool) {
	if !bytes.Equal(c.hash, o.digest) {
		return c, false
	}
	i, found := c.find(o.key)
	if !found {
		return c, false
	}
	if len(c.entries) == 2 {
		return &leaf[V]{hash: c.hash, entry: c.entries[1-i]}, true
	}
	nc := c.editable(o.edit, 0)
	copy(nc.entries[i:], nc.entries[i+1:])
	nc.entries[len(nc.entries)-1] = entry[V]{}
	nc.entries = nc.entries[:len(nc.entries)-1]
	return nc, true
}

func (c *collision[V]) each(f func(*entry[V]) bool) bool {
	for i := range c.entries {
		if !f(&c.entries[i]) {
			return false
		}
	}
	return true
}

// branch is a popcount-compressed array of children: bit i of bitmap is
// set iff a child exists for chunk value i, and that child is stored at
// children[popcount(bitmap below bit i)].
type branch[V any] struct {
	bitmap   uint64
	children []node[V]
	edit     *edit

	// sum memoizes the branch's Root digest once it is published.
	sum atomic.Pointer[hasher.Digest]
}

func (b *branch[V]) slot(idx uint) (pos int, present bool) {
	bit := uint64(1) << idx
	return bits.OnesCount64(b.bitmap & (bit - 1)), b.bitmap&bit != 0
}

func (b *branch[V]) child(idx uint) node[V] {
	pos, present := b.slot(idx)
	if !present {
		return nil
	}
	return b.children[pos]
}

func (b *branch[V]) editable(e *edit, extra int) *branch[V] {
	if e != nil && b.edit == e {
		return b
	}
	children := make([]node[V], len(b.children), len(b.children)+extra)
	copy(children, b.children)
	return &branch[V]{bitmap: b.bitmap, children: children, edit: e}
}

func (b *branch[V]) index(o *op, depth uint) uint {
	idx, ok := chunk(o.digest, depth, o.width)
	if !ok {
		// buckets with equal digests never split, so a branch can't
		// sit deeper than the digest reaches
		panic(fmt.Sprintf("branch at depth %d beyond %d-byte digest", depth, len(o.digest)))
	}
	return idx
}

func (b *branch[V]) get(o *op, depth uint) (*entry[V], bool) {
	c := b.child(b.index(o, depth))
	if c == nil {
		return nil, false
	}
	return c.get(o, depth+1)
}

func (b *branch[V]) insert(o *op, depth uint, value V) (node[V], bool) {
	idx := b.index(o, depth)
	pos, present := b.slot(idx)
	if !present {
		nb := b.editable(o.edit, 1)
		nb.bitmap |= uint64(1) << idx
		nb.children = append(nb.children, nil)
		copy(nb.children[pos+1:], nb.children[pos:])
		nb.children[pos] = newLeaf(o, value)
		return nb, true
	}
	newChild, added := b.children[pos].insert(o, depth+1, value)
	nb := b.editable(o.edit, 0)
	nb.children[pos] = newChild
	return nb, added
}

func (b *branch[V]) remove(o *op, depth uint) (node[V], bool) {
	idx := b.index(o, depth)
	pos, present := b.slot(idx)
	if !present {
		return b, false
	}
	newChild, removed := b.children[pos].remove(o, depth+1)
	if !removed {
		return b, false
	}
	switch {
	case newChild == nil && len(b.children) == 1:
		return nil, true
	case newChild == nil && len(b.children) == 2:
		if other, ok := b.children[1-pos].(bucket[V]); ok {
			return other, true
		}
	case newChild != nil && len(b.children) == 1:
		if nb, ok := newChild.(bucket[V]); ok {
			return nb, true
		}
	}
	nb := b.editable(o.edit, 0)
	if newChild != nil {
		nb.children[pos] = newChild
		return nb, true
	}
	nb.bitmap &^= uint64(1) << idx
	copy(nb.children[pos:], nb.children[pos+1:])
	nb.children[len(nb.children)-1] = nil
	nb.children = nb.children[:len(nb.children)-1]
	return nb, true
}

func (b *branch[V]) each(f func(*entry[V]) bool) bool {
	for _, c := range b.children {
		if !c.each(f) {
			return false
		}
	}
	return true
}

// split builds the branches that separate two buckets with different
// digests, starting at depth.
func split[V any](o *op, depth uint, a, b bucket[V]) node[V] {
	ia, okA := chunk(a.digest(), depth, o.width)
	ib, okB := chunk(b.digest(), depth, o.width)
	if !okA || !okB {
		panic(fmt.Sprintf("digests %x and %x differ in width", a.digest(), b.digest()))
	}
	if ia == ib {
		return &branch[V]{
			bitmap:   uint64(1) << ia,
			children: []node[V]{split(o, depth+1, a, b)},
			edit:     o.edit,
		}
	}
	children := []node[V]{a, b}
	if ib < ia {
		children[0], children[1] = b, a
	}
	return &branch[V]{
		bitmap:   uint64(1)<<ia | uint64(1)<<ib,
		children: children,
		edit:     o.edit,
	}
}
