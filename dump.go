package hamt

import (
	"bytes"
	"fmt"
	"math/bits"
	"sort"
	"strings"
)

// String renders the trie structure, one node per line, for debugging.
func (m *Map[V]) String() string {
	if m.root == nil {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteString("{\n")
	writeNode(&sb, m.root, "", "   ")
	sb.WriteString("}")
	return sb.String()
}

func writeNode[V any](sb *strings.Builder, n node[V], label, indent string) {
	switch n := n.(type) {
	case *leaf[V]:
		fmt.Fprintf(sb, "%s%s%q: %v\n", indent, label, n.key, n.value)
	case *collision[V]:
		fmt.Fprintf(sb, "%s%scollision %x {\n", indent, label, n.hash)
		for _, e := range n.entries {
			fmt.Fprintf(sb, "%s   %q: %v\n", indent, e.key, e.value)
		}
		sb.WriteString(indent + "}\n")
	case *branch[V]:
		if label != "" {
			fmt.Fprintf(sb, "%s%s{\n", indent, label)
			writeNode[V](sb, n, "", indent+"   ")
			sb.WriteString(indent + "}\n")
			return
		}
		for bitmap := n.bitmap; bitmap != 0; bitmap &= bitmap - 1 {
			idx := uint(bits.TrailingZeros64(bitmap))
			writeNode(sb, n.child(idx), fmt.Sprintf("%02x: ", idx), indent)
		}
	}
}

// Depth returns the number of branch levels on the longest path from the
// root to an entry.
func (m *Map[V]) Depth() int {
	return depth(m.root)
}

func depth[V any](n node[V]) int {
	b, ok := n.(*branch[V])
	if !ok {
		return 0
	}
	deepest := 0
	for _, c := range b.children {
		if d := depth(c); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}

// validate checks the structural invariants of the trie, including that
// it is in canonical form and holds exactly Len entries.
func (m *Map[V]) validate() error {
	count, err := validateNode(m.root, nil, 0, m.s)
	if err != nil {
		return err
	}
	if count != m.size {
		return fmt.Errorf("counted %d entries, size is %d", count, m.size)
	}
	return nil
}

// validateNode checks n, found at depth by following the chunk values in
// path.
func validateNode[V any](n node[V], path []uint, depth uint, s *settings) (int, error) {
	width := s.bitWidth
	onPath := func(d []byte) error {
		if len(d) != s.hasher.Size() {
			return fmt.Errorf("digest %x has %d bytes, want %d", d, len(d), s.hasher.Size())
		}
		for i, want := range path {
			if got, _ := chunk(d, uint(i), width); got != want {
				return fmt.Errorf("digest %x at depth %d has chunk %d, but is stored under %d", d, i, got, want)
			}
		}
		return nil
	}
	switch n := n.(type) {
	case nil:
		return 0, nil
	case *leaf[V]:
		if want := s.hasher.Digest([]byte(n.key)); !bytes.Equal(want, n.hash) {
			return 0, fmt.Errorf("leaf %q has digest %x, want %x", n.key, n.hash, want)
		}
		return 1, onPath(n.hash)
	case *collision[V]:
		if len(n.entries) < 2 {
			return 0, fmt.Errorf("collision %x has %d entries", n.hash, len(n.entries))
		}
		if !sort.SliceIsSorted(n.entries, func(i, j int) bool { return n.entries[i].key < n.entries[j].key }) {
			return 0, fmt.Errorf("collision %x entries not sorted", n.hash)
		}
		for i, e := range n.entries {
			if i > 0 && n.entries[i-1].key == e.key {
				return 0, fmt.Errorf("collision %x has duplicate key %q", n.hash, e.key)
			}
			if want := s.hasher.Digest([]byte(e.key)); !bytes.Equal(want, n.hash) {
				return 0, fmt.Errorf("collision %x holds %q with digest %x", n.hash, e.key, want)
			}
		}
		return len(n.entries), onPath(n.hash)
	case *branch[V]:
		if depth >= maxDepth(s.hasher.Size(), width) {
			return 0, fmt.Errorf("branch at depth %d is beyond the digest", depth)
		}
		if len(n.children) == 0 {
			return 0, fmt.Errorf("empty branch at depth %d", depth)
		}
		if bits.OnesCount64(n.bitmap) != len(n.children) {
			return 0, fmt.Errorf("branch bitmap %b has %d bits for %d children", n.bitmap, bits.OnesCount64(n.bitmap), len(n.children))
		}
		if n.bitmap>>(uint(1)<<width) != 0 {
			return 0, fmt.Errorf("branch bitmap %b has bits beyond width %d", n.bitmap, width)
		}
		if len(n.children) == 1 {
			if _, ok := n.children[0].(*branch[V]); !ok {
				return 0, fmt.Errorf("branch at depth %d has a single %T child", depth, n.children[0])
			}
		}
		total := 0
		for bitmap := n.bitmap; bitmap != 0; bitmap &= bitmap - 1 {
			idx := uint(bits.TrailingZeros64(bitmap))
			c := n.child(idx)
			if c == nil {
				return 0, fmt.Errorf("nil child at %d, depth %d", idx, depth)
			}
			count, err := validateNode(c, append(path[:len(path):len(path)], idx), depth+1, s)
			if err != nil {
				return 0, err
			}
			total += count
		}
		return total, nil
	}
	return 0, fmt.Errorf("unknown node type %T", n)
}
