package hamt

// DefaultBitWidth is the number of digest bits consumed per trie level,
// giving branches of up to 32 children.
const DefaultBitWidth = 5

// maxBitWidth is bounded by the uint64 branch bitmap.
const maxBitWidth = 6

// chunk returns the child index selected by digest d at the given depth,
// reading width bits MSB-first. The last chunk of a digest may be narrower
// than width. ok is false once the digest is exhausted.
func chunk(d []byte, depth, width uint) (idx uint, ok bool) {
	start := depth * width
	total := uint(len(d)) * 8
	if start >= total {
		return 0, false
	}
	n := width
	if start+n > total {
		n = total - start
	}
	// width <= 8, so the bits span at most two bytes
	i := start / 8
	window := uint(d[i]) << 8
	if i+1 < uint(len(d)) {
		window |= uint(d[i+1])
	}
	shift := 16 - start%8 - n
	return (window >> shift) & (1<<n - 1), true
}

// maxDepth is the number of levels a digest of size bytes can address.
func maxDepth(size int, width uint) uint {
	bits := uint(size) * 8
	return (bits + width - 1) / width
}
