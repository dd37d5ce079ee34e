package hamt

import "iter"

// All returns an iterator over the entries of m. Branch children are
// visited in ascending chunk order and colliding keys in ascending key
// order, so two maps holding the same keys with the same configuration
// iterate identically. The yielded key must not be modified.
func (m *Map[V]) All() iter.Seq2[[]byte, V] {
	return func(yield func([]byte, V) bool) {
		if m.root == nil {
			return
		}
		m.root.each(func(e *entry[V]) bool {
			return yield([]byte(e.key), e.value)
		})
	}
}

// Keys returns an iterator over the keys of m, in the order of All.
func (m *Map[V]) Keys() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Iter invokes the given callback for every entry in the map, stopping at
// the first error, which is returned.
func (m *Map[V]) Iter(f func(key []byte, value V) error) error {
	var err error
	for k, v := range m.All() {
		if err = f(k, v); err != nil {
			break
		}
	}
	return err
}
