package hamt

import (
	"fmt"
	"math/bits"
	"reflect"
)

// DiffIter invokes the given callback for every entry that is different from
// the given map. Subtrees the two maps share are skipped without being
// visited, so the cost follows the size of the difference rather than the
// size of the maps. The iteration will stop if the callback returns
// keepGoing==false or an error. Callback invocation with
// added==removed==false signifies entries whose values have changed, as
// judged by eq; a nil eq compares values with reflect.DeepEqual. A nil old
// map is treated as empty.
//
// Maps configured with different hash functions or bit widths return
// ErrIncompatible.
func (m *Map[V]) DiffIter(
	old *Map[V],
	eq func(a, b V) bool,
	f func(added, removed bool, key []byte, addedValue, removedValue V) (bool, error),
) error {
	var oldRoot node[V]
	if old != nil {
		if !m.s.compatible(old.s) {
			return ErrIncompatible
		}
		oldRoot = old.root
	}
	if eq == nil {
		eq = func(a, b V) bool { return reflect.DeepEqual(a, b) }
	}
	d := differ[V]{eq: eq, f: f}
	_, err := d.diff(oldRoot, m.root)
	return err
}

// Equal reports whether m and other hold the same keys with values equal
// by eq, with the same nil-eq default as DiffIter.
func (m *Map[V]) Equal(other *Map[V], eq func(a, b V) bool) (bool, error) {
	if other == nil {
		return m.size == 0, nil
	}
	if !m.s.compatible(other.s) {
		return false, ErrIncompatible
	}
	if m.size != other.size {
		return false, nil
	}
	equal := true
	err := m.DiffIter(other, eq, func(_, _ bool, _ []byte, _, _ V) (bool, error) {
		equal = false
		return false, nil
	})
	return equal, err
}

type differ[V any] struct {
	eq func(a, b V) bool
	f  func(added, removed bool, key []byte, addedValue, removedValue V) (bool, error)
}

func (d *differ[V]) emit(added, removed bool, key string, addedValue, removedValue V) (bool, error) {
	keepGoing, err := d.f(added, removed, []byte(key), addedValue, removedValue)
	if err != nil {
		return false, fmt.Errorf("callback: %w", err)
	}
	return keepGoing, nil
}

// diff compares two nodes occupying the same slot of their tries.
func (d *differ[V]) diff(o, n node[V]) (bool, error) {
	if o == n {
		return true, nil
	}
	ob, oIsBranch := o.(*branch[V])
	nb, nIsBranch := n.(*branch[V])
	if oIsBranch && nIsBranch {
		for bitmap := ob.bitmap | nb.bitmap; bitmap != 0; bitmap &= bitmap - 1 {
			idx := uint(bits.TrailingZeros64(bitmap))
			keepGoing, err := d.diff(ob.child(idx), nb.child(idx))
			if err != nil || !keepGoing {
				return keepGoing, err
			}
		}
		return true, nil
	}
	return d.diffEntries(o, n)
}

// diffEntries compares the entries under two nodes of different shapes. At
// least one side is a bucket or empty.
func (d *differ[V]) diffEntries(o, n node[V]) (bool, error) {
	var zero V
	old := map[string]*entry[V]{}
	if o != nil {
		o.each(func(e *entry[V]) bool {
			old[e.key] = e
			return true
		})
	}
	keepGoing := true
	var err error
	if n != nil {
		n.each(func(e *entry[V]) bool {
			oe, found := old[e.key]
			switch {
			case !found:
				keepGoing, err = d.emit(true, false, e.key, e.value, zero)
			case !d.eq(oe.value, e.value):
				delete(old, e.key)
				keepGoing, err = d.emit(false, false, e.key, e.value, oe.value)
			default:
				delete(old, e.key)
			}
			return err == nil && keepGoing
		})
	}
	if err != nil || !keepGoing || len(old) == 0 {
		return keepGoing, err
	}
	o.each(func(e *entry[V]) bool {
		if _, removed := old[e.key]; removed {
			keepGoing, err = d.emit(false, true, e.key, zero, e.value)
		}
		return err == nil && keepGoing
	})
	return keepGoing, err
}
