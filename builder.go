package hamt

import (
	"fmt"

	"go.uber.org/zap"
)

// Builder accumulates changes to a map without copying the path to each
// touched entry more than once. Nodes a Builder allocates are modified in
// place until Map is called; nodes shared with published maps are copied
// on first write, as by Map.Insert.
//
// A Builder must not be used by more than one goroutine at a time.
type Builder[V any] struct {
	root node[V]
	size int
	s    *settings
	edit *edit
}

// Builder returns a Builder starting from the contents of m. m is not
// affected by the Builder.
func (m *Map[V]) Builder() *Builder[V] {
	return &Builder[V]{root: m.root, size: m.size, s: m.s, edit: &edit{}}
}

// Insert sets key to value.
func (b *Builder[V]) Insert(key []byte, value V) error {
	o, err := b.s.op(key, b.edit)
	if err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	var added bool
	b.root, added = insertRoot(b.root, o, value)
	if added {
		b.size++
	}
	return nil
}

// Delete removes key, if present.
func (b *Builder[V]) Delete(key []byte) error {
	o, err := b.s.op(key, b.edit)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	var removed bool
	b.root, removed = removeRoot(b.root, o)
	if removed {
		b.size--
	}
	return nil
}

// Get returns the value for key, and whether it was present.
func (b *Builder[V]) Get(key []byte) (V, bool, error) {
	var zero V
	o, err := b.s.op(key, nil)
	if err != nil {
		return zero, false, fmt.Errorf("get: %w", err)
	}
	e, ok := getRoot(b.root, o)
	if !ok {
		return zero, false, nil
	}
	return e.value, true, nil
}

// Len returns the number of entries.
func (b *Builder[V]) Len() int {
	return b.size
}

// Map publishes the Builder's contents. Later changes through the Builder
// copy whatever they touch, so the returned map never changes.
func (b *Builder[V]) Map() *Map[V] {
	b.edit = &edit{}
	if ce := b.s.log.Check(zap.DebugLevel, "builder published"); ce != nil {
		ce.Write(zap.Int("size", b.size))
	}
	return &Map[V]{root: b.root, size: b.size, s: b.s}
}
