package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena stores nodes of one kind back to back. Index 0 never names a node,
// so the zero ID of every node kind means "absent".
type Arena[T any] struct {
	items []T
}

func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{items: make([]T, 0, capHint)}
}

// Allocate appends value and returns its index.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.items = append(a.items, value)
	return a.Len()
}

// Get returns the node at index, or nil for 0 and unknown indices.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || uint64(index) > uint64(len(a.items)) {
		return nil
	}
	return &a.items[index-1]
}

func (a *Arena[T]) Len() uint32 {
	n, err := safecast.Conv[uint32](len(a.items))
	if err != nil {
		panic(fmt.Errorf("ast arena overflow: %w", err))
	}
	return n
}
