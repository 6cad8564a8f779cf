package ast

// Arena is append-only storage addressed by 1-based indices; index 0
// is the "no node" sentinel.
type Arena[T any] struct {
	data []T
}

// NewArena allocates an arena with the given capacity hint (zero is fine).
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate stores value and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	return uint32(len(a.data))
}

// Get returns a pointer into the arena, or nil for the sentinel index.
func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) > len(a.data) {
		return nil
	}
	return &a.data[index-1]
}

// Len returns the number of stored elements.
func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.data))
}
