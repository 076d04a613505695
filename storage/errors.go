package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAllocated is matched by every *NotAllocatedError.
	ErrNotAllocated = errors.New("storage: index not allocated")

	// ErrTooSparse is returned when decoding a Slab whose highest index is
	// far above its value count.
	ErrTooSparse = errors.New("storage: slab document too sparse")
)

// NotAllocatedError is returned by Set when the target index is not
// occupied. It hands the rejected value back so the caller can fall back to
// an insert without losing it.
type NotAllocatedError[T any] struct {
	Index int
	Value T
}

func (e *NotAllocatedError[T]) Error() string {
	return fmt.Sprintf("storage: index %d not allocated", e.Index)
}

// Is makes errors.Is(err, ErrNotAllocated) hold.
func (e *NotAllocatedError[T]) Is(target error) bool {
	return target == ErrNotAllocated
}

func notAllocated[T any](index int, value T) (T, error) {
	var zero T
	return zero, &NotAllocatedError[T]{Index: index, Value: value}
}

// Rejected extracts the value carried by a *NotAllocatedError[T] anywhere in
// err's chain.
func Rejected[T any](err error) (T, bool) {
	var nae *NotAllocatedError[T]
	if errors.As(err, &nae) {
		return nae.Value, true
	}
	var zero T
	return zero, false
}
