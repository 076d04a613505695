package storage

import (
	"iter"

	gojson "github.com/goccy/go-json"
)

// Vec is a dense, growable array. Indices are positions: Allocate appends
// and returns len-1. Removal is not supported, so every index below Len
// stays occupied until Clear or Drain.
type Vec[T any] struct {
	values []T
}

var (
	_ Mutable[int]     = (*Vec[int])(nil)
	_ Allocator[int]   = (*Vec[int])(nil)
	_ Setter[int]      = (*Vec[int])(nil)
	_ Iterable[int]    = (*Vec[int])(nil)
	_ MutIterable[int] = (*Vec[int])(nil)
	_ Drainer[int]     = (*Vec[int])(nil)
)

// NewVec returns an empty Vec with room for capacity values.
func NewVec[T any](capacity int) *Vec[T] {
	return &Vec[T]{values: make([]T, 0, max(capacity, 0))}
}

// VecFrom wraps values; value i is stored at index i. The slice is owned by
// the Vec afterwards.
func VecFrom[T any](values []T) *Vec[T] {
	return &Vec[T]{values: values}
}

func (v *Vec[T]) Get(index int) (T, bool) {
	if index < 0 || index >= len(v.values) {
		var zero T
		return zero, false
	}
	return v.values[index], true
}

func (v *Vec[T]) Len() int { return len(v.values) }

func (v *Vec[T]) Cap() int { return cap(v.values) }

func (v *Vec[T]) IsEmpty() bool { return len(v.values) == 0 }

// GetMut returns a pointer into the backing array; an Allocate that grows
// the array invalidates it.
func (v *Vec[T]) GetMut(index int) (*T, bool) {
	if index < 0 || index >= len(v.values) {
		return nil, false
	}
	return &v.values[index], true
}

func (v *Vec[T]) Clear() {
	clear(v.values)
	v.values = v.values[:0]
}

func (v *Vec[T]) Allocate(value T) int {
	v.values = append(v.values, value)
	return len(v.values) - 1
}

func (v *Vec[T]) Set(index int, value T) (T, error) {
	if index < 0 || index >= len(v.values) {
		return notAllocated(index, value)
	}
	prev := v.values[index]
	v.values[index] = value
	return prev, nil
}

// All yields values in ascending index order.
func (v *Vec[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, value := range v.values {
			if !yield(i, value) {
				return
			}
		}
	}
}

func (v *Vec[T]) AllMut() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range v.values {
			if !yield(i, &v.values[i]) {
				return
			}
		}
	}
}

// Drain empties the Vec immediately and returns the taken values in index
// order.
func (v *Vec[T]) Drain() iter.Seq2[int, T] {
	taken := v.values
	v.values = nil
	return func(yield func(int, T) bool) {
		for i, value := range taken {
			if !yield(i, value) {
				return
			}
		}
	}
}

// Values returns the backing slice. It must be treated as read-only.
func (v *Vec[T]) Values() []T {
	return v.values
}

// MarshalJSON encodes the Vec as a JSON array.
func (v *Vec[T]) MarshalJSON() ([]byte, error) {
	if v.values == nil {
		return []byte("[]"), nil
	}
	return gojson.Marshal(v.values)
}

// UnmarshalJSON replaces the contents with a decoded JSON array.
func (v *Vec[T]) UnmarshalJSON(data []byte) error {
	var values []T
	if err := gojson.Unmarshal(data, &values); err != nil {
		return err
	}
	v.values = values
	return nil
}
