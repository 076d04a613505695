package shelf

import (
	"cmp"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// Ref is a typed handle to a value of type T stored in a Shelf.
//
// A Ref is a plain integer index. It does not own the value, keep it alive
// or remember which Shelf minted it. Two Refs are equal when their indices
// are equal. Ref[T] and Ref[U] are distinct types even though they share a
// representation.
type Ref[T any] struct {
	_     [0]*T
	index int
}

// NewRef wraps a raw index. It panics if index is negative.
func NewRef[T any](index int) Ref[T] {
	if index < 0 {
		panic("shelf: negative ref index " + strconv.Itoa(index))
	}
	return Ref[T]{index: index}
}

// Index returns the raw index.
func (r Ref[T]) Index() int {
	return r.index
}

// Cast retags r as a handle to U. It is unchecked: the result only makes
// sense with a container that holds U values at the same index.
func Cast[U, T any](r Ref[T]) Ref[U] {
	return Ref[U]{index: r.index}
}

// Compare orders Refs by index. It can be passed to slices.SortFunc.
func (r Ref[T]) Compare(o Ref[T]) int {
	return cmp.Compare(r.index, o.index)
}

func (r Ref[T]) String() string {
	return "#" + strconv.Itoa(r.index)
}

// MarshalJSON encodes the handle as its bare index.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(r.index), 10), nil
}

func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	var index int
	if err := gojson.Unmarshal(data, &index); err != nil {
		return err
	}
	if index < 0 {
		return &InvalidRefError{Index: index}
	}
	r.index = index
	return nil
}
