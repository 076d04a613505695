package shelf

import (
	"errors"
	"fmt"

	"github.com/hupe1980/shelf/storage"
)

var (
	// ErrUnsupported is matched by every *UnsupportedError.
	ErrUnsupported = errors.New("operation not supported by storage")

	// ErrInvalidRef indicates a negative index where a handle was expected.
	ErrInvalidRef = errors.New("invalid ref")
)

// UnsupportedError is the panic value of a Shelf or Map method whose
// capability the backend does not implement. Calling such a method is a type
// misuse, not a condition to recover from.
type UnsupportedError struct {
	Op      string
	Want    storage.Capability
	Storage string
	Has     storage.Capability
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("shelf: %s needs %s, %s only provides %s", e.Op, e.Want, e.Storage, e.Has)
}

func (e *UnsupportedError) Is(target error) bool {
	return target == ErrUnsupported
}

// InvalidRefError reports a decoded handle with a negative index.
type InvalidRefError struct {
	Index int
}

func (e *InvalidRefError) Error() string {
	return fmt.Sprintf("shelf: invalid ref index %d", e.Index)
}

func (e *InvalidRefError) Unwrap() error { return ErrInvalidRef }

func unsupported[T any](op string, want storage.Capability, s storage.Storage[T]) *UnsupportedError {
	return &UnsupportedError{
		Op:      op,
		Want:    want,
		Storage: typeName(s),
		Has:     storage.Capabilities(s),
	}
}
