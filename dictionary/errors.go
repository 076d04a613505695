package dictionary

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateValue is returned by the Load constructors when two slots
	// of the backend hold equal values.
	ErrDuplicateValue = errors.New("dictionary: duplicate value in storage")

	// ErrNotIterable is returned by the Load constructors when the backend
	// cannot enumerate its contents.
	ErrNotIterable = errors.New("dictionary: storage is not iterable")

	// ErrNotEmpty is the panic value of the New constructors when handed a
	// backend that already holds values. Use a Load constructor instead.
	ErrNotEmpty = errors.New("dictionary: storage is not empty")

	// ErrNotReflexive is the panic value of a hash dictionary's Insert when
	// the value is not equal to itself, e.g. math.NaN(). Load constructors
	// return it wrapped in a *NotReflexiveError.
	ErrNotReflexive = errors.New("dictionary: value is not equal to itself")
)

// DuplicateValueError names the two indices holding equal values.
type DuplicateValueError struct {
	First  int
	Second int
}

func (e *DuplicateValueError) Error() string {
	return fmt.Sprintf("dictionary: indices %d and %d hold equal values", e.First, e.Second)
}

func (e *DuplicateValueError) Unwrap() error { return ErrDuplicateValue }

// NotReflexiveError names the backend index holding a value that cannot be
// used as a hash key.
type NotReflexiveError struct {
	Index int
}

func (e *NotReflexiveError) Error() string {
	return fmt.Sprintf("dictionary: value at index %d is not equal to itself", e.Index)
}

func (e *NotReflexiveError) Unwrap() error { return ErrNotReflexive }
