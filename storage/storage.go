package storage

import (
	"iter"
	"strings"
)

// Storage is the read capability every backend provides.
type Storage[T any] interface {
	// Get returns the value at index, if the index is occupied.
	Get(index int) (T, bool)
	// Len returns the number of stored values.
	Len() int
	// Cap returns a lower bound on the number of values the backend can hold
	// without growing.
	Cap() int
	// IsEmpty reports whether Len is zero.
	IsEmpty() bool
}

// Mutable provides in-place access to stored values.
type Mutable[T any] interface {
	Storage[T]
	// GetMut returns a pointer to the value at index. The pointer is valid
	// until the backend is next grown, cleared or drained.
	GetMut(index int) (*T, bool)
	// Clear removes every value.
	Clear()
}

// Allocator picks a fresh index for a value.
type Allocator[T any] interface {
	Storage[T]
	Allocate(value T) int
}

// SharedAllocator is an Allocator whose AllocateShared may be called from
// several goroutines at once, and concurrently with Get.
type SharedAllocator[T any] interface {
	Storage[T]
	AllocateShared(value T) int
}

// Setter overwrites the value at an index that is already allocated.
type Setter[T any] interface {
	Storage[T]
	// Set stores value at index and returns the previous value. If index is
	// not allocated the backend is left untouched and a *NotAllocatedError
	// carrying value is returned.
	Set(index int, value T) (T, error)
}

// Inserter stores a value at an arbitrary index, allocating it if needed.
type Inserter[T any] interface {
	Storage[T]
	// Insert returns the previous value and true if index was occupied.
	Insert(index int, value T) (T, bool)
}

// SharedInserter is an Inserter whose InsertShared may be called from
// several goroutines at once, and concurrently with Get and AllocateShared.
type SharedInserter[T any] interface {
	Storage[T]
	InsertShared(index int, value T) (T, bool)
}

// Remover deletes values.
type Remover[T any] interface {
	Storage[T]
	Remove(index int) (T, bool)
}

// Iterable yields (index, value) pairs. Ordering is backend-defined.
type Iterable[T any] interface {
	Storage[T]
	All() iter.Seq2[int, T]
}

// MutIterable yields (index, pointer) pairs for in-place updates.
type MutIterable[T any] interface {
	Storage[T]
	AllMut() iter.Seq2[int, *T]
}

// Drainer consumes the backend: Drain takes every value out, leaving the
// backend empty, and yields them.
type Drainer[T any] interface {
	Storage[T]
	Drain() iter.Seq2[int, T]
}

// Capability is a set of capability flags.
type Capability uint16

const (
	CapMutable Capability = 1 << iota
	CapAllocate
	CapAllocateShared
	CapSet
	CapInsert
	CapInsertShared
	CapRemove
	CapIter
	CapIterMut
	CapDrain
)

var capabilityNames = [...]string{
	"mutable",
	"allocate",
	"allocate-shared",
	"set",
	"insert",
	"insert-shared",
	"remove",
	"iter",
	"iter-mut",
	"drain",
}

// Has reports whether every flag in want is present.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

func (c Capability) String() string {
	if c == 0 {
		return "read"
	}
	names := []string{"read"}
	for i, name := range capabilityNames {
		if c&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, "|")
}

// Capabilities reports which optional interfaces s implements.
func Capabilities[T any](s Storage[T]) Capability {
	var c Capability
	if _, ok := s.(Mutable[T]); ok {
		c |= CapMutable
	}
	if _, ok := s.(Allocator[T]); ok {
		c |= CapAllocate
	}
	if _, ok := s.(SharedAllocator[T]); ok {
		c |= CapAllocateShared
	}
	if _, ok := s.(Setter[T]); ok {
		c |= CapSet
	}
	if _, ok := s.(Inserter[T]); ok {
		c |= CapInsert
	}
	if _, ok := s.(SharedInserter[T]); ok {
		c |= CapInsertShared
	}
	if _, ok := s.(Remover[T]); ok {
		c |= CapRemove
	}
	if _, ok := s.(Iterable[T]); ok {
		c |= CapIter
	}
	if _, ok := s.(MutIterable[T]); ok {
		c |= CapIterMut
	}
	if _, ok := s.(Drainer[T]); ok {
		c |= CapDrain
	}
	return c
}
