package dictionary

import (
	"github.com/hupe1980/shelf/storage"
)

// HashDictionary interns comparable values using a Go map as the reverse
// index. It is not safe for concurrent use.
//
// Values must be equal to themselves: Insert panics with ErrNotReflexive for
// a float NaN or anything holding one. BTreeDictionary with cmp.Compare
// treats every NaN as one value.
type HashDictionary[T comparable, S storage.Allocator[T]] struct {
	*core[T, S]
}

// NewHashDictionary returns a dictionary over the empty backend s. It panics
// with ErrNotEmpty if s already holds values.
func NewHashDictionary[T comparable, S storage.Allocator[T]](s S, opts ...Option) *HashDictionary[T, S] {
	mustBeEmpty[T](s)
	o := applyOptions(opts)
	return &HashDictionary[T, S]{core: newCore(s, reverseIndex[T](newHashIndex[T]()), false, "hash-dictionary", o)}
}

// LoadHashDictionary returns a dictionary over a pre-populated backend.
func LoadHashDictionary[T comparable, S storage.Allocator[T]](s S, opts ...Option) (*HashDictionary[T, S], error) {
	o := applyOptions(opts)
	c := newCore(s, reverseIndex[T](newHashIndex[T]()), false, "hash-dictionary", o)
	if err := c.load(); err != nil {
		return nil, err
	}
	return &HashDictionary[T, S]{core: c}, nil
}

// HashConstDictionary is a HashDictionary whose Insert may be called from
// many goroutines at once. The reverse index is guarded by a mutex and new
// values are stored with AllocateShared, so S must be safe for concurrent
// AllocateShared and Get, like storage.Paged.
type HashConstDictionary[T comparable, S storage.SharedAllocator[T]] struct {
	*core[T, S]
}

// NewHashConstDictionary panics with ErrNotEmpty if s already holds values.
func NewHashConstDictionary[T comparable, S storage.SharedAllocator[T]](s S, opts ...Option) *HashConstDictionary[T, S] {
	mustBeEmpty[T](s)
	o := applyOptions(opts)
	return &HashConstDictionary[T, S]{core: newCore(s, reverseIndex[T](newHashIndex[T]()), true, "hash-const-dictionary", o)}
}

// LoadHashConstDictionary returns a dictionary over a pre-populated backend.
func LoadHashConstDictionary[T comparable, S storage.SharedAllocator[T]](s S, opts ...Option) (*HashConstDictionary[T, S], error) {
	o := applyOptions(opts)
	c := newCore(s, reverseIndex[T](newHashIndex[T]()), true, "hash-const-dictionary", o)
	if err := c.load(); err != nil {
		return nil, err
	}
	return &HashConstDictionary[T, S]{core: c}, nil
}
