package storage

import (
	"fmt"
	"iter"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/shelf/internal/conv"
)

// Slab is a slot-recycling allocator. Remove frees a slot and the next
// Allocate reuses the most recently freed one before the slab grows.
//
// A reused index silently refers to the new occupant; handles held for the
// old value are not invalidated.
//
// Indices are bounded by math.MaxUint32 because occupancy is tracked in a
// roaring bitmap.
type Slab[T any] struct {
	slots    []T
	free     []int // LIFO
	occupied *roaring.Bitmap
}

var (
	_ Mutable[int]     = (*Slab[int])(nil)
	_ Allocator[int]   = (*Slab[int])(nil)
	_ Setter[int]      = (*Slab[int])(nil)
	_ Remover[int]     = (*Slab[int])(nil)
	_ Iterable[int]    = (*Slab[int])(nil)
	_ MutIterable[int] = (*Slab[int])(nil)
	_ Drainer[int]     = (*Slab[int])(nil)
)

// NewSlab returns an empty Slab with room for capacity values.
func NewSlab[T any](capacity int) *Slab[T] {
	return &Slab[T]{
		slots:    make([]T, 0, max(capacity, 0)),
		occupied: roaring.New(),
	}
}

func (s *Slab[T]) bitmap() *roaring.Bitmap {
	if s.occupied == nil {
		s.occupied = roaring.New()
	}
	return s.occupied
}

// Contains reports whether index is currently occupied.
func (s *Slab[T]) Contains(index int) bool {
	u, err := conv.IntToUint32(index)
	if err != nil {
		return false
	}
	return s.bitmap().Contains(u)
}

func (s *Slab[T]) Get(index int) (T, bool) {
	if !s.Contains(index) {
		var zero T
		return zero, false
	}
	return s.slots[index], true
}

func (s *Slab[T]) Len() int {
	return int(s.bitmap().GetCardinality())
}

func (s *Slab[T]) Cap() int { return cap(s.slots) }

func (s *Slab[T]) IsEmpty() bool { return s.bitmap().IsEmpty() }

// GetMut returns a pointer into the slot array; an Allocate that grows the
// array invalidates it.
func (s *Slab[T]) GetMut(index int) (*T, bool) {
	if !s.Contains(index) {
		return nil, false
	}
	return &s.slots[index], true
}

func (s *Slab[T]) Clear() {
	clear(s.slots)
	s.slots = s.slots[:0]
	s.free = s.free[:0]
	s.bitmap().Clear()
}

// NextIndex returns the index the next Allocate will use.
func (s *Slab[T]) NextIndex() int {
	if n := len(s.free); n > 0 {
		return s.free[n-1]
	}
	return len(s.slots)
}

// Allocate stores value in a recycled slot if one is free, else appends.
// It panics if the slab would outgrow uint32 indices.
func (s *Slab[T]) Allocate(value T) int {
	var index int
	if n := len(s.free); n > 0 {
		index = s.free[n-1]
		s.free = s.free[:n-1]
		s.slots[index] = value
	} else {
		index = len(s.slots)
		s.slots = append(s.slots, value)
	}
	s.bitmap().Add(conv.MustIntToUint32(index))
	return index
}

// Set only succeeds on an occupied slot; vacant slots are left vacant.
func (s *Slab[T]) Set(index int, value T) (T, error) {
	if !s.Contains(index) {
		return notAllocated(index, value)
	}
	prev := s.slots[index]
	s.slots[index] = value
	return prev, nil
}

func (s *Slab[T]) Remove(index int) (T, bool) {
	var zero T
	if !s.Contains(index) {
		return zero, false
	}
	value := s.slots[index]
	s.slots[index] = zero
	s.occupied.Remove(uint32(index))
	s.free = append(s.free, index)
	return value, true
}

// All yields occupied slots in ascending index order. The slab must not be
// modified while iterating.
func (s *Slab[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		s.bitmap().Iterate(func(u uint32) bool {
			return yield(int(u), s.slots[u])
		})
	}
}

func (s *Slab[T]) AllMut() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		s.bitmap().Iterate(func(u uint32) bool {
			return yield(int(u), &s.slots[u])
		})
	}
}

// Drain empties the slab immediately and yields the taken values in
// ascending index order. The free list is reset, so the next Allocate
// returns 0.
func (s *Slab[T]) Drain() iter.Seq2[int, T] {
	slots, occupied := s.slots, s.bitmap()
	s.slots, s.free, s.occupied = nil, nil, roaring.New()
	return func(yield func(int, T) bool) {
		occupied.Iterate(func(u uint32) bool {
			return yield(int(u), slots[u])
		})
	}
}

// Occupied returns a copy of the occupancy bitmap.
func (s *Slab[T]) Occupied() *roaring.Bitmap {
	return s.bitmap().Clone()
}

func (s *Slab[T]) MarshalJSON() ([]byte, error) {
	return marshalIndexed(s.All(), s.Len())
}

// Vacant slots UnmarshalJSON recreates below the highest decoded index are
// bounded by restoreSlack plus restoreHolesPerValue per decoded value.
const (
	restoreSlack         = 1 << 16
	restoreHolesPerValue = 8
)

// UnmarshalJSON rebuilds the slab. Vacant indices below the highest decoded
// one become free slots, handed out lowest first. A document with more holes
// than the restore bound fails with ErrTooSparse and leaves s untouched.
func (s *Slab[T]) UnmarshalJSON(data []byte) error {
	decoded, err := unmarshalIndexed[T](data)
	if err != nil {
		return err
	}
	occupied := roaring.New()
	size := 0
	for i := range decoded {
		u, err := conv.IntToUint32(i)
		if err != nil {
			return err
		}
		occupied.Add(u)
		size = max(size, i+1)
	}
	if holes := size - len(decoded); holes > restoreSlack+restoreHolesPerValue*len(decoded) {
		return fmt.Errorf("%w: %d values span %d slots", ErrTooSparse, len(decoded), size)
	}
	slots := make([]T, size)
	for i, value := range decoded {
		slots[i] = value
	}
	var free []int
	for i := size - 1; i >= 0; i-- {
		if _, ok := decoded[i]; !ok {
			free = append(free, i)
		}
	}
	s.slots, s.free, s.occupied = slots, slices.Clip(free), occupied
	return nil
}
