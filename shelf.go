package shelf

import (
	"iter"

	gojson "github.com/goccy/go-json"

	"github.com/hupe1980/shelf/storage"
)

// Shelf is an arena: it owns one storage backend and names the values in it
// with Ref[T] handles.
//
// S only has to implement storage.Storage[T]. Every other method needs the
// matching capability interface and panics with an *UnsupportedError when
// the backend lacks it; use Capabilities to probe first.
//
// A Shelf is as safe for concurrent use as its backend.
type Shelf[T any, S storage.Storage[T]] struct {
	storage S
}

// New returns a Shelf that owns s. s may already hold values; the Refs that
// name them are NewRef(index).
func New[T any, S storage.Storage[T]](s S) *Shelf[T, S] {
	return &Shelf[T, S]{storage: s}
}

// Storage returns the backend. The Shelf keeps no other state, so the
// backend may be used directly.
func (sh *Shelf[T, S]) Storage() S {
	return sh.storage
}

func (sh *Shelf[T, S]) Capabilities() storage.Capability {
	return storage.Capabilities[T](sh.storage)
}

func (sh *Shelf[T, S]) Len() int {
	return sh.storage.Len()
}

func (sh *Shelf[T, S]) IsEmpty() bool {
	return sh.storage.IsEmpty()
}

// Get returns the value r names, if its slot is occupied.
func (sh *Shelf[T, S]) Get(r Ref[T]) (T, bool) {
	return sh.storage.Get(r.index)
}

// GetMut returns the address of the value r names. Requires storage.Mutable.
func (sh *Shelf[T, S]) GetMut(r Ref[T]) (*T, bool) {
	return sh.mutable("GetMut").GetMut(r.index)
}

// Insert stores value at a fresh index. Requires storage.Allocator.
func (sh *Shelf[T, S]) Insert(value T) Ref[T] {
	a, ok := any(sh.storage).(storage.Allocator[T])
	if !ok {
		panic(unsupported[T]("Insert", storage.CapAllocate, sh.storage))
	}
	return Ref[T]{index: a.Allocate(value)}
}

// InsertShared is Insert for backends that allow concurrent allocation.
// Requires storage.SharedAllocator.
func (sh *Shelf[T, S]) InsertShared(value T) Ref[T] {
	a, ok := any(sh.storage).(storage.SharedAllocator[T])
	if !ok {
		panic(unsupported[T]("InsertShared", storage.CapAllocateShared, sh.storage))
	}
	return Ref[T]{index: a.AllocateShared(value)}
}

// Set overwrites the value r names and returns the previous one. If r is not
// allocated nothing changes and the error is a *storage.NotAllocatedError
// carrying value. Requires storage.Setter.
func (sh *Shelf[T, S]) Set(r Ref[T], value T) (T, error) {
	s, ok := any(sh.storage).(storage.Setter[T])
	if !ok {
		panic(unsupported[T]("Set", storage.CapSet, sh.storage))
	}
	return s.Set(r.index, value)
}

// Remove deletes and returns the value r names. Requires storage.Remover.
func (sh *Shelf[T, S]) Remove(r Ref[T]) (T, bool) {
	return sh.remover("Remove").Remove(r.index)
}

// SetOrRemove sets r to *value, or removes r when value is nil. had reports
// whether a previous value was replaced or removed. Only the set path can
// fail, with the same error as Set.
func (sh *Shelf[T, S]) SetOrRemove(r Ref[T], value *T) (prev T, had bool, err error) {
	if value == nil {
		prev, had = sh.remover("SetOrRemove").Remove(r.index)
		return prev, had, nil
	}
	prev, err = sh.Set(r, *value)
	if err != nil {
		return prev, false, err
	}
	return prev, true, nil
}

// All yields every stored value with its handle. Requires storage.Iterable.
func (sh *Shelf[T, S]) All() iter.Seq2[Ref[T], T] {
	it, ok := any(sh.storage).(storage.Iterable[T])
	if !ok {
		panic(unsupported[T]("All", storage.CapIter, sh.storage))
	}
	return retag[T](it.All())
}

// AllMut yields the address of every stored value. Requires
// storage.MutIterable.
func (sh *Shelf[T, S]) AllMut() iter.Seq2[Ref[T], *T] {
	it, ok := any(sh.storage).(storage.MutIterable[T])
	if !ok {
		panic(unsupported[T]("AllMut", storage.CapIterMut, sh.storage))
	}
	return retag[T](it.AllMut())
}

// Drain empties the Shelf and yields what it held. Requires storage.Drainer.
func (sh *Shelf[T, S]) Drain() iter.Seq2[Ref[T], T] {
	d, ok := any(sh.storage).(storage.Drainer[T])
	if !ok {
		panic(unsupported[T]("Drain", storage.CapDrain, sh.storage))
	}
	return retag[T](d.Drain())
}

// Clear removes every value. Requires storage.Mutable.
func (sh *Shelf[T, S]) Clear() {
	sh.mutable("Clear").Clear()
}

// MarshalJSON encodes the backend's own representation.
func (sh *Shelf[T, S]) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(sh.storage)
}

// UnmarshalJSON decodes into the existing backend, which must be non-nil.
func (sh *Shelf[T, S]) UnmarshalJSON(data []byte) error {
	return gojson.Unmarshal(data, sh.storage)
}

func (sh *Shelf[T, S]) mutable(op string) storage.Mutable[T] {
	m, ok := any(sh.storage).(storage.Mutable[T])
	if !ok {
		panic(unsupported[T](op, storage.CapMutable, sh.storage))
	}
	return m
}

func (sh *Shelf[T, S]) remover(op string) storage.Remover[T] {
	r, ok := any(sh.storage).(storage.Remover[T])
	if !ok {
		panic(unsupported[T](op, storage.CapRemove, sh.storage))
	}
	return r
}

func retag[T, V any](seq iter.Seq2[int, V]) iter.Seq2[Ref[T], V] {
	return func(yield func(Ref[T], V) bool) {
		for i, v := range seq {
			if !yield(Ref[T]{index: i}, v) {
				return
			}
		}
	}
}
