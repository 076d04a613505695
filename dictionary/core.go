package dictionary

import (
	"context"
	"fmt"
	"iter"
	"sync"

	"github.com/hupe1980/shelf"
	"github.com/hupe1980/shelf/storage"
)

// core is the state shared by every dictionary variant: an arena, its
// reverse index and the lock that keeps the two in step.
type core[T any, S storage.Storage[T]] struct {
	mu       sync.Locker
	shelf    *shelf.Shelf[T, S]
	index    reverseIndex[T]
	allocate func(T) shelf.Ref[T]
	logger   *shelf.Logger
	metrics  shelf.MetricsCollector
}

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

func newCore[T any, S storage.Storage[T]](s S, idx reverseIndex[T], shared bool, component string, o options) *core[T, S] {
	c := &core[T, S]{
		mu:      nopLocker{},
		shelf:   shelf.New[T](s),
		index:   idx,
		logger:  o.logger.WithComponent(component).WithStorage(s),
		metrics: o.metricsCollector,
	}
	if shared {
		c.mu = &sync.Mutex{}
		c.allocate = c.shelf.InsertShared
	} else {
		c.allocate = c.shelf.Insert
	}
	return c
}

func mustBeEmpty[T any](s storage.Storage[T]) {
	if !s.IsEmpty() {
		panic(ErrNotEmpty)
	}
}

// load fills the reverse index from the values already in the arena.
func (c *core[T, S]) load() error {
	it, ok := any(c.shelf.Storage()).(storage.Iterable[T])
	if !ok {
		c.logger.LogLoad(context.Background(), 0, ErrNotIterable)
		return ErrNotIterable
	}
	for i, value := range it.All() {
		if !c.index.admits(value) {
			err := &NotReflexiveError{Index: i}
			c.logger.LogLoad(context.Background(), c.index.len(), err)
			return err
		}
		if j, dup := c.index.get(value); dup {
			err := &DuplicateValueError{First: min(i, j), Second: max(i, j)}
			c.logger.LogLoad(context.Background(), c.index.len(), err)
			return err
		}
		c.index.put(value, i)
	}
	c.logger.LogLoad(context.Background(), c.index.len(), nil)
	return nil
}

// Insert interns value and returns its handle. An equal value already in
// the dictionary keeps its handle and nothing is stored.
//
// Hash dictionaries panic with ErrNotReflexive for a value that is not equal
// to itself; nothing is stored in that case.
func (c *core[T, S]) Insert(value T) shelf.Ref[T] {
	if !c.index.admits(value) {
		panic(ErrNotReflexive)
	}
	c.mu.Lock()
	if i, ok := c.index.get(value); ok {
		c.mu.Unlock()
		c.metrics.RecordInsert(true)
		return shelf.NewRef[T](i)
	}
	r := c.allocate(value)
	c.index.put(value, r.Index())
	c.mu.Unlock()

	c.metrics.RecordInsert(false)
	return r
}

// Get returns the value r names.
func (c *core[T, S]) Get(r shelf.Ref[T]) (T, bool) {
	return c.shelf.Get(r)
}

// Lookup returns the handle of an interned value equal to value.
func (c *core[T, S]) Lookup(value T) (shelf.Ref[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.index.get(value)
	if !ok {
		return shelf.Ref[T]{}, false
	}
	return shelf.NewRef[T](i), true
}

// Contains reports whether a value equal to value is interned.
func (c *core[T, S]) Contains(value T) bool {
	_, ok := c.Lookup(value)
	return ok
}

// Remove deletes the value r names. The backend must implement
// storage.Remover.
func (c *core[T, S]) Remove(r shelf.Ref[T]) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.shelf.Get(r)
	if ok {
		if i, indexed := c.index.get(value); !indexed || i != r.Index() {
			c.desync("Remove", r.Index())
		}
	}
	// Panics before touching the arena if the backend cannot remove.
	if _, removed := c.shelf.Remove(r); removed != ok {
		c.desync("Remove", r.Index())
	}
	if ok {
		c.index.delete(value)
	}
	c.metrics.RecordRemove(ok)
	return value, ok
}

// RemoveValue deletes the interned value equal to value and returns the
// handle it had along with the stored copy. The backend must implement
// storage.Remover.
func (c *core[T, S]) RemoveValue(value T) (shelf.Ref[T], T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index.get(value)
	if !ok {
		c.metrics.RecordRemove(false)
		var zero T
		return shelf.Ref[T]{}, zero, false
	}
	r := shelf.NewRef[T](i)
	stored, removed := c.shelf.Remove(r)
	if !removed {
		c.desync("RemoveValue", i)
	}
	c.index.delete(value)
	c.metrics.RecordRemove(true)
	return r, stored, true
}

func (c *core[T, S]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.len()
}

func (c *core[T, S]) IsEmpty() bool {
	return c.Len() == 0
}

// All yields the interned values in the backend's iteration order. The
// backend must implement storage.Iterable.
func (c *core[T, S]) All() iter.Seq2[shelf.Ref[T], T] {
	return c.shelf.All()
}

// Shelf returns the arena. Mutating it directly breaks the dictionary.
func (c *core[T, S]) Shelf() *shelf.Shelf[T, S] {
	return c.shelf
}

// Storage returns the arena's backend.
func (c *core[T, S]) Storage() S {
	return c.shelf.Storage()
}

func (c *core[T, S]) desync(op string, index int) {
	c.logger.LogDesync(context.Background(), op, index)
	panic(fmt.Sprintf("dictionary: %s: reverse index out of sync at index %d", op, index))
}
