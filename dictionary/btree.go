package dictionary

import (
	"cmp"
	"iter"

	"github.com/google/btree"

	"github.com/hupe1980/shelf"
	"github.com/hupe1980/shelf/storage"
)

// ordered adds value-ordered traversal to core. Traversals walk a
// copy-on-write snapshot of the index taken when iteration starts, so the
// dictionary may be modified while iterating.
type ordered[T any, S storage.Storage[T]] struct {
	*core[T, S]
	tree *btreeIndex[T]
}

func newOrdered[T any, S storage.Storage[T]](s S, compare func(a, b T) int, shared bool, component string, o options) *ordered[T, S] {
	idx := newBTreeIndex(o.degree, compare)
	return &ordered[T, S]{
		core: newCore(s, reverseIndex[T](idx), shared, component, o),
		tree: idx,
	}
}

func (d *ordered[T, S]) snapshot() *btree.BTreeG[btreeItem[T]] {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tree.snapshot()
}

// Ascend yields the interned values in increasing order.
func (d *ordered[T, S]) Ascend() iter.Seq2[shelf.Ref[T], T] {
	return func(yield func(shelf.Ref[T], T) bool) {
		for i, v := range ascend(d.snapshot()) {
			if !yield(shelf.NewRef[T](i), v) {
				return
			}
		}
	}
}

// Descend yields the interned values in decreasing order.
func (d *ordered[T, S]) Descend() iter.Seq2[shelf.Ref[T], T] {
	return func(yield func(shelf.Ref[T], T) bool) {
		for i, v := range descend(d.snapshot()) {
			if !yield(shelf.NewRef[T](i), v) {
				return
			}
		}
	}
}

// Keys yields the interned values in increasing order.
func (d *ordered[T, S]) Keys() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, v := range ascend(d.snapshot()) {
			if !yield(v) {
				return
			}
		}
	}
}

// Range yields interned values v with from <= v < to in increasing order.
func (d *ordered[T, S]) Range(from, to T) iter.Seq2[shelf.Ref[T], T] {
	return func(yield func(shelf.Ref[T], T) bool) {
		d.snapshot().AscendRange(btreeItem[T]{value: from}, btreeItem[T]{value: to}, func(item btreeItem[T]) bool {
			return yield(shelf.NewRef[T](item.index), item.value)
		})
	}
}

// Min returns the smallest interned value.
func (d *ordered[T, S]) Min() (shelf.Ref[T], T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	item, ok := d.tree.tree.Min()
	return refItem(item, ok)
}

// Max returns the largest interned value.
func (d *ordered[T, S]) Max() (shelf.Ref[T], T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	item, ok := d.tree.tree.Max()
	return refItem(item, ok)
}

func refItem[T any](item btreeItem[T], ok bool) (shelf.Ref[T], T, bool) {
	if !ok {
		return shelf.Ref[T]{}, item.value, false
	}
	return shelf.NewRef[T](item.index), item.value, true
}

// BTreeDictionary interns values using a B-tree as the reverse index, so
// values only need a total order and can be walked in that order. It is not
// safe for concurrent use.
type BTreeDictionary[T any, S storage.Allocator[T]] struct {
	*ordered[T, S]
}

// NewBTreeDictionary returns a dictionary of naturally ordered values over
// the empty backend s. It panics with ErrNotEmpty if s already holds values.
func NewBTreeDictionary[T cmp.Ordered, S storage.Allocator[T]](s S, opts ...Option) *BTreeDictionary[T, S] {
	return NewBTreeDictionaryFunc(s, cmp.Compare[T], opts...)
}

// NewBTreeDictionaryFunc orders values with compare, which must return a
// negative number, zero or a positive number like cmp.Compare. Values that
// compare equal are the same value to the dictionary.
func NewBTreeDictionaryFunc[T any, S storage.Allocator[T]](s S, compare func(a, b T) int, opts ...Option) *BTreeDictionary[T, S] {
	mustBeEmpty[T](s)
	return &BTreeDictionary[T, S]{ordered: newOrdered(s, compare, false, "btree-dictionary", applyOptions(opts))}
}

// LoadBTreeDictionary returns a dictionary over a pre-populated backend.
func LoadBTreeDictionary[T cmp.Ordered, S storage.Allocator[T]](s S, opts ...Option) (*BTreeDictionary[T, S], error) {
	return LoadBTreeDictionaryFunc(s, cmp.Compare[T], opts...)
}

// LoadBTreeDictionaryFunc is LoadBTreeDictionary ordered by compare.
func LoadBTreeDictionaryFunc[T any, S storage.Allocator[T]](s S, compare func(a, b T) int, opts ...Option) (*BTreeDictionary[T, S], error) {
	d := newOrdered(s, compare, false, "btree-dictionary", applyOptions(opts))
	if err := d.load(); err != nil {
		return nil, err
	}
	return &BTreeDictionary[T, S]{ordered: d}, nil
}

// BTreeConstDictionary is a BTreeDictionary whose Insert may be called from
// many goroutines at once. S must be safe for concurrent AllocateShared and
// Get, like storage.Paged.
type BTreeConstDictionary[T any, S storage.SharedAllocator[T]] struct {
	*ordered[T, S]
}

// NewBTreeConstDictionary panics with ErrNotEmpty if s already holds values.
func NewBTreeConstDictionary[T cmp.Ordered, S storage.SharedAllocator[T]](s S, opts ...Option) *BTreeConstDictionary[T, S] {
	return NewBTreeConstDictionaryFunc(s, cmp.Compare[T], opts...)
}

// NewBTreeConstDictionaryFunc is NewBTreeConstDictionary ordered by compare.
func NewBTreeConstDictionaryFunc[T any, S storage.SharedAllocator[T]](s S, compare func(a, b T) int, opts ...Option) *BTreeConstDictionary[T, S] {
	mustBeEmpty[T](s)
	return &BTreeConstDictionary[T, S]{ordered: newOrdered(s, compare, true, "btree-const-dictionary", applyOptions(opts))}
}

// LoadBTreeConstDictionary returns a dictionary over a pre-populated backend.
func LoadBTreeConstDictionary[T cmp.Ordered, S storage.SharedAllocator[T]](s S, opts ...Option) (*BTreeConstDictionary[T, S], error) {
	return LoadBTreeConstDictionaryFunc(s, cmp.Compare[T], opts...)
}

// LoadBTreeConstDictionaryFunc is LoadBTreeConstDictionary ordered by compare.
func LoadBTreeConstDictionaryFunc[T any, S storage.SharedAllocator[T]](s S, compare func(a, b T) int, opts ...Option) (*BTreeConstDictionary[T, S], error) {
	d := newOrdered(s, compare, true, "btree-const-dictionary", applyOptions(opts))
	if err := d.load(); err != nil {
		return nil, err
	}
	return &BTreeConstDictionary[T, S]{ordered: d}, nil
}
