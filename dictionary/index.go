package dictionary

import (
	"iter"

	"github.com/google/btree"
)

// reverseIndex maps each interned value to the arena index holding it.
type reverseIndex[T any] interface {
	get(value T) (int, bool)
	put(value T, index int)
	delete(value T) (int, bool)
	len() int
	clear()
	// admits reports whether value can be found again once put.
	admits(value T) bool
}

type hashIndex[T comparable] struct {
	m map[T]int
}

func newHashIndex[T comparable]() *hashIndex[T] {
	return &hashIndex[T]{m: make(map[T]int)}
}

func (h *hashIndex[T]) get(value T) (int, bool) {
	i, ok := h.m[value]
	return i, ok
}

func (h *hashIndex[T]) put(value T, index int) { h.m[value] = index }

func (h *hashIndex[T]) delete(value T) (int, bool) {
	i, ok := h.m[value]
	if ok {
		delete(h.m, value)
	}
	return i, ok
}

func (h *hashIndex[T]) len() int { return len(h.m) }

func (h *hashIndex[T]) clear() { clear(h.m) }

// admits rejects values that are not equal to themselves, such as a float
// NaN or a struct or interface holding one. A Go map stores them but never
// finds them again.
func (h *hashIndex[T]) admits(value T) bool { return value == value }

type btreeItem[T any] struct {
	value T
	index int
}

type btreeIndex[T any] struct {
	tree *btree.BTreeG[btreeItem[T]]
}

func newBTreeIndex[T any](degree int, compare func(a, b T) int) *btreeIndex[T] {
	return &btreeIndex[T]{
		tree: btree.NewG(degree, func(a, b btreeItem[T]) bool {
			return compare(a.value, b.value) < 0
		}),
	}
}

func (b *btreeIndex[T]) get(value T) (int, bool) {
	item, ok := b.tree.Get(btreeItem[T]{value: value})
	return item.index, ok
}

func (b *btreeIndex[T]) put(value T, index int) {
	b.tree.ReplaceOrInsert(btreeItem[T]{value: value, index: index})
}

func (b *btreeIndex[T]) delete(value T) (int, bool) {
	item, ok := b.tree.Delete(btreeItem[T]{value: value})
	return item.index, ok
}

func (b *btreeIndex[T]) len() int { return b.tree.Len() }

func (b *btreeIndex[T]) clear() { b.tree.Clear(false) }

func (b *btreeIndex[T]) admits(T) bool { return true }

// snapshot returns a copy-on-write clone that can be walked while the
// live tree keeps changing.
func (b *btreeIndex[T]) snapshot() *btree.BTreeG[btreeItem[T]] {
	return b.tree.Clone()
}

func ascend[T any](tree *btree.BTreeG[btreeItem[T]]) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		tree.Ascend(func(item btreeItem[T]) bool {
			return yield(item.index, item.value)
		})
	}
}

func descend[T any](tree *btree.BTreeG[btreeItem[T]]) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		tree.Descend(func(item btreeItem[T]) bool {
			return yield(item.index, item.value)
		})
	}
}
