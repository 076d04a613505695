package storage

import (
	"iter"

	"github.com/google/btree"
)

// DefaultBTreeDegree is the node degree used by NewBTreeMap.
const DefaultBTreeDegree = 32

type btreeEntry[T any] struct {
	index int
	value T
}

func lessEntry[T any](a, b *btreeEntry[T]) bool {
	return a.index < b.index
}

// BTreeMap is an ordered map keyed by index. Like HashMap it only stores at
// caller-chosen indices, but iteration is in ascending index order and
// lookups cost O(log n).
type BTreeMap[T any] struct {
	tree   *btree.BTreeG[*btreeEntry[T]]
	degree int
}

var (
	_ Mutable[int]     = (*BTreeMap[int])(nil)
	_ Setter[int]      = (*BTreeMap[int])(nil)
	_ Inserter[int]    = (*BTreeMap[int])(nil)
	_ Remover[int]     = (*BTreeMap[int])(nil)
	_ Iterable[int]    = (*BTreeMap[int])(nil)
	_ MutIterable[int] = (*BTreeMap[int])(nil)
	_ Drainer[int]     = (*BTreeMap[int])(nil)
)

// NewBTreeMap returns an empty BTreeMap with DefaultBTreeDegree.
func NewBTreeMap[T any]() *BTreeMap[T] {
	return NewBTreeMapDegree[T](DefaultBTreeDegree)
}

// NewBTreeMapDegree returns an empty BTreeMap whose nodes hold up to
// 2*degree-1 entries. Degrees below 2 are raised to 2.
func NewBTreeMapDegree[T any](degree int) *BTreeMap[T] {
	degree = max(degree, 2)
	return &BTreeMap[T]{
		tree:   btree.NewG(degree, lessEntry[T]),
		degree: degree,
	}
}

// init makes the zero value usable.
func (b *BTreeMap[T]) init() *btree.BTreeG[*btreeEntry[T]] {
	if b.tree == nil {
		if b.degree == 0 {
			b.degree = DefaultBTreeDegree
		}
		b.tree = btree.NewG(b.degree, lessEntry[T])
	}
	return b.tree
}

func (b *BTreeMap[T]) lookup(index int) (*btreeEntry[T], bool) {
	return b.init().Get(&btreeEntry[T]{index: index})
}

func (b *BTreeMap[T]) Get(index int) (T, bool) {
	if e, ok := b.lookup(index); ok {
		return e.value, true
	}
	var zero T
	return zero, false
}

func (b *BTreeMap[T]) Len() int { return b.init().Len() }

// Cap equals Len: a B-tree allocates nodes on demand.
func (b *BTreeMap[T]) Cap() int { return b.init().Len() }

func (b *BTreeMap[T]) IsEmpty() bool { return b.init().Len() == 0 }

// GetMut returns a pointer that stays valid until the entry is removed.
func (b *BTreeMap[T]) GetMut(index int) (*T, bool) {
	if e, ok := b.lookup(index); ok {
		return &e.value, true
	}
	return nil, false
}

func (b *BTreeMap[T]) Clear() {
	b.init().Clear(false)
}

func (b *BTreeMap[T]) Set(index int, value T) (T, error) {
	e, ok := b.lookup(index)
	if !ok {
		return notAllocated(index, value)
	}
	prev := e.value
	e.value = value
	return prev, nil
}

func (b *BTreeMap[T]) Insert(index int, value T) (T, bool) {
	if e, ok := b.lookup(index); ok {
		prev := e.value
		e.value = value
		return prev, true
	}
	b.init().ReplaceOrInsert(&btreeEntry[T]{index: index, value: value})
	var zero T
	return zero, false
}

func (b *BTreeMap[T]) Remove(index int) (T, bool) {
	if e, ok := b.init().Delete(&btreeEntry[T]{index: index}); ok {
		return e.value, true
	}
	var zero T
	return zero, false
}

// All yields entries in ascending index order.
func (b *BTreeMap[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		b.init().Ascend(func(e *btreeEntry[T]) bool {
			return yield(e.index, e.value)
		})
	}
}

func (b *BTreeMap[T]) AllMut() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		b.init().Ascend(func(e *btreeEntry[T]) bool {
			return yield(e.index, &e.value)
		})
	}
}

// Drain empties the map immediately and yields the taken entries in
// ascending index order.
func (b *BTreeMap[T]) Drain() iter.Seq2[int, T] {
	taken := b.init()
	b.tree = btree.NewG(b.degree, lessEntry[T])
	return func(yield func(int, T) bool) {
		taken.Ascend(func(e *btreeEntry[T]) bool {
			return yield(e.index, e.value)
		})
	}
}

// Range yields entries with lo <= index < hi in ascending order.
func (b *BTreeMap[T]) Range(lo, hi int) iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		b.init().AscendRange(&btreeEntry[T]{index: lo}, &btreeEntry[T]{index: hi}, func(e *btreeEntry[T]) bool {
			return yield(e.index, e.value)
		})
	}
}

func (b *BTreeMap[T]) MarshalJSON() ([]byte, error) {
	return marshalIndexed(b.All(), b.Len())
}

func (b *BTreeMap[T]) UnmarshalJSON(data []byte) error {
	decoded, err := unmarshalIndexed[T](data)
	if err != nil {
		return err
	}
	b.init()
	b.tree = btree.NewG(b.degree, lessEntry[T])
	for i, value := range decoded {
		b.tree.ReplaceOrInsert(&btreeEntry[T]{index: i, value: value})
	}
	return nil
}
