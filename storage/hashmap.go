package storage

import (
	"iter"
)

// HashMap is a hashed map keyed by index. It never picks indices itself:
// callers choose them through Insert, which makes it a natural side-table
// for handles minted elsewhere. Iteration order is unspecified.
type HashMap[T any] struct {
	m    map[int]*T
	hint int
}

var (
	_ Mutable[int]     = (*HashMap[int])(nil)
	_ Setter[int]      = (*HashMap[int])(nil)
	_ Inserter[int]    = (*HashMap[int])(nil)
	_ Remover[int]     = (*HashMap[int])(nil)
	_ Iterable[int]    = (*HashMap[int])(nil)
	_ MutIterable[int] = (*HashMap[int])(nil)
	_ Drainer[int]     = (*HashMap[int])(nil)
)

// NewHashMap returns an empty HashMap sized for capacity entries.
func NewHashMap[T any](capacity int) *HashMap[T] {
	capacity = max(capacity, 0)
	return &HashMap[T]{m: make(map[int]*T, capacity), hint: capacity}
}

func (h *HashMap[T]) Get(index int) (T, bool) {
	if p, ok := h.m[index]; ok {
		return *p, true
	}
	var zero T
	return zero, false
}

func (h *HashMap[T]) Len() int { return len(h.m) }

// Cap returns the larger of the construction hint and the current length;
// Go maps do not expose their bucket capacity.
func (h *HashMap[T]) Cap() int { return max(h.hint, len(h.m)) }

func (h *HashMap[T]) IsEmpty() bool { return len(h.m) == 0 }

// GetMut returns a pointer that stays valid until the entry is removed.
func (h *HashMap[T]) GetMut(index int) (*T, bool) {
	p, ok := h.m[index]
	return p, ok
}

func (h *HashMap[T]) Clear() {
	clear(h.m)
}

func (h *HashMap[T]) Set(index int, value T) (T, error) {
	p, ok := h.m[index]
	if !ok {
		return notAllocated(index, value)
	}
	prev := *p
	*p = value
	return prev, nil
}

func (h *HashMap[T]) Insert(index int, value T) (T, bool) {
	if p, ok := h.m[index]; ok {
		prev := *p
		*p = value
		return prev, true
	}
	if h.m == nil {
		h.m = make(map[int]*T, h.hint)
	}
	h.m[index] = &value
	var zero T
	return zero, false
}

func (h *HashMap[T]) Remove(index int) (T, bool) {
	p, ok := h.m[index]
	if !ok {
		var zero T
		return zero, false
	}
	delete(h.m, index)
	return *p, true
}

func (h *HashMap[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, p := range h.m {
			if !yield(i, *p) {
				return
			}
		}
	}
}

func (h *HashMap[T]) AllMut() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i, p := range h.m {
			if !yield(i, p) {
				return
			}
		}
	}
}

// Drain empties the map immediately and yields the taken entries.
func (h *HashMap[T]) Drain() iter.Seq2[int, T] {
	taken := h.m
	h.m = make(map[int]*T, h.hint)
	return func(yield func(int, T) bool) {
		for i, p := range taken {
			if !yield(i, *p) {
				return
			}
		}
	}
}

func (h *HashMap[T]) MarshalJSON() ([]byte, error) {
	return marshalIndexed(h.All(), len(h.m))
}

func (h *HashMap[T]) UnmarshalJSON(data []byte) error {
	decoded, err := unmarshalIndexed[T](data)
	if err != nil {
		return err
	}
	h.m = make(map[int]*T, max(len(decoded), h.hint))
	for i, value := range decoded {
		h.m[i] = &value
	}
	return nil
}
