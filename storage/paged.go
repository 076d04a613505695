package storage

import (
	"fmt"
	"iter"
	"math"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/shelf/internal/conv"
)

const (
	pageBits = 10
	pageSize = 1 << pageBits // 1024 slots
	pageMask = pageSize - 1
	maxPages = math.MaxUint32>>pageBits + 1
)

type page[T any] struct {
	slots [pageSize]atomic.Pointer[T]
}

// Paged is a concurrent, append-allocating array built from fixed-size
// pages. It is the SharedAllocator and SharedInserter of this package:
// AllocateShared, InsertShared, Get, Set and Remove may all be called from
// several goroutines at once.
//
// Reads are wait-free (one atomic load of the page table, one of the page,
// one of the slot). Growing the page table takes a mutex; existing pages
// never move, so pointers returned by GetMut stay valid until the slot is
// removed or the backend is cleared. Pages are created on first write, so a
// sparse index costs one page table entry per skipped page.
//
// Indices are bounded by math.MaxUint32. Removed indices are not reused by
// AllocateShared. Clear and Drain must not run concurrently with other
// operations.
type Paged[T any] struct {
	mu     sync.Mutex // protects page table growth and page creation
	pages  atomic.Pointer[[]atomic.Pointer[page[T]]]
	next   atomic.Int64 // next fresh index
	count  atomic.Int64
	npages atomic.Int64
}

var (
	_ Mutable[int]         = (*Paged[int])(nil)
	_ Allocator[int]       = (*Paged[int])(nil)
	_ SharedAllocator[int] = (*Paged[int])(nil)
	_ Setter[int]          = (*Paged[int])(nil)
	_ Inserter[int]        = (*Paged[int])(nil)
	_ SharedInserter[int]  = (*Paged[int])(nil)
	_ Remover[int]         = (*Paged[int])(nil)
	_ Iterable[int]        = (*Paged[int])(nil)
	_ MutIterable[int]     = (*Paged[int])(nil)
	_ Drainer[int]         = (*Paged[int])(nil)
)

// NewPaged returns an empty Paged backend.
func NewPaged[T any]() *Paged[T] {
	return &Paged[T]{}
}

func (p *Paged[T]) table() []atomic.Pointer[page[T]] {
	if ptr := p.pages.Load(); ptr != nil {
		return *ptr
	}
	return nil
}

// slot returns the slot for index without creating anything.
func (p *Paged[T]) slot(index int) *atomic.Pointer[T] {
	if index < 0 {
		return nil
	}
	pageIdx := index >> pageBits
	pages := p.table()
	if pageIdx >= len(pages) {
		return nil
	}
	pg := pages[pageIdx].Load()
	if pg == nil {
		return nil
	}
	return &pg.slots[index&pageMask]
}

// ensureSlot grows the page table and creates the page so index is
// addressable. index must already be range checked.
func (p *Paged[T]) ensureSlot(index int) *atomic.Pointer[T] {
	if s := p.slot(index); s != nil {
		return s
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	pageIdx := index >> pageBits
	pages := p.table()
	if pageIdx >= len(pages) {
		newCap := max(cap(pages), 4)
		for newCap <= pageIdx {
			newCap *= 2
		}
		newCap = min(newCap, maxPages)
		grown := make([]atomic.Pointer[page[T]], pageIdx+1, newCap)
		for i := range pages {
			grown[i].Store(pages[i].Load())
		}
		p.pages.Store(&grown)
		pages = grown
	}

	pg := pages[pageIdx].Load()
	if pg == nil {
		pg = &page[T]{}
		pages[pageIdx].Store(pg)
		p.npages.Add(1)
	}
	return &pg.slots[index&pageMask]
}

func checkIndex(index int) error {
	_, err := conv.IntToUint32(index)
	return err
}

func (p *Paged[T]) Get(index int) (T, bool) {
	if s := p.slot(index); s != nil {
		if v := s.Load(); v != nil {
			return *v, true
		}
	}
	var zero T
	return zero, false
}

func (p *Paged[T]) Len() int { return int(p.count.Load()) }

// Cap counts the slots of the pages created so far.
func (p *Paged[T]) Cap() int { return int(p.npages.Load()) * pageSize }

func (p *Paged[T]) IsEmpty() bool { return p.count.Load() == 0 }

// GetMut returns the stored value's address. Writes through it are not
// synchronized with concurrent readers of the same slot.
func (p *Paged[T]) GetMut(index int) (*T, bool) {
	if s := p.slot(index); s != nil {
		if v := s.Load(); v != nil {
			return v, true
		}
	}
	return nil, false
}

// Clear drops every page and resets allocation to index 0.
func (p *Paged[T]) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reset()
}

func (p *Paged[T]) reset() {
	p.pages.Store(nil)
	p.next.Store(0)
	p.count.Store(0)
	p.npages.Store(0)
}

func (p *Paged[T]) Allocate(value T) int {
	return p.AllocateShared(value)
}

// AllocateShared stores value at the lowest index not yet handed out. Slots
// taken by a concurrent InsertShared are skipped.
func (p *Paged[T]) AllocateShared(value T) int {
	for {
		index := int(p.next.Add(1) - 1)
		if err := checkIndex(index); err != nil {
			panic(fmt.Errorf("storage: Paged.AllocateShared: %w", err))
		}
		if p.ensureSlot(index).CompareAndSwap(nil, &value) {
			p.count.Add(1)
			return index
		}
	}
}

func (p *Paged[T]) Set(index int, value T) (T, error) {
	s := p.slot(index)
	if s == nil {
		return notAllocated(index, value)
	}
	for {
		old := s.Load()
		if old == nil {
			return notAllocated(index, value)
		}
		if s.CompareAndSwap(old, &value) {
			return *old, nil
		}
	}
}

// Insert stores value at index. Fresh allocations continue above the
// highest inserted index. It panics with an error wrapping conv.ErrOverflow
// if index is negative or above math.MaxUint32.
func (p *Paged[T]) Insert(index int, value T) (T, bool) {
	if err := checkIndex(index); err != nil {
		panic(fmt.Errorf("storage: Paged.Insert: %w", err))
	}
	for {
		n := p.next.Load()
		if n > int64(index) || p.next.CompareAndSwap(n, int64(index)+1) {
			break
		}
	}
	if old := p.ensureSlot(index).Swap(&value); old != nil {
		return *old, true
	}
	p.count.Add(1)
	var zero T
	return zero, false
}

// InsertShared is Insert. Racing an AllocateShared for the same index
// orders the two: either the allocation skips the slot or Insert replaces
// the allocated value and returns it.
func (p *Paged[T]) InsertShared(index int, value T) (T, bool) {
	return p.Insert(index, value)
}

func (p *Paged[T]) Remove(index int) (T, bool) {
	if s := p.slot(index); s != nil {
		if old := s.Swap(nil); old != nil {
			p.count.Add(-1)
			return *old, true
		}
	}
	var zero T
	return zero, false
}

func scanPages[T any, V any](pages []atomic.Pointer[page[T]], pick func(*T) V, yield func(int, V) bool) {
	for pIdx := range pages {
		pg := pages[pIdx].Load()
		if pg == nil {
			continue
		}
		base := pIdx << pageBits
		for off := range pg.slots {
			v := pg.slots[off].Load()
			if v == nil {
				continue
			}
			if !yield(base+off, pick(v)) {
				return
			}
		}
	}
}

func deref[T any](v *T) T { return *v }

func identity[T any](v *T) *T { return v }

// All yields occupied slots in ascending index order. Slots filled
// concurrently with the scan may or may not be observed.
func (p *Paged[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		scanPages(p.table(), deref[T], yield)
	}
}

func (p *Paged[T]) AllMut() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		scanPages(p.table(), identity[T], yield)
	}
}

// Drain empties the backend immediately and yields the taken values in
// ascending index order.
func (p *Paged[T]) Drain() iter.Seq2[int, T] {
	p.mu.Lock()
	taken := p.table()
	p.reset()
	p.mu.Unlock()
	return func(yield func(int, T) bool) {
		scanPages(taken, deref[T], yield)
	}
}

func (p *Paged[T]) MarshalJSON() ([]byte, error) {
	return marshalIndexed(p.All(), p.Len())
}

// UnmarshalJSON replaces the contents. Indices above math.MaxUint32 fail
// with an error wrapping conv.ErrOverflow and leave p untouched.
func (p *Paged[T]) UnmarshalJSON(data []byte) error {
	decoded, err := unmarshalIndexed[T](data)
	if err != nil {
		return err
	}
	for i := range decoded {
		if err := checkIndex(i); err != nil {
			return fmt.Errorf("storage: Paged: %w", err)
		}
	}
	p.Clear()
	for i, value := range decoded {
		p.Insert(i, value)
	}
	return nil
}
