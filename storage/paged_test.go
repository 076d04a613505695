package storage

import (
	"encoding/json"
	"maps"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/shelf/internal/conv"
)

func TestPaged_CrossesPages(t *testing.T) {
	p := NewPaged[int]()
	n := pageSize*2 + 7
	for i := range n {
		require.Equal(t, i, p.Allocate(i))
	}
	assert.Equal(t, n, p.Len())
	assert.GreaterOrEqual(t, p.Cap(), n)

	got, ok := p.Get(pageSize + 3)
	require.True(t, ok)
	assert.Equal(t, pageSize+3, got)
}

func TestPaged_ConcurrentAllocateShared(t *testing.T) {
	const (
		workers = 8
		perW    = 500
	)
	p := NewPaged[int]()

	var mu sync.Mutex
	seen := make(map[int]int, workers*perW)

	var g errgroup.Group
	for w := range workers {
		g.Go(func() error {
			local := make(map[int]int, perW)
			for i := range perW {
				v := w*perW + i
				local[p.AllocateShared(v)] = v
			}
			mu.Lock()
			defer mu.Unlock()
			maps.Copy(seen, local)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Len(t, seen, workers*perW, "indices are unique")
	assert.Equal(t, workers*perW, p.Len())
	for idx, v := range seen {
		got, ok := p.Get(idx)
		require.True(t, ok)
		assert.Equal(t, v, got)
	}
}

func TestPaged_InsertMovesAllocation(t *testing.T) {
	p := NewPaged[string]()
	_, had := p.Insert(5000, "far")
	assert.False(t, had)

	assert.Equal(t, 5001, p.AllocateShared("next"))
	assert.Equal(t, 2, p.Len())

	prev, had := p.Insert(5000, "again")
	assert.True(t, had)
	assert.Equal(t, "far", prev)
	assert.Equal(t, 2, p.Len())

	assert.Panics(t, func() { p.Insert(-1, "x") })
}

func TestPaged_RemoveDoesNotRecycle(t *testing.T) {
	p := NewPaged[int]()
	a := p.Allocate(1)
	v, ok := p.Remove(a)
	require.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = p.Remove(a)
	assert.False(t, ok)

	assert.Equal(t, 1, p.Allocate(2))
	assert.Equal(t, 1, p.Len())

	_, err := p.Set(a, 3)
	assert.ErrorIs(t, err, ErrNotAllocated)
	_, err = p.Set(pageSize*9, 3)
	assert.ErrorIs(t, err, ErrNotAllocated)
}

func TestPaged_AllOrdered(t *testing.T) {
	p := NewPaged[int]()
	p.Insert(pageSize+1, 2)
	p.Insert(3, 1)

	var order []int
	for i := range p.All() {
		order = append(order, i)
	}
	assert.Equal(t, []int{3, pageSize + 1}, order)

	for _, v := range p.AllMut() {
		*v *= 10
	}
	got, _ := p.Get(3)
	assert.Equal(t, 10, got)
}

func TestPaged_DrainResets(t *testing.T) {
	p := NewPaged[string]()
	p.Allocate("a")
	p.Allocate("b")

	seq := p.Drain()
	assert.True(t, p.IsEmpty())
	assert.Equal(t, 0, p.Cap())
	assert.Equal(t, map[int]string{0: "a", 1: "b"}, maps.Collect(seq))
	assert.Equal(t, 0, p.Allocate("c"))
}

func TestPaged_JSON(t *testing.T) {
	p := NewPaged[int]()
	p.Insert(1, 10)
	p.Insert(2048, 20)

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":10,"2048":20}`, string(data))

	back := NewPaged[int]()
	require.NoError(t, json.Unmarshal(data, back))
	assert.Equal(t, 2, back.Len())
	assert.Equal(t, 2049, back.AllocateShared(30))
}

func TestPaged_RejectsOutOfRangeIndex(t *testing.T) {
	p := NewPaged[string]()

	for _, index := range []int{-1, math.MaxUint32 + 1, math.MaxInt} {
		func() {
			defer func() {
				err, ok := recover().(error)
				require.True(t, ok, "Insert(%d) did not panic with an error", index)
				assert.ErrorIs(t, err, conv.ErrOverflow)
			}()
			p.Insert(index, "x")
		}()
	}

	assert.True(t, p.IsEmpty())
	assert.Equal(t, 0, p.AllocateShared("first"), "allocation is not moved by a rejected Insert")
}

func TestPaged_SparseIndexCreatesOnePage(t *testing.T) {
	p := NewPaged[string]()
	const far = 1_000_000_000

	_, had := p.Insert(far, "far")
	assert.False(t, had)
	assert.Equal(t, pageSize, p.Cap())

	got, ok := p.Get(far)
	require.True(t, ok)
	assert.Equal(t, "far", got)
	_, ok = p.Get(far - pageSize)
	assert.False(t, ok)

	assert.Equal(t, map[int]string{far: "far"}, maps.Collect(p.All()))

	_, had = p.Insert(math.MaxUint32, "last")
	assert.False(t, had)
	assert.Panics(t, func() { p.AllocateShared("overflow") })
}

func TestPaged_UnmarshalRejectsHugeIndex(t *testing.T) {
	p := NewPaged[string]()
	p.Allocate("keep")

	err := json.Unmarshal([]byte(`{"9223372036854775806":"x"}`), p)
	require.ErrorIs(t, err, conv.ErrOverflow)

	got, ok := p.Get(0)
	require.True(t, ok, "a rejected document leaves the contents alone")
	assert.Equal(t, "keep", got)
}

func TestPaged_InsertSharedRacesAllocate(t *testing.T) {
	const (
		allocators = 4
		perW       = 400
		inserted   = 800
	)
	p := NewPaged[int]()

	var mu sync.Mutex
	allocated := make(map[int]int)

	var g errgroup.Group
	for w := range allocators {
		g.Go(func() error {
			for i := range perW {
				index := p.AllocateShared(w*perW + i)
				mu.Lock()
				_, dup := allocated[index]
				allocated[index] = w*perW + i
				mu.Unlock()
				if dup {
					t.Errorf("index %d allocated twice", index)
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		for i := range inserted {
			p.InsertShared(i*2, -1)
		}
		return nil
	})
	require.NoError(t, g.Wait())

	assert.Len(t, allocated, allocators*perW)
	occupied := maps.Collect(p.All())
	assert.Len(t, occupied, p.Len())
	for i := range inserted {
		assert.Equal(t, -1, occupied[i*2])
	}
	for index, v := range allocated {
		if got := occupied[index]; got != -1 {
			assert.Equal(t, v, got)
		}
	}
}
