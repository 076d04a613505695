package dictionary

import (
	"errors"
	"iter"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/shelf"
	"github.com/hupe1980/shelf/internal/testutil"
	"github.com/hupe1980/shelf/storage"
)

// dict is the surface every variant shares.
type dict interface {
	Insert(value string) shelf.Ref[string]
	Get(r shelf.Ref[string]) (string, bool)
	Lookup(value string) (shelf.Ref[string], bool)
	Contains(value string) bool
	Remove(r shelf.Ref[string]) (string, bool)
	RemoveValue(value string) (shelf.Ref[string], string, bool)
	Len() int
	IsEmpty() bool
	All() iter.Seq2[shelf.Ref[string], string]
}

type variant struct {
	name string
	// open returns a dictionary over a removable backend and a func that
	// checks its reverse index against the arena.
	open func(opts ...Option) (dict, func(t *testing.T))
}

func variants() []variant {
	return []variant{
		{"hash/slab", func(opts ...Option) (dict, func(*testing.T)) {
			d := NewHashDictionary[string](storage.NewSlab[string](0), opts...)
			return d, func(t *testing.T) { assertBijection(t, d.core) }
		}},
		{"hash/paged", func(opts ...Option) (dict, func(*testing.T)) {
			d := NewHashDictionary[string](storage.NewPaged[string](), opts...)
			return d, func(t *testing.T) { assertBijection(t, d.core) }
		}},
		{"hash-const/paged", func(opts ...Option) (dict, func(*testing.T)) {
			d := NewHashConstDictionary[string](storage.NewPaged[string](), opts...)
			return d, func(t *testing.T) { assertBijection(t, d.core) }
		}},
		{"btree/slab", func(opts ...Option) (dict, func(*testing.T)) {
			d := NewBTreeDictionary[string](storage.NewSlab[string](0), opts...)
			return d, func(t *testing.T) { assertBijection(t, d.core) }
		}},
		{"btree-const/paged", func(opts ...Option) (dict, func(*testing.T)) {
			d := NewBTreeConstDictionary[string](storage.NewPaged[string](), opts...)
			return d, func(t *testing.T) { assertBijection(t, d.core) }
		}},
	}
}

// assertBijection checks that every arena slot is indexed under its own
// value and that the index holds nothing else.
func assertBijection[T comparable, S storage.Storage[T]](t *testing.T, c *core[T, S]) {
	t.Helper()
	var n int
	for r, v := range c.shelf.All() {
		i, ok := c.index.get(v)
		require.True(t, ok, "value %v at %s missing from index", v, r)
		require.Equal(t, r.Index(), i, "value %v indexed under the wrong slot", v)
		n++
	}
	require.Equal(t, n, c.index.len(), "index has entries without arena values")
}

func TestScenario(t *testing.T) {
	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			d, check := v.open()

			a := d.Insert("a")
			assert.Equal(t, 0, a.Index())
			b := d.Insert("b")
			assert.Equal(t, 1, b.Index())
			assert.Equal(t, a, d.Insert("a"))
			assert.Equal(t, 2, d.Len())

			r, value, ok := d.RemoveValue("b")
			require.True(t, ok)
			assert.Equal(t, b, r)
			assert.Equal(t, "b", value)
			assert.Equal(t, 1, d.Len())

			_, ok = d.Get(b)
			assert.False(t, ok)
			check(t)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	rng := testutil.NewRNG(4711)
	words := rng.Words(300, 60)

	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			d, check := v.open()
			for _, w := range words {
				got, ok := d.Get(d.Insert(w))
				require.True(t, ok)
				require.Equal(t, w, got)
			}
			check(t)
		})
	}
}

func TestInsertIsIdempotent(t *testing.T) {
	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			d, _ := v.open()
			d.Insert("x")
			before := d.Len()

			r1 := d.Insert("y")
			r2 := d.Insert("y")
			assert.Equal(t, r1, r2)
			assert.Equal(t, before+1, d.Len())

			got, ok := d.Lookup("y")
			require.True(t, ok)
			assert.Equal(t, r1, got)
			assert.True(t, d.Contains("y"))
			assert.False(t, d.Contains("z"))
		})
	}
}

func TestRemoveThenAbsent(t *testing.T) {
	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			d, check := v.open()
			r := d.Insert("gone")
			d.Insert("kept")

			value, ok := d.Remove(r)
			require.True(t, ok)
			assert.Equal(t, "gone", value)

			_, ok = d.Get(r)
			assert.False(t, ok)
			_, ok = d.Remove(r)
			assert.False(t, ok)
			_, _, ok = d.RemoveValue("gone")
			assert.False(t, ok)
			assert.False(t, d.Contains("gone"))
			check(t)

			again := d.Insert("gone")
			got, ok := d.Get(again)
			require.True(t, ok)
			assert.Equal(t, "gone", got)
			check(t)
		})
	}
}

func TestBijectionUnderRandomOps(t *testing.T) {
	rng := testutil.NewRNG(99)
	ops := rng.Ops(2000, 0.35)

	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			d, check := v.open()
			model := make(map[string]shelf.Ref[string])

			for i, op := range ops {
				switch op.Kind {
				case testutil.OpInsert:
					r := d.Insert(op.Value)
					if prev, ok := model[op.Value]; ok {
						require.Equal(t, prev, r, "step %d", i)
					}
					model[op.Value] = r
				case testutil.OpRemove:
					r, value, ok := d.RemoveValue(op.Value)
					want, had := model[op.Value]
					require.Equal(t, had, ok, "step %d", i)
					if ok {
						require.Equal(t, want, r)
						require.Equal(t, op.Value, value)
					}
					delete(model, op.Value)
				}
				if i%250 == 0 {
					check(t)
				}
			}
			check(t)
			assert.Equal(t, len(model), d.Len())

			got := make(map[string]shelf.Ref[string])
			for r, value := range d.All() {
				got[value] = r
			}
			assert.Equal(t, model, got)
		})
	}
}

func TestMetrics(t *testing.T) {
	for _, v := range variants() {
		t.Run(v.name, func(t *testing.T) {
			metrics := &shelf.BasicMetricsCollector{}
			d, _ := v.open(WithMetricsCollector(metrics), WithLogger(nil))

			d.Insert("a")
			d.Insert("a")
			d.Insert("b")
			d.RemoveValue("a")
			d.RemoveValue("a")

			stats := metrics.Stats()
			assert.Equal(t, int64(3), stats.Inserts)
			assert.Equal(t, int64(1), stats.InsertHits)
			assert.Equal(t, int64(2), stats.Removes)
			assert.Equal(t, int64(1), stats.RemoveMisses)
		})
	}
}

func TestNewPanicsOnPopulatedStorage(t *testing.T) {
	s := storage.VecFrom([]string{"a"})
	assert.PanicsWithValue(t, ErrNotEmpty, func() {
		NewHashDictionary[string](s)
	})
	assert.PanicsWithValue(t, ErrNotEmpty, func() {
		NewBTreeDictionary[string](s)
	})
}

func TestRemoveNeedsRemover(t *testing.T) {
	d := NewHashDictionary[string](storage.NewVec[string](0))
	r := d.Insert("a")

	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, shelf.ErrUnsupported)
		assert.True(t, d.Contains("a"), "failed removal leaves the value")
	}()
	d.Remove(r)
}

func TestDesyncPanics(t *testing.T) {
	s := storage.NewSlab[string](0)
	d := NewHashDictionary[string](s)
	r := d.Insert("a")

	_, err := s.Set(r.Index(), "tampered")
	require.NoError(t, err)

	assert.Panics(t, func() { d.Remove(r) })
	v, ok := s.Get(r.Index())
	require.True(t, ok, "a failed Remove leaves the arena untouched")
	assert.Equal(t, "tampered", v)
}

func TestHashDictionaries_RejectNotReflexive(t *testing.T) {
	nan := math.NaN()

	t.Run("float", func(t *testing.T) {
		s := storage.NewSlab[float64](0)
		d := NewHashDictionary[float64](s)
		one := d.Insert(1)

		assert.PanicsWithValue(t, ErrNotReflexive, func() { d.Insert(nan) })
		assert.Equal(t, 1, d.Len())
		assert.Equal(t, 1, s.Len(), "nothing stored for the rejected value")

		_, ok := d.Lookup(nan)
		assert.False(t, ok)
		_, _, ok = d.RemoveValue(nan)
		assert.False(t, ok)

		v, ok := d.Remove(one)
		require.True(t, ok)
		assert.Equal(t, 1.0, v)
		assert.True(t, d.IsEmpty())
		assertBijection(t, d.core)
	})

	t.Run("const", func(t *testing.T) {
		d := NewHashConstDictionary[float64](storage.NewPaged[float64]())
		assert.PanicsWithValue(t, ErrNotReflexive, func() { d.Insert(nan) })
		assert.Equal(t, 0, d.Storage().Len())
	})

	t.Run("interface", func(t *testing.T) {
		d := NewHashDictionary[any](storage.NewSlab[any](0))
		r := d.Insert("x")
		assert.Equal(t, r, d.Insert("x"))
		assert.PanicsWithValue(t, ErrNotReflexive, func() { d.Insert(any(nan)) })
		assert.Equal(t, 1, d.Len())
	})

	t.Run("struct field", func(t *testing.T) {
		type point struct{ X, Y float64 }
		d := NewHashDictionary[point](storage.NewSlab[point](0))
		assert.PanicsWithValue(t, ErrNotReflexive, func() { d.Insert(point{X: 1, Y: nan}) })
		assert.True(t, d.IsEmpty())
	})

	t.Run("load", func(t *testing.T) {
		_, err := LoadHashDictionary[float64](storage.VecFrom([]float64{1, nan}))
		require.ErrorIs(t, err, ErrNotReflexive)

		var nre *NotReflexiveError
		require.True(t, errors.As(err, &nre))
		assert.Equal(t, 1, nre.Index)
	})
}

func TestBTreeDictionary_NaNIsOneValue(t *testing.T) {
	d := NewBTreeDictionary[float64](storage.NewSlab[float64](0))
	r := d.Insert(math.NaN())
	assert.Equal(t, r, d.Insert(math.NaN()))

	got, ok := d.Lookup(math.NaN())
	require.True(t, ok)
	assert.Equal(t, r, got)

	_, ok = d.Remove(r)
	require.True(t, ok)
	assert.True(t, d.IsEmpty())
}
