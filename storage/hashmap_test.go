package storage

import (
	"encoding/json"
	"maps"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashMap_Insert(t *testing.T) {
	h := NewHashMap[string](4)

	_, had := h.Insert(9, "nine")
	assert.False(t, had)
	prev, had := h.Insert(9, "NINE")
	assert.True(t, had)
	assert.Equal(t, "nine", prev)

	_, had = h.Insert(3, "three")
	assert.False(t, had)
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 4, h.Cap())

	got, ok := h.Get(9)
	require.True(t, ok)
	assert.Equal(t, "NINE", got)
}

func TestHashMap_ZeroValue(t *testing.T) {
	var h HashMap[int]
	assert.True(t, h.IsEmpty())
	_, ok := h.Get(0)
	assert.False(t, ok)

	h.Insert(5, 50)
	got, ok := h.Get(5)
	require.True(t, ok)
	assert.Equal(t, 50, got)
}

func TestHashMap_Remove(t *testing.T) {
	h := NewHashMap[int](0)
	h.Insert(1, 10)

	v, ok := h.Remove(1)
	require.True(t, ok)
	assert.Equal(t, 10, v)

	_, ok = h.Remove(1)
	assert.False(t, ok)
	assert.True(t, h.IsEmpty())
}

func TestHashMap_SetNeedsEntry(t *testing.T) {
	h := NewHashMap[int](0)
	_, err := h.Set(2, 20)
	require.ErrorIs(t, err, ErrNotAllocated)
	assert.Equal(t, 0, h.Len())

	h.Insert(2, 1)
	prev, err := h.Set(2, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, prev)
}

func TestHashMap_GetMutSurvivesGrowth(t *testing.T) {
	h := NewHashMap[int](0)
	h.Insert(0, 1)
	p, ok := h.GetMut(0)
	require.True(t, ok)

	for i := 1; i < 1000; i++ {
		h.Insert(i, i)
	}
	*p = 42
	got, _ := h.Get(0)
	assert.Equal(t, 42, got)
}

func TestHashMap_Drain(t *testing.T) {
	h := NewHashMap[string](0)
	h.Insert(4, "d")
	h.Insert(8, "h")

	assert.Equal(t, map[int]string{4: "d", 8: "h"}, maps.Collect(h.Drain()))
	assert.True(t, h.IsEmpty())
}

func TestHashMap_JSON(t *testing.T) {
	h := NewHashMap[string](0)
	h.Insert(3, "c")
	h.Insert(10, "j")

	data, err := json.Marshal(h)
	require.NoError(t, err)
	assert.JSONEq(t, `{"3":"c","10":"j"}`, string(data))

	var back HashMap[string]
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, maps.Collect(h.All()), maps.Collect(back.All()))

	assert.Error(t, json.Unmarshal([]byte(`{"-1":"x"}`), &back))
}
