package storage

import (
	"fmt"
	"iter"

	gojson "github.com/goccy/go-json"
)

// Keyed backends encode as a JSON object mapping decimal index to value.

func marshalIndexed[T any](seq iter.Seq2[int, T], n int) ([]byte, error) {
	m := make(map[int]T, n)
	for i, value := range seq {
		m[i] = value
	}
	return gojson.Marshal(m)
}

func unmarshalIndexed[T any](data []byte) (map[int]T, error) {
	var m map[int]T
	if err := gojson.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	for i := range m {
		if i < 0 {
			return nil, fmt.Errorf("storage: negative index %d in encoded data", i)
		}
	}
	return m, nil
}
