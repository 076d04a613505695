// Package codec encodes shelves, backends and dictionaries' backends to bytes.
//
// Backends marshal their natural representation as JSON: a Vec becomes an
// array, the keyed backends an object from index to value. A Codec picks the
// JSON implementation and may wrap the result in a compressed frame:
//
//	c := codec.Compressed{Codec: codec.GoJSON{}, Compression: codec.CompressionZSTD}
//	data, _ := c.Marshal(sh)
//	restored := shelf.New[string](storage.NewSlab[string](0))
//	_ = c.Unmarshal(data, restored)
//
// None of this is a durable on-disk format; the bytes are only as stable as
// the value types they carry.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	case "go-json+lz4":
		return Compressed{Codec: GoJSON{}, Compression: CompressionLZ4}, true
	case "go-json+zstd":
		return Compressed{Codec: GoJSON{}, Compression: CompressionZSTD}, true
	default:
		return nil, false
	}
}

// MustMarshal is a helper for tests and examples.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
