package codec_test

import (
	"testing"

	"github.com/hupe1980/shelf/codec"
	"github.com/hupe1980/shelf/internal/testutil"
	"github.com/hupe1980/shelf/storage"
)

func benchSlab(n int) *storage.Slab[string] {
	s := storage.NewSlab[string](n)
	for _, w := range testutil.NewRNG(4711).Words(n, 500) {
		s.Allocate(w)
	}
	return s
}

var benchCodecs = []codec.Codec{
	codec.JSON{},
	codec.GoJSON{},
	codec.Compressed{Codec: codec.GoJSON{}, Compression: codec.CompressionLZ4},
	codec.Compressed{Codec: codec.GoJSON{}, Compression: codec.CompressionZSTD},
}

func BenchmarkCodec_Marshal_Slab(b *testing.B) {
	s := benchSlab(10_000)

	for _, c := range benchCodecs {
		b.Run(c.Name(), func(b *testing.B) {
			b.ReportAllocs()
			warm := codec.MustMarshal(c, s)
			b.SetBytes(int64(len(warm)))

			var sink []byte
			b.ResetTimer()
			for b.Loop() {
				out, err := c.Marshal(s)
				if err != nil {
					b.Fatal(err)
				}
				sink = out
			}
			_ = sink
		})
	}
}

func BenchmarkCodec_Unmarshal_Slab(b *testing.B) {
	s := benchSlab(10_000)

	for _, c := range benchCodecs {
		data := codec.MustMarshal(c, s)
		b.Run(c.Name(), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			b.ResetTimer()
			for b.Loop() {
				var back storage.Slab[string]
				if err := c.Unmarshal(data, &back); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
