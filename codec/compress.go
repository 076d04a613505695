package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/hupe1980/shelf/internal/conv"
)

// Compression selects the block compressor of a Compressed codec.
type Compression uint8

const (
	CompressionNone Compression = 0
	// CompressionLZ4 is fast with a moderate ratio.
	CompressionLZ4 Compression = 1
	// CompressionZSTD compresses better at some cost in speed.
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

var (
	// ErrUnknownCompression is returned for a frame or codec naming an
	// unsupported compressor.
	ErrUnknownCompression = errors.New("codec: unknown compression")

	// ErrCorrupt is returned for frames that are truncated or decompress to
	// the wrong size.
	ErrCorrupt = errors.New("codec: corrupt frame")
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecodeAllCapLimit(true))
	return dec
}

// Frame: [compression uint8][raw size uint32][packed size uint32][data].
// A packed size of 0 means data is stored raw.
const frameHeaderSize = 9

// Upper bounds on raw/packed size. An LZ4 match spends at least one byte per
// 255 bytes it copies; a zstd RLE block expands 4 bytes to 128 KiB.
const (
	lz4MaxRatio  = 255
	zstdMaxRatio = 1 << 15
)

func maxRatio(c Compression) int {
	if c == CompressionLZ4 {
		return lz4MaxRatio
	}
	return zstdMaxRatio
}

// Compressed wraps the output of another codec in a compressed frame.
// Payloads that do not shrink by at least 10% are stored raw.
type Compressed struct {
	Codec       Codec
	Compression Compression
}

func (c Compressed) inner() Codec {
	if c.Codec == nil {
		return Default
	}
	return c.Codec
}

// Name returns the inner codec's name with the compressor appended, e.g.
// "go-json+zstd".
func (c Compressed) Name() string {
	return c.inner().Name() + "+" + c.Compression.String()
}

// appender encodes straight into a caller's buffer.
type appender interface {
	Append(dst []byte, v any) ([]byte, error)
}

func (c Compressed) Marshal(v any) ([]byte, error) {
	if a, ok := c.inner().(appender); ok && c.Compression == CompressionNone {
		return appendRawFrame(a, v)
	}
	raw, err := c.inner().Marshal(v)
	if err != nil {
		return nil, err
	}
	return compressFrame(raw, c.Compression)
}

// Unmarshal decodes frames of any compression, not only c.Compression.
func (c Compressed) Unmarshal(data []byte, v any) error {
	raw, err := decompressFrame(data)
	if err != nil {
		return err
	}
	return c.inner().Unmarshal(raw, v)
}

func compressFrame(raw []byte, compression Compression) ([]byte, error) {
	rawSize, err := conv.IntToUint32(len(raw))
	if err != nil {
		return nil, fmt.Errorf("codec: payload too large: %w", err)
	}

	var packed []byte
	switch compression {
	case CompressionNone:
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, buf, nil)
		if err != nil {
			return nil, err
		}
		packed = buf[:n] // n == 0: incompressible
	case CompressionZSTD:
		enc := getZstdEncoder()
		packed = enc.EncodeAll(raw, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, compression)
	}

	if len(packed) == 0 || float64(len(packed)) > float64(len(raw))*0.9 {
		packed = nil
	}

	frame := make([]byte, frameHeaderSize, frameHeaderSize+max(len(packed), len(raw)))
	frame[0] = byte(compression)
	binary.LittleEndian.PutUint32(frame[1:], rawSize)
	if packed == nil {
		binary.LittleEndian.PutUint32(frame[5:], 0)
		return append(frame, raw...), nil
	}
	binary.LittleEndian.PutUint32(frame[5:], conv.MustIntToUint32(len(packed)))
	return append(frame, packed...), nil
}

// appendRawFrame encodes v behind a raw frame header without copying.
func appendRawFrame(a appender, v any) ([]byte, error) {
	frame, err := a.Append(make([]byte, frameHeaderSize, 256), v)
	if err != nil {
		return nil, err
	}
	rawSize, err := conv.IntToUint32(len(frame) - frameHeaderSize)
	if err != nil {
		return nil, fmt.Errorf("codec: payload too large: %w", err)
	}
	frame[0] = byte(CompressionNone)
	binary.LittleEndian.PutUint32(frame[1:], rawSize)
	binary.LittleEndian.PutUint32(frame[5:], 0)
	return frame, nil
}

func decompressFrame(frame []byte) ([]byte, error) {
	if len(frame) < frameHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(frame))
	}
	compression := Compression(frame[0])
	if compression > CompressionZSTD {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, compression)
	}
	rawSize := int(binary.LittleEndian.Uint32(frame[1:]))
	packedSize := int(binary.LittleEndian.Uint32(frame[5:]))
	body := frame[frameHeaderSize:]

	if packedSize == 0 {
		if len(body) != rawSize {
			return nil, fmt.Errorf("%w: want %d raw bytes, have %d", ErrCorrupt, rawSize, len(body))
		}
		return body, nil
	}
	if len(body) != packedSize {
		return nil, fmt.Errorf("%w: want %d packed bytes, have %d", ErrCorrupt, packedSize, len(body))
	}
	if compression == CompressionNone {
		return nil, fmt.Errorf("%w: packed body without a compressor", ErrCorrupt)
	}
	if rawSize > packedSize*maxRatio(compression) {
		return nil, fmt.Errorf("%w: %d packed bytes cannot expand to %d", ErrCorrupt, packedSize, rawSize)
	}

	raw := make([]byte, rawSize)
	switch compression {
	case CompressionLZ4:
		n, err := lz4.UncompressBlock(body, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if n != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return raw, nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		decoded, err := dec.DecodeAll(body, raw[:0])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}
		if len(decoded) != rawSize {
			return nil, fmt.Errorf("%w: decompressed size mismatch", ErrCorrupt)
		}
		return decoded, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCompression, compression)
	}
}
