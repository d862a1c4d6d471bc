package protocol

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zlib"
)

// Compression is a backend used to compress the body of a frame once compression is enabled for a connection.
type Compression interface {
	// Compress compresses data and returns the compressed bytes.
	Compress(data []byte) ([]byte, error)
	// Decompress decompresses data. Implementations stop producing output after limit+1 bytes, so a caller
	// comparing the result against limit can detect oversized bodies without unbounded allocation.
	Decompress(data []byte, limit int) ([]byte, error)
}

var (
	// ZlibCompression produces zlib streams, the format expected by game servers.
	ZlibCompression Compression = NewZlibCompression(zlib.DefaultCompression)
	// SnappyCompression produces snappy blocks. Both peers have to agree on it out of band.
	SnappyCompression Compression = snappyCompression{}
)

type zlibCompression struct {
	level   int
	writers sync.Pool
}

// NewZlibCompression returns a zlib backend compressing at the level passed. Levels outside the range
// zlib accepts fall back to zlib.DefaultCompression.
func NewZlibCompression(level int) Compression {
	if level < zlib.HuffmanOnly || level > zlib.BestCompression {
		level = zlib.DefaultCompression
	}
	c := &zlibCompression{level: level}
	c.writers.New = func() any {
		w, _ := zlib.NewWriterLevel(io.Discard, level)
		return w
	}
	return c
}

// Compress ...
func (c *zlibCompression) Compress(data []byte) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, len(data)/2+16))
	w := c.writers.Get().(*zlib.Writer)
	defer c.writers.Put(w)

	w.Reset(buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib compress: %w", err)
	}
	return buf.Bytes(), nil
}

// Decompress ...
func (c *zlibCompression) Decompress(data []byte, limit int) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib decompress: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, int64(limit)+1))
	if err != nil {
		return nil, fmt.Errorf("zlib decompress: %w", err)
	}
	return out, nil
}

type snappyCompression struct{}

// Compress ...
func (snappyCompression) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

// Decompress ...
func (snappyCompression) Decompress(data []byte, limit int) ([]byte, error) {
	n, err := snappy.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("snappy decompress: %w", err)
	}
	if n > limit {
		return nil, fmt.Errorf("%w: decoded %d, declared %d", ErrUncompressedLengthMismatch, n, limit)
	}
	out, err := snappy.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("snappy decompress: %w", err)
	}
	return out, nil
}
