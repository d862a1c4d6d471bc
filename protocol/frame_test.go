package protocol

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

var payload = []byte{0xde, 0xad, 0xbe, 0xaf}

// compressedFrame is a zlib frame for packet 0x00 carrying payload.
var compressedFrame = []byte{5, 13, 120, 156, 99, 184, 183, 118, 223, 122, 0, 7, 175, 2, 249}

func TestFramerWriteUncompressed(t *testing.T) {
	tests := []struct {
		name    string
		id      int32
		payload []byte
		want    []byte
	}{
		{"payload", 0x00, payload, []byte{0x05, 0x00, 0xde, 0xad, 0xbe, 0xaf}},
		{"empty_payload", 0x01, nil, []byte{0x01, 0x01}},
		{"two_byte_id", 0x80, []byte{0x01}, []byte{0x03, 0x80, 0x01, 0x01}},
	}

	f := NewFramer(nil, 0)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := f.Write(tc.id, tc.payload, false)
			if err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if !bytes.Equal(got, tc.want) {
				t.Errorf("Write() = %x, want %x", got, tc.want)
			}
		})
	}
}

func TestFramerReadUncompressed(t *testing.T) {
	f := NewFramer(nil, 0)
	packets, err := f.Read([]byte{0x05, 0x00, 0xde, 0xad, 0xbe, 0xaf}, false)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(packets) != 1 {
		t.Fatalf("Read() returned %d packets, want 1", len(packets))
	}
	if pk := packets[0]; pk.ID != 0 || !bytes.Equal(pk.Payload, payload) || pk.WasCompressed {
		t.Errorf("Read() = %+v, want id 0 payload %x uncompressed", pk, payload)
	}
}

func TestFramerReadMultiple(t *testing.T) {
	f := NewFramer(nil, 0)

	var chunk []byte
	for i := int32(0); i < 5; i++ {
		var err error
		chunk, err = f.Append(chunk, i*100, bytes.Repeat([]byte{byte(i)}, int(i)), false)
		if err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	packets, err := f.Read(chunk, false)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(packets) != 5 {
		t.Fatalf("Read() returned %d packets, want 5", len(packets))
	}
	for i, pk := range packets {
		if pk.ID != int32(i*100) {
			t.Errorf("packet %d id = %d, want %d", i, pk.ID, i*100)
		}
		if !bytes.Equal(pk.Payload, bytes.Repeat([]byte{byte(i)}, i)) {
			t.Errorf("packet %d payload = %x", i, pk.Payload)
		}
	}
}

func TestFramerReadEmptyChunk(t *testing.T) {
	packets, err := NewFramer(nil, 0).Read(nil, false)
	if err != nil || len(packets) != 0 {
		t.Errorf("Read(nil) = (%v, %v), want no packets", packets, err)
	}
}

func TestFramerReadCompressedVector(t *testing.T) {
	packets, err := NewFramer(ZlibCompression, 0).Read(compressedFrame, true)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(packets) != 1 {
		t.Fatalf("Read() returned %d packets, want 1", len(packets))
	}
	if pk := packets[0]; pk.ID != 0 || !bytes.Equal(pk.Payload, payload) || !pk.WasCompressed {
		t.Errorf("Read() = %+v, want id 0 payload %x compressed", pk, payload)
	}
}

func TestFramerCompressedRoundTrip(t *testing.T) {
	backends := map[string]Compression{
		"zlib":      ZlibCompression,
		"zlib_best": NewZlibCompression(9),
		"snappy":    SnappyCompression,
	}
	payloads := [][]byte{nil, payload, bytes.Repeat([]byte("minepress"), 1000)}

	for name, backend := range backends {
		t.Run(name, func(t *testing.T) {
			f := NewFramer(backend, 0)
			var chunk []byte
			for i, p := range payloads {
				var err error
				chunk, err = f.Append(chunk, int32(i+0x20), p, true)
				if err != nil {
					t.Fatalf("Append() error = %v", err)
				}
			}

			packets, err := f.Read(chunk, true)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if len(packets) != len(payloads) {
				t.Fatalf("Read() returned %d packets, want %d", len(packets), len(payloads))
			}
			for i, pk := range packets {
				if pk.ID != int32(i+0x20) || !bytes.Equal(pk.Payload, payloads[i]) || !pk.WasCompressed {
					t.Errorf("packet %d = id %d, %d bytes, want id %d, %d bytes", i, pk.ID, len(pk.Payload), i+0x20, len(payloads[i]))
				}
			}
		})
	}
}

func TestFramerCompressedHeader(t *testing.T) {
	f := NewFramer(ZlibCompression, 0)
	frame, err := f.Write(0x00, payload, true)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	declared, n, err := ReadVarInt(frame, 0)
	if err != nil || declared != 5 {
		t.Fatalf("declared length = (%d, %v), want 5", declared, err)
	}
	size, m, err := ReadVarInt(frame, n)
	if err != nil || int(size) != len(frame)-n-m {
		t.Fatalf("compressed length = (%d, %v), want %d", size, err, len(frame)-n-m)
	}
}

func TestFramerUncompressedLengthMismatch(t *testing.T) {
	tests := []struct {
		name     string
		declared byte
	}{
		{"declared_shorter", 4},
		{"declared_longer", 6},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			frame := append([]byte{tc.declared}, compressedFrame[1:]...)
			_, err := NewFramer(ZlibCompression, 0).Read(frame, true)
			if !errors.Is(err, ErrUncompressedLengthMismatch) {
				t.Errorf("Read() error = %v, want %v", err, ErrUncompressedLengthMismatch)
			}
		})
	}
}

func TestFramerSnappyLengthMismatch(t *testing.T) {
	f := NewFramer(SnappyCompression, 0)
	frame, err := f.Write(0x01, payload, true)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	frame[0] = 0x02
	if _, err := f.Read(frame, true); !errors.Is(err, ErrUncompressedLengthMismatch) {
		t.Errorf("Read() error = %v, want %v", err, ErrUncompressedLengthMismatch)
	}
}

func TestFramerParseIncomplete(t *testing.T) {
	f := NewFramer(nil, 0)
	full, _ := f.Write(0x10, payload, false)
	compressed, _ := f.Write(0x10, payload, true)

	for i := 0; i < len(full); i++ {
		if _, _, err := f.Parse(full[:i], false); !errors.Is(err, ErrIncompleteFrame) {
			t.Errorf("Parse(%d of %d bytes) error = %v, want %v", i, len(full), err, ErrIncompleteFrame)
		}
	}
	for i := 0; i < len(compressed); i++ {
		if _, _, err := f.Parse(compressed[:i], true); !errors.Is(err, ErrIncompleteFrame) {
			t.Errorf("Parse(%d of %d compressed bytes) error = %v, want %v", i, len(compressed), err, ErrIncompleteFrame)
		}
	}

	if _, err := f.Read(append(full, full[:3]...), false); !errors.Is(err, ErrIncompleteFrame) {
		t.Errorf("Read() with trailing partial frame error = %v, want %v", err, ErrIncompleteFrame)
	}
}

func TestFramerParseReportsConsumed(t *testing.T) {
	f := NewFramer(nil, 0)
	frame, _ := f.Write(0x10, payload, false)
	buf := append(frame, 0x01, 0x02)

	_, n, err := f.Parse(buf, false)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if n != len(frame) {
		t.Errorf("Parse() consumed %d bytes, want %d", n, len(frame))
	}
}

func TestFramerMalformed(t *testing.T) {
	tests := []struct {
		name       string
		buf        []byte
		compressed bool
		want       error
	}{
		{"empty_frame", []byte{0x00}, false, ErrMalformedFrame},
		{"negative_length", []byte{0xff, 0xff, 0xff, 0xff, 0x0f}, false, ErrMalformedFrame},
		{"id_overruns_frame", []byte{0x01, 0x80}, false, ErrMalformedFrame},
		{"oversized_id", []byte{0x06, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01}, false, ErrVarIntTooLarge},
		{"oversized_length", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x01}, false, ErrVarIntTooLarge},
		{"negative_compressed_length", []byte{0x05, 0xff, 0xff, 0xff, 0xff, 0x0f}, true, ErrMalformedFrame},
		{"too_large", []byte{0x80, 0x80, 0x80, 0x01}, false, ErrFrameTooLarge},
		{"too_large_declared", []byte{0x80, 0x80, 0x80, 0x01, 0x01, 0x00}, true, ErrFrameTooLarge},
	}

	f := NewFramer(nil, 0)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.Parse(tc.buf, tc.compressed)
			if !errors.Is(err, tc.want) {
				t.Errorf("Parse(%x) error = %v, want %v", tc.buf, err, tc.want)
			}
		})
	}
}

func TestFramerWriteTooLarge(t *testing.T) {
	f := NewFramer(nil, 16)
	if _, err := f.Write(0x00, make([]byte, 16), false); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("Write() error = %v, want %v", err, ErrFrameTooLarge)
	}
	if _, err := f.Write(0x00, make([]byte, 15), false); err != nil {
		t.Errorf("Write() at limit error = %v", err)
	}
}

func TestFramerWriteCompressedTooLarge(t *testing.T) {
	noise := make([]byte, 1020)
	rand.New(rand.NewSource(3)).Read(noise)

	f := NewFramer(nil, 1024)
	if _, err := f.Write(0x01, noise, true); !errors.Is(err, ErrFrameTooLarge) {
		t.Errorf("Write() error = %v, want %v", err, ErrFrameTooLarge)
	}
	frame, err := f.Write(0x01, make([]byte, 1020), true)
	if err != nil {
		t.Fatalf("Write() compressible error = %v", err)
	}
	if _, err := f.Read(frame, true); err != nil {
		t.Errorf("Read() error = %v", err)
	}
}

func TestFramerPayloadDoesNotAlias(t *testing.T) {
	f := NewFramer(nil, 0)
	frame, _ := f.Write(0x00, payload, false)
	pk, _, err := f.Parse(frame, false)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	frame[2] = 0x00
	if !bytes.Equal(pk.Payload, payload) {
		t.Errorf("payload changed with source buffer: %x", pk.Payload)
	}
}
