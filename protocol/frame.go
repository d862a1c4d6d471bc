package protocol

import (
	"errors"
	"fmt"
	"io"
)

// DefaultMaxPacketSize is the largest length a frame may declare, the largest value a 3-byte VarInt holds.
const DefaultMaxPacketSize = 1<<21 - 1

// RawPacket is one parsed frame. Payload never includes the packet ID.
type RawPacket struct {
	ID            int32
	Payload       []byte
	WasCompressed bool
}

// Framer builds and parses frames around (id, payload) pairs.
//
// Uncompressed frames are laid out as:
//
//	VarInt(len(VarInt(id)) + len(payload)) | VarInt(id) | payload
//
// Compressed frames are laid out as:
//
//	VarInt(len(body)) | VarInt(len(compressed)) | compressed
//
// where body is VarInt(id) | payload and compressed is body run through the Compression backend.
type Framer struct {
	compression Compression
	maxSize     int
}

// NewFramer returns a Framer compressing with the backend passed. A nil backend selects ZlibCompression and a
// non-positive maxSize selects DefaultMaxPacketSize.
func NewFramer(compression Compression, maxSize int) *Framer {
	if compression == nil {
		compression = ZlibCompression
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxPacketSize
	}
	return &Framer{compression: compression, maxSize: maxSize}
}

// Write returns the frame for id and payload.
func (f *Framer) Write(id int32, payload []byte, compressed bool) ([]byte, error) {
	return f.Append(nil, id, payload, compressed)
}

// Append appends the frame for id and payload to dst.
func (f *Framer) Append(dst []byte, id int32, payload []byte, compressed bool) ([]byte, error) {
	bodyLen := VarIntSize(id) + len(payload)
	if bodyLen > f.maxSize {
		return dst, fmt.Errorf("%w: %d bytes exceeds %d", ErrFrameTooLarge, bodyLen, f.maxSize)
	}

	if !compressed {
		dst = AppendVarInt(dst, int32(bodyLen))
		dst = AppendVarInt(dst, id)
		return append(dst, payload...), nil
	}

	body := make([]byte, 0, bodyLen)
	body = AppendVarInt(body, id)
	body = append(body, payload...)
	data, err := f.compression.Compress(body)
	if err != nil {
		return dst, err
	}
	if len(data) > f.maxSize {
		return dst, fmt.Errorf("%w: compressed %d bytes exceeds %d", ErrFrameTooLarge, len(data), f.maxSize)
	}
	dst = AppendVarInt(dst, int32(bodyLen))
	dst = AppendVarInt(dst, int32(len(data)))
	return append(dst, data...), nil
}

// Read parses every frame packed back to back in chunk. Frames are returned in wire order. A chunk ending in the
// middle of a frame fails with ErrIncompleteFrame; use a Reader to carry partial frames across reads.
func (f *Framer) Read(chunk []byte, compressed bool) ([]RawPacket, error) {
	var packets []RawPacket
	for offset := 0; offset < len(chunk); {
		pk, n, err := f.Parse(chunk[offset:], compressed)
		if err != nil {
			return nil, fmt.Errorf("frame at offset %d: %w", offset, err)
		}
		packets = append(packets, pk)
		offset += n
	}
	return packets, nil
}

// Parse parses the first frame in buf and returns it with the number of bytes it occupied. ErrIncompleteFrame
// is returned if buf does not yet hold the whole frame. The returned payload never aliases buf.
func (f *Framer) Parse(buf []byte, compressed bool) (RawPacket, int, error) {
	if compressed {
		return f.parseCompressed(buf)
	}
	return f.parseUncompressed(buf)
}

func (f *Framer) parseUncompressed(buf []byte) (RawPacket, int, error) {
	length, n, err := f.readLength(buf, 0)
	if err != nil {
		return RawPacket{}, 0, err
	}
	if length == 0 {
		return RawPacket{}, 0, fmt.Errorf("%w: empty frame", ErrMalformedFrame)
	}
	if len(buf)-n < length {
		return RawPacket{}, 0, ErrIncompleteFrame
	}

	body := buf[n : n+length]
	id, idLen, err := ReadVarInt(body, 0)
	if err != nil {
		return RawPacket{}, 0, bodyError(err)
	}
	payload := make([]byte, length-idLen)
	copy(payload, body[idLen:])
	return RawPacket{ID: id, Payload: payload}, n + length, nil
}

func (f *Framer) parseCompressed(buf []byte) (RawPacket, int, error) {
	declared, n, err := f.readLength(buf, 0)
	if err != nil {
		return RawPacket{}, 0, err
	}
	size, m, err := f.readLength(buf, n)
	if err != nil {
		return RawPacket{}, 0, err
	}
	offset := n + m
	if len(buf)-offset < size {
		return RawPacket{}, 0, ErrIncompleteFrame
	}

	body, err := f.compression.Decompress(buf[offset:offset+size], declared)
	if err != nil {
		return RawPacket{}, 0, err
	}
	if len(body) != declared {
		return RawPacket{}, 0, fmt.Errorf("%w: inflated %d, declared %d", ErrUncompressedLengthMismatch, len(body), declared)
	}

	id, idLen, err := ReadVarInt(body, 0)
	if err != nil {
		return RawPacket{}, 0, bodyError(err)
	}
	return RawPacket{ID: id, Payload: body[idLen:], WasCompressed: true}, offset + size, nil
}

// readLength reads a length prefix at offset, mapping a truncated prefix to ErrIncompleteFrame.
func (f *Framer) readLength(buf []byte, offset int) (int, int, error) {
	v, n, err := ReadVarInt(buf, offset)
	switch {
	case errors.Is(err, io.ErrUnexpectedEOF):
		return 0, 0, ErrIncompleteFrame
	case err != nil:
		return 0, 0, err
	case v < 0:
		return 0, 0, fmt.Errorf("%w: negative length %d", ErrMalformedFrame, v)
	case int(v) > f.maxSize:
		return 0, 0, fmt.Errorf("%w: %d bytes exceeds %d", ErrFrameTooLarge, v, f.maxSize)
	}
	return int(v), n, nil
}

// bodyError maps a VarInt running past the end of a complete frame body to ErrMalformedFrame.
func bodyError(err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: packet id overruns frame", ErrMalformedFrame)
	}
	return err
}
