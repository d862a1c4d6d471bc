package protocol

import (
	"io"
	"math"
)

const (
	segmentBits = 0x7f
	continueBit = 0x80

	// MaxVarIntLen is the maximum number of bytes a 32-bit VarInt occupies.
	MaxVarIntLen = 5
)

// ReadVarInt decodes a VarInt starting at offset in buf. It returns the value and the number of bytes consumed.
// The accumulator is a uint32, so a set bit 31 yields a negative value once reinterpreted as int32.
// io.ErrUnexpectedEOF is returned if buf ends before the final byte of the VarInt.
func ReadVarInt(buf []byte, offset int) (int32, int, error) {
	var (
		value  uint32
		shift  uint
		cursor int
	)
	for {
		if offset+cursor >= len(buf) || offset < 0 {
			return 0, 0, io.ErrUnexpectedEOF
		}
		b := buf[offset+cursor]
		cursor++

		value |= uint32(b&segmentBits) << shift
		if b&continueBit == 0 {
			return int32(value), cursor, nil
		}
		shift += 7
		if shift >= 32 {
			return 0, 0, ErrVarIntTooLarge
		}
	}
}

// EncodeVarInt encodes v as a VarInt. Values outside [math.MinInt32, math.MaxInt32] are rejected with
// ErrVarIntOutOfRange.
func EncodeVarInt(v int64) ([]byte, error) {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return nil, ErrVarIntOutOfRange
	}
	return AppendVarInt(make([]byte, 0, MaxVarIntLen), int32(v)), nil
}

// AppendVarInt appends the canonical encoding of v to dst and returns the extended slice.
func AppendVarInt(dst []byte, v int32) []byte {
	u := uint32(v)
	for u&^segmentBits != 0 {
		dst = append(dst, byte(u&segmentBits)|continueBit)
		u >>= 7
	}
	return append(dst, byte(u))
}

// VarIntSize returns the number of bytes AppendVarInt writes for v.
func VarIntSize(v int32) int {
	u := uint32(v)
	n := 1
	for u&^segmentBits != 0 {
		n++
		u >>= 7
	}
	return n
}
