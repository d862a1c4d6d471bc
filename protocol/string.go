package protocol

import (
	"io"
	"unicode/utf8"
)

// ReadString decodes a VarInt-prefixed UTF-8 string starting at offset in buf. The prefix is a byte count.
// The number of bytes consumed covers both the prefix and the payload.
func ReadString(buf []byte, offset int) (string, int, error) {
	length, n, err := ReadVarInt(buf, offset)
	if err != nil {
		return "", 0, err
	}
	if length < 0 {
		return "", 0, ErrNegativeStringLength
	}

	start := offset + n
	if int(length) > len(buf)-start {
		return "", 0, io.ErrUnexpectedEOF
	}
	data := buf[start : start+int(length)]
	if !utf8.Valid(data) {
		return "", 0, ErrInvalidUTF8
	}
	return string(data), n + int(length), nil
}

// AppendString appends s prefixed with its UTF-8 byte length.
func AppendString(dst []byte, s string) []byte {
	dst = AppendVarInt(dst, int32(len(s)))
	return append(dst, s...)
}

// EncodeString returns the encoding of s.
func EncodeString(s string) []byte {
	return AppendString(make([]byte, 0, VarIntSize(int32(len(s)))+len(s)), s)
}
