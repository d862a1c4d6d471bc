package protocol

import (
	"encoding/binary"
	"io"
)

// ReadUnsignedShort decodes a big-endian uint16 starting at offset in buf.
func ReadUnsignedShort(buf []byte, offset int) (uint16, int, error) {
	if offset < 0 || len(buf)-offset < 2 {
		return 0, 0, io.ErrUnexpectedEOF
	}
	return binary.BigEndian.Uint16(buf[offset:]), 2, nil
}

// AppendUnsignedShort appends v in big-endian byte order.
func AppendUnsignedShort(dst []byte, v uint16) []byte {
	return binary.BigEndian.AppendUint16(dst, v)
}
