package packet

import (
	"bytes"

	"github.com/minepress/minepress/protocol"
)

func WriteVarInt(buf *bytes.Buffer, v int32) {
	var scratch [protocol.MaxVarIntLen]byte
	buf.Write(protocol.AppendVarInt(scratch[:0], v))
}

func WriteString(buf *bytes.Buffer, s string) {
	WriteVarInt(buf, int32(len(s)))
	buf.WriteString(s)
}

func WriteUnsignedShort(buf *bytes.Buffer, v uint16) {
	var scratch [2]byte
	buf.Write(protocol.AppendUnsignedShort(scratch[:0], v))
}

func ReadVarInt(buf *bytes.Buffer) (int32, error) {
	v, n, err := protocol.ReadVarInt(buf.Bytes(), 0)
	if err != nil {
		return 0, err
	}
	buf.Next(n)
	return v, nil
}

func ReadString(buf *bytes.Buffer) (string, error) {
	s, n, err := protocol.ReadString(buf.Bytes(), 0)
	if err != nil {
		return "", err
	}
	buf.Next(n)
	return s, nil
}

func ReadUnsignedShort(buf *bytes.Buffer) (uint16, error) {
	v, n, err := protocol.ReadUnsignedShort(buf.Bytes(), 0)
	if err != nil {
		return 0, err
	}
	buf.Next(n)
	return v, nil
}
