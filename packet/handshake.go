package packet

import (
	"bytes"
	"fmt"
)

// NextState is the protocol phase the client asks to switch to after a Handshake.
type NextState int32

const (
	NextStateStatus NextState = 1
	NextStateLogin  NextState = 2
)

// Valid reports whether s is a phase a Handshake may request.
func (s NextState) Valid() bool {
	return s == NextStateStatus || s == NextStateLogin
}

// String ...
func (s NextState) String() string {
	switch s {
	case NextStateStatus:
		return "Status"
	case NextStateLogin:
		return "Login"
	default:
		return fmt.Sprintf("NextState(%d)", int32(s))
	}
}

// Handshake is the first packet sent on a connection. It announces the protocol version and the address the
// client used to reach the server, and selects the phase to continue in.
type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	// NextState must be NextStateStatus or NextStateLogin. Encode writes whatever it holds.
	NextState NextState
}

// ID ...
func (pk *Handshake) ID() int32 {
	return IDHandshake
}

// Encode ...
func (pk *Handshake) Encode(buf *bytes.Buffer) {
	WriteVarInt(buf, pk.ProtocolVersion)
	WriteString(buf, pk.ServerAddress)
	WriteUnsignedShort(buf, pk.ServerPort)
	WriteVarInt(buf, int32(pk.NextState))
}

// Decode ...
func (pk *Handshake) Decode(buf *bytes.Buffer) (err error) {
	if pk.ProtocolVersion, err = ReadVarInt(buf); err != nil {
		return fmt.Errorf("protocol version: %w", err)
	}
	if pk.ServerAddress, err = ReadString(buf); err != nil {
		return fmt.Errorf("server address: %w", err)
	}
	if pk.ServerPort, err = ReadUnsignedShort(buf); err != nil {
		return fmt.Errorf("server port: %w", err)
	}
	next, err := ReadVarInt(buf)
	if err != nil {
		return fmt.Errorf("next state: %w", err)
	}
	pk.NextState = NextState(next)
	if !pk.NextState.Valid() {
		return fmt.Errorf("invalid next state %d", next)
	}
	return nil
}
