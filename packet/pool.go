package packet

import (
	"bytes"
	"fmt"

	"github.com/minepress/minepress/protocol"
)

// packets maps packet IDs of server packets to their respective factory functions.
var packets = map[int32]func() ServerPacket{}

// Register registers a server packet factory function for a given ID. Packets registered after a Pool was
// created are not added to it.
func Register(id int32, factory func() ServerPacket) {
	packets[id] = factory
}

// UnimplementedPacketError is returned when decoding a packet ID that has no registered factory.
type UnimplementedPacketError struct {
	ID int32
}

// Error ...
func (e *UnimplementedPacketError) Error() string {
	return fmt.Sprintf("packet: unimplemented packet 0x%02x", e.ID)
}

// Pool is a map holding server packet factory functions indexed by their ID.
type Pool map[int32]func() ServerPacket

// NewServerPool creates a new Pool populated with the registered server packet factories.
func NewServerPool() Pool {
	pool := Pool{}
	for id, factory := range packets {
		pool[id] = factory
	}
	return pool
}

// Decode decodes the payload of pk into the packet registered under its ID. Packets without a registered
// factory fail with *UnimplementedPacketError rather than being dropped.
func (p Pool) Decode(pk protocol.RawPacket) (ServerPacket, error) {
	factory, ok := p[pk.ID]
	if !ok {
		return nil, &UnimplementedPacketError{ID: pk.ID}
	}

	decoded := factory()
	if err := decoded.Decode(bytes.NewBuffer(pk.Payload)); err != nil {
		return nil, fmt.Errorf("decode packet 0x%02x: %w", pk.ID, err)
	}
	return decoded, nil
}
