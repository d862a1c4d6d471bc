package packet

import "bytes"

// ClientPacket is a packet sent from the client to the server.
type ClientPacket interface {
	// ID returns the packet ID written in front of the payload.
	ID() int32
	// Encode writes the payload of the packet to buf.
	Encode(buf *bytes.Buffer)
}

// ServerPacket is a packet received from the server.
type ServerPacket interface {
	// ID returns the packet ID the packet is registered under.
	ID() int32
	// Decode reads the payload of the packet from buf.
	Decode(buf *bytes.Buffer) error
}
