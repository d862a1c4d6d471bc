package client

import "github.com/minepress/minepress/packet"

// Handler reacts to decoded server packets.
type Handler interface {
	// HandlePacket is called for every decoded packet, in the order packets were received. Returning an error
	// stops processing of the remaining packets of the batch.
	HandlePacket(c *Client, pk packet.ServerPacket) error
}

// NopHandler ignores every packet.
type NopHandler struct{}

// HandlePacket ...
func (NopHandler) HandlePacket(*Client, packet.ServerPacket) error {
	return nil
}
