package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/minepress/minepress/conn"
	"github.com/minepress/minepress/packet"
	"github.com/minepress/minepress/protocol"
	tr "github.com/minepress/minepress/transport"
	"github.com/minepress/minepress/util"
	"github.com/scylladb/go-set/i32set"
)

// ErrNotConnected is returned by operations on a Client that has no open connection.
var ErrNotConnected = errors.New("client: not connected")

// Client is a connection to a single game server together with the state it runs in.
type Client struct {
	opts      util.Opts
	transport tr.Transport
	logger    *slog.Logger

	pool    packet.Pool
	handler Handler
	ignored *i32set.Set

	conn  *conn.Conn
	state conn.State
}

// New creates a Client. Nil opts select util.DefaultOpts, a nil logger selects slog.Default and a nil
// transport selects TCP.
func New(opts *util.Opts, logger *slog.Logger, transport tr.Transport) *Client {
	if opts == nil {
		opts = util.DefaultOpts()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if transport == nil {
		transport = tr.NewTCP()
	}
	return &Client{
		opts:      *opts,
		transport: transport,
		logger:    logger,

		pool:    packet.NewServerPool(),
		handler: NopHandler{},
		ignored: i32set.New(opts.IgnoredPackets...),
	}
}

// Connect dials the server configured in the options.
func (c *Client) Connect(ctx context.Context) error {
	if c.conn != nil {
		return errors.New("client: already connected")
	}

	compression, err := compressionFromName(c.opts.Compression)
	if err != nil {
		return err
	}

	addr := c.opts.ServerAddr()
	rwc, err := c.transport.Dial(ctx, addr)
	if err != nil {
		c.logger.Error("failed to dial server", "addr", addr, "err", err)
		return &protocol.TransportError{Op: "dial", Err: err}
	}

	c.conn = conn.NewConn(rwc, c.pool, c.logger.With("addr", addr), conn.Opts{
		Compression:   compression,
		MaxPacketSize: c.opts.MaxPacketSize,
		ReadTimeout:   c.opts.ReadTimeoutDuration(),
		WriteTimeout:  c.opts.WriteTimeoutDuration(),
	})
	c.state = conn.State{}
	c.logger.Info("connected to server", "addr", addr)
	return nil
}

// Handshake sends the handshake packet announcing the configured protocol version and address.
func (c *Client) Handshake(next packet.NextState) error {
	if !next.Valid() {
		return fmt.Errorf("client: invalid next state %v", next)
	}

	port := c.opts.Port
	if port == 0 {
		port = util.DefaultPort
	}
	return c.WritePacket(&packet.Handshake{
		ProtocolVersion: c.opts.ProtocolVersion,
		ServerAddress:   c.opts.Addr,
		ServerPort:      port,
		NextState:       next,
	})
}

// WritePacket writes a packet to the server using the current state.
func (c *Client) WritePacket(pk packet.ClientPacket) error {
	if c.conn == nil {
		return ErrNotConnected
	}
	return c.conn.WritePacket(c.state, pk)
}

// ReadPacketsAndReact reads the next batch of packets from the server and passes every decoded packet to the
// handler. Packets with an ignored ID are skipped. A packet without a registered decoder fails with
// *packet.UnimplementedPacketError. A compression change made by the handler applies from the next batch.
func (c *Client) ReadPacketsAndReact() error {
	if c.conn == nil {
		return ErrNotConnected
	}

	packets, err := c.conn.ReadPackets(c.state)
	if err != nil {
		return err
	}
	for _, raw := range packets {
		if c.ignored.Has(raw.ID) {
			c.logger.Debug("ignored packet", "id", raw.ID)
			continue
		}

		pk, err := c.conn.Decode(raw)
		if err != nil {
			return err
		}
		if err := c.handler.HandlePacket(c, pk); err != nil {
			return fmt.Errorf("handle packet 0x%02x: %w", raw.ID, err)
		}
	}
	return nil
}

// SetCompression enables or disables compression for frames sent and received after the call.
func (c *Client) SetCompression(enabled bool) {
	c.state.Compression = enabled
	c.logger.Debug("updated compression", "enabled", enabled)
}

// State ...
func (c *Client) State() conn.State {
	return c.state
}

// Conn ...
func (c *Client) Conn() *conn.Conn {
	return c.conn
}

// Pool returns the pool server packets are decoded with. Factories added to it are used by later reads.
func (c *Client) Pool() packet.Pool {
	return c.pool
}

// Handler ...
func (c *Client) Handler() Handler {
	return c.handler
}

// SetHandler ...
func (c *Client) SetHandler(handler Handler) {
	if handler == nil {
		handler = NopHandler{}
	}
	c.handler = handler
}

// Opts ...
func (c *Client) Opts() util.Opts {
	return c.opts
}

// Close closes the connection to the server, if any. The client may Connect again afterwards.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.logger.Info("closed connection", "addr", c.opts.ServerAddr())
	return err
}

func compressionFromName(name string) (protocol.Compression, error) {
	switch strings.ToLower(name) {
	case "", "zlib":
		return protocol.ZlibCompression, nil
	case "snappy":
		return protocol.SnappyCompression, nil
	default:
		return nil, fmt.Errorf("client: unknown compression %q", name)
	}
}
