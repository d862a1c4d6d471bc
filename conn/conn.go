package conn

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/minepress/minepress/internal"
	"github.com/minepress/minepress/packet"
	"github.com/minepress/minepress/protocol"
)

type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// Conn is a connection to a server. It frames packets written to it, reassembles frames read from it and
// decodes them through its pool.
type Conn struct {
	conn io.ReadWriteCloser
	opts Opts

	reader *protocol.Reader

	writer  *protocol.Writer
	writeMu sync.Mutex

	pool   packet.Pool
	logger *slog.Logger

	once   sync.Once
	closed chan struct{}
}

// NewConn creates a new Conn with the conn and pool passed.
func NewConn(conn io.ReadWriteCloser, pool packet.Pool, logger *slog.Logger, opts Opts) *Conn {
	if logger == nil {
		logger = slog.Default()
	}
	framer := protocol.NewFramer(opts.Compression, opts.MaxPacketSize)
	return &Conn{
		conn: conn,
		opts: opts,

		reader: protocol.NewReader(conn, framer),
		writer: protocol.NewWriter(conn, framer),

		pool:   pool,
		logger: logger,

		closed: make(chan struct{}),
	}
}

// WritePacket writes a packet to the connection, compressing it if state says so. It returns once the
// transport accepted the frame, or with a *protocol.TransportError if it did not.
func (c *Conn) WritePacket(state State, pk packet.ClientPacket) error {
	select {
	case <-c.closed:
		return &protocol.TransportError{Op: "write", Err: net.ErrClosed}
	default:
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	buf := internal.BufferPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		internal.BufferPool.Put(buf)
	}()

	pk.Encode(buf)
	if d, ok := c.conn.(writeDeadliner); ok && c.opts.WriteTimeout > 0 {
		if err := d.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout)); err != nil {
			return &protocol.TransportError{Op: "write", Err: err}
		}
	}
	if err := c.writer.WritePacket(pk.ID(), buf.Bytes(), state.Compression); err != nil {
		return err
	}
	c.logger.Debug("wrote packet", "id", pk.ID(), "size", buf.Len(), "compressed", state.Compression)
	return nil
}

// ReadPacket reads the next frame from the connection.
func (c *Conn) ReadPacket(state State) (protocol.RawPacket, error) {
	if err := c.prepareRead(); err != nil {
		return protocol.RawPacket{}, err
	}
	pk, err := c.reader.ReadPacket(state.Compression)
	if err != nil {
		return protocol.RawPacket{}, c.readError(err)
	}
	c.logger.Debug("read packet", "id", pk.ID, "size", len(pk.Payload), "compressed", pk.WasCompressed)
	return pk, nil
}

// ReadPackets waits until at least one frame is complete and returns every complete frame received so far.
func (c *Conn) ReadPackets(state State) ([]protocol.RawPacket, error) {
	if err := c.prepareRead(); err != nil {
		return nil, err
	}
	packets, err := c.reader.ReadPackets(state.Compression)
	if err != nil {
		return nil, c.readError(err)
	}
	c.logger.Debug("read packets", "count", len(packets))
	return packets, nil
}

// Decode decodes a raw packet using the pool of the connection.
func (c *Conn) Decode(pk protocol.RawPacket) (packet.ServerPacket, error) {
	return c.pool.Decode(pk)
}

// Close ...
func (c *Conn) Close() (err error) {
	c.once.Do(func() {
		close(c.closed)
		err = c.conn.Close()
	})
	return
}

func (c *Conn) prepareRead() error {
	select {
	case <-c.closed:
		return &protocol.TransportError{Op: "read", Err: net.ErrClosed}
	default:
	}

	if d, ok := c.conn.(readDeadliner); ok && c.opts.ReadTimeout > 0 {
		if err := d.SetReadDeadline(time.Now().Add(c.opts.ReadTimeout)); err != nil {
			return &protocol.TransportError{Op: "read", Err: err}
		}
	}
	return nil
}

// readError reports a read failing because the connection was closed locally as net.ErrClosed.
func (c *Conn) readError(err error) error {
	var transportErr *protocol.TransportError
	if !errors.As(err, &transportErr) {
		return err
	}
	select {
	case <-c.closed:
		return &protocol.TransportError{Op: "read", Err: net.ErrClosed}
	default:
		return err
	}
}
