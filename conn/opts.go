package conn

import (
	"time"

	"github.com/minepress/minepress/protocol"
)

// Opts configures a Conn.
type Opts struct {
	// Compression is the backend used for compressed frames. Nil selects protocol.ZlibCompression.
	Compression protocol.Compression
	// MaxPacketSize is the largest length a frame may carry. Zero selects protocol.DefaultMaxPacketSize.
	MaxPacketSize int
	// ReadTimeout bounds each read from the transport. Zero disables it.
	ReadTimeout time.Duration
	// WriteTimeout bounds each write to the transport. Zero disables it.
	WriteTimeout time.Duration
}

// DefaultOpts ...
func DefaultOpts() Opts {
	return Opts{
		Compression:   protocol.ZlibCompression,
		MaxPacketSize: protocol.DefaultMaxPacketSize,
		ReadTimeout:   time.Second * 30,
		WriteTimeout:  time.Second * 10,
	}
}
