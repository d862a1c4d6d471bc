package transport

import (
	"context"
	"io"
)

// Transport defines an interface for establishing the ordered, reliable byte stream a connection runs on.
type Transport interface {
	// Dial connects to the specified address and returns an io.ReadWriteCloser.
	// It returns an error if the connection cannot be established.
	Dial(ctx context.Context, addr string) (io.ReadWriteCloser, error)
}
