package transport

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/cooldogedev/spectral"
)

// Spectral implements the Transport interface on top of Spectral streams, keeping one Spectral connection
// per address and opening a stream per Dial.
type Spectral struct {
	logger *slog.Logger

	connections map[string]spectral.Connection
	mu          sync.Mutex
}

// NewSpectral creates a new Spectral transport instance.
func NewSpectral(logger *slog.Logger) *Spectral {
	return &Spectral{
		logger:      logger,
		connections: make(map[string]spectral.Connection),
	}
}

// Dial ...
func (s *Spectral) Dial(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	conn, err := s.connection(ctx, addr)
	if err != nil {
		return nil, err
	}

	stream, err := conn.OpenStream(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "failed to open stream")
		return nil, err
	}
	return stream, nil
}

func (s *Spectral) connection(ctx context.Context, addr string) (spectral.Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conn, ok := s.connections[addr]; ok {
		return conn, nil
	}

	conn, err := spectral.Dial(ctx, addr)
	if err != nil {
		return nil, err
	}

	s.connections[addr] = conn
	s.logger.Debug("established connection", "addr", addr, "transport", "spectral")
	go watch(conn.Context(), s.logger, addr, func() {
		s.mu.Lock()
		delete(s.connections, addr)
		s.mu.Unlock()
	})
	return conn, nil
}
