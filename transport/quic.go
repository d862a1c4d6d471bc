package transport

import (
	"context"
	"crypto/tls"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/quic-go/quic-go"
	"github.com/quic-go/quic-go/qlog"
)

// QUIC implements the Transport interface on top of QUIC streams. One QUIC connection is kept per address
// and every Dial opens a new bidirectional stream on it.
type QUIC struct {
	tlsConfig *tls.Config
	logger    *slog.Logger

	connections map[string]quic.Connection
	mu          sync.Mutex
}

// NewQUIC creates a new QUIC transport instance. A nil tlsConfig skips certificate verification and
// negotiates the "minepress" application protocol.
func NewQUIC(logger *slog.Logger, tlsConfig *tls.Config) *QUIC {
	if tlsConfig == nil {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: true,
			NextProtos:         []string{"minepress"},
		}
	}
	return &QUIC{
		tlsConfig:   tlsConfig,
		logger:      logger,
		connections: make(map[string]quic.Connection),
	}
}

// Dial ...
func (q *QUIC) Dial(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	conn, err := q.connection(ctx, addr)
	if err != nil {
		return nil, err
	}

	stream, err := conn.OpenStreamSync(ctx)
	if err != nil {
		_ = conn.CloseWithError(0, "failed to open stream")
		return nil, err
	}
	return stream, nil
}

func (q *QUIC) connection(ctx context.Context, addr string) (quic.Connection, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if conn, ok := q.connections[addr]; ok {
		return conn, nil
	}

	conn, err := quic.DialAddr(ctx, addr, q.tlsConfig, &quic.Config{
		MaxIdleTimeout:                 time.Second * 10,
		InitialStreamReceiveWindow:     1024 * 1024,
		InitialConnectionReceiveWindow: 1024 * 1024 * 4,
		InitialPacketSize:              1350,
		Tracer:                         qlog.DefaultConnectionTracer,
	})
	if err != nil {
		return nil, err
	}

	q.connections[addr] = conn
	q.logger.Debug("established connection", "addr", addr, "transport", "quic")
	go watch(conn.Context(), q.logger, addr, func() {
		q.mu.Lock()
		delete(q.connections, addr)
		q.mu.Unlock()
	})
	return conn, nil
}
