package transport

import (
	"fmt"
	"log/slog"
	"strings"
)

// FromName returns the transport registered under name: tcp, quic, kcp or spectral.
func FromName(name string, logger *slog.Logger) (Transport, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch strings.ToLower(name) {
	case "", "tcp":
		return NewTCP(), nil
	case "quic":
		return NewQUIC(logger, nil), nil
	case "kcp":
		return NewKCP(logger), nil
	case "spectral":
		return NewSpectral(logger), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", name)
	}
}
