package transport

import (
	"context"
	"errors"
	"log/slog"
)

// watch waits for a multiplexed connection to end, runs forget and logs why it ended.
func watch(ctx context.Context, logger *slog.Logger, addr string, forget func()) {
	<-ctx.Done()
	forget()

	cause := context.Cause(ctx)
	if cause != nil && !errors.Is(cause, context.Canceled) {
		logger.Error("closed connection", "addr", addr, "err", cause)
		return
	}
	logger.Debug("closed connection", "addr", addr)
}
