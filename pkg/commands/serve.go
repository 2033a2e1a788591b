package commands

import (
	"context"
	"log/slog"

	"hexatodo/pkg/ports"
	"hexatodo/pkg/server"
)

// HandleServeCommand exposes storage over REST until ctx is cancelled
func HandleServeCommand(ctx context.Context, storage ports.TodoStorage, logger *slog.Logger, addr string) error {
	return server.New(storage, logger).ListenAndServe(ctx, addr)
}
