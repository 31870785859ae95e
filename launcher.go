package openpermit

import (
	"context"
	"errors"
	"log/slog"

	"github.com/openpermit/openpermit/pkg/adapters/memory"
	"github.com/openpermit/openpermit/pkg/ports"
	"github.com/openpermit/openpermit/pkg/worker"
)

// Launcher provides the client's end of a channel whose other end is served by a worker.
type Launcher interface {
	// Launch is called once. ctx lives as long as the client.
	Launch(ctx context.Context, logger *slog.Logger) (ports.Conn, error)
}

// LauncherFunc adapts a function to Launcher.
type LauncherFunc func(ctx context.Context, logger *slog.Logger) (ports.Conn, error)

// Launch calls f.
func (f LauncherFunc) Launch(ctx context.Context, logger *slog.Logger) (ports.Conn, error) {
	return f(ctx, logger)
}

// InProcess runs a worker runtime in a goroutine, connected through a memory pipe.
func InProcess(opts ...worker.Option) Launcher {
	return LauncherFunc(func(ctx context.Context, logger *slog.Logger) (ports.Conn, error) {
		clientEnd, workerEnd := memory.Pipe(0)
		rt := worker.New(workerEnd, append([]worker.Option{worker.WithLogger(logger)}, opts...)...)
		go func() {
			if err := rt.Run(ctx); err != nil {
				logger.Error("Worker stopped", "error", err)
			}
		}()
		return clientEnd, nil
	})
}

// Attach uses a connection whose worker is already running elsewhere.
func Attach(conn ports.Conn) Launcher {
	return LauncherFunc(func(context.Context, *slog.Logger) (ports.Conn, error) {
		if conn == nil {
			return nil, errors.New("attach: nil connection")
		}
		return conn, nil
	})
}
