package openpermit

import (
	"log/slog"

	"github.com/openpermit/openpermit/pkg/ports"
	"github.com/openpermit/openpermit/pkg/worker"
)

// Option defines a functional option for configuring the Client.
type Option func(*Client)

// WithLauncher sets how the worker is started.
func WithLauncher(l Launcher) Option {
	return func(c *Client) {
		c.launcher = l
	}
}

// WithConn attaches to a connection served by an already running worker.
func WithConn(conn ports.Conn) Option {
	return WithLauncher(Attach(conn))
}

// WithWorkerOptions configures the default in-process worker.
// Ignored when a launcher is set.
func WithWorkerOptions(opts ...worker.Option) Option {
	return func(c *Client) {
		c.workerOpts = append(c.workerOpts, opts...)
	}
}

// WithLogger sets a custom structured logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics enables Prometheus instrumentation of the client.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}
