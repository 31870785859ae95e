package worker

import (
	"log/slog"
	"time"
)

// Defaults.
const (
	DefaultValidationDelay = 10 * time.Millisecond
	DefaultMaxInFlight     = 32
	DefaultReplyTimeout    = 5 * time.Second
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(r *Runtime) {
		r.metrics = m
	}
}

// WithMaxInFlight bounds the number of requests handled concurrently.
func WithMaxInFlight(n int) Option {
	return func(r *Runtime) {
		if n > 0 {
			r.maxInFlight = n
		}
	}
}

// WithValidationDelay sets the minimum latency of VALIDATE_NODE. Zero disables it.
func WithValidationDelay(d time.Duration) Option {
	return func(r *Runtime) {
		if d >= 0 {
			r.validationDelay = d
		}
	}
}

// WithReplyTimeout bounds how long a single reply may take to send.
func WithReplyTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		if d > 0 {
			r.replyTimeout = d
		}
	}
}

// WithClock overrides the time source used for crosswalk timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Runtime) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator overrides how crosswalk ids are produced.
func WithIDGenerator(gen func() string) Option {
	return func(r *Runtime) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// WithHandler replaces the handler of a built-in action.
// Names that are not built in are ignored, since the reply has no slot for them.
func WithHandler(action string, h Handler) Option {
	return func(r *Runtime) {
		if h != nil && r.registry.Has(action) {
			r.registry.Register(action, h)
		}
	}
}
