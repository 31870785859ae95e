package ports

import (
	"context"
	"errors"
)

// ErrConnClosed is returned by Send and Recv once either end of a channel is closed.
var ErrConnClosed = errors.New("connection closed")

// Conn is one end of a bidirectional message channel.
// Frames are delivered in the order they were sent.
type Conn interface {
	// Send delivers a frame to the peer. Safe for concurrent use.
	Send(ctx context.Context, frame []byte) error

	// Recv blocks until a frame arrives, the context is done or the channel is closed.
	// Only one goroutine may call Recv at a time.
	Recv(ctx context.Context) ([]byte, error)

	// Close releases the channel. It is idempotent.
	Close() error
}
