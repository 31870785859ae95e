package memory

import (
	"context"
	"sync"

	"github.com/openpermit/openpermit/pkg/ports"
)

// DefaultBuffer is the per-direction capacity used when Pipe is given a non-positive size.
const DefaultBuffer = 64

// pipe is the state shared by both ends.
type pipe struct {
	closed    chan struct{}
	closeOnce sync.Once
}

func (p *pipe) close() {
	p.closeOnce.Do(func() { close(p.closed) })
}

// End implements ports.Conn over Go channels.
// Safe for concurrent Send.
type End struct {
	p   *pipe
	in  <-chan []byte
	out chan<- []byte
}

// Pipe creates a connected pair of in-process ends.
// Closing either end closes both.
func Pipe(buffer int) (*End, *End) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	p := &pipe{closed: make(chan struct{})}
	ab := make(chan []byte, buffer)
	ba := make(chan []byte, buffer)
	return &End{p: p, in: ba, out: ab}, &End{p: p, in: ab, out: ba}
}

// Send copies frame to the peer.
func (e *End) Send(ctx context.Context, frame []byte) error {
	select {
	case <-e.p.closed:
		return ports.ErrConnClosed
	default:
	}

	// Copy so callers may reuse their buffer.
	cp := append([]byte(nil), frame...)
	select {
	case e.out <- cp:
		return nil
	case <-e.p.closed:
		return ports.ErrConnClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Recv blocks for the next frame.
func (e *End) Recv(ctx context.Context) ([]byte, error) {
	select {
	case <-e.p.closed:
		return nil, ports.ErrConnClosed
	default:
	}

	select {
	case frame := <-e.in:
		return frame, nil
	case <-e.p.closed:
		return nil, ports.ErrConnClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close closes both ends.
func (e *End) Close() error {
	e.p.close()
	return nil
}

var _ ports.Conn = (*End)(nil)
