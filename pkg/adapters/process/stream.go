package process

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"syscall"

	"github.com/openpermit/openpermit/pkg/ports"
)

// MaxFrameSize bounds a single line read from the peer.
const MaxFrameSize = 16 << 20

const readBuffer = 64

// Stream implements ports.Conn over a line-oriented reader and writer.
// Safe for concurrent Send.
type Stream struct {
	w      io.Writer
	closer func() error

	frames  chan []byte
	drained chan struct{}
	readErr error

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error

	writeMu sync.Mutex
}

// NewStream starts reading frames from r. closer, if not nil, runs once on Close and
// should release both r and w.
func NewStream(r io.Reader, w io.Writer, closer func() error) *Stream {
	s := &Stream{
		w:       w,
		closer:  closer,
		frames:  make(chan []byte, readBuffer),
		drained: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go s.readLoop(r)
	return s
}

func (s *Stream) readLoop(r io.Reader) {
	defer close(s.drained)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxFrameSize)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		frame := append([]byte(nil), line...)
		select {
		case s.frames <- frame:
		case <-s.done:
			return
		}
	}
	s.readErr = sc.Err()
}

// Send writes frame followed by a newline. The write itself is not interruptible by ctx.
func (s *Stream) Send(ctx context.Context, frame []byte) error {
	select {
	case <-s.done:
		return ports.ErrConnClosed
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if bytes.IndexByte(frame, '\n') >= 0 {
		return fmt.Errorf("frame contains a newline")
	}

	line := make([]byte, 0, len(frame)+1)
	line = append(append(line, frame...), '\n')

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.w.Write(line); err != nil {
		if isClosed(err) {
			return ports.ErrConnClosed
		}
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

// Recv returns the next frame. Once the peer stops writing, buffered frames are
// still delivered before ErrConnClosed.
func (s *Stream) Recv(ctx context.Context) ([]byte, error) {
	select {
	case <-s.done:
		return nil, ports.ErrConnClosed
	default:
	}

	select {
	case frame := <-s.frames:
		return frame, nil
	case <-s.drained:
		select {
		case frame := <-s.frames:
			return frame, nil
		default:
		}
		if s.readErr != nil && !isClosed(s.readErr) {
			return nil, fmt.Errorf("%w: %v", ports.ErrConnClosed, s.readErr)
		}
		return nil, ports.ErrConnClosed
	case <-s.done:
		return nil, ports.ErrConnClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the stream and runs the closer. It is idempotent.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.closer != nil {
			s.closeErr = s.closer()
		}
	})
	return s.closeErr
}

func isClosed(err error) bool {
	return errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, syscall.EPIPE)
}

var _ ports.Conn = (*Stream)(nil)
