package openpermit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/openpermit/openpermit/internal/logging"
	"github.com/openpermit/openpermit/pkg/domain"
	"github.com/openpermit/openpermit/pkg/ports"
	"github.com/openpermit/openpermit/pkg/protocol"
	"github.com/openpermit/openpermit/pkg/worker"
)

// Client is the high-level entry point for OpenPermit.
// It is safe for concurrent use.
type Client struct {
	launcher   Launcher
	workerOpts []worker.Option
	logger     *slog.Logger
	metrics    *Metrics

	// ctx bounds the worker and the receive loop.
	ctx    context.Context
	cancel context.CancelFunc

	startOnce sync.Once
	ready     chan struct{}
	readyOnce sync.Once
	initErr   error

	nextID atomic.Uint64

	mu      sync.Mutex
	conn    ports.Conn
	pending map[uint64]chan reply
	closed  bool
	broken  error
}

type reply struct {
	msg protocol.Message
	err error
}

// New creates a client. The worker is not started until Init or the first call.
func New(opts ...Option) *Client {
	c := &Client{
		ready:   make(chan struct{}),
		pending: make(map[uint64]chan reply),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.NewNop()
	}
	if c.launcher == nil {
		c.launcher = InProcess(c.workerOpts...)
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c
}

// Init starts the worker and waits for its ready signal.
// Concurrent and repeated calls share a single start.
func (c *Client) Init(ctx context.Context) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return domain.ErrClientClosed
	}

	c.startOnce.Do(func() { go c.start() })

	select {
	case <-c.ready:
		return c.initErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) start() {
	conn, err := c.launcher.Launch(c.ctx, c.logger)
	if err != nil {
		c.markReady(fmt.Errorf("failed to launch worker: %w", err))
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		_ = conn.Close()
		c.markReady(domain.ErrClientClosed)
		return
	}
	c.conn = conn
	c.mu.Unlock()

	c.logger.Debug("Worker launched, waiting for ready signal")
	go c.receive(conn)
}

// markReady resolves Init exactly once.
func (c *Client) markReady(err error) {
	c.readyOnce.Do(func() {
		c.initErr = err
		close(c.ready)
	})
}

func (c *Client) receive(conn ports.Conn) {
	for {
		frame, err := conn.Recv(c.ctx)
		if err != nil {
			if c.ctx.Err() == nil && !errors.Is(err, ports.ErrConnClosed) {
				c.logger.Error("Receive failed", "error", err)
			}
			if errors.Is(err, ports.ErrConnClosed) || c.ctx.Err() != nil {
				err = domain.ErrClientClosed
			}
			c.mu.Lock()
			c.broken = err
			c.mu.Unlock()
			c.markReady(fmt.Errorf("worker channel closed before ready: %w", err))
			c.failAll(err)
			return
		}

		msg, err := protocol.DecodeMessage(frame)
		if err != nil {
			c.logger.Warn("Dropping undecodable message", "error", err)
			c.metrics.stray()
			continue
		}

		if msg.IsReady() {
			select {
			case <-c.ready:
				c.logger.Debug("Ignoring duplicate ready signal")
			default:
				c.logger.Debug("Worker ready")
				c.markReady(nil)
			}
			continue
		}

		c.deliver(msg)
	}
}

func (c *Client) deliver(msg protocol.Message) {
	id, ok := protocol.ParseToken(msg.CallbackID)

	var ch chan reply
	if ok {
		c.mu.Lock()
		ch = c.pending[id]
		delete(c.pending, id)
		c.metrics.setPending(len(c.pending))
		c.mu.Unlock()
	}

	if ch == nil {
		c.logger.Debug("Ignoring stray message",
			"error", domain.ErrChannel,
			"callback_id", string(msg.CallbackID),
		)
		c.metrics.stray()
		return
	}
	ch <- reply{msg: msg}
}

// failAll resolves every outstanding call with err.
func (c *Client) failAll(err error) {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[uint64]chan reply)
	c.metrics.setPending(0)
	c.mu.Unlock()

	for _, ch := range pending {
		ch <- reply{err: err}
	}
}

func (c *Client) forget(id uint64) {
	c.mu.Lock()
	delete(c.pending, id)
	c.metrics.setPending(len(c.pending))
	c.mu.Unlock()
}

// call sends one request and waits for its response.
// If ctx ends first the call is abandoned; a late response is then treated as stray.
func (c *Client) call(ctx context.Context, action string, payload any) (msg protocol.Message, err error) {
	defer func() { c.metrics.call(action, err) }()

	if err := c.Init(ctx); err != nil {
		return protocol.Message{}, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return protocol.Message{}, fmt.Errorf("failed to encode %s payload: %w", action, err)
	}

	id := c.nextID.Add(1)
	frame, err := protocol.EncodeRequest(protocol.Request{
		CallbackID: protocol.Token(id),
		Action:     action,
		Payload:    data,
	})
	if err != nil {
		return protocol.Message{}, err
	}

	ch := make(chan reply, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return protocol.Message{}, domain.ErrClientClosed
	}
	if c.broken != nil {
		c.mu.Unlock()
		return protocol.Message{}, c.broken
	}
	c.pending[id] = ch
	c.metrics.setPending(len(c.pending))
	conn := c.conn
	c.mu.Unlock()

	if err := conn.Send(ctx, frame); err != nil {
		c.forget(id)
		if errors.Is(err, ports.ErrConnClosed) {
			return protocol.Message{}, domain.ErrClientClosed
		}
		return protocol.Message{}, fmt.Errorf("failed to send %s: %w", action, err)
	}

	select {
	case r := <-ch:
		if r.err != nil {
			return protocol.Message{}, r.err
		}
		if !r.msg.Success {
			return r.msg, &CallError{Action: action, Code: r.msg.Code, Message: r.msg.Error}
		}
		return r.msg, nil
	case <-ctx.Done():
		c.forget(id)
		return protocol.Message{}, ctx.Err()
	}
}

// CreateNode asks the worker to build a node from opts.
func (c *Client) CreateNode(ctx context.Context, opts domain.NodeOptions) (*domain.Node, error) {
	msg, err := c.call(ctx, protocol.ActionCreateNode, opts)
	if err != nil {
		return nil, err
	}
	return domain.ParseNode(msg.Node)
}

// ValidateNode checks the structural requirements of a node.
func (c *Client) ValidateNode(ctx context.Context, in domain.NodeInput) (domain.ValidationResult, error) {
	canonical, err := in.Canonical()
	if err != nil {
		return domain.ValidationResult{}, err
	}
	msg, err := c.call(ctx, protocol.ActionValidateNode, map[string]any{"node": canonical})
	if err != nil {
		return domain.ValidationResult{}, err
	}

	var res domain.ValidationResult
	if err := json.Unmarshal(msg.Results, &res); err != nil {
		return domain.ValidationResult{}, fmt.Errorf("failed to decode validation result: %w", err)
	}
	return res, nil
}

// CreateCrosswalk asks the worker for a crosswalk between source and target.
func (c *Client) CreateCrosswalk(ctx context.Context, source, target domain.NodeRef) (domain.Crosswalk, error) {
	msg, err := c.call(ctx, protocol.ActionCreateCrosswalk, map[string]any{
		"source": source,
		"target": target,
	})
	if err != nil {
		return domain.Crosswalk{}, err
	}

	var cw domain.Crosswalk
	if err := json.Unmarshal(msg.Crosswalk, &cw); err != nil {
		return domain.Crosswalk{}, fmt.Errorf("failed to decode crosswalk: %w", err)
	}
	return cw, nil
}

// Close stops the worker and fails every outstanding call with domain.ErrClientClosed.
// It is idempotent.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	conn := c.conn
	c.mu.Unlock()

	c.cancel()
	c.markReady(domain.ErrClientClosed)
	c.failAll(domain.ErrClientClosed)

	if conn != nil {
		return conn.Close()
	}
	return nil
}
