package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/openpermit/openpermit/internal/logging"
	"github.com/openpermit/openpermit/pkg/domain"
	"github.com/openpermit/openpermit/pkg/ports"
	"github.com/openpermit/openpermit/pkg/protocol"
	"golang.org/x/sync/errgroup"
)

// ErrAlreadyRunning is returned when Run is called twice on the same Runtime.
var ErrAlreadyRunning = errors.New("worker already running")

// State is the lifecycle phase of a Runtime.
type State int32

const (
	StateStarting State = iota
	StateReady
	StateProcessing
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	case StateProcessing:
		return "processing"
	case StateTerminated:
		return "terminated"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// Runtime serves requests arriving on a connection.
type Runtime struct {
	conn     ports.Conn
	registry *Registry
	logger   *slog.Logger
	metrics  *Metrics

	maxInFlight     int
	validationDelay time.Duration
	replyTimeout    time.Duration
	now             func() time.Time
	newID           func() string

	started  atomic.Bool
	phase    atomic.Int32
	inFlight atomic.Int64
}

// New creates a Runtime bound to conn with the built-in actions registered.
func New(conn ports.Conn, opts ...Option) *Runtime {
	r := &Runtime{
		conn:            conn,
		registry:        NewRegistry(),
		logger:          logging.NewNop(),
		maxInFlight:     DefaultMaxInFlight,
		validationDelay: DefaultValidationDelay,
		replyTimeout:    DefaultReplyTimeout,
		now:             domain.Now,
		newID:           newCrosswalkID,
	}
	r.registry.Register(protocol.ActionCreateNode, r.createNode)
	r.registry.Register(protocol.ActionValidateNode, r.validateNode)
	r.registry.Register(protocol.ActionCreateCrosswalk, r.createCrosswalk)

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State reports the current lifecycle phase.
func (r *Runtime) State() State {
	phase := State(r.phase.Load())
	if phase == StateReady && r.inFlight.Load() > 0 {
		return StateProcessing
	}
	return phase
}

// Actions lists the actions this runtime answers.
func (r *Runtime) Actions() []string {
	return r.registry.Actions()
}

// Run announces readiness and serves requests until ctx is done or the connection closes.
// In-flight requests are allowed to finish before Run returns.
func (r *Runtime) Run(ctx context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer r.phase.Store(int32(StateTerminated))

	r.phase.Store(int32(StateReady))
	if err := r.send(ctx, protocol.Ready()); err != nil {
		return fmt.Errorf("failed to signal ready: %w", err)
	}
	r.logger.Debug("Worker ready", "actions", r.registry.Actions(), "max_in_flight", r.maxInFlight)

	var g errgroup.Group
	g.SetLimit(r.maxInFlight)

	var runErr error
	for {
		frame, err := r.conn.Recv(ctx)
		if err != nil {
			if !errors.Is(err, ports.ErrConnClosed) && ctx.Err() == nil {
				runErr = fmt.Errorf("failed to receive request: %w", err)
			}
			break
		}

		req, token, err := protocol.DecodeRequest(frame)
		if err != nil {
			if len(token) == 0 {
				r.logger.Warn("Dropping undecodable frame", "error", err, "size", len(frame))
				continue
			}
			r.reply(ctx, protocol.Failure(token, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)))
			continue
		}

		g.Go(func() error {
			r.handle(ctx, req)
			return nil
		})
	}

	_ = g.Wait()
	r.logger.Debug("Worker stopped", "error", runErr)
	return runErr
}

func (r *Runtime) handle(ctx context.Context, req protocol.Request) {
	start := time.Now()
	r.inFlight.Add(1)
	r.metrics.begin()

	result, err := r.dispatch(ctx, req)

	var msg protocol.Message
	if err == nil {
		msg, err = protocol.Success(req.CallbackID, req.Action, result)
	}
	status := "ok"
	if err != nil {
		msg = protocol.Failure(req.CallbackID, err)
		status = "error"
		r.logger.Debug("Request failed", "action", req.Action, "code", msg.Code, "error", err)
	}

	label := req.Action
	if !r.registry.Has(label) {
		label = "unknown"
	}
	r.metrics.observe(label, status, time.Since(start))
	r.metrics.end()
	r.inFlight.Add(-1)

	r.reply(ctx, msg)
}

// dispatch runs the handler, converting a panic into a worker fault.
func (r *Runtime) dispatch(ctx context.Context, req protocol.Request) (result any, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("Handler panicked", "action", req.Action, "panic", p)
			err = fmt.Errorf("%w: %s: %v", domain.ErrWorkerFault, req.Action, p)
		}
	}()
	return r.registry.Execute(ctx, req.Action, req.Payload)
}

// reply sends msg even when ctx is already cancelled, bounded by the reply timeout.
func (r *Runtime) reply(ctx context.Context, msg protocol.Message) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.replyTimeout)
	defer cancel()

	if err := r.send(sendCtx, msg); err != nil {
		if errors.Is(err, ports.ErrConnClosed) {
			r.logger.Debug("Reply dropped, connection closed", "callback_id", string(msg.CallbackID))
			return
		}
		r.logger.Error("Failed to send reply", "callback_id", string(msg.CallbackID), "error", err)
	}
}

func (r *Runtime) send(ctx context.Context, msg protocol.Message) error {
	frame, err := protocol.EncodeMessage(msg)
	if err != nil {
		return err
	}
	return r.conn.Send(ctx, frame)
}

func newCrosswalkID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return "crosswalk-" + uuid.NewString()
	}
	return "crosswalk-" + id.String()
}
