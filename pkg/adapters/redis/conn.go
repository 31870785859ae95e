package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/openpermit/openpermit/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// Side selects which list an end reads from.
type Side int

const (
	// SideClient sends requests and receives responses.
	SideClient Side = iota
	// SideWorker receives requests and sends responses.
	SideWorker
)

// DefaultPollInterval bounds how long a single BLPOP blocks.
// Redis clients round anything below one second up to one second.
const DefaultPollInterval = time.Second

// Conn implements ports.Conn over a pair of Redis lists.
//
// Keys, for channel "c" and prefix "p:":
//
//	p:c:requests   client -> worker
//	p:c:responses  worker -> client
//	p:c:closed     set by whichever end closes first
type Conn struct {
	client       *backend.Client
	prefix       string
	pollInterval time.Duration

	inKey     string
	outKey    string
	closedKey string

	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Option configures a Conn.
type Option func(*Conn)

// WithPrefix namespaces every key. Defaults to "openpermit:".
func WithPrefix(prefix string) Option {
	return func(c *Conn) {
		c.prefix = prefix
	}
}

// WithPollInterval sets the BLPOP timeout used between context checks.
func WithPollInterval(d time.Duration) Option {
	return func(c *Conn) {
		if d > 0 {
			c.pollInterval = d
		}
	}
}

// Dial creates one end of the channel named channel.
func Dial(client *backend.Client, channel string, side Side, opts ...Option) *Conn {
	c := &Conn{
		client:       client,
		prefix:       "openpermit:",
		pollInterval: DefaultPollInterval,
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	requests := c.prefix + channel + ":requests"
	responses := c.prefix + channel + ":responses"
	c.closedKey = c.prefix + channel + ":closed"
	c.inKey, c.outKey = responses, requests
	if side == SideWorker {
		c.inKey, c.outKey = requests, responses
	}
	return c
}

// NewPair dials both ends of channel on the same client.
func NewPair(client *backend.Client, channel string, opts ...Option) (*Conn, *Conn) {
	return Dial(client, channel, SideClient, opts...), Dial(client, channel, SideWorker, opts...)
}

// Reset deletes every key of the channel, clearing a previous close.
func (c *Conn) Reset(ctx context.Context) error {
	if err := c.client.Del(ctx, c.inKey, c.outKey, c.closedKey).Err(); err != nil {
		return fmt.Errorf("failed to reset channel: %w", err)
	}
	return nil
}

// Send pushes frame onto the outgoing list.
func (c *Conn) Send(ctx context.Context, frame []byte) error {
	select {
	case <-c.done:
		return ports.ErrConnClosed
	default:
	}
	if err := c.client.RPush(ctx, c.outKey, frame).Err(); err != nil {
		return fmt.Errorf("redis error sending frame: %w", err)
	}
	return nil
}

// Recv pops the next frame from the incoming list.
func (c *Conn) Recv(ctx context.Context) ([]byte, error) {
	for {
		select {
		case <-c.done:
			return nil, ports.ErrConnClosed
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// A pending frame wins over a peer close so nothing already sent is lost.
		res, err := c.client.BLPop(ctx, c.pollInterval, c.inKey).Result()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err == nil {
			// BLPOP replies with [key, value].
			return []byte(res[1]), nil
		}
		if !errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("redis error receiving frame: %w", err)
		}

		closed, err := c.client.Exists(ctx, c.closedKey).Result()
		if err != nil {
			return nil, fmt.Errorf("redis error checking channel: %w", err)
		}
		if closed > 0 {
			return nil, ports.ErrConnClosed
		}
	}
}

// Close marks the channel closed for both ends. It does not close the Redis client.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := c.client.Set(ctx, c.closedKey, "1", 0).Err(); err != nil {
			c.closeErr = fmt.Errorf("redis error closing channel: %w", err)
		}
	})
	return c.closeErr
}

var _ ports.Conn = (*Conn)(nil)
