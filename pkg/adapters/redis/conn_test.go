package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/openpermit/openpermit/pkg/adapters/redis"
	"github.com/openpermit/openpermit/pkg/ports"
	"github.com/openpermit/openpermit/pkg/ports/tests"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisConn_Contract(t *testing.T) {
	_, client := newClient(t)

	n := 0
	tests.RunConnContract(t, func(t *testing.T) (ports.Conn, ports.Conn) {
		n++
		a, b := redis.NewPair(client, fmt.Sprintf("contract-%d", n))
		return a, b
	})
}

func TestRedisConn_Keys(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()

	c, w := redis.NewPair(client, "jobs", redis.WithPrefix("test:"))
	require.NoError(t, c.Send(ctx, []byte(`{"action":"CREATE_NODE"}`)))
	require.NoError(t, w.Send(ctx, []byte(`{"type":"ready"}`)))

	reqs, err := mr.List("test:jobs:requests")
	require.NoError(t, err)
	assert.Equal(t, []string{`{"action":"CREATE_NODE"}`}, reqs)

	resps, err := mr.List("test:jobs:responses")
	require.NoError(t, err)
	assert.Equal(t, []string{`{"type":"ready"}`}, resps)

	require.NoError(t, w.Close())
	assert.True(t, mr.Exists("test:jobs:closed"))
}

func TestRedisConn_ResetClearsClose(t *testing.T) {
	_, client := newClient(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, w := redis.NewPair(client, "reset")
	require.NoError(t, w.Close())

	_, err := c.Recv(ctx)
	assert.ErrorIs(t, err, ports.ErrConnClosed)

	// A fresh worker end takes over the channel.
	w2 := redis.Dial(client, "reset", redis.SideWorker)
	require.NoError(t, w2.Reset(ctx))
	require.NoError(t, w2.Send(ctx, []byte("hi")))

	got, err := c.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(got))
}
