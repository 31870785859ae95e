package tests

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/openpermit/openpermit/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// PairFactory returns two connected ends of a fresh channel.
type PairFactory func(t *testing.T) (client ports.Conn, worker ports.Conn)

// RunConnContract is a reusable test suite that verifies if an adapter complies with ports.Conn.
func RunConnContract(t *testing.T, newPair PairFactory) {
	t.Helper()

	t.Run("FIFO_BothDirections", func(t *testing.T) {
		a, b := newPair(t)
		defer a.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		for i := 0; i < 5; i++ {
			require.NoError(t, a.Send(ctx, []byte(fmt.Sprintf("a%d", i))))
			require.NoError(t, b.Send(ctx, []byte(fmt.Sprintf("b%d", i))))
		}
		for i := 0; i < 5; i++ {
			got, err := b.Recv(ctx)
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("a%d", i), string(got))

			got, err = a.Recv(ctx)
			require.NoError(t, err)
			assert.Equal(t, fmt.Sprintf("b%d", i), string(got))
		}
	})

	t.Run("ConcurrentSend", func(t *testing.T) {
		a, b := newPair(t)
		defer a.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		const n = 20
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(t, a.Send(ctx, []byte(fmt.Sprintf("m%d", i))))
			}(i)
		}

		seen := make(map[string]bool)
		for i := 0; i < n; i++ {
			got, err := b.Recv(ctx)
			require.NoError(t, err)
			seen[string(got)] = true
		}
		wg.Wait()
		assert.Len(t, seen, n)
	})

	t.Run("Recv_HonoursContext", func(t *testing.T) {
		a, b := newPair(t)
		defer a.Close()
		defer b.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := b.Recv(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Close_StopsBothEnds", func(t *testing.T) {
		a, b := newPair(t)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		require.NoError(t, a.Close())
		require.NoError(t, a.Close(), "close is idempotent")

		_, err := a.Recv(ctx)
		assert.ErrorIs(t, err, ports.ErrConnClosed)
		assert.ErrorIs(t, a.Send(ctx, []byte("x")), ports.ErrConnClosed)

		_, err = b.Recv(ctx)
		assert.ErrorIs(t, err, ports.ErrConnClosed)
		require.NoError(t, b.Close())
	})

	t.Run("FramesAreIsolated", func(t *testing.T) {
		a, b := newPair(t)
		defer a.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		frame := []byte("hello")
		require.NoError(t, a.Send(ctx, frame))
		frame[0] = 'j'

		got, err := b.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(got))
	})
}
