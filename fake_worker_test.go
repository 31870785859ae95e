package openpermit_test

import (
	"context"
	"testing"
	"time"

	"github.com/openpermit/openpermit/pkg/adapters/memory"
	"github.com/openpermit/openpermit/pkg/protocol"
	"github.com/stretchr/testify/require"
)

// fakeWorker drives the worker end of a pipe by hand.
type fakeWorker struct {
	t    *testing.T
	conn *memory.End
	end  *memory.End
}

func newFakeWorker(t *testing.T) *fakeWorker {
	t.Helper()
	clientEnd, workerEnd := memory.Pipe(0)
	t.Cleanup(func() { _ = workerEnd.Close() })
	return &fakeWorker{t: t, conn: clientEnd, end: workerEnd}
}

func (f *fakeWorker) ready() {
	f.raw(`{"type":"ready"}`)
}

func (f *fakeWorker) raw(frame string) {
	f.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(f.t, f.end.Send(ctx, []byte(frame)))
}

func (f *fakeWorker) next() protocol.Request {
	f.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	frame, err := f.end.Recv(ctx)
	require.NoError(f.t, err)
	req, _, err := protocol.DecodeRequest(frame)
	require.NoError(f.t, err)
	return req
}

func (f *fakeWorker) close() {
	_ = f.end.Close()
}
