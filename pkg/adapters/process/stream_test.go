package process_test

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/openpermit/openpermit/pkg/adapters/process"
	"github.com/openpermit/openpermit/pkg/ports"
	"github.com/openpermit/openpermit/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pipePair(t *testing.T) (ports.Conn, ports.Conn) {
	t.Helper()
	abR, abW := io.Pipe()
	baR, baW := io.Pipe()
	a := process.NewStream(baR, abW, func() error {
		_ = abW.Close()
		return baR.Close()
	})
	b := process.NewStream(abR, baW, func() error {
		_ = baW.Close()
		return abR.Close()
	})
	return a, b
}

func TestStream_Contract(t *testing.T) {
	tests.RunConnContract(t, pipePair)
}

func TestStream_RejectsMultiLineFrames(t *testing.T) {
	a, b := pipePair(t)
	defer a.Close()
	defer b.Close()

	err := a.Send(context.Background(), []byte("{\n}"))
	assert.ErrorContains(t, err, "newline")
}

func TestStream_DeliversBufferedFramesBeforeEOF(t *testing.T) {
	r := strings.NewReader("{\"a\":1}\n\n  {\"b\":2}  \n")
	s := process.NewStream(r, io.Discard, nil)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	got, err := s.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))

	got, err = s.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"b":2}`, string(got), "blank lines are skipped and frames trimmed")

	_, err = s.Recv(ctx)
	assert.ErrorIs(t, err, ports.ErrConnClosed)
}
