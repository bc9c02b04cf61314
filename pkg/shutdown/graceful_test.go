package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr/booking/pkg/logging"
)

type stopper struct {
	called   bool
	deadline bool
	err      error
}

func (s *stopper) Shutdown(ctx context.Context) error {
	s.called = true
	_, s.deadline = ctx.Deadline()
	return s.err
}

func TestGracefulStopsAfterContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &stopper{}
	done := make(chan error, 1)
	go func() { done <- Graceful(ctx, s, time.Second, logging.NewNop()) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("graceful shutdown did not return")
	}
	assert.True(t, s.called)
	assert.True(t, s.deadline)
}

func TestGracefulReturnsShutdownError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	boom := errors.New("boom")
	err := Graceful(ctx, &stopper{err: boom}, time.Second, logging.NewNop())
	require.ErrorIs(t, err, boom)
}
