package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Name() string                  { return f.name }
func (f fakeChecker) Check(_ context.Context) error { return f.err }

func TestReady(t *testing.T) {
	require.NoError(t, NewService().Ready(context.Background()))
	require.NoError(t, NewService(fakeChecker{name: "postgres"}, nil).Ready(context.Background()))

	down := errors.New("connection refused")
	err := NewService(fakeChecker{name: "postgres"}, fakeChecker{name: "redis", err: down}).Ready(context.Background())
	require.ErrorIs(t, err, down)
	assert.Contains(t, err.Error(), "redis")
}
