package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr/booking/pkg/config"
	"github.com/artem13815/hr/booking/pkg/logging"
)

func TestInitializeAppWithMemoryStorage(t *testing.T) {
	cfg := config.Default()
	cfg.Storage = config.StorageMemory
	require.NoError(t, cfg.Validate())

	app, cleanup, err := InitializeApp(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer cleanup()

	for path, want := range map[string]int{
		"/api/v1/health":      http.StatusOK,
		"/api/v1/ready":       http.StatusOK,
		"/api/v1/assignments": http.StatusUnauthorized,
	} {
		resp, err := app.http.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, path)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, app.Shutdown(ctx))
}

func TestRunIssuesServiceToken(t *testing.T) {
	t.Setenv("STORAGE", config.StorageMemory)
	t.Setenv("CONFIG_FILE", "")
	require.NoError(t, run([]string{"--issue-service-token", "6f1c1f44-3f86-4f3e-8a43-0e0b5b0b3a11", "--token-ttl", "1h"}))
	require.Error(t, run([]string{"--issue-service-token", "not-a-uuid"}))
}
