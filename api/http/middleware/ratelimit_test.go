package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/hr/booking/pkg/logging"
)

func TestLocalLimiterWindow(t *testing.T) {
	l := NewLocalLimiter()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	ctx := context.Background()
	assert.True(t, l.Allow(ctx, "k", 2, time.Minute))
	assert.True(t, l.Allow(ctx, "k", 2, time.Minute))
	assert.False(t, l.Allow(ctx, "k", 2, time.Minute))
	assert.True(t, l.Allow(ctx, "other", 2, time.Minute))

	now = now.Add(2 * time.Minute)
	assert.True(t, l.Allow(ctx, "k", 2, time.Minute))
}

func TestRateLimitPerSubject(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger(logging.NewNop()))
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userId", c.Get("X-Subject"))
		return c.Next()
	})
	app.Post("/accept", RateLimit(NewLocalLimiter(), "accept", 1, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	call := func(subject string) int {
		req := httptest.NewRequest(http.MethodPost, "/accept", nil)
		req.Header.Set("X-Subject", subject)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}
	assert.Equal(t, http.StatusOK, call("alice"))
	assert.Equal(t, http.StatusTooManyRequests, call("alice"))
	assert.Equal(t, http.StatusOK, call("bob"))
}
