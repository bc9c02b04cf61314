package jwt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	app := fiber.New()
	auth := NewAuthMiddleware("secret", "hr-service")
	app.Get("/me", auth, func(c *fiber.Ctx) error {
		id, ok := UserID(c)
		if !ok {
			return c.SendStatus(http.StatusBadRequest)
		}
		return c.JSON(fiber.Map{"id": id.String(), "admin": IsAdmin(c)})
	})
	app.Get("/admin", auth, RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app
}

func doGet(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthMiddleware(t *testing.T) {
	app := newTestApp()
	gen := NewGenerator("secret", "hr-service", time.Hour)

	user, err := gen.Generate(context.Background(), uuid.New(), false)
	require.NoError(t, err)
	admin, err := gen.Generate(context.Background(), uuid.New(), true)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doGet(t, app, "/me", ""))
	assert.Equal(t, http.StatusUnauthorized, doGet(t, app, "/me", "garbage"))
	assert.Equal(t, http.StatusOK, doGet(t, app, "/me", user))
	assert.Equal(t, http.StatusForbidden, doGet(t, app, "/admin", user))
	assert.Equal(t, http.StatusNoContent, doGet(t, app, "/admin", admin))
}

func TestAuthMiddlewareRejectsForeignTokens(t *testing.T) {
	app := newTestApp()

	otherKey, err := NewGenerator("other", "hr-service", time.Hour).Generate(context.Background(), uuid.New(), true)
	require.NoError(t, err)
	otherIssuer, err := NewGenerator("secret", "someone-else", time.Hour).Generate(context.Background(), uuid.New(), true)
	require.NoError(t, err)
	expired, err := NewGenerator("secret", "hr-service", -time.Minute).Generate(context.Background(), uuid.New(), true)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, doGet(t, app, "/admin", otherKey))
	assert.Equal(t, http.StatusUnauthorized, doGet(t, app, "/admin", otherIssuer))
	assert.Equal(t, http.StatusUnauthorized, doGet(t, app, "/admin", expired))
}

func TestVerifierParse(t *testing.T) {
	subject := uuid.New()
	raw, err := NewGenerator("secret", "hr-service", time.Hour).Generate(context.Background(), subject, false)
	require.NoError(t, err)

	claims, err := NewVerifier("secret", "hr-service").Parse(raw)
	require.NoError(t, err)
	id, err := claims.CandidateID()
	require.NoError(t, err)
	assert.Equal(t, subject, id)
	assert.False(t, claims.IsAdmin)
	assert.NotEmpty(t, claims.ID)

	_, err = NewVerifier("secret", "other").Parse(raw)
	assert.ErrorIs(t, err, ErrWrongIssuer)
	_, err = NewVerifier("nope", "hr-service").Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// пустой issuer не проверяется
	_, err = NewVerifier("secret", "").Parse(raw)
	assert.NoError(t, err)
}
