package jwt

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	localUserID  = "userId"
	localIsAdmin = "isAdmin"
)

// NewAuthMiddleware returns a Fiber middleware that validates Bearer JWT (HS256).
// On success sets the candidate id (subject) into c.Locals("userId") and marks
// collaborator tokens with c.Locals("isAdmin").
func NewAuthMiddleware(secret, expectedIssuer string) fiber.Handler {
	verifier := NewVerifier(secret, expectedIssuer)
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "missing Authorization header"})
		}
		// Support both "Bearer <token>" and "<token>" (no prefix).
		var tokenStr string
		if strings.Contains(authHeader, " ") {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenStr = strings.TrimSpace(parts[1])
			} else {
				// Fallback: treat entire header as token (for non-standard clients)
				tokenStr = strings.TrimSpace(authHeader)
			}
		} else {
			tokenStr = strings.TrimSpace(authHeader)
		}
		if tokenStr == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": "empty token"})
		}
		claims, err := verifier.Parse(tokenStr)
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"message": err.Error()})
		}
		c.Locals(localUserID, claims.Subject)
		if claims.IsAdmin {
			c.Locals(localIsAdmin, true)
		}
		return c.Next()
	}
}

// RequireAdmin must run after NewAuthMiddleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !IsAdmin(c) {
			return c.Status(http.StatusForbidden).JSON(fiber.Map{"message": "admin token required"})
		}
		return c.Next()
	}
}

// UserID returns the token subject as uuid.
func UserID(c *fiber.Ctx) (uuid.UUID, bool) {
	s, ok := c.Locals(localUserID).(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func IsAdmin(c *fiber.Ctx) bool {
	v, _ := c.Locals(localIsAdmin).(bool)
	return v
}
