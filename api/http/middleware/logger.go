package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr/booking/pkg/logging"
)

// RequestLogger writes one line per request through the service logger.
func RequestLogger(log *logging.Logger) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		kv := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start),
		}
		switch {
		case status >= 500:
			log.Error("request", append(kv, "err", err)...)
		case status >= 400:
			log.Warn("request", kv...)
		default:
			log.Info("request", kv...)
		}
		return err
	}
}
