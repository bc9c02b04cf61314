package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hr/booking/api/http/handlers"
	"github.com/artem13815/hr/booking/api/http/middleware"
	"github.com/artem13815/hr/booking/pkg/security/jwt"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Health     *handlers.HealthHandler
	Assignment *handlers.AssignmentHandler
	Booking    *handlers.BookingHandler
	Matching   *handlers.MatchingHandler
	Candidate  *handlers.CandidateHandler
	Project    *handlers.ProjectHandler
}

type RateLimit struct {
	Limiter middleware.Limiter
	Limit   int
	Window  time.Duration
}

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, h Handlers, auth fiber.Handler, rl RateLimit) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", h.Health.Health)
	v1.Get("/ready", h.Health.Ready)

	// Slot and project management belongs to collaborator services (admin tokens).
	// Humans only read and accept/decline as themselves.
	admin := jwt.RequireAdmin()
	limited := middleware.RateLimit(rl.Limiter, "booking", rl.Limit, rl.Window)

	as := v1.Group("/assignments", auth)
	as.Post("/", admin, h.Assignment.Create)
	as.Get("/", h.Assignment.ListSearching)
	as.Get("/:id", h.Assignment.Get)
	as.Delete("/:id", admin, h.Assignment.Discard)
	as.Put("/:id/criteria", admin, h.Assignment.UpdateCriteria)
	as.Post("/:id/publish", admin, h.Assignment.Publish)
	as.Post("/:id/complete", admin, h.Assignment.Complete)
	as.Post("/:id/reprocess", admin, h.Assignment.Reprocess)
	as.Get("/:id/eligible-candidates", h.Matching.EligibleCandidates)
	as.Post("/:id/accept", limited, h.Booking.Accept)
	as.Post("/:id/decline", limited, h.Booking.Decline)
	as.Post("/:id/confirm", admin, h.Booking.Confirm)

	cs := v1.Group("/candidates", auth)
	cs.Get("/:id", h.Candidate.Get)
	cs.Get("/:id/eligible-assignments", h.Matching.EligibleAssignments)
	cs.Put("/:id", admin, h.Candidate.Upsert)
	cs.Put("/:id/availability", admin, h.Candidate.SetAvailability)

	ps := v1.Group("/projects", auth)
	ps.Get("/:id/assignments", h.Assignment.ListByProject)
	ps.Post("/:id/cancel", admin, h.Project.Cancel)
	ps.Post("/:id/confirm", admin, h.Project.Confirm)
}
