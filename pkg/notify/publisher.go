package notify

import (
	"context"

	"github.com/artem13815/hr/booking/pkg/booking"
	"github.com/artem13815/hr/booking/pkg/logging"
)

// Publisher delivers one event to one external collaborator.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, e booking.Event) error
}

// LogPublisher writes events to the service log. Useful when no stream is configured.
type LogPublisher struct {
	log *logging.Logger
}

func NewLogPublisher(log *logging.Logger) *LogPublisher {
	return &LogPublisher{log: log.With("publisher", "log")}
}

func (p *LogPublisher) Name() string { return "log" }

func (p *LogPublisher) Publish(ctx context.Context, e booking.Event) error {
	p.log.Info("booking event",
		"type", e.Type,
		"assignment_id", e.AssignmentID,
		"project_id", e.ProjectID,
		"previous_status", e.PreviousStatus,
		"new_status", e.NewStatus,
		"candidate_id", e.CandidateID,
		"version", e.Version,
		"dedup_key", e.DedupKey(),
	)
	return nil
}
