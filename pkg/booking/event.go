package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/artem13815/hr/booking/pkg/assignment"
)

type EventType string

const (
	EventPublished EventType = "assignment.searching"
	EventAccepted  EventType = "assignment.accepted"
	EventDeclined  EventType = "assignment.declined"
	EventConfirmed EventType = "assignment.confirmed"
	EventCompleted EventType = "assignment.completed"
	// EventOfferCreated tells one eligible candidate about a searching assignment.
	EventOfferCreated EventType = "offer.created"
)

// Event describes a committed transition. Delivery is at-least-once;
// consumers dedupe on DedupKey.
type Event struct {
	Type           EventType                `json:"eventType"`
	AssignmentID   uuid.UUID                `json:"assignmentId"`
	ProjectID      uuid.UUID                `json:"projectId"`
	PreviousStatus assignment.BookingStatus `json:"previousStatus"`
	NewStatus      assignment.BookingStatus `json:"newStatus"`
	CandidateID    *uuid.UUID               `json:"candidateId"`
	Version        int64                    `json:"version"`
	Timestamp      time.Time                `json:"timestamp"`
}

// DedupKey identifies the transition: assignment, new status and version.
// Offers also carry the offered candidate.
func (e Event) DedupKey() string {
	key := fmt.Sprintf("%s:%s:%d", e.AssignmentID, e.NewStatus, e.Version)
	if e.Type == EventOfferCreated && e.CandidateID != nil {
		key += ":" + e.CandidateID.String()
	}
	return key
}

// EventSink receives events after the transition has committed.
// Implementations must not block.
type EventSink interface {
	Enqueue(e Event)
}

func eventFor(t EventType, prev assignment.BookingStatus, a assignment.Assignment, at time.Time) Event {
	return Event{
		Type:           t,
		AssignmentID:   a.ID,
		ProjectID:      a.ProjectID,
		PreviousStatus: prev,
		NewStatus:      a.Status,
		CandidateID:    a.CandidateID,
		Version:        a.Version,
		Timestamp:      at,
	}
}
