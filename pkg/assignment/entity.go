package assignment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BookingStatus — стадия жизненного цикла слота.
type BookingStatus string

const (
	StatusDraft     BookingStatus = "draft"
	StatusSearching BookingStatus = "searching"
	StatusAccepted  BookingStatus = "accepted"
	StatusConfirmed BookingStatus = "confirmed"
	StatusDeclined  BookingStatus = "declined"
	StatusCompleted BookingStatus = "completed"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSearching, StatusAccepted, StatusConfirmed, StatusDeclined, StatusCompleted:
		return true
	}
	return false
}

// HoldsCandidate reports whether an assignment in this status must reference a candidate.
func (s BookingStatus) HoldsCandidate() bool {
	return s == StatusAccepted || s == StatusConfirmed
}

// Assignment — один слот роли в проекте.
type Assignment struct {
	ID          uuid.UUID     `json:"id"`
	ProjectID   uuid.UUID     `json:"projectId"`
	Criteria    Criteria      `json:"criteria"`
	Status      BookingStatus `json:"bookingStatus"`
	CandidateID *uuid.UUID    `json:"candidateId"`
	Version     int64         `json:"version"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// CheckInvariant verifies candidate_id is set exactly when the status holds a candidate.
func (a Assignment) CheckInvariant() error {
	if a.Status.HoldsCandidate() != (a.CandidateID != nil) {
		return fmt.Errorf("assignment %s: status %s with candidate %v", a.ID, a.Status, a.CandidateID)
	}
	return nil
}

// Transition is a conditional write: it succeeds only when the stored row
// still has ExpectedVersion and one of the From statuses.
type Transition struct {
	ID              uuid.UUID
	ExpectedVersion int64
	From            []BookingStatus
	To              BookingStatus
	// CandidateID is the candidate reference after the write.
	CandidateID *uuid.UUID
}

// Allows reports whether s is one of t.From.
func (t Transition) Allows(s BookingStatus) bool {
	for _, f := range t.From {
		if f == s {
			return true
		}
	}
	return false
}

// Check guards against writes that would break the candidate invariant.
func (t Transition) Check() error {
	if t.To.HoldsCandidate() != (t.CandidateID != nil) {
		return fmt.Errorf("%w: %s requires candidate=%t", ErrInvalidTransition, t.To, t.To.HoldsCandidate())
	}
	return nil
}
