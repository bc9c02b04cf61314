package booking

import "github.com/artem13815/hr/booking/pkg/assignment"

// legal lists, per target status, the statuses it may be entered from.
// declined is kept for rows written by older producers; it re-opens like a decline.
var legal = map[assignment.BookingStatus][]assignment.BookingStatus{
	assignment.StatusSearching: {assignment.StatusDraft, assignment.StatusDeclined, assignment.StatusAccepted},
	assignment.StatusAccepted:  {assignment.StatusSearching},
	assignment.StatusConfirmed: {assignment.StatusAccepted},
	assignment.StatusCompleted: {
		assignment.StatusSearching,
		assignment.StatusAccepted,
		assignment.StatusConfirmed,
		assignment.StatusDeclined,
	},
}

// CanTransition reports whether from -> to is part of the lifecycle.
func CanTransition(from, to assignment.BookingStatus) bool {
	for _, f := range legal[to] {
		if f == from {
			return true
		}
	}
	return false
}

var (
	publishFrom = []assignment.BookingStatus{assignment.StatusDraft, assignment.StatusDeclined}
	acceptFrom  = []assignment.BookingStatus{assignment.StatusSearching}
	declineFrom = []assignment.BookingStatus{assignment.StatusAccepted}
	confirmFrom = []assignment.BookingStatus{assignment.StatusAccepted}
)

func completeFrom() []assignment.BookingStatus {
	return legal[assignment.StatusCompleted]
}
