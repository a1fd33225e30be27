package booking

import (
	"github.com/skillhubapp/skillhub-api/internal/authz"
	"github.com/skillhubapp/skillhub-api/internal/httperr"
)

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func InitialStatus() Status {
	return StatusPending
}

// ActiveStatuses are the statuses that occupy the instructor's schedule
// for conflict purposes.
var ActiveStatuses = []string{
	string(StatusPending),
	string(StatusConfirmed),
	string(StatusCompleted),
}

func IsValid(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func IsTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ===============================
// Transition table
// ===============================

var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

// CanTransition validates the state change alone, ignoring the actor.
func CanTransition(from, to Status) error {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeInvalidState)
}

// CanActorTransition gates the actor for a target status. Confirm and
// complete belong to the instructor (or an admin); cancel to any
// participant or admin.
func CanActorTransition(actor authz.Identity, instructorID, studentID uint, to Status) error {
	switch to {
	case StatusConfirmed, StatusCompleted:
		if actor.ID == instructorID || authz.IsAdmin(actor) {
			return nil
		}
	case StatusCancelled:
		if actor.ID == instructorID || actor.ID == studentID || authz.IsAdmin(actor) {
			return nil
		}
	}
	return httperr.ErrBusiness(httperr.CodeNotAuthorized)
}
