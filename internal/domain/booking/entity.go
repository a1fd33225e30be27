package booking

import (
	"github.com/skillhubapp/skillhub-api/internal/authz"
	"github.com/skillhubapp/skillhub-api/internal/httperr"
	"github.com/skillhubapp/skillhub-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Transition moves a booking to target after checking both the state
// table and the actor gate. A meeting link may be set alongside.
func Transition(b *models.Booking, actor authz.Identity, target Status, meetingLink string) error {
	if !IsValid(target) {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}

	if err := CanActorTransition(actor, b.InstructorID, b.StudentID, target); err != nil {
		return err
	}

	if err := CanTransition(Status(b.Status), target); err != nil {
		return err
	}

	b.Status = string(target)
	if meetingLink != "" {
		b.MeetingLink = meetingLink
	}
	return nil
}

// SetMeetingLink updates the link without a status change. Instructor or
// admin only, same as confirm.
func SetMeetingLink(b *models.Booking, actor authz.Identity, link string) error {
	if actor.ID != b.InstructorID && !authz.IsAdmin(actor) {
		return httperr.ErrBusiness(httperr.CodeNotAuthorized)
	}
	b.MeetingLink = link
	return nil
}

// Cancel is always available to participants and admins from any
// non-terminal state. It records who pulled the plug and why.
func Cancel(b *models.Booking, actor authz.Identity, reason string) error {
	if !authz.IsParticipantOrAdmin(actor, b) {
		return httperr.ErrBusiness(httperr.CodeNotAuthorized)
	}

	if IsTerminal(Status(b.Status)) {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}

	b.Status = string(StatusCancelled)
	actorID := actor.ID
	b.CancelledByID = &actorID
	b.CancellationReason = reason
	return nil
}
