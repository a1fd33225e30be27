package booking

import (
	"context"
	"time"

	"github.com/skillhubapp/skillhub-api/internal/audit"
	"github.com/skillhubapp/skillhub-api/internal/authz"
	domain "github.com/skillhubapp/skillhub-api/internal/domain/booking"
	"github.com/skillhubapp/skillhub-api/internal/events"
	"github.com/skillhubapp/skillhub-api/internal/models"
)

type UpdateStatusInput struct {
	BookingID uint
	Actor     authz.Identity

	// TargetStatus may be empty when only the meeting link changes.
	TargetStatus string
	MeetingLink  string
}

type UpdateStatus struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events *events.Publisher
}

func NewUpdateStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events *events.Publisher,
) *UpdateStatus {
	return &UpdateStatus{
		repo:   repo,
		audit:  audit,
		events: events,
	}
}

func (uc *UpdateStatus) Execute(
	ctx context.Context,
	in UpdateStatusInput,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingByID(ctx, in.BookingID)
	if err != nil {
		return nil, err
	}

	if in.TargetStatus != "" {
		err = domain.Transition(b, in.Actor, domain.Status(in.TargetStatus), in.MeetingLink)
	} else {
		err = domain.SetMeetingLink(b, in.Actor, in.MeetingLink)
	}
	if err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.Actor.ID,
		Action:   "booking_status_updated",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]string{"status": b.Status},
	})

	uc.events.Publish(ctx, events.KeyBookingStatusChanged, events.BookingEvent{
		BookingID:    b.ID,
		StudentID:    b.StudentID,
		InstructorID: b.InstructorID,
		SkillID:      b.SkillID,
		Status:       b.Status,
		OccurredAt:   time.Now().UTC(),
	})

	return b, nil
}
