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

type CancelBooking struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events *events.Publisher
}

func NewCancelBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events *events.Publisher,
) *CancelBooking {
	return &CancelBooking{
		repo:   repo,
		audit:  audit,
		events: events,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	bookingID uint,
	actor authz.Identity,
	reason string,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := domain.Cancel(b, actor, reason); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	uc.events.Publish(ctx, events.KeyBookingCancelled, events.BookingEvent{
		BookingID:    b.ID,
		StudentID:    b.StudentID,
		InstructorID: b.InstructorID,
		SkillID:      b.SkillID,
		Status:       b.Status,
		OccurredAt:   time.Now().UTC(),
	})

	return b, nil
}
