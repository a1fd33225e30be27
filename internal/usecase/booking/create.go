package booking

import (
	"context"
	"time"

	"github.com/skillhubapp/skillhub-api/internal/audit"
	domain "github.com/skillhubapp/skillhub-api/internal/domain/booking"
	"github.com/skillhubapp/skillhub-api/internal/events"
	"github.com/skillhubapp/skillhub-api/internal/httperr"
	"github.com/skillhubapp/skillhub-api/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	StudentID uint
	SkillID   uint

	// Start is the slot start as sent by the client, RFC3339.
	Start         string
	DurationHours int
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo   domain.Repository
	audit  *audit.Dispatcher
	events *events.Publisher
}

func NewCreateBooking(
	repo domain.Repository,
	audit *audit.Dispatcher,
	events *events.Publisher,
) *CreateBooking {
	return &CreateBooking{
		repo:   repo,
		audit:  audit,
		events: events,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	// --------------------------------------------------
	// 1. Skill -> instructor
	// --------------------------------------------------
	skill, err := uc.repo.GetSkillByID(ctx, in.SkillID)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Self-booking forbidden
	// --------------------------------------------------
	if skill.InstructorID == in.StudentID {
		return nil, httperr.ErrBusiness(httperr.CodeSelfBooking)
	}

	// --------------------------------------------------
	// 3. Slot window
	// --------------------------------------------------
	start, err := time.Parse(time.RFC3339, in.Start)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidDateOrTime)
	}

	if in.DurationHours < 1 {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidInput)
	}

	window := domain.NewWindow(start, in.DurationHours)

	// --------------------------------------------------
	// 4. Conflict pre-check (fast path; the exclusion
	//    constraint catches the losing side of a race)
	// --------------------------------------------------
	if err := uc.repo.AssertNoTimeConflict(
		ctx,
		skill.InstructorID,
		window.Start,
		window.End,
		0,
	); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5. Persist pending booking
	// --------------------------------------------------
	b := &models.Booking{
		StudentID:     in.StudentID,
		InstructorID:  skill.InstructorID,
		SkillID:       skill.ID,
		StartTime:     window.Start,
		EndTime:       window.End,
		DurationHours: in.DurationHours,
		Status:        string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateBooking(ctx, b); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6. Audit + lifecycle event
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		UserID:   &in.StudentID,
		Action:   "booking_created",
		Entity:   "booking",
		EntityID: &b.ID,
	})

	uc.events.Publish(ctx, events.KeyBookingCreated, events.BookingEvent{
		BookingID:    b.ID,
		StudentID:    b.StudentID,
		InstructorID: b.InstructorID,
		SkillID:      b.SkillID,
		Status:       b.Status,
		OccurredAt:   time.Now().UTC(),
	})

	return b, nil
}
