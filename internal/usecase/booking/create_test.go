package booking

import (
	"context"
	"testing"
	"time"

	domain "github.com/skillhubapp/skillhub-api/internal/domain/booking"
	"github.com/skillhubapp/skillhub-api/internal/httperr"
	"github.com/skillhubapp/skillhub-api/internal/models"
)

// --- mocks ---

type mockRepo struct {
	getSkillFn       func(ctx context.Context, id uint) (*models.Skill, error)
	assertConflictFn func(ctx context.Context, instructorID uint, start, end time.Time, excludeID uint) error
	createFn         func(ctx context.Context, b *models.Booking) error
	getBookingFn     func(ctx context.Context, id uint) (*models.Booking, error)
	updateFn         func(ctx context.Context, b *models.Booking) error
}

func (m *mockRepo) GetSkillByID(ctx context.Context, id uint) (*models.Skill, error) {
	return m.getSkillFn(ctx, id)
}

func (m *mockRepo) CreateBooking(ctx context.Context, b *models.Booking) error {
	if m.createFn != nil {
		return m.createFn(ctx, b)
	}
	b.ID = 1
	return nil
}

func (m *mockRepo) AssertNoTimeConflict(ctx context.Context, instructorID uint, start, end time.Time, excludeID uint) error {
	if m.assertConflictFn != nil {
		return m.assertConflictFn(ctx, instructorID, start, end, excludeID)
	}
	return nil
}

func (m *mockRepo) GetBookingByID(ctx context.Context, id uint) (*models.Booking, error) {
	return m.getBookingFn(ctx, id)
}

func (m *mockRepo) UpdateBooking(ctx context.Context, b *models.Booking) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, b)
	}
	return nil
}

func (m *mockRepo) HasCompletedBooking(ctx context.Context, studentID, skillID uint) (bool, error) {
	return false, nil
}

func (m *mockRepo) ListBookingsByStudent(ctx context.Context, studentID uint) ([]models.Booking, error) {
	return nil, nil
}

func (m *mockRepo) ListBookingsByInstructor(ctx context.Context, instructorID uint) ([]models.Booking, error) {
	return nil, nil
}

func (m *mockRepo) ListAllBookings(ctx context.Context) ([]models.Booking, error) {
	return nil, nil
}

var _ domain.Repository = (*mockRepo)(nil)

func skillOwnedBy(instructorID uint) func(ctx context.Context, id uint) (*models.Skill, error) {
	return func(ctx context.Context, id uint) (*models.Skill, error) {
		return &models.Skill{ID: id, InstructorID: instructorID}, nil
	}
}

// --- tests ---

func TestCreateBooking(t *testing.T) {
	repo := &mockRepo{getSkillFn: skillOwnedBy(2)}
	uc := NewCreateBooking(repo, nil, nil)

	b, err := uc.Execute(context.Background(), CreateBookingInput{
		StudentID:     1,
		SkillID:       5,
		Start:         "2025-01-10T09:00:00Z",
		DurationHours: 2,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if b.Status != "pending" {
		t.Errorf("status = %s, want pending", b.Status)
	}
	if b.InstructorID != 2 || b.StudentID != 1 {
		t.Errorf("participants = %d/%d, want 1/2", b.StudentID, b.InstructorID)
	}

	wantEnd := b.StartTime.Add(2 * time.Hour)
	if !b.EndTime.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", b.EndTime, wantEnd)
	}
}

func TestCreateBookingRejectsSelfBooking(t *testing.T) {
	repo := &mockRepo{getSkillFn: skillOwnedBy(1)}
	uc := NewCreateBooking(repo, nil, nil)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		StudentID:     1,
		SkillID:       5,
		Start:         "2025-01-10T09:00:00Z",
		DurationHours: 1,
	})
	if !httperr.IsBusiness(err, httperr.CodeSelfBooking) {
		t.Errorf("expected self_booking_forbidden, got %v", err)
	}
}

func TestCreateBookingRejectsConflict(t *testing.T) {
	repo := &mockRepo{
		getSkillFn: skillOwnedBy(2),
		assertConflictFn: func(ctx context.Context, instructorID uint, start, end time.Time, excludeID uint) error {
			return httperr.ErrBusiness(httperr.CodeTimeConflict)
		},
	}
	uc := NewCreateBooking(repo, nil, nil)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		StudentID:     1,
		SkillID:       5,
		Start:         "2025-01-10T09:00:00Z",
		DurationHours: 1,
	})
	if !httperr.IsBusiness(err, httperr.CodeTimeConflict) {
		t.Errorf("expected time_conflict, got %v", err)
	}
}

// The pre-check can pass for two racing creates; the persistence layer
// reports the loser with the same conflict code.
func TestCreateBookingMapsRaceLoss(t *testing.T) {
	repo := &mockRepo{
		getSkillFn: skillOwnedBy(2),
		createFn: func(ctx context.Context, b *models.Booking) error {
			return httperr.ErrBusiness(httperr.CodeTimeConflict)
		},
	}
	uc := NewCreateBooking(repo, nil, nil)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		StudentID:     1,
		SkillID:       5,
		Start:         "2025-01-10T09:00:00Z",
		DurationHours: 1,
	})
	if !httperr.IsBusiness(err, httperr.CodeTimeConflict) {
		t.Errorf("expected time_conflict, got %v", err)
	}
}

func TestCreateBookingRejectsBadInput(t *testing.T) {
	repo := &mockRepo{getSkillFn: skillOwnedBy(2)}
	uc := NewCreateBooking(repo, nil, nil)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		StudentID:     1,
		SkillID:       5,
		Start:         "not-a-date",
		DurationHours: 1,
	})
	if !httperr.IsBusiness(err, httperr.CodeInvalidDateOrTime) {
		t.Errorf("expected invalid_date_or_time, got %v", err)
	}

	_, err = uc.Execute(context.Background(), CreateBookingInput{
		StudentID:     1,
		SkillID:       5,
		Start:         "2025-01-10T09:00:00Z",
		DurationHours: 0,
	})
	if !httperr.IsBusiness(err, httperr.CodeInvalidInput) {
		t.Errorf("expected invalid_input, got %v", err)
	}
}
