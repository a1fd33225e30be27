package booking

import (
	"context"
	"time"

	"github.com/skillhubapp/skillhub-api/internal/models"
)

type Repository interface {
	// -------- Skill --------
	GetSkillByID(
		ctx context.Context,
		id uint,
	) (*models.Skill, error)

	// -------- Booking (create / conflict) --------
	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// AssertNoTimeConflict is the fast-path overlap check against the
	// instructor's active bookings. excludeID ignores one booking (a
	// reschedule checking around itself); zero means none.
	AssertNoTimeConflict(
		ctx context.Context,
		instructorID uint,
		start time.Time,
		end time.Time,
		excludeID uint,
	) error

	// -------- Booking (state change) --------
	GetBookingByID(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Booking (eligibility) --------
	HasCompletedBooking(
		ctx context.Context,
		studentID uint,
		skillID uint,
	) (bool, error)

	// -------- Listings --------
	ListBookingsByStudent(
		ctx context.Context,
		studentID uint,
	) ([]models.Booking, error)

	ListBookingsByInstructor(
		ctx context.Context,
		instructorID uint,
	) ([]models.Booking, error)

	ListAllBookings(
		ctx context.Context,
	) ([]models.Booking, error)
}
