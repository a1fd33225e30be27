package booking

import (
	"context"

	domain "github.com/skillhubapp/skillhub-api/internal/domain/booking"
	"github.com/skillhubapp/skillhub-api/internal/models"
)

type ListBookings struct {
	repo domain.Repository
}

func NewListBookings(repo domain.Repository) *ListBookings {
	return &ListBookings{repo: repo}
}

func (uc *ListBookings) ByStudent(ctx context.Context, studentID uint) ([]models.Booking, error) {
	return uc.repo.ListBookingsByStudent(ctx, studentID)
}

func (uc *ListBookings) ByInstructor(ctx context.Context, instructorID uint) ([]models.Booking, error) {
	return uc.repo.ListBookingsByInstructor(ctx, instructorID)
}

func (uc *ListBookings) All(ctx context.Context) ([]models.Booking, error) {
	return uc.repo.ListAllBookings(ctx)
}
