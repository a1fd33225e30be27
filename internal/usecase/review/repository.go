package review

import (
	"context"

	"github.com/skillhubapp/skillhub-api/internal/models"
)

type Repository interface {
	GetSkillByID(
		ctx context.Context,
		id uint,
	) (*models.Skill, error)

	HasCompletedBooking(
		ctx context.Context,
		userID uint,
		skillID uint,
	) (bool, error)

	CreateReview(
		ctx context.Context,
		rv *models.Review,
	) error

	GetReviewByID(
		ctx context.Context,
		id uint,
	) (*models.Review, error)

	DeleteReview(
		ctx context.Context,
		rv *models.Review,
	) error

	ListReviewsBySkill(
		ctx context.Context,
		skillID uint,
	) ([]models.Review, error)
}
