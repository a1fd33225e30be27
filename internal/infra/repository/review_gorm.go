package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/skillhubapp/skillhub-api/internal/httperr"
	"github.com/skillhubapp/skillhub-api/internal/models"
	"github.com/skillhubapp/skillhub-api/internal/ratings"
	"github.com/skillhubapp/skillhub-api/internal/usecase/review"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

// --------------------------------------------------
// Skill / eligibility
// --------------------------------------------------

func (r *ReviewGormRepository) GetSkillByID(
	ctx context.Context,
	id uint,
) (*models.Skill, error) {

	var skill models.Skill
	if err := r.db.WithContext(ctx).First(&skill, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeSkillNotFound)
		}
		return nil, err
	}
	return &skill, nil
}

func (r *ReviewGormRepository) HasCompletedBooking(
	ctx context.Context,
	userID uint,
	skillID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where(
			"student_id = ? AND skill_id = ? AND status = 'completed'",
			userID,
			skillID,
		).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// --------------------------------------------------
// Review
// --------------------------------------------------

func (r *ReviewGormRepository) CreateReview(
	ctx context.Context,
	rv *models.Review,
) error {

	if err := r.db.WithContext(ctx).Create(rv).Error; err != nil {
		// unique (user_id, skill_id): at most one review per user per skill
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return httperr.ErrBusiness(httperr.CodeDuplicateReview)
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return httperr.ErrBusiness(httperr.CodeDuplicateReview)
		}
		return err
	}
	return nil
}

func (r *ReviewGormRepository) GetReviewByID(
	ctx context.Context,
	id uint,
) (*models.Review, error) {

	var rv models.Review
	if err := r.db.WithContext(ctx).First(&rv, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeReviewNotFound)
		}
		return nil, err
	}
	return &rv, nil
}

func (r *ReviewGormRepository) DeleteReview(
	ctx context.Context,
	rv *models.Review,
) error {
	return r.db.WithContext(ctx).Delete(rv).Error
}

func (r *ReviewGormRepository) ListReviewsBySkill(
	ctx context.Context,
	skillID uint,
) ([]models.Review, error) {

	var reviews []models.Review
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("skill_id = ?", skillID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}

	return reviews, nil
}

// --------------------------------------------------
// Aggregate (ratings.Repository)
// --------------------------------------------------

func (r *ReviewGormRepository) ListRatingsBySkill(
	ctx context.Context,
	skillID uint,
) ([]int, error) {

	var values []int
	if err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("skill_id = ?", skillID).
		Pluck("rating", &values).Error; err != nil {
		return nil, err
	}

	return values, nil
}

func (r *ReviewGormRepository) UpdateSkillAggregate(
	ctx context.Context,
	skillID uint,
	average float64,
	count int,
) error {

	return r.db.WithContext(ctx).
		Model(&models.Skill{}).
		Where("id = ?", skillID).
		Updates(map[string]any{
			"average_rating": average,
			"review_count":   count,
		}).Error
}

// Compile-time checks
var (
	_ review.Repository  = (*ReviewGormRepository)(nil)
	_ ratings.Repository = (*ReviewGormRepository)(nil)
)
