package review

import (
	"context"

	"github.com/skillhubapp/skillhub-api/internal/models"
)

type ListReviews struct {
	repo Repository
}

func NewListReviews(repo Repository) *ListReviews {
	return &ListReviews{repo: repo}
}

// BySkill returns the skill's reviews, newest first.
func (uc *ListReviews) BySkill(ctx context.Context, skillID uint) ([]models.Review, error) {
	if _, err := uc.repo.GetSkillByID(ctx, skillID); err != nil {
		return nil, err
	}
	return uc.repo.ListReviewsBySkill(ctx, skillID)
}
