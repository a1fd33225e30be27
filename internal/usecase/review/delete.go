package review

import (
	"context"
	"log"

	"github.com/skillhubapp/skillhub-api/internal/audit"
	"github.com/skillhubapp/skillhub-api/internal/authz"
	"github.com/skillhubapp/skillhub-api/internal/httperr"
	"github.com/skillhubapp/skillhub-api/internal/ratings"
)

type DeleteReview struct {
	repo       Repository
	aggregator *ratings.Aggregator
	audit      *audit.Dispatcher
}

func NewDeleteReview(
	repo Repository,
	aggregator *ratings.Aggregator,
	audit *audit.Dispatcher,
) *DeleteReview {
	return &DeleteReview{
		repo:       repo,
		aggregator: aggregator,
		audit:      audit,
	}
}

func (uc *DeleteReview) Execute(
	ctx context.Context,
	reviewID uint,
	actor authz.Identity,
) error {

	rv, err := uc.repo.GetReviewByID(ctx, reviewID)
	if err != nil {
		return err
	}

	if !authz.IsOwnerOrAdmin(actor, rv.UserID) {
		return httperr.ErrBusiness(httperr.CodeNotAuthorized)
	}

	if err := uc.repo.DeleteReview(ctx, rv); err != nil {
		return err
	}

	if err := uc.aggregator.Recompute(ctx, rv.SkillID); err != nil {
		log.Printf("rating recompute for skill %d failed: %v", rv.SkillID, err)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &actor.ID,
		Action:   "review_deleted",
		Entity:   "review",
		EntityID: &rv.ID,
	})

	return nil
}
