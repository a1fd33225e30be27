package review

import (
	"context"
	"log"
	"strings"

	"github.com/skillhubapp/skillhub-api/internal/audit"
	"github.com/skillhubapp/skillhub-api/internal/httperr"
	"github.com/skillhubapp/skillhub-api/internal/models"
	"github.com/skillhubapp/skillhub-api/internal/ratings"
)

// ======================================================
// INPUT
// ======================================================

type CreateReviewInput struct {
	UserID  uint
	SkillID uint
	Rating  int
	Comment string
}

// ======================================================
// USE CASE
// ======================================================

type CreateReview struct {
	repo       Repository
	aggregator *ratings.Aggregator
	audit      *audit.Dispatcher
}

func NewCreateReview(
	repo Repository,
	aggregator *ratings.Aggregator,
	audit *audit.Dispatcher,
) *CreateReview {
	return &CreateReview{
		repo:       repo,
		aggregator: aggregator,
		audit:      audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateReview) Execute(
	ctx context.Context,
	in CreateReviewInput,
) (*models.Review, error) {

	// --------------------------------------------------
	// 1. Validate input
	// --------------------------------------------------
	comment := strings.TrimSpace(in.Comment)
	if in.Rating < 1 || in.Rating > 5 || comment == "" || len(comment) > 1000 {
		return nil, httperr.ErrBusiness(httperr.CodeInvalidInput)
	}

	if _, err := uc.repo.GetSkillByID(ctx, in.SkillID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Eligibility: a completed session with this skill
	// --------------------------------------------------
	eligible, err := uc.repo.HasCompletedBooking(ctx, in.UserID, in.SkillID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, httperr.ErrBusiness(httperr.CodeReviewNotEligible)
	}

	// --------------------------------------------------
	// 3. Persist (unique index rejects a second review)
	// --------------------------------------------------
	rv := &models.Review{
		UserID:  in.UserID,
		SkillID: in.SkillID,
		Rating:  in.Rating,
		Comment: comment,
	}

	if err := uc.repo.CreateReview(ctx, rv); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Recompute the skill aggregate. The review is
	//    already committed: a failed recompute is logged
	//    and left for the next mutation to self-correct.
	// --------------------------------------------------
	if err := uc.aggregator.Recompute(ctx, in.SkillID); err != nil {
		log.Printf("rating recompute for skill %d failed: %v", in.SkillID, err)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.UserID,
		Action:   "review_created",
		Entity:   "review",
		EntityID: &rv.ID,
	})

	return rv, nil
}
