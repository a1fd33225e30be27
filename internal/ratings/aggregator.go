package ratings

import (
	"context"
	"math"
)

// Repository is the slice of persistence the aggregator needs: the full
// review set of a skill and a write of the derived fields.
type Repository interface {
	ListRatingsBySkill(ctx context.Context, skillID uint) ([]int, error)
	UpdateSkillAggregate(ctx context.Context, skillID uint, average float64, count int) error
}

// Aggregator owns the cached {average_rating, review_count} pair on a
// skill. Recompute is a full scan, not an incremental bump: it is
// idempotent, safe to re-run after crashes or out-of-order retries, and
// can never accumulate drift.
type Aggregator struct {
	repo  Repository
	cache *Cache
}

func NewAggregator(repo Repository, cache *Cache) *Aggregator {
	return &Aggregator{repo: repo, cache: cache}
}

func (a *Aggregator) Recompute(ctx context.Context, skillID uint) error {
	ratings, err := a.repo.ListRatingsBySkill(ctx, skillID)
	if err != nil {
		return err
	}

	var average float64
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r
		}
		average = Round2(float64(sum) / float64(len(ratings)))
	}

	if err := a.repo.UpdateSkillAggregate(ctx, skillID, average, len(ratings)); err != nil {
		return err
	}

	a.cache.Put(ctx, skillID, average, len(ratings))
	return nil
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
