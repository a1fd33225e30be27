package ratings

import (
	"context"
	"errors"
	"testing"
)

// --- mocks ---

type mockRepo struct {
	ratings map[uint][]int

	updatedSkill uint
	updatedAvg   float64
	updatedCount int
	updateCalls  int
	updateErr    error
}

func (m *mockRepo) ListRatingsBySkill(ctx context.Context, skillID uint) ([]int, error) {
	return m.ratings[skillID], nil
}

func (m *mockRepo) UpdateSkillAggregate(ctx context.Context, skillID uint, average float64, count int) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updateCalls++
	m.updatedSkill = skillID
	m.updatedAvg = average
	m.updatedCount = count
	return nil
}

// --- tests ---

func TestRecompute(t *testing.T) {
	tests := []struct {
		name      string
		ratings   []int
		wantAvg   float64
		wantCount int
	}{
		{"two reviews average to a half", []int{4, 5}, 4.5, 2},
		{"three reviews average exactly", []int{3, 4, 5}, 4.0, 3},
		{"repeating decimal rounds to 2 places", []int{5, 4, 4}, 4.33, 3},
		{"two thirds rounds up", []int{5, 5, 4}, 4.67, 3},
		{"single review", []int{1}, 1.0, 1},
		{"no reviews resets to zero", nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{ratings: map[uint][]int{7: tt.ratings}}
			agg := NewAggregator(repo, NewCache(""))

			if err := agg.Recompute(context.Background(), 7); err != nil {
				t.Fatalf("Recompute: %v", err)
			}

			if repo.updatedSkill != 7 {
				t.Errorf("updated skill %d, want 7", repo.updatedSkill)
			}
			if repo.updatedAvg != tt.wantAvg {
				t.Errorf("average = %v, want %v", repo.updatedAvg, tt.wantAvg)
			}
			if repo.updatedCount != tt.wantCount {
				t.Errorf("count = %d, want %d", repo.updatedCount, tt.wantCount)
			}
		})
	}
}

func TestRecomputeIsIdempotent(t *testing.T) {
	repo := &mockRepo{ratings: map[uint][]int{7: {3, 4, 5}}}
	agg := NewAggregator(repo, NewCache(""))

	if err := agg.Recompute(context.Background(), 7); err != nil {
		t.Fatalf("first Recompute: %v", err)
	}
	firstAvg, firstCount := repo.updatedAvg, repo.updatedCount

	if err := agg.Recompute(context.Background(), 7); err != nil {
		t.Fatalf("second Recompute: %v", err)
	}

	if repo.updatedAvg != firstAvg || repo.updatedCount != firstCount {
		t.Errorf("second run diverged: %v/%d vs %v/%d",
			repo.updatedAvg, repo.updatedCount, firstAvg, firstCount)
	}
	if repo.updateCalls != 2 {
		t.Errorf("updateCalls = %d, want 2", repo.updateCalls)
	}
}

func TestRecomputePropagatesWriteError(t *testing.T) {
	repo := &mockRepo{
		ratings:   map[uint][]int{7: {5}},
		updateErr: errors.New("db down"),
	}
	agg := NewAggregator(repo, NewCache(""))

	if err := agg.Recompute(context.Background(), 7); err == nil {
		t.Error("expected error from failed aggregate write")
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{4.333333, 4.33},
		{4.666666, 4.67},
		{4.125, 4.13},
		{4.0, 4.0},
		{0, 0},
	}

	for _, tt := range tests {
		if got := Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
