package quota

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service tracks per-user conversion usage against a daily limit. The window
// resets on the UTC calendar-day boundary, not 24h after first use.
type Service struct {
	repo  Repository
	limit int
	now   func() time.Time
}

func NewService(repo Repository, limit int) *Service {
	return &Service{
		repo:  repo,
		limit: limit,
		now:   time.Now,
	}
}

// Consume records one conversion attempt for the user and reports whether it
// fell within the daily limit. Usage moves on attempt, not on success.
func (s *Service) Consume(ctx context.Context, userID uuid.UUID) (*Status, error) {
	rec, err := s.repo.Consume(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.statusFor(rec.Count, rec.WindowStart), nil
}

// Peek reports the user's current quota without consuming any of it.
func (s *Service) Peek(ctx context.Context, userID uuid.UUID) (*Status, error) {
	rec, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if rec == nil || !sameUTCDay(rec.WindowStart, now) {
		// Never converted, or a fresh day: the full budget is available.
		return s.statusFor(0, now), nil
	}
	return s.statusFor(rec.Count, rec.WindowStart), nil
}

func (s *Service) Limit() int {
	return s.limit
}

func (s *Service) statusFor(count int, windowStart time.Time) *Status {
	remaining := s.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return &Status{
		Allowed:   count <= s.limit,
		Remaining: remaining,
		Limit:     s.limit,
		ResetAt:   windowStart.Add(24 * time.Hour),
	}
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
