package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/devsphere/enrollment-api/internal/model"
)

// UnlockCodeRepositoryInterface defines the interface for unlock-code data access.
type UnlockCodeRepositoryInterface interface {
	GetByCode(ctx context.Context, code string) (*model.UnlockCode, error)
	MarkUsed(ctx context.Context, code string) error
}

// UnlockService provides business logic for unlock-code verification.
type UnlockService struct {
	repo UnlockCodeRepositoryInterface
	now  func() time.Time
}

// NewUnlockService creates a new UnlockService with the given repository.
func NewUnlockService(repo UnlockCodeRepositoryInterface) *UnlockService {
	return &UnlockService{repo: repo, now: time.Now}
}

// NewUnlockServiceWithClock creates an UnlockService with a custom clock.
// Primarily used for testing expiry behavior.
func NewUnlockServiceWithClock(repo UnlockCodeRepositoryInterface, now func() time.Time) *UnlockService {
	return &UnlockService{repo: repo, now: now}
}

// Verify checks an unlock code and returns the access grant it carries.
// Returns:
//   - ErrUnlockCodeInvalid if the code is unknown or inactive
//   - ErrUnlockCodeExpired if the code's expiry is in the past
//
// The used_at stamp is best-effort: a failure to persist it is logged but does
// not block the grant. Redemption is repeatable; a set used_at does not revoke
// a still-active code.
func (s *UnlockService) Verify(ctx context.Context, code string) (*model.UnlockGrant, error) {
	rec, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("lookup unlock code: %w", err)
	}
	if rec == nil || !rec.IsActive {
		return nil, ErrUnlockCodeInvalid
	}
	if rec.Expired(s.now()) {
		return nil, ErrUnlockCodeExpired
	}

	if rec.UsedAt == nil {
		if err := s.repo.MarkUsed(ctx, code); err != nil {
			log.Warn().Err(err).Msg("failed to stamp unlock code used_at")
		}
	}

	return &model.UnlockGrant{ProjectAccess: rec.ProjectAccess}, nil
}
