package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devsphere/enrollment-api/internal/model"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UnlockCodeRepository provides data access for unlock codes using pgx.
// Codes are inserted by an administrator out of band; the application only
// reads them and stamps used_at.
type UnlockCodeRepository struct {
	pool PoolInterface
}

// NewUnlockCodeRepository creates a new UnlockCodeRepository with the given pool.
func NewUnlockCodeRepository(pool *pgxpool.Pool) *UnlockCodeRepository {
	return &UnlockCodeRepository{pool: pool}
}

// NewUnlockCodeRepositoryWithPool creates a new UnlockCodeRepository with a custom
// pool interface. This is primarily used for testing.
func NewUnlockCodeRepositoryWithPool(pool PoolInterface) *UnlockCodeRepository {
	return &UnlockCodeRepository{pool: pool}
}

// GetByCode retrieves an unlock code by its exact value.
// Returns nil, nil if the code is not found (service layer handles this).
func (r *UnlockCodeRepository) GetByCode(ctx context.Context, code string) (*model.UnlockCode, error) {
	query := `SELECT code, is_active, expires_at, used_at, project_access FROM unlock_codes WHERE code = $1`

	var rec model.UnlockCode
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&rec.Code,
		&rec.IsActive,
		&rec.ExpiresAt,
		&rec.UsedAt,
		&rec.ProjectAccess,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get unlock code: %w", err)
	}
	return &rec, nil
}

// MarkUsed stamps used_at on first redemption. The write is conditional on
// used_at still being null so concurrent redeemers do not move the timestamp.
func (r *UnlockCodeRepository) MarkUsed(ctx context.Context, code string) error {
	query := `UPDATE unlock_codes SET used_at = now() WHERE code = $1 AND used_at IS NULL`

	_, err := r.pool.Exec(ctx, query, code)
	if err != nil {
		return fmt.Errorf("mark unlock code used: %w", err)
	}
	return nil
}
