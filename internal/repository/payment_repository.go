package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devsphere/enrollment-api/internal/model"
	"github.com/devsphere/enrollment-api/internal/service"
)

// PaymentRepository provides data access for payment records using pgx.
type PaymentRepository struct {
	pool PoolInterface
}

// NewPaymentRepository creates a new PaymentRepository with the given pool.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// NewPaymentRepositoryWithPool creates a new PaymentRepository with a custom pool
// interface. This is primarily used for testing.
func NewPaymentRepositoryWithPool(pool PoolInterface) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Insert inserts a new payment record. Status is left to the column default
// ("recorded") so the verifier is the only writer that sets it.
// Returns service.ErrPaymentExists if the provider payment ID is already recorded.
func (r *PaymentRepository) Insert(ctx context.Context, rec *model.PaymentRecord) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO payments (payment_id, order_id, signature, program_title, amount, user_name, user_email, user_phone)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.PaymentID, rec.OrderID, rec.Signature, rec.ProgramTitle,
		rec.Amount, rec.UserName, rec.UserEmail, rec.UserPhone)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrPaymentExists
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID retrieves a payment record by the provider-assigned payment ID.
// Returns nil, nil if the record is not found (service layer handles this).
func (r *PaymentRepository) GetByID(ctx context.Context, paymentID string) (*model.PaymentRecord, error) {
	query := `SELECT payment_id, order_id, signature, program_title, amount, user_name, user_email, user_phone, status, created_at
	          FROM payments WHERE payment_id = $1`

	var rec model.PaymentRecord
	err := r.pool.QueryRow(ctx, query, paymentID).Scan(
		&rec.PaymentID,
		&rec.OrderID,
		&rec.Signature,
		&rec.ProgramTitle,
		&rec.Amount,
		&rec.UserName,
		&rec.UserEmail,
		&rec.UserPhone,
		&rec.Status,
		&rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found - let service handle
		}
		return nil, fmt.Errorf("get payment %s: %w", paymentID, err)
	}
	return &rec, nil
}

// SetStatus updates the status of a payment record. Re-applying the same
// status is a no-op at the row level, which keeps verification idempotent.
// Returns service.ErrPaymentNotFound if no row matches.
func (r *PaymentRepository) SetStatus(ctx context.Context, paymentID, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE payments SET status = $2 WHERE payment_id = $1`,
		paymentID, status)
	if err != nil {
		return fmt.Errorf("set payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return service.ErrPaymentNotFound
	}
	return nil
}
