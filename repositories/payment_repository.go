package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PaymentRepository interface {
	MarkPaid(ctx context.Context, userID, tournamentID int, reference string) error
	IsPaid(ctx context.Context, userID, tournamentID int) (bool, error)
}

type postgresPaymentRepository struct {
	db *sql.DB
}

func NewPostgresPaymentRepository(db *sql.DB) PaymentRepository {
	return &postgresPaymentRepository{db: db}
}

func (r *postgresPaymentRepository) MarkPaid(ctx context.Context, userID, tournamentID int, reference string) error {
	query := `
		INSERT INTO tournament_payments (user_id, tournament_id, paid, reference, updated_at)
		VALUES ($1, $2, TRUE, NULLIF($3, ''), NOW())
		ON CONFLICT (user_id, tournament_id)
		DO UPDATE SET paid = TRUE, reference = EXCLUDED.reference, updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, userID, tournamentID, reference); err != nil {
		if code, constraint, ok := pqError(err); ok && code == pqForeignKeyViolation {
			if constraint == "tournament_payments_user_id_fkey" {
				return ErrUserNotFound
			}
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to mark payment: %w", err)
	}
	return nil
}

func (r *postgresPaymentRepository) IsPaid(ctx context.Context, userID, tournamentID int) (bool, error) {
	var paid bool
	err := r.db.QueryRowContext(ctx,
		`SELECT paid FROM tournament_payments WHERE user_id = $1 AND tournament_id = $2`,
		userID, tournamentID).Scan(&paid)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check payment: %w", err)
	}
	return paid, nil
}
