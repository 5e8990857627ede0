package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/badarts/club-backend/models"
)

var (
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrRegistrationConflict = errors.New("user already registered")
)

type RegistrationRepository interface {
	Create(ctx context.Context, reg *models.TournamentRegistration) error
	Delete(ctx context.Context, userID, tournamentID int) error
	Exists(ctx context.Context, userID, tournamentID int) (bool, error)
	ListUsers(ctx context.Context, tournamentID int) ([]models.User, error)
}

type postgresRegistrationRepository struct {
	db *sql.DB
}

func NewPostgresRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &postgresRegistrationRepository{db: db}
}

func (r *postgresRegistrationRepository) Create(ctx context.Context, reg *models.TournamentRegistration) error {
	query := `
		INSERT INTO tournament_registrations (user_id, tournament_id)
		VALUES ($1, $2)
		RETURNING registration_date`
	err := r.db.QueryRowContext(ctx, query, reg.UserID, reg.TournamentID).Scan(&reg.RegistrationDate)
	if err != nil {
		if code, _, ok := pqError(err); ok {
			switch code {
			case pqUniqueViolation:
				return ErrRegistrationConflict
			case pqForeignKeyViolation:
				return ErrTournamentNotFound
			}
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *postgresRegistrationRepository) Delete(ctx context.Context, userID, tournamentID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tournament_registrations WHERE user_id = $1 AND tournament_id = $2`, userID, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete registration: %w", err)
	}
	return checkAffectedRows(result, ErrRegistrationNotFound)
}

func (r *postgresRegistrationRepository) Exists(ctx context.Context, userID, tournamentID int) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tournament_registrations WHERE user_id = $1 AND tournament_id = $2)`,
		userID, tournamentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}
	return exists, nil
}

func (r *postgresRegistrationRepository) ListUsers(ctx context.Context, tournamentID int) ([]models.User, error) {
	query := `
		SELECT u.id, u.email, u.name, u.nickname, u.discord, u.password_hash, u.role, u.is_active, u.created_at
		FROM tournament_registrations tr
		JOIN users u ON u.id = tr.user_id
		WHERE tr.tournament_id = $1
		ORDER BY tr.registration_date, u.id`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registered user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
