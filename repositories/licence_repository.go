package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/badarts/club-backend/models"
)

var (
	ErrLicenceNotFound       = errors.New("licence not found")
	ErrLicenceNumberConflict = errors.New("licence number already exists")
)

type LicenceRepository interface {
	Create(ctx context.Context, l *models.Licence) error
	GetByID(ctx context.Context, id int) (*models.Licence, error)
	List(ctx context.Context, limit, offset int) ([]models.Licence, error)
	ListByUser(ctx context.Context, userID int) ([]models.Licence, error)
	Update(ctx context.Context, l *models.Licence) error
	Delete(ctx context.Context, id int) error
	NumberExists(ctx context.Context, number string) (bool, error)
}

type postgresLicenceRepository struct {
	db *sql.DB
}

func NewPostgresLicenceRepository(db *sql.DB) LicenceRepository {
	return &postgresLicenceRepository{db: db}
}

const licenceColumns = `id, ligue, comite, club_number, club_name, name, surname, category, licence_number, user_id`

func scanLicence(row interface{ Scan(...interface{}) error }) (*models.Licence, error) {
	var l models.Licence
	err := row.Scan(&l.ID, &l.Ligue, &l.Comite, &l.ClubNumber, &l.ClubName, &l.Name, &l.Surname, &l.Category, &l.LicenceNumber, &l.UserID)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *postgresLicenceRepository) Create(ctx context.Context, l *models.Licence) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO licences (ligue, comite, club_number, club_name, name, surname, category, licence_number, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		l.Ligue, l.Comite, l.ClubNumber, l.ClubName, l.Name, l.Surname, l.Category, l.LicenceNumber, l.UserID,
	).Scan(&l.ID)
	return r.handleLicenceError(err)
}

func (r *postgresLicenceRepository) GetByID(ctx context.Context, id int) (*models.Licence, error) {
	l, err := scanLicence(r.db.QueryRowContext(ctx, `SELECT `+licenceColumns+` FROM licences WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLicenceNotFound
		}
		return nil, fmt.Errorf("failed to get licence %d: %w", id, err)
	}
	return l, nil
}

func (r *postgresLicenceRepository) List(ctx context.Context, limit, offset int) ([]models.Licence, error) {
	return r.list(ctx, `SELECT `+licenceColumns+` FROM licences ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *postgresLicenceRepository) ListByUser(ctx context.Context, userID int) ([]models.Licence, error) {
	return r.list(ctx, `SELECT `+licenceColumns+` FROM licences WHERE user_id = $1 ORDER BY id`, userID)
}

func (r *postgresLicenceRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Licence, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list licences: %w", err)
	}
	defer rows.Close()

	licences := make([]models.Licence, 0)
	for rows.Next() {
		l, err := scanLicence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan licence: %w", err)
		}
		licences = append(licences, *l)
	}
	return licences, rows.Err()
}

func (r *postgresLicenceRepository) Update(ctx context.Context, l *models.Licence) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE licences SET
			ligue = $1, comite = $2, club_number = $3, club_name = $4, name = $5,
			surname = $6, category = $7, licence_number = $8, user_id = $9
		WHERE id = $10`,
		l.Ligue, l.Comite, l.ClubNumber, l.ClubName, l.Name, l.Surname, l.Category, l.LicenceNumber, l.UserID, l.ID)
	if err != nil {
		return r.handleLicenceError(err)
	}
	return checkAffectedRows(result, ErrLicenceNotFound)
}

func (r *postgresLicenceRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM licences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete licence %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrLicenceNotFound)
}

func (r *postgresLicenceRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM licences WHERE licence_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check licence number: %w", err)
	}
	return exists, nil
}

func (r *postgresLicenceRepository) handleLicenceError(err error) error {
	if err == nil {
		return nil
	}
	if code, _, ok := pqError(err); ok {
		switch code {
		case pqUniqueViolation:
			return ErrLicenceNumberConflict
		case pqForeignKeyViolation:
			return ErrUserNotFound
		}
	}
	return fmt.Errorf("licence query failed: %w", err)
}
