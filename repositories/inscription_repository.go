package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/badarts/club-backend/models"
)

var (
	ErrInscriptionNotFound         = errors.New("inscription not found")
	ErrInscriptionInvalidDoublette = errors.New("doublette partner inscription does not exist")
)

type InscriptionRepository interface {
	Create(ctx context.Context, exec SQLExecutor, in *models.Inscription) error
	GetByID(ctx context.Context, id int) (*models.Inscription, error)
	List(ctx context.Context, limit, offset int) ([]models.Inscription, error)
	ListActive(ctx context.Context) ([]models.Inscription, error)
	ListByPerson(ctx context.Context, fullName string) ([]models.Inscription, error)
	Update(ctx context.Context, exec SQLExecutor, in *models.Inscription) error
	Delete(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) (int64, error)
	// IdentityTaken reports whether another inscription has the same name, surname and club.
	IdentityTaken(ctx context.Context, name, surname, club string, excludeID int) (bool, error)
	FindForImport(ctx context.Context, exec SQLExecutor, name, surname, club, date string) (*models.Inscription, error)
	SetDoublette(ctx context.Context, exec SQLExecutor, id int, partnerID *int) error
}

type postgresInscriptionRepository struct {
	db *sql.DB
}

func NewPostgresInscriptionRepository(db *sql.DB) InscriptionRepository {
	return &postgresInscriptionRepository{db: db}
}

const inscriptionColumns = `id, date, name, surname, club, player_number, category_simple, category_double, doublette`

func scanInscription(row interface{ Scan(...interface{}) error }) (*models.Inscription, error) {
	var (
		in                   models.Inscription
		number, doublette    sql.NullInt64
		catSimple, catDouble sql.NullString
	)
	err := row.Scan(&in.ID, &in.Date, &in.Name, &in.Surname, &in.Club, &number, &catSimple, &catDouble, &doublette)
	if err != nil {
		return nil, err
	}
	in.PlayerNumber = intPtr(number)
	in.CategorySimple = stringPtr(catSimple)
	in.CategoryDouble = stringPtr(catDouble)
	in.Doublette = intPtr(doublette)
	return &in, nil
}

func (r *postgresInscriptionRepository) Create(ctx context.Context, exec SQLExecutor, in *models.Inscription) error {
	err := executor(r.db, exec).QueryRowContext(ctx, `
		INSERT INTO inscriptions (date, name, surname, club, player_number, category_simple, category_double, doublette)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		in.Date, in.Name, in.Surname, in.Club, in.PlayerNumber,
		nullIfEmpty(in.CategorySimple), nullIfEmpty(in.CategoryDouble), in.Doublette,
	).Scan(&in.ID)
	if err != nil {
		if code, _, ok := pqError(err); ok && code == pqForeignKeyViolation {
			return ErrInscriptionInvalidDoublette
		}
		return fmt.Errorf("failed to create inscription: %w", err)
	}
	return nil
}

func (r *postgresInscriptionRepository) GetByID(ctx context.Context, id int) (*models.Inscription, error) {
	in, err := scanInscription(r.db.QueryRowContext(ctx, `SELECT `+inscriptionColumns+` FROM inscriptions WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInscriptionNotFound
		}
		return nil, fmt.Errorf("failed to get inscription %d: %w", id, err)
	}
	return in, nil
}

func (r *postgresInscriptionRepository) List(ctx context.Context, limit, offset int) ([]models.Inscription, error) {
	return r.list(ctx, `SELECT `+inscriptionColumns+` FROM inscriptions ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
}

func (r *postgresInscriptionRepository) ListActive(ctx context.Context) ([]models.Inscription, error) {
	return r.list(ctx, `
		SELECT `+inscriptionColumns+` FROM inscriptions
		WHERE COALESCE(category_simple, '') <> '' OR COALESCE(category_double, '') <> ''
		ORDER BY id`)
}

// ListByPerson matches a user's full name against "name surname" in either order.
func (r *postgresInscriptionRepository) ListByPerson(ctx context.Context, fullName string) ([]models.Inscription, error) {
	return r.list(ctx, `
		SELECT `+inscriptionColumns+` FROM inscriptions
		WHERE lower(name || ' ' || surname) = lower($1) OR lower(surname || ' ' || name) = lower($1)
		ORDER BY id`, fullName)
}

func (r *postgresInscriptionRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Inscription, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list inscriptions: %w", err)
	}
	defer rows.Close()

	out := make([]models.Inscription, 0)
	for rows.Next() {
		in, err := scanInscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inscription: %w", err)
		}
		out = append(out, *in)
	}
	return out, rows.Err()
}

func (r *postgresInscriptionRepository) Update(ctx context.Context, exec SQLExecutor, in *models.Inscription) error {
	result, err := executor(r.db, exec).ExecContext(ctx, `
		UPDATE inscriptions SET
			date = $1, name = $2, surname = $3, club = $4, player_number = $5,
			category_simple = $6, category_double = $7, doublette = $8
		WHERE id = $9`,
		in.Date, in.Name, in.Surname, in.Club, in.PlayerNumber,
		nullIfEmpty(in.CategorySimple), nullIfEmpty(in.CategoryDouble), in.Doublette, in.ID)
	if err != nil {
		if code, _, ok := pqError(err); ok && code == pqForeignKeyViolation {
			return ErrInscriptionInvalidDoublette
		}
		return fmt.Errorf("failed to update inscription %d: %w", in.ID, err)
	}
	return checkAffectedRows(result, ErrInscriptionNotFound)
}

func (r *postgresInscriptionRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM inscriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete inscription %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrInscriptionNotFound)
}

func (r *postgresInscriptionRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM inscriptions`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete inscriptions: %w", err)
	}
	return result.RowsAffected()
}

func (r *postgresInscriptionRepository) IdentityTaken(ctx context.Context, name, surname, club string, excludeID int) (bool, error) {
	var taken bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM inscriptions
			WHERE name = $1 AND surname = $2 AND club = $3 AND id <> $4
		)`, name, surname, club, excludeID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check inscription identity: %w", err)
	}
	return taken, nil
}

func (r *postgresInscriptionRepository) FindForImport(ctx context.Context, exec SQLExecutor, name, surname, club, date string) (*models.Inscription, error) {
	in, err := scanInscription(executor(r.db, exec).QueryRowContext(ctx, `
		SELECT `+inscriptionColumns+` FROM inscriptions
		WHERE name = $1 AND surname = $2 AND club = $3 AND date = $4
		ORDER BY id LIMIT 1`, name, surname, club, date))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInscriptionNotFound
		}
		return nil, fmt.Errorf("failed to look up inscription: %w", err)
	}
	return in, nil
}

func (r *postgresInscriptionRepository) SetDoublette(ctx context.Context, exec SQLExecutor, id int, partnerID *int) error {
	result, err := executor(r.db, exec).ExecContext(ctx, `UPDATE inscriptions SET doublette = $1 WHERE id = $2`, partnerID, id)
	if err != nil {
		return fmt.Errorf("failed to set doublette of inscription %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrInscriptionNotFound)
}
