package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/badarts/club-backend/models"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

type RefreshTokenRepository interface {
	Create(ctx context.Context, t *models.RefreshToken) error
	GetByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	// Revoke marks an active token as revoked. Revoking an already revoked
	// token returns ErrRefreshTokenNotFound.
	Revoke(ctx context.Context, id int) error
	List(ctx context.Context) ([]models.RefreshToken, error)
}

type postgresRefreshTokenRepository struct {
	db *sql.DB
}

func NewPostgresRefreshTokenRepository(db *sql.DB) RefreshTokenRepository {
	return &postgresRefreshTokenRepository{db: db}
}

const refreshTokenColumns = `id, user_id, token_hash, created_at, expires_at, revoked`

func scanRefreshToken(row interface{ Scan(...interface{}) error }) (*models.RefreshToken, error) {
	var t models.RefreshToken
	if err := row.Scan(&t.ID, &t.UserID, &t.TokenHash, &t.CreatedAt, &t.ExpiresAt, &t.Revoked); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *postgresRefreshTokenRepository) Create(ctx context.Context, t *models.RefreshToken) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		t.UserID, t.TokenHash, t.ExpiresAt,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if code, _, ok := pqError(err); ok && code == pqForeignKeyViolation {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (r *postgresRefreshTokenRepository) GetByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	t, err := scanRefreshToken(r.db.QueryRowContext(ctx,
		`SELECT `+refreshTokenColumns+` FROM refresh_tokens WHERE token_hash = $1`, hash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRefreshTokenNotFound
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return t, nil
}

func (r *postgresRefreshTokenRepository) Revoke(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE id = $1 AND NOT revoked`, id)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrRefreshTokenNotFound)
}

func (r *postgresRefreshTokenRepository) List(ctx context.Context) ([]models.RefreshToken, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+refreshTokenColumns+` FROM refresh_tokens ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list refresh tokens: %w", err)
	}
	defer rows.Close()

	tokens := make([]models.RefreshToken, 0)
	for rows.Next() {
		t, err := scanRefreshToken(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan refresh token: %w", err)
		}
		tokens = append(tokens, *t)
	}
	return tokens, rows.Err()
}
