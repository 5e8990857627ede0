package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/badarts/club-backend/models"
)

var ErrOfficialLeaderboardNotFound = errors.New("official leaderboard not found")

type OfficialLeaderboardRepository interface {
	// Save replaces the stored ranking of lb.Board.
	Save(ctx context.Context, lb *models.OfficialLeaderboard) error
	Get(ctx context.Context, board string) (*models.OfficialLeaderboard, error)
}

type postgresOfficialLeaderboardRepository struct {
	db *sql.DB
}

func NewPostgresOfficialLeaderboardRepository(db *sql.DB) OfficialLeaderboardRepository {
	return &postgresOfficialLeaderboardRepository{db: db}
}

func (r *postgresOfficialLeaderboardRepository) Save(ctx context.Context, lb *models.OfficialLeaderboard) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO official_leaderboards (board, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (board) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at
		RETURNING updated_at`,
		lb.Board, []byte(lb.Data),
	).Scan(&lb.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save %s leaderboard: %w", lb.Board, err)
	}
	return nil
}

func (r *postgresOfficialLeaderboardRepository) Get(ctx context.Context, board string) (*models.OfficialLeaderboard, error) {
	lb := models.OfficialLeaderboard{Board: board}
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT data, updated_at FROM official_leaderboards WHERE board = $1`, board,
	).Scan(&data, &lb.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfficialLeaderboardNotFound
		}
		return nil, fmt.Errorf("failed to get %s leaderboard: %w", board, err)
	}
	lb.Data = data
	return &lb, nil
}
