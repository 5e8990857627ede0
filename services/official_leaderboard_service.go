package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/official"
	"github.com/badarts/club-backend/repositories"
)

type OfficialLeaderboard struct {
	Leaderboard []official.Category `json:"leaderboard"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type OfficialLeaderboardService interface {
	// Update replaces the ranking of board with the one read from a
	// federation PDF.
	Update(ctx context.Context, board string, file io.ReaderAt, size int64) error
	Get(ctx context.Context, board string) (*OfficialLeaderboard, error)
}

type officialLeaderboardService struct {
	repo      repositories.OfficialLeaderboardRepository
	readPages func(io.ReaderAt, int64) ([]official.Page, error)
	logger    *slog.Logger
}

func NewOfficialLeaderboardService(repo repositories.OfficialLeaderboardRepository, logger *slog.Logger) OfficialLeaderboardService {
	return &officialLeaderboardService{repo: repo, readPages: official.ReadPDF, logger: logger}
}

func (s *officialLeaderboardService) Update(ctx context.Context, board string, file io.ReaderAt, size int64) error {
	if !official.KnownBoard(board) {
		return ErrUnknownLeaderboard
	}

	pages, err := s.readPages(file, size)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidImportFile, err)
	}
	categories, err := official.Parse(board, pages)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidImportFile, err)
	}

	data, err := json.Marshal(categories)
	if err != nil {
		return fmt.Errorf("failed to encode %s leaderboard: %w", board, err)
	}
	if err := s.repo.Save(ctx, &models.OfficialLeaderboard{Board: board, Data: data}); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "official leaderboard updated",
		slog.String("board", board),
		slog.Int("pages", len(pages)),
		slog.Int("categories", len(categories)),
	)
	return nil
}

func (s *officialLeaderboardService) Get(ctx context.Context, board string) (*OfficialLeaderboard, error) {
	if !official.KnownBoard(board) {
		return nil, ErrUnknownLeaderboard
	}

	stored, err := s.repo.Get(ctx, board)
	if err != nil {
		if errors.Is(err, repositories.ErrOfficialLeaderboardNotFound) {
			return nil, ErrOfficialLeaderboardNotFound
		}
		return nil, err
	}

	lb := &OfficialLeaderboard{UpdatedAt: stored.UpdatedAt}
	if err := json.Unmarshal(stored.Data, &lb.Leaderboard); err != nil {
		return nil, fmt.Errorf("failed to decode %s leaderboard: %w", board, err)
	}
	return lb, nil
}
