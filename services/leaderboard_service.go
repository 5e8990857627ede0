package services

import (
	"context"
	"fmt"

	"github.com/badarts/club-backend/repositories"
	"github.com/badarts/club-backend/standings"
)

// PoolLeaderboard is the standings of one pool.
type PoolLeaderboard struct {
	TournamentID int               `json:"tournament_id"`
	PoolID       int               `json:"pool_id"`
	PoolName     string            `json:"pool_name"`
	Leaderboard  []standings.Entry `json:"leaderboard"`
}

// LeaderboardService recomputes standings from the stored results on every
// call.
type LeaderboardService interface {
	TournamentLeaderboard(ctx context.Context, tournamentID int) ([]standings.Entry, error)
	PoolsLeaderboard(ctx context.Context, tournamentID int) ([]PoolLeaderboard, error)
	SeasonLeaderboard(ctx context.Context, season int) ([]standings.SeasonEntry, error)
}

type leaderboardService struct {
	tournamentRepo  repositories.TournamentRepository
	poolRepo        repositories.PoolRepository
	leaderboardRepo repositories.LeaderboardRepository
}

func NewLeaderboardService(
	tournamentRepo repositories.TournamentRepository,
	poolRepo repositories.PoolRepository,
	leaderboardRepo repositories.LeaderboardRepository,
) LeaderboardService {
	return &leaderboardService{
		tournamentRepo:  tournamentRepo,
		poolRepo:        poolRepo,
		leaderboardRepo: leaderboardRepo,
	}
}

func (s *leaderboardService) TournamentLeaderboard(ctx context.Context, tournamentID int) ([]standings.Entry, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	matches, err := s.leaderboardRepo.CompletedMatchesByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results of tournament %d: %w", tournamentID, err)
	}
	return standings.ByParticipant(matches), nil
}

func (s *leaderboardService) PoolsLeaderboard(ctx context.Context, tournamentID int) ([]PoolLeaderboard, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	pools, err := s.poolRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}
	matches, err := s.leaderboardRepo.CompletedMatchesByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results of tournament %d: %w", tournamentID, err)
	}

	byPool := make(map[int][]standings.Match)
	for _, m := range matches {
		if m.PoolID != nil {
			byPool[*m.PoolID] = append(byPool[*m.PoolID], m)
		}
	}

	result := make([]PoolLeaderboard, 0, len(pools))
	for _, p := range pools {
		result = append(result, PoolLeaderboard{
			TournamentID: tournamentID,
			PoolID:       p.ID,
			PoolName:     p.Name,
			Leaderboard:  standings.ByParticipant(byPool[p.ID]),
		})
	}
	return result, nil
}

func (s *leaderboardService) SeasonLeaderboard(ctx context.Context, season int) ([]standings.SeasonEntry, error) {
	matches, err := s.leaderboardRepo.CompletedMatchesBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load results of season %d: %w", season, err)
	}
	return standings.BySeason(matches), nil
}
