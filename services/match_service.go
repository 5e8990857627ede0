package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/badarts/club-backend/brackets"
	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/repositories"
)

type CreateMatchInput struct {
	TournamentID   int                 `json:"tournament_id"`
	ParticipantIDs []int               `json:"participant_ids"`
	PoolID         *int                `json:"pool_id,omitempty"`
	Round          *int                `json:"round,omitempty"`
	Status         *models.MatchStatus `json:"status,omitempty"`
}

type ScoreInput struct {
	ParticipantID int      `json:"participant_id"`
	Score         *float64 `json:"score"`
}

type UpdateMatchInput struct {
	Status *models.MatchStatus `json:"status,omitempty"`
	Scores []ScoreInput        `json:"scores,omitempty"`
}

type MatchService interface {
	Create(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
	Update(ctx context.Context, id int, input UpdateMatchInput) (*models.Match, error)
	Cancel(ctx context.Context, id int) (*models.Match, error)
	Delete(ctx context.Context, id int) error
}

type matchService struct {
	tx             Transactor
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	poolRepo       repositories.PoolRepository
	leaderboard    LeaderboardService
	hub            brackets.Broadcaster
	logger         *slog.Logger
}

func NewMatchService(
	tx Transactor,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	poolRepo repositories.PoolRepository,
	leaderboard LeaderboardService,
	hub brackets.Broadcaster,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		tx:             tx,
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		poolRepo:       poolRepo,
		leaderboard:    leaderboard,
		hub:            hub,
		logger:         logger,
	}
}

func (s *matchService) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, input.TournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}

	v := validator{}
	v.check(len(input.ParticipantIDs) == 2, "participant_ids", "a match needs exactly two participants")
	v.check(uniqueInts(input.ParticipantIDs), "participant_ids", "must not contain duplicates")
	m := &models.Match{TournamentID: input.TournamentID, PoolID: input.PoolID, Status: models.MatchPending, Round: 1}
	if input.Round != nil {
		v.check(*input.Round >= 1, "round", "must be at least 1")
		m.Round = *input.Round
	}
	if input.Status != nil {
		v.check(input.Status.Valid(), "status", "must be pending, completed or cancelled")
		m.Status = *input.Status
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	if m.Status == models.MatchCompleted {
		return nil, ErrMatchScoresRequired
	}
	if input.PoolID != nil {
		pool, err := s.poolRepo.GetByID(ctx, *input.PoolID)
		if err != nil {
			return nil, handleRepositoryError(err)
		}
		if pool.TournamentID != input.TournamentID {
			return nil, ErrPoolNotFound
		}
	}

	for _, id := range input.ParticipantIDs {
		m.Players = append(m.Players, models.MatchPlayer{ParticipantID: id})
	}
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.matchRepo.Create(ctx, exec, m)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	created, err := s.matchRepo.GetByID(ctx, m.ID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	broadcast(s.hub, created.TournamentID, brackets.MessageStructureUpdated, map[string]interface{}{"match": created})
	return created, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches of tournament %d: %w", tournamentID, err)
	}
	return matches, nil
}

// Update applies a status change and/or new scores. Scores not mentioned keep
// their current value.
func (s *matchService) Update(ctx context.Context, id int, input UpdateMatchInput) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	next := m.Status
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, &ValidationError{Fields: map[string]string{"status": "must be pending, completed or cancelled"}}
		}
		next = *input.Status
	}
	if !m.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, m.Status, next)
	}

	scores, err := mergeScores(m.Players, input.Scores)
	if err != nil {
		return nil, err
	}
	if next == models.MatchCompleted {
		if len(scores) != 2 {
			return nil, ErrMatchScoresRequired
		}
		for _, sc := range scores {
			if sc == nil {
				return nil, ErrMatchScoresRequired
			}
		}
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.matchRepo.UpdateResult(ctx, exec, id, next, scores)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	return s.reloadAndPublish(ctx, id)
}

// Cancel clears the scores of a match and puts it back to pending.
func (s *matchService) Cancel(ctx context.Context, id int) (*models.Match, error) {
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.matchRepo.ResetScores(ctx, exec, id)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return s.reloadAndPublish(ctx, id)
}

func (s *matchService) Delete(ctx context.Context, id int) error {
	m, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return handleRepositoryError(err)
	}
	if err := s.matchRepo.Delete(ctx, id); err != nil {
		return handleRepositoryError(err)
	}
	broadcast(s.hub, m.TournamentID, brackets.MessageMatchDeleted, map[string]interface{}{
		"match_id":    id,
		"leaderboard": s.currentLeaderboard(ctx, m.TournamentID),
	})
	return nil
}

func (s *matchService) reloadAndPublish(ctx context.Context, id int) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	broadcast(s.hub, m.TournamentID, brackets.MessageMatchUpdated, map[string]interface{}{
		"match":       m,
		"leaderboard": s.currentLeaderboard(ctx, m.TournamentID),
	})
	return m, nil
}

func (s *matchService) currentLeaderboard(ctx context.Context, tournamentID int) interface{} {
	if s.leaderboard == nil {
		return nil
	}
	entries, err := s.leaderboard.TournamentLeaderboard(ctx, tournamentID)
	if err != nil {
		s.logger.Warn("failed to compute leaderboard for broadcast", slog.Int("tournament_id", tournamentID), slog.Any("error", err))
		return nil
	}
	return entries
}

// mergeScores overlays updates on the current scores. Every update must name a
// participant of the match.
func mergeScores(players []models.MatchPlayer, updates []ScoreInput) (map[int]*float64, error) {
	scores := make(map[int]*float64, len(players))
	for _, p := range players {
		scores[p.ParticipantID] = p.Score
	}
	for _, u := range updates {
		if _, ok := scores[u.ParticipantID]; !ok {
			return nil, fmt.Errorf("%w: participant %d", ErrMatchInvalidParticipant, u.ParticipantID)
		}
		if u.Score != nil && *u.Score < 0 {
			return nil, &ValidationError{Fields: map[string]string{"scores": "must not be negative"}}
		}
		scores[u.ParticipantID] = u.Score
	}
	return scores, nil
}
