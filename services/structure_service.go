package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/badarts/club-backend/brackets"
	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/repositories"
)

type CreatePoolInput struct {
	Name           string `json:"name"`
	ParticipantIDs []int  `json:"participant_ids"`
}

// StructureService builds the pools and the final bracket of a tournament.
type StructureService interface {
	CreatePool(ctx context.Context, tournamentID int, input CreatePoolInput) (*models.Pool, error)
	ListPools(ctx context.Context, tournamentID int) ([]models.Pool, error)
	GeneratePools(ctx context.Context, tournamentID, numPools int) ([]models.Pool, error)
	GenerateFinals(ctx context.Context, tournamentID int, participantIDs []int) ([]models.Match, error)
	AdvanceFinals(ctx context.Context, tournamentID, round int) ([]models.Match, error)
}

type structureService struct {
	tx              Transactor
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	poolRepo        repositories.PoolRepository
	matchRepo       repositories.MatchRepository
	hub             brackets.Broadcaster
	logger          *slog.Logger
}

func NewStructureService(
	tx Transactor,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	poolRepo repositories.PoolRepository,
	matchRepo repositories.MatchRepository,
	hub brackets.Broadcaster,
	logger *slog.Logger,
) StructureService {
	return &structureService{
		tx:              tx,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		poolRepo:        poolRepo,
		matchRepo:       matchRepo,
		hub:             hub,
		logger:          logger,
	}
}

func (s *structureService) CreatePool(ctx context.Context, tournamentID int, input CreatePoolInput) (*models.Pool, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}

	v := validator{}
	name := strings.TrimSpace(input.Name)
	v.check(name != "", "name", "must be provided")
	v.check(uniqueInts(input.ParticipantIDs), "participant_ids", "must not contain duplicates")
	if err := v.err(); err != nil {
		return nil, err
	}

	pool := &models.Pool{TournamentID: tournamentID, Name: name}
	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.poolRepo.Create(ctx, exec, pool, input.ParticipantIDs)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	created, err := s.poolRepo.GetByID(ctx, pool.ID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	s.structureChanged(tournamentID)
	return created, nil
}

func (s *structureService) ListPools(ctx context.Context, tournamentID int) ([]models.Pool, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	pools, err := s.poolRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	pools, _ = attachMatches(pools, matches)
	return pools, nil
}

// GeneratePools replaces the structure of the tournament with numPools pools
// and one round-robin match per pair inside each pool.
func (s *structureService) GeneratePools(ctx context.Context, tournamentID, numPools int) ([]models.Pool, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	if numPools < 1 {
		return nil, &ValidationError{Fields: map[string]string{"num_pools": "must be at least 1"}}
	}

	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	if len(participants) < 2 {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, brackets.ErrNotEnoughParticipants)
	}
	ids := make([]int, len(participants))
	for i, p := range participants {
		ids[i] = p.ID
	}

	drafts := brackets.DistributePools(ids, numPools)
	generator := brackets.NewRoundRobinGenerator()

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.DeleteByTournament(ctx, exec, tournamentID); err != nil {
			return err
		}
		if err := s.poolRepo.DeleteByTournament(ctx, exec, tournamentID); err != nil {
			return err
		}
		for _, d := range drafts {
			pool := &models.Pool{TournamentID: tournamentID, Name: d.Name}
			if err := s.poolRepo.Create(ctx, exec, pool, d.ParticipantIDs); err != nil {
				return err
			}
			if len(d.ParticipantIDs) < 2 {
				continue
			}
			pairings, err := generator.Generate(d.ParticipantIDs)
			if err != nil {
				return err
			}
			poolID := pool.ID
			if err := s.createMatches(ctx, exec, tournamentID, &poolID, pairings); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pools: %w", handleRepositoryError(err))
	}

	s.logger.Info("pools generated", slog.Int("tournament_id", tournamentID), slog.Int("pools", len(drafts)))
	s.structureChanged(tournamentID)
	return s.ListPools(ctx, tournamentID)
}

// GenerateFinals pairs the given seeds (1 vs 2, 3 vs 4, ...) into round 1 of
// the final bracket.
func (s *structureService) GenerateFinals(ctx context.Context, tournamentID int, participantIDs []int) ([]models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}

	pairings, err := brackets.NewSingleEliminationGenerator(1).Generate(participantIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.createMatches(ctx, exec, tournamentID, nil, pairings)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.structureChanged(tournamentID)
	return s.finals(ctx, tournamentID, 1)
}

// AdvanceFinals creates round+1 from the winners of round.
func (s *structureService) AdvanceFinals(ctx context.Context, tournamentID, round int) ([]models.Match, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	if round < 1 {
		return nil, &ValidationError{Fields: map[string]string{"round": "must be at least 1"}}
	}

	current, err := s.finals(ctx, tournamentID, round)
	if err != nil {
		return nil, err
	}
	next, err := s.finals(ctx, tournamentID, round+1)
	if err != nil {
		return nil, err
	}
	if len(next) > 0 {
		return nil, ErrRoundAlreadyGenerated
	}
	if len(current) < 2 {
		return nil, ErrNothingToAdvance
	}

	results := make([]brackets.RoundResult, len(current))
	for i, m := range current {
		winner, decided := m.Winner()
		results[i] = brackets.RoundResult{MatchID: m.ID, WinnerID: winner, Decided: decided}
	}

	pairings, err := brackets.NextRound(round, results)
	if err != nil {
		switch {
		case errors.Is(err, brackets.ErrRoundUndecided):
			return nil, fmt.Errorf("%w: %w", ErrRoundUndecided, err)
		case errors.Is(err, brackets.ErrOddParticipants), errors.Is(err, brackets.ErrNotEnoughParticipants):
			return nil, fmt.Errorf("%w: %w", ErrNothingToAdvance, err)
		}
		return nil, err
	}

	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.createMatches(ctx, exec, tournamentID, nil, pairings)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	s.structureChanged(tournamentID)
	return s.finals(ctx, tournamentID, round+1)
}

func (s *structureService) createMatches(ctx context.Context, exec repositories.SQLExecutor, tournamentID int, poolID *int, pairings []brackets.Pairing) error {
	for _, p := range pairings {
		m := &models.Match{
			TournamentID: tournamentID,
			PoolID:       poolID,
			Status:       models.MatchPending,
			Round:        p.Round,
			Players: []models.MatchPlayer{
				{ParticipantID: p.Participant1},
				{ParticipantID: p.Participant2},
			},
		}
		if err := s.matchRepo.Create(ctx, exec, m); err != nil {
			return err
		}
	}
	return nil
}

// finals returns the matches of one final round, in creation order.
func (s *structureService) finals(ctx context.Context, tournamentID, round int) ([]models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	out := []models.Match{}
	for _, m := range matches {
		if m.PoolID == nil && m.Round == round {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *structureService) structureChanged(tournamentID int) {
	broadcast(s.hub, tournamentID, brackets.MessageStructureUpdated, map[string]interface{}{"tournament_id": tournamentID})
}
