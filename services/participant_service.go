package services

import (
	"context"
	"fmt"

	"github.com/badarts/club-backend/brackets"
	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/repositories"
)

type CreateParticipantInput struct {
	Name    *string `json:"name,omitempty"`
	UserIDs []int   `json:"user_ids"`
}

type ParticipantService interface {
	Create(ctx context.Context, tournamentID int, input CreateParticipantInput) (*models.Participant, error)
	List(ctx context.Context, tournamentID int) ([]models.Participant, error)
	Delete(ctx context.Context, tournamentID, participantID int) error
	// SwapPlayer corrects a finished single-player tournament by giving a
	// participant's results to another user.
	SwapPlayer(ctx context.Context, tournamentID int, input SwapPlayerInput) (*models.Participant, error)
}

type SwapPlayerInput struct {
	WrongParticipantID int `json:"wrong_participant_id"`
	CorrectUserID      int `json:"correct_user_id"`
}

type participantService struct {
	tx              Transactor
	participantRepo repositories.ParticipantRepository
	tournamentRepo  repositories.TournamentRepository
	hub             brackets.Broadcaster
}

func NewParticipantService(
	tx Transactor,
	participantRepo repositories.ParticipantRepository,
	tournamentRepo repositories.TournamentRepository,
	hub brackets.Broadcaster,
) ParticipantService {
	return &participantService{
		tx:              tx,
		participantRepo: participantRepo,
		tournamentRepo:  tournamentRepo,
		hub:             hub,
	}
}

// Create adds a participant. A single-mode tournament takes exactly one user
// per participant, a team-mode tournament at least two.
func (s *participantService) Create(ctx context.Context, tournamentID int, input CreateParticipantInput) (*models.Participant, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	n := len(input.UserIDs)
	switch t.Mode {
	case models.ModeSingle:
		if n != 1 {
			return nil, fmt.Errorf("%w: single mode needs exactly one user, got %d", ErrInvalidParticipantCount, n)
		}
	default:
		if n < 2 {
			return nil, fmt.Errorf("%w: team mode needs at least two users, got %d", ErrInvalidParticipantCount, n)
		}
	}
	if !uniqueInts(input.UserIDs) {
		return nil, &ValidationError{Fields: map[string]string{"user_ids": "must not contain duplicates"}}
	}

	p := &models.Participant{TournamentID: tournamentID, Name: trimmedPtr(input.Name)}
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.participantRepo.Create(ctx, exec, p, input.UserIDs)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	created, err := s.participantRepo.GetByID(ctx, p.ID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	broadcast(s.hub, tournamentID, brackets.MessageStructureUpdated, map[string]interface{}{"participant": created})
	return created, nil
}

func (s *participantService) List(ctx context.Context, tournamentID int) ([]models.Participant, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return participants, nil
}

func (s *participantService) Delete(ctx context.Context, tournamentID, participantID int) error {
	if err := s.participantRepo.Delete(ctx, tournamentID, participantID); err != nil {
		return handleRepositoryError(err)
	}
	broadcast(s.hub, tournamentID, brackets.MessageStructureUpdated, map[string]interface{}{"deleted_participant_id": participantID})
	return nil
}

func (s *participantService) SwapPlayer(ctx context.Context, tournamentID int, input SwapPlayerInput) (*models.Participant, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if t.Status != models.TournamentFinished {
		return nil, fmt.Errorf("%w: tournament is not finished", ErrSwapNotAllowed)
	}
	if t.Mode != models.ModeSingle {
		return nil, fmt.Errorf("%w: only single-player tournaments", ErrSwapNotAllowed)
	}

	wrong, err := s.participantRepo.GetByID(ctx, input.WrongParticipantID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if wrong.TournamentID != tournamentID {
		return nil, ErrParticipantNotFound
	}
	if len(wrong.Members) != 1 {
		return nil, fmt.Errorf("%w: participant has %d members", ErrSwapNotAllowed, len(wrong.Members))
	}

	participants, err := s.participantRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	for _, p := range participants {
		for _, m := range p.Members {
			if m.UserID == input.CorrectUserID {
				return nil, fmt.Errorf("%w: user already plays in this tournament", ErrSwapNotAllowed)
			}
		}
	}

	oldUserID := wrong.Members[0].UserID
	err = s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.participantRepo.ReplaceMember(ctx, exec, wrong.ID, oldUserID, input.CorrectUserID)
	})
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	swapped, err := s.participantRepo.GetByID(ctx, wrong.ID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	broadcast(s.hub, tournamentID, brackets.MessageStructureUpdated, map[string]interface{}{"participant": swapped})
	return swapped, nil
}
