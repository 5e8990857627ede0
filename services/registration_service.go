package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/notify"
	"github.com/badarts/club-backend/repositories"
)

type RegistrationService interface {
	Register(ctx context.Context, userID, tournamentID int) (*models.TournamentRegistration, error)
	Unregister(ctx context.Context, userID, tournamentID int) error
	IsRegistered(ctx context.Context, userID, tournamentID int) (bool, error)
	ListUsers(ctx context.Context, tournamentID int) ([]models.User, error)
}

type registrationService struct {
	registrationRepo repositories.RegistrationRepository
	tournamentRepo   repositories.TournamentRepository
	userRepo         repositories.UserRepository
	notifier         notify.Notifier
	logger           *slog.Logger
}

func NewRegistrationService(
	registrationRepo repositories.RegistrationRepository,
	tournamentRepo repositories.TournamentRepository,
	userRepo repositories.UserRepository,
	notifier notify.Notifier,
	logger *slog.Logger,
) RegistrationService {
	return &registrationService{
		registrationRepo: registrationRepo,
		tournamentRepo:   tournamentRepo,
		userRepo:         userRepo,
		notifier:         notifier,
		logger:           logger,
	}
}

func (s *registrationService) Register(ctx context.Context, userID, tournamentID int) (*models.TournamentRegistration, error) {
	t, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if !t.RegistrationsOpen {
		return nil, ErrRegistrationNotOpen
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	reg := &models.TournamentRegistration{UserID: userID, TournamentID: tournamentID}
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		return nil, handleRepositoryError(err)
	}

	notifyAsync(ctx, s.notifier, s.logger, notify.TournamentRegistration(user.Nickname, t.Name))
	return reg, nil
}

func (s *registrationService) Unregister(ctx context.Context, userID, tournamentID int) error {
	return handleRepositoryError(s.registrationRepo.Delete(ctx, userID, tournamentID))
}

func (s *registrationService) IsRegistered(ctx context.Context, userID, tournamentID int) (bool, error) {
	ok, err := s.registrationRepo.Exists(ctx, userID, tournamentID)
	if err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}
	return ok, nil
}

func (s *registrationService) ListUsers(ctx context.Context, tournamentID int) ([]models.User, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		return nil, handleRepositoryError(err)
	}
	users, err := s.registrationRepo.ListUsers(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registered users: %w", err)
	}
	return users, nil
}
