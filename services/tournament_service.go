package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/badarts/club-backend/brackets"
	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/repositories"
)

type CreateTournamentInput struct {
	Name              string    `json:"name"`
	Description       *string   `json:"description,omitempty"`
	StartDate         time.Time `json:"start_date"`
	IsActive          *bool     `json:"is_active,omitempty"`
	Type              string    `json:"type"`
	Mode              string    `json:"mode"`
	Status            string    `json:"status,omitempty"`
	RegistrationsOpen *bool     `json:"registrations_open,omitempty"`
}

type UpdateTournamentInput struct {
	Name              *string    `json:"name,omitempty"`
	Description       *string    `json:"description,omitempty"`
	StartDate         *time.Time `json:"start_date,omitempty"`
	IsActive          *bool      `json:"is_active,omitempty"`
	Type              *string    `json:"type,omitempty"`
	Mode              *string    `json:"mode,omitempty"`
	Status            *string    `json:"status,omitempty"`
	RegistrationsOpen *bool      `json:"registrations_open,omitempty"`
}

type ListTournamentsInput struct {
	Status string
	Mode   string
	Season *int
	Limit  int
	Offset int
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, input ListTournamentsInput) ([]models.Tournament, error)
	Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error
	SetRegistrationsOpen(ctx context.Context, id int, open bool) (*models.Tournament, error)
	Reset(ctx context.Context, id int) (*models.Tournament, error)
	Details(ctx context.Context, id int) (*models.TournamentDetails, error)
}

type tournamentService struct {
	tx              Transactor
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	poolRepo        repositories.PoolRepository
	matchRepo       repositories.MatchRepository
	hub             brackets.Broadcaster
	logger          *slog.Logger
}

func NewTournamentService(
	tx Transactor,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	poolRepo repositories.PoolRepository,
	matchRepo repositories.MatchRepository,
	hub brackets.Broadcaster,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tx:              tx,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		poolRepo:        poolRepo,
		matchRepo:       matchRepo,
		hub:             hub,
		logger:          logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	t := &models.Tournament{
		Name:              strings.TrimSpace(input.Name),
		Description:       trimmedPtr(input.Description),
		StartDate:         input.StartDate,
		IsActive:          true,
		Type:              models.TypePool,
		Mode:              models.ModeSingle,
		Status:            models.TournamentOpen,
		RegistrationsOpen: true,
	}
	if input.IsActive != nil {
		t.IsActive = *input.IsActive
	}
	if input.RegistrationsOpen != nil {
		t.RegistrationsOpen = *input.RegistrationsOpen
	}

	v := validator{}
	v.check(t.Name != "", "name", "must be provided")
	v.check(!t.StartDate.IsZero(), "start_date", "must be provided")
	applyEnums(v, t, input.Type, input.Mode, input.Status)
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.tournamentRepo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return t, nil
}

// applyEnums parses the optional type, mode and status strings into t.
func applyEnums(v validator, t *models.Tournament, typ, mode, status string) {
	if typ != "" {
		tt := models.TournamentType(strings.ToLower(typ))
		v.check(tt.Valid(), "type", "must be pool or elimination")
		t.Type = tt
	}
	if mode != "" {
		m, ok := models.ParseTournamentMode(mode)
		v.check(ok, "mode", "must be single or team")
		if ok {
			t.Mode = m
		}
	}
	if status != "" {
		st := models.TournamentStatus(strings.ToLower(status))
		v.check(st.Valid(), "status", "must be open, running, finished or closed")
		t.Status = st
	}
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, input ListTournamentsInput) ([]models.Tournament, error) {
	filter := repositories.ListTournamentsFilter{Season: input.Season, Limit: input.Limit, Offset: input.Offset}

	v := validator{}
	if input.Status != "" {
		st := models.TournamentStatus(strings.ToLower(input.Status))
		v.check(st.Valid(), "status", "must be open, running, finished or closed")
		filter.Status = &st
	}
	if input.Mode != "" {
		m, ok := models.ParseTournamentMode(input.Mode)
		v.check(ok, "mode", "must be single or team")
		filter.Mode = &m
	}
	if err := v.err(); err != nil {
		return nil, err
	}

	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}

	v := validator{}
	if input.Name != nil {
		t.Name = strings.TrimSpace(*input.Name)
		v.check(t.Name != "", "name", "must not be empty")
	}
	if input.Description != nil {
		t.Description = trimmedPtr(input.Description)
	}
	if input.StartDate != nil {
		v.check(!input.StartDate.IsZero(), "start_date", "must not be empty")
		t.StartDate = *input.StartDate
	}
	if input.IsActive != nil {
		t.IsActive = *input.IsActive
	}
	if input.RegistrationsOpen != nil {
		t.RegistrationsOpen = *input.RegistrationsOpen
	}
	applyEnums(v, t, derefString(input.Type), derefString(input.Mode), derefString(input.Status))
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.tournamentRepo.Update(ctx, t); err != nil {
		return nil, handleRepositoryError(err)
	}
	return t, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	return handleRepositoryError(s.tournamentRepo.Delete(ctx, id))
}

func (s *tournamentService) SetRegistrationsOpen(ctx context.Context, id int, open bool) (*models.Tournament, error) {
	if err := s.tournamentRepo.SetRegistrationsOpen(ctx, id, open); err != nil {
		return nil, handleRepositoryError(err)
	}
	return s.GetByID(ctx, id)
}

// Reset removes the whole structure of a tournament (matches, pools and
// participants) and reopens it.
func (s *tournamentService) Reset(ctx context.Context, id int) (*models.Tournament, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	err := s.tx.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		if err := s.matchRepo.DeleteByTournament(ctx, exec, id); err != nil {
			return err
		}
		if err := s.poolRepo.DeleteByTournament(ctx, exec, id); err != nil {
			return err
		}
		if err := s.participantRepo.DeleteByTournament(ctx, exec, id); err != nil {
			return err
		}
		return s.tournamentRepo.UpdateStatus(ctx, exec, id, models.TournamentOpen)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reset tournament %d: %w", id, handleRepositoryError(err))
	}

	s.logger.Info("tournament reset", slog.Int("tournament_id", id))
	broadcast(s.hub, id, brackets.MessageStructureUpdated, map[string]interface{}{"tournament_id": id})
	return s.GetByID(ctx, id)
}

func (s *tournamentService) Details(ctx context.Context, id int) (*models.TournamentDetails, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		participants []models.Participant
		pools        []models.Pool
		matches      []models.Match
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		participants, err = s.participantRepo.ListByTournament(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		pools, err = s.poolRepo.ListByTournament(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load tournament %d details: %w", id, err)
	}

	pools, finals := attachMatches(pools, matches)
	return &models.TournamentDetails{
		Tournament:   t,
		Participants: participants,
		Pools:        pools,
		FinalMatches: finals,
	}, nil
}

// attachMatches files each match under its pool. Matches without a pool are
// returned as finals.
func attachMatches(pools []models.Pool, matches []models.Match) ([]models.Pool, []models.Match) {
	index := make(map[int]int, len(pools))
	for i := range pools {
		pools[i].Matches = []models.Match{}
		index[pools[i].ID] = i
	}
	finals := []models.Match{}
	for _, m := range matches {
		if m.PoolID == nil {
			finals = append(finals, m)
			continue
		}
		if i, ok := index[*m.PoolID]; ok {
			pools[i].Matches = append(pools[i].Matches, m)
		}
	}
	if pools == nil {
		pools = []models.Pool{}
	}
	return pools, finals
}
