package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/repositories"
)

type EventInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Organiser   *string `json:"organiser,omitempty"`
	Place       *string `json:"place,omitempty"`
	Date        *string `json:"date,omitempty"`
}

type EventService interface {
	Create(ctx context.Context, input EventInput) (*models.Event, error)
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	Update(ctx context.Context, id int, input EventInput) (*models.Event, error)
	Delete(ctx context.Context, id int) error
}

type eventService struct {
	eventRepo repositories.EventRepository
}

func NewEventService(eventRepo repositories.EventRepository) EventService {
	return &eventService{eventRepo: eventRepo}
}

func (s *eventService) Create(ctx context.Context, input EventInput) (*models.Event, error) {
	e := &models.Event{}
	if err := applyEventInput(e, input, true); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *eventService) GetByID(ctx context.Context, id int) (*models.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	return e, nil
}

func (s *eventService) List(ctx context.Context) ([]models.Event, error) {
	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (s *eventService) Update(ctx context.Context, id int, input EventInput) (*models.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, handleRepositoryError(err)
	}
	if err := applyEventInput(e, input, false); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, e); err != nil {
		return nil, handleRepositoryError(err)
	}
	return e, nil
}

func (s *eventService) Delete(ctx context.Context, id int) error {
	return handleRepositoryError(s.eventRepo.Delete(ctx, id))
}

func applyEventInput(e *models.Event, input EventInput, create bool) error {
	v := validator{}
	if input.Name != nil || create {
		e.Name = strings.TrimSpace(derefString(input.Name))
		v.check(e.Name != "", "name", "must be provided")
	}
	if input.Date != nil || create {
		e.Date = strings.TrimSpace(derefString(input.Date))
		v.check(e.Date != "", "date", "must be provided")
	}
	if input.Description != nil {
		e.Description = trimmedPtr(input.Description)
	}
	if input.Organiser != nil {
		e.Organiser = trimmedPtr(input.Organiser)
	}
	if input.Place != nil {
		e.Place = trimmedPtr(input.Place)
	}
	return v.err()
}
