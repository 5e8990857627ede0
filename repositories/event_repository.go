package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/badarts/club-backend/models"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	Create(ctx context.Context, e *models.Event) error
	GetByID(ctx context.Context, id int) (*models.Event, error)
	List(ctx context.Context) ([]models.Event, error)
	Update(ctx context.Context, e *models.Event) error
	Delete(ctx context.Context, id int) error
}

type postgresEventRepository struct {
	db *sql.DB
}

func NewPostgresEventRepository(db *sql.DB) EventRepository {
	return &postgresEventRepository{db: db}
}

func scanEvent(row interface{ Scan(...interface{}) error }) (*models.Event, error) {
	var (
		e                      models.Event
		desc, organiser, place sql.NullString
	)
	if err := row.Scan(&e.ID, &e.Name, &desc, &organiser, &place, &e.Date); err != nil {
		return nil, err
	}
	e.Description = stringPtr(desc)
	e.Organiser = stringPtr(organiser)
	e.Place = stringPtr(place)
	return &e, nil
}

func (r *postgresEventRepository) Create(ctx context.Context, e *models.Event) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO events (name, description, organiser, place, date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		e.Name, nullIfEmpty(e.Description), nullIfEmpty(e.Organiser), nullIfEmpty(e.Place), e.Date,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

func (r *postgresEventRepository) GetByID(ctx context.Context, id int) (*models.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx,
		`SELECT id, name, description, organiser, place, date FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event %d: %w", id, err)
	}
	return e, nil
}

func (r *postgresEventRepository) List(ctx context.Context) ([]models.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, organiser, place, date FROM events ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := make([]models.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func (r *postgresEventRepository) Update(ctx context.Context, e *models.Event) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE events SET name = $1, description = $2, organiser = $3, place = $4, date = $5
		WHERE id = $6`,
		e.Name, nullIfEmpty(e.Description), nullIfEmpty(e.Organiser), nullIfEmpty(e.Place), e.Date, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update event %d: %w", e.ID, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}

func (r *postgresEventRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrEventNotFound)
}
