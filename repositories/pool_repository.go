package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/badarts/club-backend/models"
	"github.com/lib/pq"
)

var (
	ErrPoolNotFound           = errors.New("pool not found")
	ErrPoolInvalidParticipant = errors.New("pool participant does not exist")
)

type PoolRepository interface {
	Create(ctx context.Context, exec SQLExecutor, pool *models.Pool, participantIDs []int) error
	GetByID(ctx context.Context, id int) (*models.Pool, error)
	// ListByTournament returns pools with their participants; matches are left empty.
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Pool, error)
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresPoolRepository struct {
	db *sql.DB
}

func NewPostgresPoolRepository(db *sql.DB) PoolRepository {
	return &postgresPoolRepository{db: db}
}

func (r *postgresPoolRepository) Create(ctx context.Context, exec SQLExecutor, pool *models.Pool, participantIDs []int) error {
	ex := executor(r.db, exec)

	err := ex.QueryRowContext(ctx,
		`INSERT INTO pools (tournament_id, name) VALUES ($1, $2) RETURNING id`,
		pool.TournamentID, pool.Name,
	).Scan(&pool.ID)
	if err != nil {
		if code, _, ok := pqError(err); ok && code == pqForeignKeyViolation {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to create pool: %w", err)
	}

	for _, pid := range participantIDs {
		// the participant must belong to the pool's tournament
		result, err := ex.ExecContext(ctx, `
			INSERT INTO pool_participants (pool_id, participant_id)
			SELECT $1, id FROM participants WHERE id = $2 AND tournament_id = $3
			ON CONFLICT DO NOTHING`,
			pool.ID, pid, pool.TournamentID)
		if err != nil {
			return fmt.Errorf("failed to add participant %d to pool %d: %w", pid, pool.ID, err)
		}
		if n, err := result.RowsAffected(); err == nil && n == 0 {
			var exists bool
			if err := ex.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM pool_participants WHERE pool_id = $1 AND participant_id = $2)`,
				pool.ID, pid).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check pool participant: %w", err)
			}
			if !exists {
				return ErrPoolInvalidParticipant
			}
		}
	}
	return nil
}

func (r *postgresPoolRepository) GetByID(ctx context.Context, id int) (*models.Pool, error) {
	var p models.Pool
	err := r.db.QueryRowContext(ctx, `SELECT id, tournament_id, name FROM pools WHERE id = $1`, id).
		Scan(&p.ID, &p.TournamentID, &p.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPoolNotFound
		}
		return nil, fmt.Errorf("failed to get pool %d: %w", id, err)
	}
	return &p, nil
}

func (r *postgresPoolRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Pool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tournament_id, name FROM pools WHERE tournament_id = $1 ORDER BY id`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pools: %w", err)
	}
	defer rows.Close()

	pools := make([]models.Pool, 0)
	poolIDs := make([]int, 0)
	for rows.Next() {
		var p models.Pool
		if err := rows.Scan(&p.ID, &p.TournamentID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan pool: %w", err)
		}
		p.Participants = []models.Participant{}
		p.Matches = []models.Match{}
		pools = append(pools, p)
		poolIDs = append(poolIDs, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(pools) == 0 {
		return pools, nil
	}

	prow, err := r.db.QueryContext(ctx, `
		SELECT pp.pool_id, p.id, p.tournament_id, p.name, p.created_at
		FROM pool_participants pp
		JOIN participants p ON p.id = pp.participant_id
		WHERE pp.pool_id = ANY($1)
		ORDER BY pp.pool_id, p.id`, pq.Array(poolIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list pool participants: %w", err)
	}
	defer prow.Close()

	byPool := make(map[int][]models.Participant)
	participantIDs := make([]int, 0)
	for prow.Next() {
		var (
			poolID int
			p      models.Participant
			name   sql.NullString
		)
		if err := prow.Scan(&poolID, &p.ID, &p.TournamentID, &name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pool participant: %w", err)
		}
		p.Name = stringPtr(name)
		byPool[poolID] = append(byPool[poolID], p)
		participantIDs = append(participantIDs, p.ID)
	}
	if err := prow.Err(); err != nil {
		return nil, err
	}

	members, err := loadMembers(ctx, r.db, participantIDs)
	if err != nil {
		return nil, err
	}
	for i := range pools {
		for _, p := range byPool[pools[i].ID] {
			p.Members = members[p.ID]
			pools[i].Participants = append(pools[i].Participants, p)
		}
	}
	return pools, nil
}

func (r *postgresPoolRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	_, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM pools WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete pools of tournament %d: %w", tournamentID, err)
	}
	return nil
}
