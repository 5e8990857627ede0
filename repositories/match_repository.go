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
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchInvalidParticipant = errors.New("match participant does not belong to the tournament")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, scores map[int]*float64) error
	ResetScores(ctx context.Context, exec SQLExecutor, id int) error
	Delete(ctx context.Context, id int) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	ex := executor(r.db, exec)

	if m.Round <= 0 {
		m.Round = 1
	}
	if m.Status == "" {
		m.Status = models.MatchPending
	}

	// A pool outside the tournament inserts nothing.
	err := ex.QueryRowContext(ctx, `
		INSERT INTO matches (tournament_id, pool_id, status, round)
		SELECT $1::int, $2::int, $3::text, $4::int
		WHERE $2::int IS NULL
		   OR EXISTS (SELECT 1 FROM pools WHERE id = $2::int AND tournament_id = $1::int)
		RETURNING id, created_at`,
		m.TournamentID, m.PoolID, m.Status, m.Round,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPoolNotFound
		}
		if code, constraint, ok := pqError(err); ok && code == pqForeignKeyViolation {
			if constraint == "matches_pool_id_fkey" {
				return ErrPoolNotFound
			}
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to create match: %w", err)
	}

	for _, p := range m.Players {
		result, err := ex.ExecContext(ctx, `
			INSERT INTO match_players (match_id, participant_id, score)
			SELECT $1, id, $3 FROM participants WHERE id = $2 AND tournament_id = $4`,
			m.ID, p.ParticipantID, p.Score, m.TournamentID)
		if err != nil {
			if code, _, ok := pqError(err); ok && code == pqUniqueViolation {
				return ErrMatchInvalidParticipant
			}
			return fmt.Errorf("failed to add participant %d to match %d: %w", p.ParticipantID, m.ID, err)
		}
		if err := checkAffectedRows(result, ErrMatchInvalidParticipant); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	matches, err := r.query(ctx, `WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrMatchNotFound
	}
	return &matches[0], nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	return r.query(ctx, `WHERE tournament_id = $1`, tournamentID)
}

func (r *postgresMatchRepository) query(ctx context.Context, where string, args ...interface{}) ([]models.Match, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tournament_id, pool_id, status, round, created_at
		FROM matches `+where+`
		ORDER BY round, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	index := make(map[int]int)
	ids := make([]int, 0)
	for rows.Next() {
		var (
			m      models.Match
			poolID sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.TournamentID, &poolID, &m.Status, &m.Round, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		m.PoolID = intPtr(poolID)
		m.Players = []models.MatchPlayer{}
		index[m.ID] = len(matches)
		matches = append(matches, m)
		ids = append(ids, m.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return matches, nil
	}

	prow, err := r.db.QueryContext(ctx, `
		SELECT mp.match_id, mp.participant_id, mp.score, p.name
		FROM match_players mp
		JOIN participants p ON p.id = mp.participant_id
		WHERE mp.match_id = ANY($1)
		ORDER BY mp.match_id, mp.participant_id`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to list match players: %w", err)
	}
	defer prow.Close()

	type namedPlayer struct {
		matchID int
		player  models.MatchPlayer
		name    *string
	}
	players := make([]namedPlayer, 0)
	participantIDs := make([]int, 0)
	for prow.Next() {
		var (
			np    namedPlayer
			score sql.NullFloat64
			name  sql.NullString
		)
		if err := prow.Scan(&np.matchID, &np.player.ParticipantID, &score, &name); err != nil {
			return nil, fmt.Errorf("failed to scan match player: %w", err)
		}
		np.player.Score = floatPtr(score)
		np.name = stringPtr(name)
		players = append(players, np)
		participantIDs = append(participantIDs, np.player.ParticipantID)
	}
	if err := prow.Err(); err != nil {
		return nil, err
	}

	members, err := loadMembers(ctx, r.db, participantIDs)
	if err != nil {
		return nil, err
	}
	for _, np := range players {
		np.player.Name = models.ParticipantDisplayName(np.name, members[np.player.ParticipantID])
		i := index[np.matchID]
		matches[i].Players = append(matches[i].Players, np.player)
	}
	return matches, nil
}

// UpdateResult sets the status and the given participants' scores. Scores of
// participants absent from the map are left untouched.
func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, id int, status models.MatchStatus, scores map[int]*float64) error {
	ex := executor(r.db, exec)

	result, err := ex.ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update match %d: %w", id, err)
	}
	if err := checkAffectedRows(result, ErrMatchNotFound); err != nil {
		return err
	}

	for participantID, score := range scores {
		result, err := ex.ExecContext(ctx,
			`UPDATE match_players SET score = $1 WHERE match_id = $2 AND participant_id = $3`,
			score, id, participantID)
		if err != nil {
			return fmt.Errorf("failed to update score of participant %d: %w", participantID, err)
		}
		if err := checkAffectedRows(result, ErrMatchInvalidParticipant); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresMatchRepository) ResetScores(ctx context.Context, exec SQLExecutor, id int) error {
	ex := executor(r.db, exec)
	result, err := ex.ExecContext(ctx, `UPDATE matches SET status = $1 WHERE id = $2`, models.MatchPending, id)
	if err != nil {
		return fmt.Errorf("failed to reset match %d: %w", id, err)
	}
	if err := checkAffectedRows(result, ErrMatchNotFound); err != nil {
		return err
	}
	if _, err := ex.ExecContext(ctx, `UPDATE match_players SET score = NULL WHERE match_id = $1`, id); err != nil {
		return fmt.Errorf("failed to reset scores of match %d: %w", id, err)
	}
	return nil
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	_, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM matches WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete matches of tournament %d: %w", tournamentID, err)
	}
	return nil
}
