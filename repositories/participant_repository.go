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
	ErrParticipantNotFound      = errors.New("participant not found")
	ErrParticipantInvalidMember = errors.New("participant member does not exist")
)

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.Participant, userIDs []int) error
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error)
	Delete(ctx context.Context, tournamentID, id int) error
	DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error
	// ReplaceMember hands a participant over to another user. Scores, pools
	// and the tournament registration follow the participant.
	ReplaceMember(ctx context.Context, exec SQLExecutor, participantID, oldUserID, newUserID int) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participant, userIDs []int) error {
	ex := executor(r.db, exec)

	err := ex.QueryRowContext(ctx,
		`INSERT INTO participants (tournament_id, name) VALUES ($1, $2) RETURNING id, created_at`,
		p.TournamentID, nullIfEmpty(p.Name),
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if code, _, ok := pqError(err); ok && code == pqForeignKeyViolation {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}

	for _, uid := range userIDs {
		_, err := ex.ExecContext(ctx,
			`INSERT INTO participant_members (participant_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			p.ID, uid)
		if err != nil {
			if code, _, ok := pqError(err); ok && code == pqForeignKeyViolation {
				return ErrParticipantInvalidMember
			}
			return fmt.Errorf("failed to add member %d to participant %d: %w", uid, p.ID, err)
		}
	}

	members, err := loadMembers(ctx, ex, []int{p.ID})
	if err != nil {
		return err
	}
	p.Members = members[p.ID]
	return nil
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	var (
		p    models.Participant
		name sql.NullString
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, tournament_id, name, created_at FROM participants WHERE id = $1`, id,
	).Scan(&p.ID, &p.TournamentID, &name, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant %d: %w", id, err)
	}
	p.Name = stringPtr(name)

	members, err := loadMembers(ctx, r.db, []int{p.ID})
	if err != nil {
		return nil, err
	}
	p.Members = members[p.ID]
	return &p, nil
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Participant, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, tournament_id, name, created_at FROM participants WHERE tournament_id = $1 ORDER BY id`,
		tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	participants := make([]models.Participant, 0)
	ids := make([]int, 0)
	for rows.Next() {
		var (
			p    models.Participant
			name sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.TournamentID, &name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		p.Name = stringPtr(name)
		participants = append(participants, p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	members, err := loadMembers(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range participants {
		participants[i].Members = members[participants[i].ID]
	}
	return participants, nil
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, tournamentID, id int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM participants WHERE id = $1 AND tournament_id = $2`, id, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) DeleteByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) error {
	_, err := executor(r.db, exec).ExecContext(ctx, `DELETE FROM participants WHERE tournament_id = $1`, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to delete participants of tournament %d: %w", tournamentID, err)
	}
	return nil
}

// loadMembers returns the members of each participant, keyed by participant id.
// Every requested id gets a non-nil slice.
func loadMembers(ctx context.Context, ex SQLExecutor, participantIDs []int) (map[int][]models.ParticipantMember, error) {
	out := make(map[int][]models.ParticipantMember, len(participantIDs))
	for _, id := range participantIDs {
		out[id] = []models.ParticipantMember{}
	}
	if len(participantIDs) == 0 {
		return out, nil
	}

	rows, err := ex.QueryContext(ctx, `
		SELECT pm.participant_id, u.id, u.nickname
		FROM participant_members pm
		JOIN users u ON u.id = pm.user_id
		WHERE pm.participant_id = ANY($1)
		ORDER BY pm.participant_id, u.id`, pq.Array(participantIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load participant members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			pid int
			m   models.ParticipantMember
		)
		if err := rows.Scan(&pid, &m.UserID, &m.Nickname); err != nil {
			return nil, fmt.Errorf("failed to scan participant member: %w", err)
		}
		out[pid] = append(out[pid], m)
	}
	return out, rows.Err()
}

func (r *postgresParticipantRepository) ReplaceMember(ctx context.Context, exec SQLExecutor, participantID, oldUserID, newUserID int) error {
	ex := executor(r.db, exec)

	var tournamentID int
	err := ex.QueryRowContext(ctx, `
		UPDATE participant_members pm SET user_id = $3
		FROM participants p
		WHERE pm.participant_id = p.id AND pm.participant_id = $1 AND pm.user_id = $2
		RETURNING p.tournament_id`,
		participantID, oldUserID, newUserID,
	).Scan(&tournamentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrParticipantNotFound
		}
		if code, _, ok := pqError(err); ok && code == pqForeignKeyViolation {
			return ErrParticipantInvalidMember
		}
		return fmt.Errorf("failed to replace member of participant %d: %w", participantID, err)
	}

	_, err = ex.ExecContext(ctx,
		`DELETE FROM tournament_registrations WHERE user_id = $1 AND tournament_id = $2`,
		oldUserID, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to drop registration of user %d: %w", oldUserID, err)
	}
	_, err = ex.ExecContext(ctx, `
		INSERT INTO tournament_registrations (user_id, tournament_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		newUserID, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to register user %d: %w", newUserID, err)
	}
	return nil
}
