package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/badarts/club-backend/models"
	"github.com/badarts/club-backend/standings"
)

// LeaderboardRepository loads completed matches in the shape the standings
// package ranks.
type LeaderboardRepository interface {
	CompletedMatchesByTournament(ctx context.Context, tournamentID int) ([]standings.Match, error)
	CompletedMatchesBySeason(ctx context.Context, season int) ([]standings.Match, error)
}

type postgresLeaderboardRepository struct {
	db *sql.DB
}

func NewPostgresLeaderboardRepository(db *sql.DB) LeaderboardRepository {
	return &postgresLeaderboardRepository{db: db}
}

const completedMatchesQuery = `
	SELECT m.id, m.tournament_id, m.pool_id, m.status, t.mode, mp.participant_id, mp.score, p.name
	FROM matches m
	JOIN tournaments t ON t.id = m.tournament_id
	JOIN match_players mp ON mp.match_id = m.id
	JOIN participants p ON p.id = mp.participant_id
	WHERE m.status = 'completed' AND %s
	ORDER BY m.id, mp.participant_id`

func (r *postgresLeaderboardRepository) CompletedMatchesByTournament(ctx context.Context, tournamentID int) ([]standings.Match, error) {
	return r.load(ctx, fmt.Sprintf(completedMatchesQuery, "m.tournament_id = $1"), tournamentID)
}

func (r *postgresLeaderboardRepository) CompletedMatchesBySeason(ctx context.Context, season int) ([]standings.Match, error) {
	return r.load(ctx, fmt.Sprintf(completedMatchesQuery, "EXTRACT(YEAR FROM t.start_date) = $1"), season)
}

func (r *postgresLeaderboardRepository) load(ctx context.Context, query string, args ...interface{}) ([]standings.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed matches: %w", err)
	}
	defer rows.Close()

	type sideRow struct {
		matchIndex int
		name       *string
		side       standings.Side
	}

	matches := make([]standings.Match, 0)
	sides := make([]sideRow, 0)
	participantIDs := make([]int, 0)
	index := make(map[int]int)

	for rows.Next() {
		var (
			matchID, tournamentID, participantID int
			poolID                               sql.NullInt64
			status                               models.MatchStatus
			mode                                 string
			score                                sql.NullFloat64
			name                                 sql.NullString
		)
		if err := rows.Scan(&matchID, &tournamentID, &poolID, &status, &mode, &participantID, &score, &name); err != nil {
			return nil, fmt.Errorf("failed to scan completed match row: %w", err)
		}

		i, ok := index[matchID]
		if !ok {
			m, _ := models.ParseTournamentMode(mode)
			i = len(matches)
			index[matchID] = i
			matches = append(matches, standings.Match{
				ID:           matchID,
				TournamentID: tournamentID,
				PoolID:       intPtr(poolID),
				Status:       status,
				Mode:         m,
			})
		}
		sides = append(sides, sideRow{
			matchIndex: i,
			name:       stringPtr(name),
			side:       standings.Side{ParticipantID: participantID, Score: floatPtr(score)},
		})
		participantIDs = append(participantIDs, participantID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	members, err := loadMembers(ctx, r.db, participantIDs)
	if err != nil {
		return nil, err
	}
	for _, s := range sides {
		pm := members[s.side.ParticipantID]
		s.side.Name = models.ParticipantDisplayName(s.name, pm)
		s.side.Members = make([]standings.Member, 0, len(pm))
		for _, m := range pm {
			s.side.Members = append(s.side.Members, standings.Member{UserID: m.UserID, Nickname: m.Nickname})
		}
		matches[s.matchIndex].Sides = append(matches[s.matchIndex].Sides, s.side)
	}
	return matches, nil
}
