package models

import "time"

type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchCompleted MatchStatus = "completed"
	MatchCancelled MatchStatus = "cancelled"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchPending, MatchCompleted, MatchCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a match may move from s to next.
func (s MatchStatus) CanTransitionTo(next MatchStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case MatchPending:
		return next == MatchCompleted || next == MatchCancelled
	case MatchCompleted:
		return next == MatchPending || next == MatchCancelled
	case MatchCancelled:
		return next == MatchPending
	}
	return false
}

// MatchPlayer is one side of a match. Score is the number of manches won.
type MatchPlayer struct {
	ParticipantID int      `json:"participant_id"`
	Name          string   `json:"name,omitempty"`
	Score         *float64 `json:"score"`
}

type Match struct {
	ID           int           `json:"id"`
	TournamentID int           `json:"tournament_id"`
	PoolID       *int          `json:"pool_id,omitempty"`
	Status       MatchStatus   `json:"status"`
	Round        int           `json:"round"`
	Players      []MatchPlayer `json:"players"`
	CreatedAt    time.Time     `json:"created_at"`
}

// Winner returns the participant with the strictly higher score of a
// completed two-sided match.
func (m Match) Winner() (int, bool) {
	if m.Status != MatchCompleted || len(m.Players) != 2 {
		return 0, false
	}
	a, b := m.Players[0], m.Players[1]
	if a.Score == nil || b.Score == nil || *a.Score == *b.Score {
		return 0, false
	}
	if *a.Score > *b.Score {
		return a.ParticipantID, true
	}
	return b.ParticipantID, true
}
