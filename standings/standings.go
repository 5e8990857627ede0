// Package standings ranks participants and users from completed match results.
//
// Everything here is pure: callers load the matches of a scope (tournament,
// pool or season) and get back a ranked slice. Inputs are never modified.
package standings

import (
	"cmp"
	"slices"

	"github.com/badarts/club-backend/models"
)

type Member struct {
	UserID   int
	Nickname string
}

// Side is one participation in a match.
type Side struct {
	ParticipantID int
	Name          string
	Score         *float64
	Members       []Member
}

type Match struct {
	ID           int
	TournamentID int
	PoolID       *int
	Status       models.MatchStatus
	Mode         models.TournamentMode
	Sides        []Side
}

// Entry is a tournament or pool standing row.
type Entry struct {
	ParticipantID int     `json:"participant_id"`
	Nickname      string  `json:"nickname"`
	Wins          int     `json:"wins"`
	TotalManches  float64 `json:"total_manches"`
}

// SeasonEntry is a per-user standing row merged across single and team
// tournaments of one season.
type SeasonEntry struct {
	UserID        int     `json:"user_id"`
	Nickname      string  `json:"nickname"`
	TotalPoints   float64 `json:"total_points"`
	SingleWins    float64 `json:"single_wins"`
	TeamWins      float64 `json:"double_wins"`
	SingleManches float64 `json:"single_manches"`
	TeamManches   float64 `json:"double_manches"`
}

func (e SeasonEntry) Wins() float64    { return e.SingleWins + e.TeamWins }
func (e SeasonEntry) Manches() float64 { return e.SingleManches + e.TeamManches }

// scored returns both sides of a completed match that can be counted.
func scored(m Match) (a, b Side, ok bool) {
	if m.Status != models.MatchCompleted || len(m.Sides) != 2 {
		return Side{}, Side{}, false
	}
	a, b = m.Sides[0], m.Sides[1]
	if a.Score == nil || b.Score == nil {
		return Side{}, Side{}, false
	}
	return a, b, true
}

// winsOf reports 1 for the side with the strictly higher score. Ties give none.
func winsOf(own, other float64) int {
	if own > other {
		return 1
	}
	return 0
}

// ByParticipant computes tournament or pool standings: one entry per
// participant that took part in at least one counted match.
func ByParticipant(matches []Match) []Entry {
	acc := make(map[int]*Entry)

	credit := func(s Side, otherScore float64) {
		e, ok := acc[s.ParticipantID]
		if !ok {
			e = &Entry{ParticipantID: s.ParticipantID}
			acc[s.ParticipantID] = e
		}
		if e.Nickname == "" {
			e.Nickname = s.Name
		}
		e.TotalManches += *s.Score
		e.Wins += winsOf(*s.Score, otherScore)
	}

	for _, m := range matches {
		a, b, ok := scored(m)
		if !ok {
			continue
		}
		credit(a, *b.Score)
		credit(b, *a.Score)
	}

	out := make([]Entry, 0, len(acc))
	for _, e := range acc {
		out = append(out, *e)
	}
	slices.SortFunc(out, func(x, y Entry) int {
		if c := cmp.Compare(y.Wins, x.Wins); c != 0 {
			return c
		}
		if c := cmp.Compare(y.TotalManches, x.TotalManches); c != 0 {
			return c
		}
		return cmp.Compare(x.ParticipantID, y.ParticipantID)
	})
	return out
}

// BySeason computes per-user standings over the matches of several
// tournaments. Single-mode participants credit their only member; a
// single-mode participant without exactly one member is ignored. Team results
// are split evenly between the team members.
func BySeason(matches []Match) []SeasonEntry {
	acc := make(map[int]*SeasonEntry)

	credit := func(mode models.TournamentMode, s Side, otherScore float64) {
		n := len(s.Members)
		switch {
		case mode == models.ModeSingle && n != 1:
			return
		case n == 0:
			return
		}
		share := 1 / float64(n)
		wins := float64(winsOf(*s.Score, otherScore)) * share
		manches := *s.Score * share

		for _, mem := range s.Members {
			e, ok := acc[mem.UserID]
			if !ok {
				e = &SeasonEntry{UserID: mem.UserID}
				acc[mem.UserID] = e
			}
			if e.Nickname == "" {
				e.Nickname = mem.Nickname
			}
			if mode == models.ModeSingle {
				e.SingleWins += wins
				e.SingleManches += manches
			} else {
				e.TeamWins += wins
				e.TeamManches += manches
			}
		}
	}

	for _, m := range matches {
		a, b, ok := scored(m)
		if !ok {
			continue
		}
		credit(m.Mode, a, *b.Score)
		credit(m.Mode, b, *a.Score)
	}

	out := make([]SeasonEntry, 0, len(acc))
	for _, e := range acc {
		e.TotalPoints = e.Wins() + e.Manches()
		out = append(out, *e)
	}
	slices.SortFunc(out, func(x, y SeasonEntry) int {
		if c := cmp.Compare(y.Wins(), x.Wins()); c != 0 {
			return c
		}
		if c := cmp.Compare(y.Manches(), x.Manches()); c != 0 {
			return c
		}
		return cmp.Compare(x.UserID, y.UserID)
	})
	return out
}
