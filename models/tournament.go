package models

import (
	"strings"
	"time"
)

type TournamentStatus string

const (
	TournamentOpen     TournamentStatus = "open"
	TournamentRunning  TournamentStatus = "running"
	TournamentFinished TournamentStatus = "finished"
	TournamentClosed   TournamentStatus = "closed"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case TournamentOpen, TournamentRunning, TournamentFinished, TournamentClosed:
		return true
	}
	return false
}

// TournamentType is the structure of the competition.
type TournamentType string

const (
	TypePool        TournamentType = "pool"
	TypeElimination TournamentType = "elimination"
)

func (t TournamentType) Valid() bool {
	return t == TypePool || t == TypeElimination
}

// TournamentMode tells how many users stand behind one participant.
type TournamentMode string

const (
	ModeSingle TournamentMode = "single"
	ModeTeam   TournamentMode = "team"
)

// ParseTournamentMode accepts the legacy "double" spelling for team mode.
func ParseTournamentMode(s string) (TournamentMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single":
		return ModeSingle, true
	case "team", "double":
		return ModeTeam, true
	}
	return "", false
}

type Tournament struct {
	ID                int              `json:"id"`
	Name              string           `json:"name"`
	Description       *string          `json:"description,omitempty"`
	StartDate         time.Time        `json:"start_date"`
	IsActive          bool             `json:"is_active"`
	Type              TournamentType   `json:"type"`
	Mode              TournamentMode   `json:"mode"`
	Status            TournamentStatus `json:"status"`
	RegistrationsOpen bool             `json:"registrations_open"`
	CreatedAt         time.Time        `json:"created_at"`
}

// TournamentDetails is a tournament with its whole structure loaded.
type TournamentDetails struct {
	Tournament   *Tournament   `json:"tournament"`
	Participants []Participant `json:"participants"`
	Pools        []Pool        `json:"pools"`
	FinalMatches []Match       `json:"final_matches"`
}
