package models

import (
	"strings"
	"time"
)

type ParticipantMember struct {
	UserID   int    `json:"user_id"`
	Nickname string `json:"nickname"`
}

// Participant is a competitor inside one tournament: a single player or a team.
type Participant struct {
	ID           int                 `json:"id"`
	TournamentID int                 `json:"tournament_id"`
	Name         *string             `json:"name,omitempty"`
	Members      []ParticipantMember `json:"members"`
	CreatedAt    time.Time           `json:"created_at"`
}

// DisplayName is the explicit name, or the member nicknames joined together.
func (p Participant) DisplayName() string {
	return ParticipantDisplayName(p.Name, p.Members)
}

func ParticipantDisplayName(name *string, members []ParticipantMember) string {
	if name != nil && strings.TrimSpace(*name) != "" {
		return *name
	}
	nicks := make([]string, 0, len(members))
	for _, m := range members {
		nicks = append(nicks, m.Nickname)
	}
	return strings.Join(nicks, " / ")
}
