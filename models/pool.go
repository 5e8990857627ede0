package models

type Pool struct {
	ID           int           `json:"id"`
	TournamentID int           `json:"tournament_id"`
	Name         string        `json:"name"`
	Participants []Participant `json:"participants"`
	Matches      []Match       `json:"matches"`
}
