package models

import "time"

type TournamentRegistration struct {
	UserID           int       `json:"user_id"`
	TournamentID     int       `json:"tournament_id"`
	RegistrationDate time.Time `json:"registration_date"`
}

type TournamentPayment struct {
	UserID       int       `json:"user_id"`
	TournamentID int       `json:"tournament_id"`
	Paid         bool      `json:"paid"`
	Reference    *string   `json:"reference,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}
