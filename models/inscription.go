package models

// Inscription is a competition entry imported from the federation sheets.
// Doublette holds the inscription id of the doubles partner once resolved.
type Inscription struct {
	ID             int     `json:"id"`
	Date           string  `json:"date"`
	Name           string  `json:"name"`
	Surname        string  `json:"surname"`
	Club           string  `json:"club"`
	PlayerNumber   *int    `json:"player_number,omitempty"`
	CategorySimple *string `json:"category_simple,omitempty"`
	CategoryDouble *string `json:"category_double,omitempty"`
	Doublette      *int    `json:"doublette,omitempty"`
}
