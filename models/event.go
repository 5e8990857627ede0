package models

// Event is a calendar entry. Date is kept as the free-form text organisers type.
type Event struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Organiser   *string `json:"organiser,omitempty"`
	Place       *string `json:"place,omitempty"`
	Date        string  `json:"date"`
}
