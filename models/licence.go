package models

type Licence struct {
	ID            int    `json:"id"`
	Ligue         string `json:"ligue"`
	Comite        string `json:"comite"`
	ClubNumber    string `json:"club_number"`
	ClubName      string `json:"club_name"`
	Name          string `json:"name"`
	Surname       string `json:"surname"`
	Category      string `json:"category"`
	LicenceNumber string `json:"licence_number"`
	UserID        int    `json:"user_id"`
}
