package models

import (
	"encoding/json"
	"time"
)

// OfficialLeaderboard is the last imported federation ranking of a board.
type OfficialLeaderboard struct {
	Board     string          `json:"board"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}
