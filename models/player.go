package models

// Player belongs to exactly one team for its lifetime; transfers are not
// modeled. Goals is the cumulative tally across the match log.
type Player struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	TeamID string  `json:"teamId"`
	Goals  int     `json:"goals"`
	Image  *string `json:"image"`
}
