package models

import "time"

// Standing is one row of the league table. Rank starts at 1.
type Standing struct {
	Rank           int  `json:"rank"`
	Team           Team `json:"team"`
	GoalDifference int  `json:"goalDifference"`
}

// ScorerRank is one row of the top-scorer list.
type ScorerRank struct {
	Rank   int    `json:"rank"`
	Player Player `json:"player"`
}

// PointsSample is a team's cumulative points immediately after one of its
// matches was played.
type PointsSample struct {
	Date   time.Time `json:"date"`
	Points int       `json:"points"`
}

// PointsProgression is the chartable points-over-time series for one team.
type PointsProgression struct {
	TeamID   string         `json:"teamId"`
	TeamName string         `json:"teamName"`
	Series   []PointsSample `json:"series"`
}
