package models

import "time"

// ScorerEvent attributes goals in a match to a player. Own goals are flagged
// for match detail display; they do not count towards the player's tally.
type ScorerEvent struct {
	PlayerID string `json:"playerId"`
	Goals    int    `json:"goals"`
	OwnGoal  bool   `json:"isOwnGoal,omitempty"`
}

// Match is a recorded result between two distinct teams. Team names are
// denormalized into the row so the match history survives a later rename.
type Match struct {
	ID           string        `json:"id"`
	HomeTeamID   string        `json:"homeTeamId"`
	AwayTeamID   string        `json:"awayTeamId"`
	HomeTeamName string        `json:"homeTeamName"`
	AwayTeamName string        `json:"awayTeamName"`
	HomeGoals    int           `json:"homeGoals"`
	AwayGoals    int           `json:"awayGoals"`
	Scorers      []ScorerEvent `json:"scorers"`
	Date         time.Time     `json:"date"`
}

// Outcome classification used when folding the match log into standings.
func (m *Match) HomeWin() bool { return m.HomeGoals > m.AwayGoals }
func (m *Match) AwayWin() bool { return m.AwayGoals > m.HomeGoals }
func (m *Match) Draw() bool    { return m.HomeGoals == m.AwayGoals }
