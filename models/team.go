package models

// Team is a club in the league. The aggregate counters (Played..Points) are
// derived from the match log and rebuilt after every mutation; they are kept
// on the struct because the snapshot document carries them.
type Team struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Coach        string `json:"coach"`
	Logo         string `json:"logo,omitempty"`
	Played       int    `json:"played"`
	Won          int    `json:"won"`
	Drawn        int    `json:"drawn"`
	Lost         int    `json:"lost"`
	GoalsFor     int    `json:"goalsFor"`
	GoalsAgainst int    `json:"goalsAgainst"`
	Points       int    `json:"points"`
}

// GoalDifference is the standings tie-breaker after points.
func (t *Team) GoalDifference() int {
	return t.GoalsFor - t.GoalsAgainst
}
