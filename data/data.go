// Package data carries the built-in default dataset the league falls back to
// when no saved snapshot exists (fresh install, corrupt storage, reset).
package data

import (
	_ "embed"
	"encoding/json"

	"github.com/kacemyassine/league-tracker/models"
)

//go:embed default_league.json
var defaultLeagueJSON []byte

// DefaultSnapshot returns a fresh copy of the built-in dataset. The embedded
// document is validated by tests, so a decode failure here is a build defect.
func DefaultSnapshot() *models.LeagueSnapshot {
	var snap models.LeagueSnapshot
	if err := json.Unmarshal(defaultLeagueJSON, &snap); err != nil {
		panic("data: embedded default league dataset is invalid: " + err.Error())
	}
	snap.Normalize()
	return &snap
}
