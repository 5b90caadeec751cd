package handlers

import (
	"net/http"

	"github.com/kacemyassine/league-tracker/services"
)

// StatsHandler serves the derived views: standings, top scorers and the
// points-over-time chart series.
type StatsHandler struct {
	league services.LeagueService
}

func NewStatsHandler(league services.LeagueService) *StatsHandler {
	return &StatsHandler{league: league}
}

func (h *StatsHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": h.league.Standings()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatsHandler) TopScorersHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"topScorers": h.league.TopScorers()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StatsHandler) PointsProgressionHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"pointsProgression": h.league.PointsProgression()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
