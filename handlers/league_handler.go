package handlers

import (
	"net/http"

	"github.com/kacemyassine/league-tracker/services"
)

type LeagueHandler struct {
	league services.LeagueService
}

func NewLeagueHandler(league services.LeagueService) *LeagueHandler {
	return &LeagueHandler{league: league}
}

// SnapshotHandler returns the full current snapshot document.
func (h *LeagueHandler) SnapshotHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, h.league.Snapshot(), nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetLeagueHandler discards all state and restores the default dataset.
func (h *LeagueHandler) ResetLeagueHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.league.ResetLeague(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, h.league.Snapshot(), nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
