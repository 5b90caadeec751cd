package handlers

import (
	"fmt"
	"net/http"
	"path"

	"github.com/google/uuid"

	"github.com/kacemyassine/league-tracker/services"
	"github.com/kacemyassine/league-tracker/storage"
)

type TeamHandler struct {
	league   services.LeagueService
	uploader storage.FileUploader
}

func NewTeamHandler(league services.LeagueService, uploader storage.FileUploader) *TeamHandler {
	return &TeamHandler{league: league, uploader: uploader}
}

func (h *TeamHandler) ListTeamsHandler(w http.ResponseWriter, r *http.Request) {
	teams := h.league.Teams()
	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateTeamLogoHandler sets the logo reference directly (an already-hosted
// image URL).
func (h *TeamHandler) UpdateTeamLogoHandler(w http.ResponseWriter, r *http.Request) {
	teamID, err := getStringParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Logo string `json:"logo"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.league.UpdateTeamLogo(r.Context(), teamID, input.Logo)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UploadTeamLogoHandler stores an uploaded logo in the object store, then
// points the team at the public URL.
func (h *TeamHandler) UploadTeamLogoHandler(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		errorResponse(w, r, http.StatusNotImplemented, "logo uploads are not configured")
		return
	}
	teamID, err := getStringParam(r, "teamID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("missing logo file: %w", err))
		return
	}
	defer file.Close()

	key := fmt.Sprintf("teams/%s/%s%s", teamID, uuid.NewString(), path.Ext(header.Filename))
	result, err := h.uploader.Upload(r.Context(), key, header.Header.Get("Content-Type"), file)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	team, err := h.league.UpdateTeamLogo(r.Context(), teamID, result.Location)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
