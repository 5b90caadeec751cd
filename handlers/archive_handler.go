package handlers

import (
	"net/http"

	"github.com/kacemyassine/league-tracker/models"
	"github.com/kacemyassine/league-tracker/services"
)

type ArchiveHandler struct {
	league  services.LeagueService
	archive services.ArchiveService
}

func NewArchiveHandler(league services.LeagueService, archive services.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{league: league, archive: archive}
}

func (h *ArchiveHandler) ListArchivesHandler(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"archives": h.league.Archives()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ArchiveHandler) GetArchiveHandler(w http.ResponseWriter, r *http.Request) {
	archiveID, err := getStringParam(r, "archiveID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	archive, err := h.league.ArchiveByID(archiveID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"archive": archive}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateArchiveHandler freezes the current league under the supplied
// metadata, capturing any referenced stylesheets.
func (h *ArchiveHandler) CreateArchiveHandler(w http.ResponseWriter, r *http.Request) {
	var meta models.ArchiveMetadata
	if err := readJSON(w, r, &meta); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	archive, err := h.archive.Archive(r.Context(), meta)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"archive": archive}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
