package handlers

import (
	"fmt"
	"net/http"
	"path"

	"github.com/google/uuid"

	"github.com/kacemyassine/league-tracker/services"
	"github.com/kacemyassine/league-tracker/storage"
)

type PlayerHandler struct {
	league   services.LeagueService
	uploader storage.FileUploader
}

func NewPlayerHandler(league services.LeagueService, uploader storage.FileUploader) *PlayerHandler {
	return &PlayerHandler{league: league, uploader: uploader}
}

func (h *PlayerHandler) ListPlayersHandler(w http.ResponseWriter, r *http.Request) {
	players := h.league.Players()
	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": players}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) AddPlayerHandler(w http.ResponseWriter, r *http.Request) {
	var input services.AddPlayerInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.league.AddPlayer(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) EditPlayerHandler(w http.ResponseWriter, r *http.Request) {
	playerID, err := getStringParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var update services.PlayerUpdate
	if err := readJSON(w, r, &update); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.league.EditPlayer(r.Context(), playerID, update)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) DeletePlayerHandler(w http.ResponseWriter, r *http.Request) {
	playerID, err := getStringParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.league.DeletePlayer(r.Context(), playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UploadPlayerImageHandler stores a player photo in the object store and
// points the player record at the public URL.
func (h *PlayerHandler) UploadPlayerImageHandler(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		errorResponse(w, r, http.StatusNotImplemented, "image uploads are not configured")
		return
	}
	playerID, err := getStringParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		badRequestResponse(w, r, fmt.Errorf("missing image file: %w", err))
		return
	}
	defer file.Close()

	key := fmt.Sprintf("players/%s/%s%s", playerID, uuid.NewString(), path.Ext(header.Filename))
	result, err := h.uploader.Upload(r.Context(), key, header.Header.Get("Content-Type"), file)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	player, err := h.league.UpdatePlayerImage(r.Context(), playerID, result.Location)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
