package handlers

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/kacemyassine/league-tracker/models"
	"github.com/kacemyassine/league-tracker/remote"
	"github.com/kacemyassine/league-tracker/services"
)

type SyncHandler struct {
	sync services.SyncService

	// githubToken is the server-side credential the relay endpoint uses for
	// conditional updates; it is never accepted from the request.
	githubToken string

	// relayToken, when set, is the bearer credential relay callers must
	// present.
	relayToken string
}

func NewSyncHandler(sync services.SyncService, githubToken, relayToken string) *SyncHandler {
	return &SyncHandler{sync: sync, githubToken: githubToken, relayToken: relayToken}
}

// PullHandler replaces local state with the remote document.
func (h *SyncHandler) PullHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := h.sync.Pull(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, snap, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PushHandler writes the current local snapshot to the remote document. A
// rejected conditional update comes back as 409; the caller decides whether
// to pull and retry.
func (h *SyncHandler) PushHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.sync.Push(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type relayRequest struct {
	Data   models.LeagueSnapshot `json:"data"`
	Owner  string                `json:"owner"`
	Repo   string                `json:"repo"`
	Path   string                `json:"path"`
	Branch string                `json:"branch"`
}

// RelayHandler is the thin proxy to the content API: it reads the current
// document version and submits a conditional update with the posted
// snapshot. Responds {"success":true} or {"error":...}.
func (h *SyncHandler) RelayHandler(w http.ResponseWriter, r *http.Request) {
	if h.relayToken != "" {
		bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(bearer), []byte(h.relayToken)) != 1 {
			errorResponse(w, r, http.StatusUnauthorized, "invalid relay credential")
			return
		}
	}
	if h.githubToken == "" {
		errorResponse(w, r, http.StatusInternalServerError, "GitHub token not configured")
		return
	}

	var req relayRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	target, err := remote.NewGitHubSync(remote.GitHubSyncConfig{
		Owner:  req.Owner,
		Repo:   req.Repo,
		Path:   req.Path,
		Branch: req.Branch,
		Token:  h.githubToken,
	})
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := target.Push(r.Context(), &req.Data); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, remote.ErrRemoteConflict):
			status = http.StatusConflict
		case errors.Is(err, remote.ErrRemoteUnavailable):
			status = http.StatusBadGateway
		}
		errorResponse(w, r, status, err.Error())
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
