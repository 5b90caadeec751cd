// Package remote synchronizes the league snapshot with a JSON document kept
// in a GitHub repository. Reads go through the raw URL when one is
// configured, otherwise through the authenticated contents API. Writes are
// optimistic-concurrency: read the current blob SHA, then submit a
// conditional update carrying it. There is no automatic retry on conflict;
// the caller decides whether to refetch and try again.
package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kacemyassine/league-tracker/models"
)

var (
	// ErrRemoteUnavailable covers network failures, auth failures and any
	// other non-success response from the document store.
	ErrRemoteUnavailable = errors.New("remote document store unavailable")

	// ErrRemoteConflict means the conditional update was rejected because
	// the document changed since the SHA was read.
	ErrRemoteConflict = errors.New("remote document changed, update rejected")
)

const defaultAPIBaseURL = "https://api.github.com"

type GitHubSyncConfig struct {
	Owner  string
	Repo   string
	Path   string
	Branch string
	Token  string

	// RawURL, when set, is used for unauthenticated reads instead of the
	// contents API.
	RawURL string

	// APIBaseURL overrides the GitHub API endpoint. Defaults to the public
	// API; tests point it at a local server.
	APIBaseURL string

	HTTPClient *http.Client
}

type GitHubSync struct {
	cfg    GitHubSyncConfig
	client *http.Client
	now    func() time.Time
}

func NewGitHubSync(cfg GitHubSyncConfig) (*GitHubSync, error) {
	if cfg.Owner == "" || cfg.Repo == "" || cfg.Path == "" {
		return nil, errors.New("invalid GitHub sync configuration: owner, repo and path are required")
	}
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &GitHubSync{cfg: cfg, client: client, now: time.Now}, nil
}

// contentsResponse is the subset of the contents API body we care about.
type contentsResponse struct {
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

func (g *GitHubSync) contentsURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s", g.cfg.APIBaseURL, g.cfg.Owner, g.cfg.Repo, g.cfg.Path)
}

// Fetch retrieves the remote snapshot document.
func (g *GitHubSync) Fetch(ctx context.Context) (*models.LeagueSnapshot, error) {
	if g.cfg.RawURL != "" {
		return g.fetchRaw(ctx)
	}
	return g.fetchContents(ctx)
}

// fetchRaw reads the document by raw URL, with a cache-busting query param
// because raw hosting caches aggressively.
func (g *GitHubSync) fetchRaw(ctx context.Context) (*models.LeagueSnapshot, error) {
	url := fmt.Sprintf("%s?t=%d", g.cfg.RawURL, g.now().UnixNano())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch returned status %d", ErrRemoteUnavailable, resp.StatusCode)
	}

	var snap models.LeagueSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: decode document: %v", ErrRemoteUnavailable, err)
	}
	snap.Normalize()
	return &snap, nil
}

// fetchContents reads the document through the contents API and decodes the
// base64 body.
func (g *GitHubSync) fetchContents(ctx context.Context) (*models.LeagueSnapshot, error) {
	file, err := g.getContents(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(file.Content)
	if err != nil {
		// The API wraps base64 at 60 columns; fall back to ignoring newlines.
		raw, err = base64.StdEncoding.DecodeString(stripNewlines(file.Content))
		if err != nil {
			return nil, fmt.Errorf("%w: decode content: %v", ErrRemoteUnavailable, err)
		}
	}

	var snap models.LeagueSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: decode document: %v", ErrRemoteUnavailable, err)
	}
	snap.Normalize()
	return &snap, nil
}

// Push writes the snapshot to the repository. It reads the current file SHA
// first and submits it with the update; a stale SHA is reported as
// ErrRemoteConflict and nothing is retried here.
func (g *GitHubSync) Push(ctx context.Context, snap *models.LeagueSnapshot) error {
	sha := ""
	file, err := g.getContents(ctx)
	switch {
	case err == nil:
		sha = file.SHA
	case errors.Is(err, errContentsNotFound):
		// First push creates the file; no SHA needed.
	default:
		return err
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	body := map[string]string{
		"message": "Update league data",
		"content": base64.StdEncoding.EncodeToString(raw),
		"branch":  g.cfg.Branch,
	}
	if sha != "" {
		body["sha"] = sha
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode update request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, g.contentsURL(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	g.authorize(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated:
		return nil
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: status %d", ErrRemoteConflict, resp.StatusCode)
	default:
		return fmt.Errorf("%w: update returned status %d", ErrRemoteUnavailable, resp.StatusCode)
	}
}

var errContentsNotFound = errors.New("remote document does not exist yet")

func (g *GitHubSync) getContents(ctx context.Context) (*contentsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.contentsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	g.authorize(req)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, errContentsNotFound
	default:
		return nil, fmt.Errorf("%w: contents read returned status %d", ErrRemoteUnavailable, resp.StatusCode)
	}

	var file contentsResponse
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: decode contents response: %v", ErrRemoteUnavailable, err)
	}
	return &file, nil
}

func (g *GitHubSync) authorize(req *http.Request) {
	if g.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.Token)
	}
}

func stripNewlines(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\n' && s[i] != '\r' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
