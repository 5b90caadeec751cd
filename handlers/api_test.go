package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kacemyassine/league-tracker/handlers"
	"github.com/kacemyassine/league-tracker/live"
	"github.com/kacemyassine/league-tracker/models"
	"github.com/kacemyassine/league-tracker/routes"
	"github.com/kacemyassine/league-tracker/services"
	"github.com/kacemyassine/league-tracker/store"
)

// memStore keeps everything in memory; a nil snapshot reports not-found so
// the engine falls back to the default dataset.
type memStore struct {
	snap     *models.LeagueSnapshot
	archives []models.ArchivedLeague
}

func (m *memStore) Load(ctx context.Context) (*models.LeagueSnapshot, error) {
	if m.snap == nil {
		return nil, store.ErrSnapshotNotFound
	}
	return m.snap.Clone(), nil
}

func (m *memStore) Save(ctx context.Context, snap *models.LeagueSnapshot) error {
	m.snap = snap.Clone()
	return nil
}

func (m *memStore) Clear(ctx context.Context) error {
	m.snap = nil
	return nil
}

func (m *memStore) LoadArchives(ctx context.Context) ([]models.ArchivedLeague, error) {
	return m.archives, nil
}

func (m *memStore) SaveArchives(ctx context.Context, archives []models.ArchivedLeague) error {
	m.archives = archives
	return nil
}

const testAdminPassword = "deep-sea-admin"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	league, err := services.NewLeagueService(context.Background(), &memStore{}, nil, logger)
	if err != nil {
		t.Fatalf("NewLeagueService: %v", err)
	}

	authService := services.NewAuthService(testAdminPassword, "test-signing-secret")
	archiveService := services.NewArchiveService(league, nil, logger)
	syncService := services.NewSyncService(league, nil, logger)

	hub := live.NewHub(logger)
	go hub.Run()

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		[]string{"*"},
		authService,
		handlers.NewAuthHandler(authService),
		handlers.NewLeagueHandler(league),
		handlers.NewStatsHandler(league),
		handlers.NewTeamHandler(league, nil),
		handlers.NewPlayerHandler(league, nil),
		handlers.NewMatchHandler(league),
		handlers.NewArchiveHandler(league, archiveService),
		handlers.NewSyncHandler(syncService, "", ""),
		handlers.NewWebSocketHandler(hub),
	)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, body interface{}) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	// Rejections from the auth middleware are plain text, everything else
	// is a JSON envelope.
	var envelope map[string]json.RawMessage
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &envelope)
	}
	return resp, envelope
}

func login(t *testing.T, server *httptest.Server, password string) (int, string) {
	t.Helper()
	resp, envelope := doJSON(t, server.Client(), http.MethodPost, server.URL+"/auth/login", "",
		map[string]string{"password": password})
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, ""
	}
	var token string
	if err := json.Unmarshal(envelope["token"], &token); err != nil {
		t.Fatalf("token field: %v", err)
	}
	return resp.StatusCode, token
}

func TestLogin(t *testing.T) {
	server := newTestServer(t)

	if status, _ := login(t, server, "wrong-password"); status != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", status)
	}

	status, token := login(t, server, testAdminPassword)
	if status != http.StatusOK {
		t.Fatalf("login status = %d, want 200", status)
	}
	if token == "" {
		t.Errorf("login returned an empty token")
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	server := newTestServer(t)

	input := services.RecordMatchInput{
		HomeTeamID: "team-atlantis",
		AwayTeamID: "team-poseidon",
		HomeGoals:  2,
		AwayGoals:  1,
		Scorers: []services.ScorerInput{
			{PlayerID: "player-a1", Goals: 2},
			{PlayerID: "player-p1", Goals: 1},
		},
	}

	resp, _ := doJSON(t, server.Client(), http.MethodPost, server.URL+"/matches", "", input)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated record status = %d, want 401", resp.StatusCode)
	}

	resp, _ = doJSON(t, server.Client(), http.MethodPost, server.URL+"/matches", "not-a-real-token", input)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("forged token record status = %d, want 401", resp.StatusCode)
	}
}

func TestRecordMatchUpdatesStandings(t *testing.T) {
	server := newTestServer(t)

	_, token := login(t, server, testAdminPassword)

	resp, envelope := doJSON(t, server.Client(), http.MethodPost, server.URL+"/matches", token,
		services.RecordMatchInput{
			HomeTeamID: "team-atlantis",
			AwayTeamID: "team-poseidon",
			HomeGoals:  3,
			AwayGoals:  1,
			Scorers: []services.ScorerInput{
				{PlayerID: "player-a1", Goals: 2},
				{PlayerID: "player-a2", Goals: 1},
				{PlayerID: "player-p1", Goals: 1},
			},
		})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record status = %d, want 201", resp.StatusCode)
	}

	var match models.Match
	if err := json.Unmarshal(envelope["match"], &match); err != nil {
		t.Fatalf("match field: %v", err)
	}
	if match.ID == "" || match.HomeTeamName != "Atlantis FC" {
		t.Errorf("recorded match = %+v", match)
	}

	resp, envelope = doJSON(t, server.Client(), http.MethodGet, server.URL+"/standings", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("standings status = %d", resp.StatusCode)
	}
	var standings []models.Standing
	if err := json.Unmarshal(envelope["standings"], &standings); err != nil {
		t.Fatalf("standings field: %v", err)
	}
	if len(standings) != 8 {
		t.Fatalf("standings rows = %d, want 8", len(standings))
	}
	if standings[0].Team.ID != "team-atlantis" || standings[0].Team.Points != 3 {
		t.Errorf("leader = %+v, want team-atlantis on 3 points", standings[0])
	}

	resp, envelope = doJSON(t, server.Client(), http.MethodGet, server.URL+"/topscorers", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("topscorers status = %d", resp.StatusCode)
	}
	var scorers []models.ScorerRank
	if err := json.Unmarshal(envelope["topScorers"], &scorers); err != nil {
		t.Fatalf("topScorers field: %v", err)
	}
	if len(scorers) == 0 || scorers[0].Player.ID != "player-a1" || scorers[0].Player.Goals != 2 {
		t.Errorf("top scorer = %+v, want player-a1 on 2 goals", scorers)
	}
}

func TestRecordMatchValidationStatus(t *testing.T) {
	server := newTestServer(t)
	_, token := login(t, server, testAdminPassword)

	tests := []struct {
		name  string
		input services.RecordMatchInput
		want  int
	}{
		{
			name:  "same team on both sides",
			input: services.RecordMatchInput{HomeTeamID: "team-atlantis", AwayTeamID: "team-atlantis"},
			want:  http.StatusBadRequest,
		},
		{
			name:  "unknown team",
			input: services.RecordMatchInput{HomeTeamID: "team-ghost", AwayTeamID: "team-poseidon"},
			want:  http.StatusNotFound,
		},
		{
			name: "negative score",
			input: services.RecordMatchInput{
				HomeTeamID: "team-atlantis", AwayTeamID: "team-poseidon", HomeGoals: -1,
			},
			want: http.StatusBadRequest,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, _ := doJSON(t, server.Client(), http.MethodPost, server.URL+"/matches", token, tc.input)
			if resp.StatusCode != tc.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestDeleteMatchRestoresStandings(t *testing.T) {
	server := newTestServer(t)
	_, token := login(t, server, testAdminPassword)

	_, envelope := doJSON(t, server.Client(), http.MethodPost, server.URL+"/matches", token,
		services.RecordMatchInput{
			HomeTeamID: "team-kraken",
			AwayTeamID: "team-siren",
			HomeGoals:  1,
			AwayGoals:  0,
			Scorers:    []services.ScorerInput{{PlayerID: "player-k1", Goals: 1}},
		})
	var match models.Match
	if err := json.Unmarshal(envelope["match"], &match); err != nil {
		t.Fatalf("match field: %v", err)
	}

	resp, _ := doJSON(t, server.Client(), http.MethodDelete, server.URL+"/matches/"+match.ID, token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", resp.StatusCode)
	}

	_, envelope = doJSON(t, server.Client(), http.MethodGet, server.URL+"/standings", "", nil)
	var standings []models.Standing
	if err := json.Unmarshal(envelope["standings"], &standings); err != nil {
		t.Fatalf("standings field: %v", err)
	}
	for _, row := range standings {
		if row.Team.Played != 0 || row.Team.Points != 0 {
			t.Errorf("row %s not back to zero: %+v", row.Team.ID, row)
		}
	}

	resp, _ = doJSON(t, server.Client(), http.MethodDelete, server.URL+"/matches/"+match.ID, token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestPlayerLifecycle(t *testing.T) {
	server := newTestServer(t)
	_, token := login(t, server, testAdminPassword)

	resp, envelope := doJSON(t, server.Client(), http.MethodPost, server.URL+"/players", token,
		services.AddPlayerInput{Name: "New Signing", TeamID: "team-coral"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add player status = %d, want 201", resp.StatusCode)
	}
	var player models.Player
	if err := json.Unmarshal(envelope["player"], &player); err != nil {
		t.Fatalf("player field: %v", err)
	}
	if player.ID == "" || player.TeamID != "team-coral" {
		t.Errorf("created player = %+v", player)
	}

	newName := "Renamed Signing"
	resp, envelope = doJSON(t, server.Client(), http.MethodPatch, server.URL+"/players/"+player.ID, token,
		services.PlayerUpdate{Name: &newName})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("edit player status = %d, want 200", resp.StatusCode)
	}
	if err := json.Unmarshal(envelope["player"], &player); err != nil {
		t.Fatalf("player field: %v", err)
	}
	if player.Name != newName {
		t.Errorf("player name = %q, want %q", player.Name, newName)
	}

	resp, _ = doJSON(t, server.Client(), http.MethodDelete, server.URL+"/players/"+player.ID, token, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete player status = %d, want 204", resp.StatusCode)
	}

	resp, _ = doJSON(t, server.Client(), http.MethodDelete, server.URL+"/players/"+player.ID, token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("deleting a missing player status = %d, want 404", resp.StatusCode)
	}
}

func TestResetLeague(t *testing.T) {
	server := newTestServer(t)
	_, token := login(t, server, testAdminPassword)

	doJSON(t, server.Client(), http.MethodPost, server.URL+"/matches", token,
		services.RecordMatchInput{
			HomeTeamID: "team-abyss", AwayTeamID: "team-neptune", HomeGoals: 2, AwayGoals: 2,
		})

	resp, _ := doJSON(t, server.Client(), http.MethodPost, server.URL+"/league/reset", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset status = %d, want 200", resp.StatusCode)
	}

	_, envelope := doJSON(t, server.Client(), http.MethodGet, server.URL+"/matches", "", nil)
	var matches []models.Match
	if err := json.Unmarshal(envelope["matches"], &matches); err != nil {
		t.Fatalf("matches field: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("matches after reset = %d, want 0", len(matches))
	}
}

func TestSyncUnconfigured(t *testing.T) {
	server := newTestServer(t)
	_, token := login(t, server, testAdminPassword)

	resp, _ := doJSON(t, server.Client(), http.MethodPost, server.URL+"/sync/pull", token, nil)
	if resp.StatusCode != http.StatusNotImplemented {
		t.Errorf("pull without a remote status = %d, want 501", resp.StatusCode)
	}

	resp, _ = doJSON(t, server.Client(), http.MethodPost, server.URL+"/api/update-json", "", map[string]interface{}{
		"data": models.LeagueSnapshot{}, "owner": "o", "repo": "r", "path": "p",
	})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("relay without a server credential status = %d, want 500", resp.StatusCode)
	}
}
