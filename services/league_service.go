package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kacemyassine/league-tracker/data"
	"github.com/kacemyassine/league-tracker/models"
	"github.com/kacemyassine/league-tracker/store"
)

// LeagueNotifier receives a change notification after every successful
// mutation. The websocket hub implements it; consumers subscribe there
// instead of polling the engine.
type LeagueNotifier interface {
	LeagueUpdated(update LeagueUpdate)
}

// LeagueUpdate is the payload broadcast to subscribers after a mutation.
type LeagueUpdate struct {
	Standings  []models.Standing   `json:"standings"`
	TopScorers []models.ScorerRank `json:"topScorers"`
}

type ScorerInput struct {
	PlayerID string `json:"playerId"`
	Goals    int    `json:"goals"`
	OwnGoal  bool   `json:"isOwnGoal"`
}

type RecordMatchInput struct {
	HomeTeamID string        `json:"homeTeamId"`
	AwayTeamID string        `json:"awayTeamId"`
	HomeGoals  int           `json:"homeGoals"`
	AwayGoals  int           `json:"awayGoals"`
	Scorers    []ScorerInput `json:"scorers"`
}

type EditMatchInput struct {
	HomeGoals int           `json:"homeGoals"`
	AwayGoals int           `json:"awayGoals"`
	Scorers   []ScorerInput `json:"scorers"`
}

type AddPlayerInput struct {
	Name   string  `json:"name"`
	TeamID string  `json:"teamId"`
	Image  *string `json:"image"`
}

// PlayerUpdate carries partial edits; nil fields are left untouched. Goals
// are not editable directly, they are derived from the match log.
type PlayerUpdate struct {
	Name   *string `json:"name"`
	TeamID *string `json:"teamId"`
	Image  *string `json:"image"`
}

type LeagueService interface {
	Snapshot() *models.LeagueSnapshot
	Teams() []models.Team
	Players() []models.Player
	Matches() []models.Match
	Standings() []models.Standing
	TopScorers() []models.ScorerRank
	PointsProgression() []models.PointsProgression

	RecordMatch(ctx context.Context, input RecordMatchInput) (*models.Match, error)
	EditMatch(ctx context.Context, matchID string, input EditMatchInput) (*models.Match, error)
	DeleteMatch(ctx context.Context, matchID string) error

	AddPlayer(ctx context.Context, input AddPlayerInput) (*models.Player, error)
	EditPlayer(ctx context.Context, playerID string, update PlayerUpdate) (*models.Player, error)
	DeletePlayer(ctx context.Context, playerID string) error

	UpdateTeamLogo(ctx context.Context, teamID, logoRef string) (*models.Team, error)
	UpdatePlayerImage(ctx context.Context, playerID, imageRef string) (*models.Player, error)

	ResetLeague(ctx context.Context) error
	ReplaceSnapshot(ctx context.Context, snap *models.LeagueSnapshot) error

	ArchiveCurrentLeague(ctx context.Context, meta models.ArchiveMetadata) (*models.ArchivedLeague, error)
	Archives() []models.ArchivedLeague
	ArchiveByID(id string) (*models.ArchivedLeague, error)
}

// leagueService is the single owner of the live collections. All reads hand
// out copies; all mutations run under the write lock, rebuild the derived
// aggregates from the match log, persist, then notify subscribers.
type leagueService struct {
	mu       sync.RWMutex
	snap     *models.LeagueSnapshot
	archives []models.ArchivedLeague

	store    store.SnapshotStore
	notifier LeagueNotifier
	logger   *slog.Logger

	now   func() time.Time
	newID func(prefix string) string
}

// NewLeagueService loads the persisted snapshot, falling back to the
// built-in default dataset when none exists or the saved blob is corrupt.
// Corruption is recovered silently (logged, never surfaced).
func NewLeagueService(ctx context.Context, st store.SnapshotStore, notifier LeagueNotifier, logger *slog.Logger) (LeagueService, error) {
	if logger == nil {
		logger = slog.Default()
	}

	snap, err := st.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrSnapshotNotFound):
		snap = data.DefaultSnapshot()
	case errors.Is(err, store.ErrSnapshotCorrupt):
		logger.Warn("saved league snapshot is corrupt, falling back to default dataset", slog.Any("error", err))
		snap = data.DefaultSnapshot()
	default:
		return nil, fmt.Errorf("load league snapshot: %w", err)
	}

	archives, err := st.LoadArchives(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrSnapshotCorrupt) {
			return nil, fmt.Errorf("load league archives: %w", err)
		}
		logger.Warn("saved archives are corrupt, starting with an empty archive list", slog.Any("error", err))
		archives = []models.ArchivedLeague{}
	}

	s := &leagueService{
		snap:     snap,
		archives: archives,
		store:    st,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
		newID: func(prefix string) string {
			return prefix + "-" + uuid.NewString()
		},
	}
	recompute(s.snap)
	return s, nil
}

func (s *leagueService) Snapshot() *models.LeagueSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

func (s *leagueService) Teams() []models.Team {
	return s.Snapshot().Teams
}

func (s *leagueService) Players() []models.Player {
	return s.Snapshot().Players
}

func (s *leagueService) Matches() []models.Match {
	return s.Snapshot().Matches
}

func (s *leagueService) Standings() []models.Standing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return BuildStandings(s.snap.Teams)
}

func (s *leagueService) TopScorers() []models.ScorerRank {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return BuildTopScorers(s.snap.Players)
}

func (s *leagueService) PointsProgression() []models.PointsProgression {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return BuildPointsProgression(s.snap)
}

func (s *leagueService) RecordMatch(ctx context.Context, input RecordMatchInput) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.HomeTeamID == input.AwayTeamID {
		return nil, ErrMatchSameTeam
	}
	home := s.snap.TeamByID(input.HomeTeamID)
	if home == nil {
		return nil, fmt.Errorf("%w: home team %q", ErrTeamNotFound, input.HomeTeamID)
	}
	away := s.snap.TeamByID(input.AwayTeamID)
	if away == nil {
		return nil, fmt.Errorf("%w: away team %q", ErrTeamNotFound, input.AwayTeamID)
	}
	scorers, err := s.validateResult(input.HomeGoals, input.AwayGoals, input.Scorers)
	if err != nil {
		return nil, err
	}

	// Repeated calls create repeated matches: there is no natural key and
	// no idempotency, so callers must not retry blindly.
	match := models.Match{
		ID:           s.newID("match"),
		HomeTeamID:   home.ID,
		AwayTeamID:   away.ID,
		HomeTeamName: home.Name,
		AwayTeamName: away.Name,
		HomeGoals:    input.HomeGoals,
		AwayGoals:    input.AwayGoals,
		Scorers:      scorers,
		Date:         s.now().UTC(),
	}
	s.snap.Matches = append(s.snap.Matches, match)

	s.commit(ctx)
	return &match, nil
}

func (s *leagueService) EditMatch(ctx context.Context, matchID string, input EditMatchInput) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.snap.MatchIndex(matchID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: match %q", ErrMatchNotFound, matchID)
	}
	scorers, err := s.validateResult(input.HomeGoals, input.AwayGoals, input.Scorers)
	if err != nil {
		return nil, err
	}

	// Identity, teams and date are immutable; only the result changes. The
	// full fold in commit makes the edit equivalent to having recorded the
	// new result in the first place.
	m := &s.snap.Matches[idx]
	m.HomeGoals = input.HomeGoals
	m.AwayGoals = input.AwayGoals
	m.Scorers = scorers

	edited := *m
	s.commit(ctx)
	return &edited, nil
}

func (s *leagueService) DeleteMatch(ctx context.Context, matchID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.snap.MatchIndex(matchID)
	if idx < 0 {
		return fmt.Errorf("%w: match %q", ErrMatchNotFound, matchID)
	}
	s.snap.Matches = append(s.snap.Matches[:idx], s.snap.Matches[idx+1:]...)

	s.commit(ctx)
	return nil
}

func (s *leagueService) AddPlayer(ctx context.Context, input AddPlayerInput) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if input.Name == "" {
		return nil, ErrPlayerNameRequired
	}
	if s.snap.TeamByID(input.TeamID) == nil {
		return nil, fmt.Errorf("%w: team %q", ErrTeamNotFound, input.TeamID)
	}

	player := models.Player{
		ID:     s.newID("player"),
		Name:   input.Name,
		TeamID: input.TeamID,
		Image:  input.Image,
	}
	s.snap.Players = append(s.snap.Players, player)

	s.commit(ctx)
	return &player, nil
}

func (s *leagueService) EditPlayer(ctx context.Context, playerID string, update PlayerUpdate) (*models.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player := s.snap.PlayerByID(playerID)
	if player == nil {
		return nil, fmt.Errorf("%w: player %q", ErrPlayerNotFound, playerID)
	}
	if update.Name != nil {
		if *update.Name == "" {
			return nil, ErrPlayerNameRequired
		}
		player.Name = *update.Name
	}
	if update.TeamID != nil {
		// Moving a player does not reattribute past goals: team aggregates
		// come from match scorelines, which keep their original team ids.
		if s.snap.TeamByID(*update.TeamID) == nil {
			return nil, fmt.Errorf("%w: team %q", ErrTeamNotFound, *update.TeamID)
		}
		player.TeamID = *update.TeamID
	}
	if update.Image != nil {
		img := *update.Image
		player.Image = &img
	}

	edited := *player
	s.commit(ctx)
	return &edited, nil
}

func (s *leagueService) DeletePlayer(ctx context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	players := s.snap.Players[:0]
	for _, p := range s.snap.Players {
		if p.ID == playerID {
			found = true
			continue
		}
		players = append(players, p)
	}
	if !found {
		return fmt.Errorf("%w: player %q", ErrPlayerNotFound, playerID)
	}
	s.snap.Players = players

	// Strip the player from scorer lists. Team aggregates are untouched:
	// they derive from match scorelines, so the goals stay on the books,
	// orphaned from a live player.
	for i := range s.snap.Matches {
		m := &s.snap.Matches[i]
		scorers := m.Scorers[:0]
		for _, sc := range m.Scorers {
			if sc.PlayerID != playerID {
				scorers = append(scorers, sc)
			}
		}
		m.Scorers = scorers
	}

	s.commit(ctx)
	return nil
}

func (s *leagueService) UpdateTeamLogo(ctx context.Context, teamID, logoRef string) (*models.Team, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	team := s.snap.TeamByID(teamID)
	if team == nil {
		return nil, fmt.Errorf("%w: team %q", ErrTeamNotFound, teamID)
	}
	team.Logo = logoRef

	updated := *team
	s.commit(ctx)
	return &updated, nil
}

func (s *leagueService) UpdatePlayerImage(ctx context.Context, playerID, imageRef string) (*models.Player, error) {
	img := imageRef
	return s.EditPlayer(ctx, playerID, PlayerUpdate{Image: &img})
}

// ResetLeague discards the persisted snapshot and restores the built-in
// default dataset. Archives survive a reset. Irreversible.
func (s *leagueService) ResetLeague(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear persisted snapshot: %w", err)
	}
	s.snap = data.DefaultSnapshot()
	recompute(s.snap)
	s.notify()
	return nil
}

// ReplaceSnapshot swaps in an externally fetched snapshot (remote pull).
func (s *leagueService) ReplaceSnapshot(ctx context.Context, snap *models.LeagueSnapshot) error {
	if snap == nil {
		return errors.New("replacement snapshot is nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = snap.Clone()
	s.snap.Normalize()
	s.commit(ctx)
	return nil
}

func (s *leagueService) ArchiveCurrentLeague(ctx context.Context, meta models.ArchiveMetadata) (*models.ArchivedLeague, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if meta.Name == "" {
		return nil, ErrArchiveNameRequired
	}

	archive := models.ArchivedLeague{
		ID:         s.newID("archive"),
		Metadata:   meta,
		Snapshot:   *s.snap.Clone(),
		ArchivedAt: s.now().UTC(),
	}
	s.archives = append(s.archives, archive)

	if err := s.store.SaveArchives(ctx, s.archives); err != nil {
		s.logger.Error("failed to persist archives", slog.Any("error", err))
	}
	return &archive, nil
}

func (s *leagueService) Archives() []models.ArchivedLeague {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ArchivedLeague, len(s.archives))
	copy(out, s.archives)
	return out
}

func (s *leagueService) ArchiveByID(id string) (*models.ArchivedLeague, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.archives {
		if s.archives[i].ID == id {
			a := s.archives[i]
			a.Snapshot = *a.Snapshot.Clone()
			return &a, nil
		}
	}
	return nil, fmt.Errorf("%w: archive %q", ErrArchiveNotFound, id)
}

// validateResult checks a scoreline and its scorer events, returning the
// events converted to model form.
func (s *leagueService) validateResult(homeGoals, awayGoals int, scorers []ScorerInput) ([]models.ScorerEvent, error) {
	if homeGoals < 0 || awayGoals < 0 {
		return nil, ErrMatchInvalidScore
	}
	events := make([]models.ScorerEvent, 0, len(scorers))
	for _, sc := range scorers {
		if sc.Goals <= 0 {
			return nil, fmt.Errorf("%w: got %d", ErrScorerInvalidGoals, sc.Goals)
		}
		if s.snap.PlayerByID(sc.PlayerID) == nil {
			return nil, fmt.Errorf("%w: player %q", ErrScorerUnknownPlayer, sc.PlayerID)
		}
		events = append(events, models.ScorerEvent{PlayerID: sc.PlayerID, Goals: sc.Goals, OwnGoal: sc.OwnGoal})
	}
	return events, nil
}

// commit rebuilds derived aggregates, persists the snapshot and notifies
// subscribers. Persistence failures are logged, not surfaced — the in-memory
// state stays authoritative and the next mutation retries the save.
// Callers must hold the write lock.
func (s *leagueService) commit(ctx context.Context) {
	recompute(s.snap)
	if err := s.store.Save(ctx, s.snap); err != nil {
		s.logger.Error("failed to persist league snapshot", slog.Any("error", err))
	}
	s.notify()
}

func (s *leagueService) notify() {
	if s.notifier == nil {
		return
	}
	s.notifier.LeagueUpdated(LeagueUpdate{
		Standings:  BuildStandings(s.snap.Teams),
		TopScorers: BuildTopScorers(s.snap.Players),
	})
}

// recompute folds the match log into team aggregates and player tallies.
// The log is the source of truth, so edits and deletions never need to
// reverse previous contributions. Invariants played = won+drawn+lost and
// points = 3*won + drawn hold by construction.
func recompute(snap *models.LeagueSnapshot) {
	teams := make(map[string]*models.Team, len(snap.Teams))
	for i := range snap.Teams {
		t := &snap.Teams[i]
		t.Played, t.Won, t.Drawn, t.Lost = 0, 0, 0, 0
		t.GoalsFor, t.GoalsAgainst, t.Points = 0, 0, 0
		teams[t.ID] = t
	}
	players := make(map[string]*models.Player, len(snap.Players))
	for i := range snap.Players {
		p := &snap.Players[i]
		p.Goals = 0
		players[p.ID] = p
	}

	for i := range snap.Matches {
		m := &snap.Matches[i]
		home, away := teams[m.HomeTeamID], teams[m.AwayTeamID]
		if home != nil && away != nil {
			home.Played++
			away.Played++
			home.GoalsFor += m.HomeGoals
			home.GoalsAgainst += m.AwayGoals
			away.GoalsFor += m.AwayGoals
			away.GoalsAgainst += m.HomeGoals
			switch {
			case m.HomeWin():
				home.Won++
				away.Lost++
			case m.AwayWin():
				away.Won++
				home.Lost++
			default:
				home.Drawn++
				away.Drawn++
			}
		}
		for _, sc := range m.Scorers {
			// Own goals never count towards the scorer's personal tally;
			// the scoreline already credits the opposing team.
			if sc.OwnGoal {
				continue
			}
			if p := players[sc.PlayerID]; p != nil {
				p.Goals += sc.Goals
			}
		}
	}

	for _, t := range teams {
		t.Points = 3*t.Won + t.Drawn
	}
}
