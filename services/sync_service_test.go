package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kacemyassine/league-tracker/models"
)

type fakeRemote struct {
	fetchFn func(ctx context.Context) (*models.LeagueSnapshot, error)
	pushFn  func(ctx context.Context, snap *models.LeagueSnapshot) error
}

func (f *fakeRemote) Fetch(ctx context.Context) (*models.LeagueSnapshot, error) {
	return f.fetchFn(ctx)
}

func (f *fakeRemote) Push(ctx context.Context, snap *models.LeagueSnapshot) error {
	return f.pushFn(ctx, snap)
}

func TestSyncPullReplacesLocalState(t *testing.T) {
	league, _ := newTestLeague(t)
	remoteSnap := &models.LeagueSnapshot{
		Teams: []models.Team{{ID: "remote-team", Name: "Remote"}},
	}
	sync := NewSyncService(league, &fakeRemote{
		fetchFn: func(ctx context.Context) (*models.LeagueSnapshot, error) {
			return remoteSnap.Clone(), nil
		},
	}, testLogger())

	if _, err := sync.Pull(context.Background()); err != nil {
		t.Fatalf("Pull: %v", err)
	}

	teams := league.Teams()
	if len(teams) != 1 || teams[0].ID != "remote-team" {
		t.Errorf("local state not replaced, teams = %+v", teams)
	}
}

func TestSyncPullFetchFailureLeavesLocalStateAlone(t *testing.T) {
	league, _ := newTestLeague(t)
	before := league.Snapshot()
	fetchErr := errors.New("boom")
	sync := NewSyncService(league, &fakeRemote{
		fetchFn: func(ctx context.Context) (*models.LeagueSnapshot, error) {
			return nil, fetchErr
		},
	}, testLogger())

	if _, err := sync.Pull(context.Background()); !errors.Is(err, fetchErr) {
		t.Fatalf("Pull error = %v, want wrapped %v", err, fetchErr)
	}
	if len(league.Snapshot().Teams) != len(before.Teams) {
		t.Errorf("local state changed after failed pull")
	}
}

func TestSyncPushSendsCurrentSnapshot(t *testing.T) {
	league, _ := newTestLeague(t)
	if _, err := league.RecordMatch(context.Background(), RecordMatchInput{
		HomeTeamID: "team-atlantis", AwayTeamID: "team-poseidon", HomeGoals: 1,
	}); err != nil {
		t.Fatalf("RecordMatch: %v", err)
	}

	var pushed *models.LeagueSnapshot
	sync := NewSyncService(league, &fakeRemote{
		pushFn: func(ctx context.Context, snap *models.LeagueSnapshot) error {
			pushed = snap
			return nil
		},
	}, testLogger())

	if err := sync.Push(context.Background()); err != nil {
		t.Fatalf("Push: %v", err)
	}
	if pushed == nil || len(pushed.Matches) != 1 {
		t.Errorf("pushed snapshot = %+v, want the recorded match included", pushed)
	}
}

func TestSyncPushFailurePropagates(t *testing.T) {
	league, _ := newTestLeague(t)
	pushErr := errors.New("stale sha")
	sync := NewSyncService(league, &fakeRemote{
		pushFn: func(ctx context.Context, snap *models.LeagueSnapshot) error {
			return pushErr
		},
	}, testLogger())

	if err := sync.Push(context.Background()); !errors.Is(err, pushErr) {
		t.Errorf("Push error = %v, want %v", err, pushErr)
	}
}

func TestSyncWithoutRemoteIsNotConfigured(t *testing.T) {
	league, _ := newTestLeague(t)
	sync := NewSyncService(league, nil, testLogger())

	if _, err := sync.Pull(context.Background()); !errors.Is(err, ErrSyncNotConfigured) {
		t.Errorf("Pull error = %v, want ErrSyncNotConfigured", err)
	}
	if err := sync.Push(context.Background()); !errors.Is(err, ErrSyncNotConfigured) {
		t.Errorf("Push error = %v, want ErrSyncNotConfigured", err)
	}
}
