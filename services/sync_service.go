package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kacemyassine/league-tracker/models"
)

// RemoteStore is the fetch/update contract against the external JSON
// document. The GitHub adapter implements it.
type RemoteStore interface {
	Fetch(ctx context.Context) (*models.LeagueSnapshot, error)
	Push(ctx context.Context, snap *models.LeagueSnapshot) error
}

type SyncService interface {
	// Pull fetches the remote document and replaces local state with it.
	Pull(ctx context.Context) (*models.LeagueSnapshot, error)

	// Push writes the current local snapshot to the remote document. On
	// failure (conflict, auth, network) local state is left untouched and
	// the error is returned for the caller to act on — no automatic retry.
	Push(ctx context.Context) error
}

type syncService struct {
	league LeagueService
	remote RemoteStore
	logger *slog.Logger
}

func NewSyncService(league LeagueService, remote RemoteStore, logger *slog.Logger) SyncService {
	if logger == nil {
		logger = slog.Default()
	}
	return &syncService{league: league, remote: remote, logger: logger}
}

func (s *syncService) Pull(ctx context.Context) (*models.LeagueSnapshot, error) {
	if s.remote == nil {
		return nil, ErrSyncNotConfigured
	}

	snap, err := s.remote.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch remote snapshot: %w", err)
	}
	if err := s.league.ReplaceSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("replace local snapshot: %w", err)
	}
	s.logger.Info("league snapshot pulled from remote",
		slog.Int("teams", len(snap.Teams)),
		slog.Int("players", len(snap.Players)),
		slog.Int("matches", len(snap.Matches)))
	return snap, nil
}

func (s *syncService) Push(ctx context.Context) error {
	if s.remote == nil {
		return ErrSyncNotConfigured
	}

	// Local mutations are not locked out while the push is in flight; with
	// a single admin that race is accepted.
	snap := s.league.Snapshot()
	if err := s.remote.Push(ctx, snap); err != nil {
		return err
	}
	s.logger.Info("league snapshot pushed to remote", slog.Int("matches", len(snap.Matches)))
	return nil
}
