// Package store persists the league snapshot and the archive list. The
// backends are interchangeable keyed-blob stores; none of them apply any
// business logic, and none of them provide transactions — the last writer
// wins, exactly as the engine expects.
package store

import (
	"context"
	"errors"

	"github.com/kacemyassine/league-tracker/models"
)

var (
	// ErrSnapshotNotFound means no snapshot has ever been saved (or it was
	// cleared). Callers fall back to the built-in default dataset.
	ErrSnapshotNotFound = errors.New("league snapshot not found")

	// ErrSnapshotCorrupt means a saved blob exists but does not decode.
	// Recoverable: the engine falls back to the default dataset.
	ErrSnapshotCorrupt = errors.New("league snapshot corrupt")
)

type SnapshotStore interface {
	Load(ctx context.Context) (*models.LeagueSnapshot, error)
	Save(ctx context.Context, snap *models.LeagueSnapshot) error
	Clear(ctx context.Context) error

	LoadArchives(ctx context.Context) ([]models.ArchivedLeague, error)
	SaveArchives(ctx context.Context, archives []models.ArchivedLeague) error
}
