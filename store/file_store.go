package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kacemyassine/league-tracker/models"
)

const (
	snapshotFileName = "league.json"
	archivesFileName = "archives.json"
)

// fileStore keeps the snapshot as pretty-printed JSON files in a directory.
// This is the default backend for single-host deployments.
type fileStore struct {
	dir string
}

func NewFileStore(dir string) (SnapshotStore, error) {
	if dir == "" {
		return nil, errors.New("file store: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: create directory %s: %w", dir, err)
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) Load(ctx context.Context) (*models.LeagueSnapshot, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, snapshotFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("file store: read snapshot: %w", err)
	}

	var snap models.LeagueSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	snap.Normalize()
	return &snap, nil
}

func (s *fileStore) Save(ctx context.Context, snap *models.LeagueSnapshot) error {
	return s.writeJSON(snapshotFileName, snap)
}

func (s *fileStore) Clear(ctx context.Context) error {
	err := os.Remove(filepath.Join(s.dir, snapshotFileName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file store: clear snapshot: %w", err)
	}
	return nil
}

func (s *fileStore) LoadArchives(ctx context.Context) ([]models.ArchivedLeague, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, archivesFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.ArchivedLeague{}, nil
		}
		return nil, fmt.Errorf("file store: read archives: %w", err)
	}

	var archives []models.ArchivedLeague
	if err := json.Unmarshal(raw, &archives); err != nil {
		return nil, fmt.Errorf("%w: archives: %v", ErrSnapshotCorrupt, err)
	}
	return archives, nil
}

func (s *fileStore) SaveArchives(ctx context.Context, archives []models.ArchivedLeague) error {
	return s.writeJSON(archivesFileName, archives)
}

// writeJSON writes through a temp file and renames it into place so a crash
// mid-write never leaves a truncated document behind.
func (s *fileStore) writeJSON(name string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("file store: encode %s: %w", name, err)
	}

	tmp := filepath.Join(s.dir, name+".tmp")
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("file store: write %s: %w", name, err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("file store: replace %s: %w", name, err)
	}
	return nil
}
