package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kacemyassine/league-tracker/models"
)

const (
	snapshotKey = "league"
	archivesKey = "archives"
)

// postgresStore keeps each blob as a row in a keyed jsonb table. One row per
// document; saves upsert, so concurrent writers resolve to last-write-wins.
type postgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) SnapshotStore {
	return &postgresStore{db: db}
}

// EnsureSchema creates the blob table if it does not exist yet. Called once
// at startup; safe to call repeatedly.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS league_snapshots (
			key        text PRIMARY KEY,
			data       jsonb NOT NULL,
			updated_at timestamptz NOT NULL
		)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("postgres store: ensure schema: %w", err)
	}
	return nil
}

func (s *postgresStore) Load(ctx context.Context) (*models.LeagueSnapshot, error) {
	raw, err := s.get(ctx, snapshotKey)
	if err != nil {
		return nil, err
	}

	var snap models.LeagueSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	snap.Normalize()
	return &snap, nil
}

func (s *postgresStore) Save(ctx context.Context, snap *models.LeagueSnapshot) error {
	return s.put(ctx, snapshotKey, snap)
}

func (s *postgresStore) Clear(ctx context.Context) error {
	query := `DELETE FROM league_snapshots WHERE key = $1`
	if _, err := s.db.ExecContext(ctx, query, snapshotKey); err != nil {
		return fmt.Errorf("postgres store: clear snapshot: %w", err)
	}
	return nil
}

func (s *postgresStore) LoadArchives(ctx context.Context) ([]models.ArchivedLeague, error) {
	raw, err := s.get(ctx, archivesKey)
	if err != nil {
		if errors.Is(err, ErrSnapshotNotFound) {
			return []models.ArchivedLeague{}, nil
		}
		return nil, err
	}

	var archives []models.ArchivedLeague
	if err := json.Unmarshal(raw, &archives); err != nil {
		return nil, fmt.Errorf("%w: archives: %v", ErrSnapshotCorrupt, err)
	}
	return archives, nil
}

func (s *postgresStore) SaveArchives(ctx context.Context, archives []models.ArchivedLeague) error {
	return s.put(ctx, archivesKey, archives)
}

func (s *postgresStore) get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT data FROM league_snapshots WHERE key = $1`

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("postgres store: load %s: %w", key, err)
	}
	return raw, nil
}

func (s *postgresStore) put(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("postgres store: encode %s: %w", key, err)
	}

	query := `
		INSERT INTO league_snapshots (key, data, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.ExecContext(ctx, query, key, raw, time.Now().UTC()); err != nil {
		return fmt.Errorf("postgres store: save %s: %w", key, err)
	}
	return nil
}
