package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kacemyassine/league-tracker/models"
)

const (
	redisSnapshotKey = "league:snapshot"
	redisArchivesKey = "league:archives"
)

// redisStore keeps each blob under a fixed key. Useful when several service
// instances share one league; writes still race last-write-wins.
type redisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) SnapshotStore {
	return &redisStore{client: client}
}

func (s *redisStore) Load(ctx context.Context) (*models.LeagueSnapshot, error) {
	raw, err := s.client.Get(ctx, redisSnapshotKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("redis store: load snapshot: %w", err)
	}

	var snap models.LeagueSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}
	snap.Normalize()
	return &snap, nil
}

func (s *redisStore) Save(ctx context.Context, snap *models.LeagueSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("redis store: encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, redisSnapshotKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis store: save snapshot: %w", err)
	}
	return nil
}

func (s *redisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, redisSnapshotKey).Err(); err != nil {
		return fmt.Errorf("redis store: clear snapshot: %w", err)
	}
	return nil
}

func (s *redisStore) LoadArchives(ctx context.Context) ([]models.ArchivedLeague, error) {
	raw, err := s.client.Get(ctx, redisArchivesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []models.ArchivedLeague{}, nil
		}
		return nil, fmt.Errorf("redis store: load archives: %w", err)
	}

	var archives []models.ArchivedLeague
	if err := json.Unmarshal(raw, &archives); err != nil {
		return nil, fmt.Errorf("%w: archives: %v", ErrSnapshotCorrupt, err)
	}
	return archives, nil
}

func (s *redisStore) SaveArchives(ctx context.Context, archives []models.ArchivedLeague) error {
	raw, err := json.Marshal(archives)
	if err != nil {
		return fmt.Errorf("redis store: encode archives: %w", err)
	}
	if err := s.client.Set(ctx, redisArchivesKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis store: save archives: %w", err)
	}
	return nil
}
