package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/teachmate/internal/dto"
	"github.com/noah-isme/teachmate/internal/models"
	appErrors "github.com/noah-isme/teachmate/pkg/errors"
)

// SnapshotRepository mirrors the roster into Redis so other tools can read
// the latest state without touching the data file. A nil client turns every
// call into a no-op.
type SnapshotRepository struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

// NewSnapshotRepository constructs a snapshot mirror writing to key.
func NewSnapshotRepository(client *redis.Client, key string, ttl time.Duration, logger *zap.Logger) *SnapshotRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotRepository{client: client, key: key, ttl: ttl, logger: logger}
}

// Publish stores the roster under the configured key.
func (r *SnapshotRepository) Publish(ctx context.Context, persons []models.Person) error {
	return r.set(ctx, r.key, EncodeRoster(persons))
}

// Fetch returns the last published roster document.
func (r *SnapshotRepository) Fetch(ctx context.Context) (dto.Roster, error) {
	var doc dto.Roster
	if err := r.get(ctx, r.key, &doc); err != nil {
		return dto.Roster{}, err
	}
	return doc, nil
}

// Purge removes the snapshot.
func (r *SnapshotRepository) Purge(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", r.key, err)
	}
	return nil
}

func (r *SnapshotRepository) get(ctx context.Context, key string, dest interface{}) error {
	if r.client == nil {
		return appErrors.ErrCacheMiss
	}

	raw, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal snapshot for %s: %w", key, err)
	}

	return nil
}

func (r *SnapshotRepository) set(ctx context.Context, key string, value interface{}) error {
	if r.client == nil {
		return nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal snapshot for %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, payload, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}

	r.logger.Debug("roster snapshot published", zap.String("key", key), zap.Int("bytes", len(payload)))
	return nil
}

// Close releases the underlying Redis connection if present.
func (r *SnapshotRepository) Close() error {
	if r.client == nil {
		return nil
	}
	return r.client.Close()
}
