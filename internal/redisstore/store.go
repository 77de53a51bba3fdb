// Package redisstore keeps save records in Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/rpggio/eggsim/internal/domain/save"
	"github.com/rpggio/eggsim/internal/repository"
)

const (
	// DefaultKeyPrefix is the prefix for all save keys.
	DefaultKeyPrefix = "eggsim:save:"
	// DefaultTTL keeps an untouched save for 90 days.
	DefaultTTL = 90 * 24 * time.Hour
)

// Config configures a SaveRepository. A zero TTL stores keys without expiry.
type Config struct {
	KeyPrefix string
	TTL       time.Duration
}

// SaveRepository implements save.Repository using Redis.
type SaveRepository struct {
	client *redis.Client
	cfg    Config
	logger *slog.Logger
}

// NewSaveRepository creates a new Redis-backed save repository.
func NewSaveRepository(client *redis.Client, cfg Config, logger *slog.Logger) *SaveRepository {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SaveRepository{client: client, cfg: cfg, logger: logger}
}

type storedRecord struct {
	Slot    string    `json:"slot"`
	Version string    `json:"version"`
	Payload []byte    `json:"payload"`
	SavedAt time.Time `json:"saved_at"`
}

func (r *SaveRepository) key(slot string) string {
	return fmt.Sprintf("%s%s", r.cfg.KeyPrefix, slot)
}

// Get retrieves the save of a slot.
func (r *SaveRepository) Get(ctx context.Context, slot string) (*save.Record, error) {
	data, err := r.client.Get(ctx, r.key(slot)).Bytes()
	if err == redis.Nil {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get save: %w", err)
	}

	var stored storedRecord
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal save: %w", err)
	}

	r.logger.Debug("retrieved save", "slot", slot, "bytes", len(stored.Payload))
	return &save.Record{
		Slot:    stored.Slot,
		Version: stored.Version,
		Payload: stored.Payload,
		SavedAt: stored.SavedAt,
	}, nil
}

// Put stores the save of a slot and refreshes its TTL.
func (r *SaveRepository) Put(ctx context.Context, rec *save.Record) error {
	if rec == nil || rec.Slot == "" {
		return repository.ErrInvalidInput
	}

	data, err := json.Marshal(storedRecord{
		Slot:    rec.Slot,
		Version: rec.Version,
		Payload: rec.Payload,
		SavedAt: rec.SavedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal save: %w", err)
	}

	if err := r.client.Set(ctx, r.key(rec.Slot), data, r.cfg.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set save: %w", err)
	}

	r.logger.Debug("stored save", "slot", rec.Slot, "ttl", r.cfg.TTL)
	return nil
}

// Delete removes the save of a slot.
func (r *SaveRepository) Delete(ctx context.Context, slot string) error {
	n, err := r.client.Del(ctx, r.key(slot)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Ping checks that Redis is reachable.
func (r *SaveRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
