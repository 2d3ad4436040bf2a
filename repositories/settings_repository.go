package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bramley-breezers/club-records/models"
	"github.com/redis/go-redis/v9"
)

var ErrPasswordNotSet = errors.New("admin password not set")

const (
	settingsKey     = "club:settings"
	passwordHashKey = "admin:password_hash"
)

// SettingsRepository stores the club-wide configuration document. A missing
// key falls back to defaults instead of erroring: a fresh deployment has no
// settings until an admin saves them.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Save(ctx context.Context, settings *models.Settings) error
	GetPasswordHash(ctx context.Context) (string, error)
	SetPasswordHash(ctx context.Context, hash string) error
}

type redisSettingsRepository struct {
	rdb *redis.Client
}

func NewRedisSettingsRepository(rdb *redis.Client) SettingsRepository {
	return &redisSettingsRepository{rdb: rdb}
}

func (r *redisSettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	raw, err := r.rdb.Get(ctx, settingsKey).Result()
	if errors.Is(err, redis.Nil) {
		s := models.DefaultSettings()
		return &s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	var s models.Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	return &s, nil
}

func (r *redisSettingsRepository) Save(ctx context.Context, settings *models.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := r.rdb.Set(ctx, settingsKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

func (r *redisSettingsRepository) GetPasswordHash(ctx context.Context) (string, error) {
	hash, err := r.rdb.Get(ctx, passwordHashKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrPasswordNotSet
	}
	if err != nil {
		return "", fmt.Errorf("failed to read password hash: %w", err)
	}
	return hash, nil
}

func (r *redisSettingsRepository) SetPasswordHash(ctx context.Context, hash string) error {
	if err := r.rdb.Set(ctx, passwordHashKey, hash, 0).Err(); err != nil {
		return fmt.Errorf("failed to save password hash: %w", err)
	}
	return nil
}
