package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bramley-breezers/club-records/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrResultNotFound = errors.New("race result not found")

type ResultRepository interface {
	Create(ctx context.Context, result *models.RaceResult) error
	Update(ctx context.Context, result *models.RaceResult) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.RaceResult, error)
	List(ctx context.Context) ([]models.RaceResult, error)
	ReplaceAll(ctx context.Context, results []models.RaceResult) error
	Count(ctx context.Context) (int, error)
}

type redisResultRepository struct {
	store *recordStore
}

func NewRedisResultRepository(rdb *redis.Client) ResultRepository {
	return &redisResultRepository{store: newRecordStore(rdb, "race_results")}
}

func (r *redisResultRepository) Create(ctx context.Context, result *models.RaceResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	return r.store.add(ctx, result.ID, result)
}

func (r *redisResultRepository) Update(ctx context.Context, result *models.RaceResult) error {
	err := r.store.update(ctx, result.ID, result)
	if errors.Is(err, ErrRecordNotFound) {
		return ErrResultNotFound
	}
	return err
}

func (r *redisResultRepository) Delete(ctx context.Context, id string) error {
	err := r.store.remove(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return ErrResultNotFound
	}
	return err
}

func (r *redisResultRepository) GetByID(ctx context.Context, id string) (*models.RaceResult, error) {
	var res models.RaceResult
	err := r.store.get(ctx, id, &res)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// List returns results in insertion order; the aggregators rely on that
// order for deterministic tie-breaking.
func (r *redisResultRepository) List(ctx context.Context) ([]models.RaceResult, error) {
	raws, err := r.store.list(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]models.RaceResult, 0, len(raws))
	for _, raw := range raws {
		var res models.RaceResult
		if err := json.Unmarshal([]byte(raw), &res); err != nil {
			return nil, fmt.Errorf("failed to unmarshal race result record: %w", err)
		}
		results = append(results, res)
	}
	return results, nil
}

// ReplaceAll swaps the whole collection in one pipeline, used by the
// duplicate repair pass.
func (r *redisResultRepository) ReplaceAll(ctx context.Context, results []models.RaceResult) error {
	ids := make([]string, len(results))
	raws := make([][]byte, len(results))
	for i := range results {
		if results[i].ID == "" {
			results[i].ID = uuid.NewString()
		}
		raw, err := json.Marshal(results[i])
		if err != nil {
			return fmt.Errorf("failed to marshal race result %s: %w", results[i].ID, err)
		}
		ids[i] = results[i].ID
		raws[i] = raw
	}
	return r.store.replaceAll(ctx, ids, raws)
}

func (r *redisResultRepository) Count(ctx context.Context) (int, error) {
	return r.store.count(ctx)
}
