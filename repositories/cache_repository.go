package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bramley-breezers/club-records/models"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache artifact not found")

const (
	leaderboardCacheKey = "cache:pb_leaderboard"
	standingsCacheKey   = "cache:champ_standings"
	generationKey       = "data:generation"
)

// CacheRepository stores the precomputed read artifacts plus the generation
// counter that every data mutation bumps. A cached artifact whose Generation
// is behind the counter is stale. The two artifacts are written together in
// one transaction so a storage failure can never commit half a rebuild.
type CacheRepository interface {
	GetLeaderboard(ctx context.Context) (*models.CachedLeaderboard, error)
	GetStandings(ctx context.Context) (*models.CachedStandings, error)
	SetArtifacts(ctx context.Context, leaderboard *models.CachedLeaderboard, standings *models.CachedStandings) error
	DataGeneration(ctx context.Context) (int64, error)
	BumpGeneration(ctx context.Context) (int64, error)
}

type redisCacheRepository struct {
	rdb *redis.Client
}

func NewRedisCacheRepository(rdb *redis.Client) CacheRepository {
	return &redisCacheRepository{rdb: rdb}
}

func (r *redisCacheRepository) GetLeaderboard(ctx context.Context) (*models.CachedLeaderboard, error) {
	var cached models.CachedLeaderboard
	if err := r.getJSON(ctx, leaderboardCacheKey, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

func (r *redisCacheRepository) GetStandings(ctx context.Context) (*models.CachedStandings, error) {
	var cached models.CachedStandings
	if err := r.getJSON(ctx, standingsCacheKey, &cached); err != nil {
		return nil, err
	}
	return &cached, nil
}

// SetArtifacts replaces both artifacts in one pipeline: either both writes
// land or the previous pair stays in place.
func (r *redisCacheRepository) SetArtifacts(ctx context.Context, leaderboard *models.CachedLeaderboard, standings *models.CachedStandings) error {
	rawLeaderboard, err := json.Marshal(leaderboard)
	if err != nil {
		return fmt.Errorf("failed to marshal cache %s: %w", leaderboardCacheKey, err)
	}
	rawStandings, err := json.Marshal(standings)
	if err != nil {
		return fmt.Errorf("failed to marshal cache %s: %w", standingsCacheKey, err)
	}
	pipe := r.rdb.TxPipeline()
	pipe.Set(ctx, leaderboardCacheKey, rawLeaderboard, 0)
	pipe.Set(ctx, standingsCacheKey, rawStandings, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to write cache artifacts: %w", err)
	}
	return nil
}

// DataGeneration returns the current mutation counter. A missing key reads as
// zero so a fresh database is simply generation 0.
func (r *redisCacheRepository) DataGeneration(ctx context.Context) (int64, error) {
	gen, err := r.rdb.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read data generation: %w", err)
	}
	return gen, nil
}

func (r *redisCacheRepository) BumpGeneration(ctx context.Context) (int64, error) {
	gen, err := r.rdb.Incr(ctx, generationKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to bump data generation: %w", err)
	}
	return gen, nil
}

func (r *redisCacheRepository) getJSON(ctx context.Context, key string, dst interface{}) error {
	raw, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed to read cache %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("failed to unmarshal cache %s: %w", key, err)
	}
	return nil
}
