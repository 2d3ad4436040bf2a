package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var ErrRecordNotFound = errors.New("record not found")

// recordStore keeps one collection of JSON records in Redis: a hash keyed by
// generated ID plus a list of IDs preserving insertion order. All mutation is
// ID-addressed, so concurrent admin sessions cannot shift each other's
// indexes the way raw list storage did.
type recordStore struct {
	rdb      *redis.Client
	hashKey  string
	orderKey string
}

func newRecordStore(rdb *redis.Client, name string) *recordStore {
	return &recordStore{rdb: rdb, hashKey: name, orderKey: name + ":order"}
}

func (s *recordStore) add(ctx context.Context, id string, record interface{}) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", id, err)
	}
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.hashKey, id, raw)
	pipe.RPush(ctx, s.orderKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store record %s in %s: %w", id, s.hashKey, err)
	}
	return nil
}

func (s *recordStore) update(ctx context.Context, id string, record interface{}) error {
	exists, err := s.rdb.HExists(ctx, s.hashKey, id).Result()
	if err != nil {
		return fmt.Errorf("failed to check record %s in %s: %w", id, s.hashKey, err)
	}
	if !exists {
		return ErrRecordNotFound
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record %s: %w", id, err)
	}
	if err := s.rdb.HSet(ctx, s.hashKey, id, raw).Err(); err != nil {
		return fmt.Errorf("failed to update record %s in %s: %w", id, s.hashKey, err)
	}
	return nil
}

func (s *recordStore) remove(ctx context.Context, id string) error {
	removed, err := s.rdb.HDel(ctx, s.hashKey, id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete record %s from %s: %w", id, s.hashKey, err)
	}
	if removed == 0 {
		return ErrRecordNotFound
	}
	if err := s.rdb.LRem(ctx, s.orderKey, 1, id).Err(); err != nil {
		return fmt.Errorf("failed to remove %s from %s: %w", id, s.orderKey, err)
	}
	return nil
}

func (s *recordStore) get(ctx context.Context, id string, dst interface{}) error {
	raw, err := s.rdb.HGet(ctx, s.hashKey, id).Result()
	if errors.Is(err, redis.Nil) {
		return ErrRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read record %s from %s: %w", id, s.hashKey, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("failed to unmarshal record %s from %s: %w", id, s.hashKey, err)
	}
	return nil
}

// list returns raw records in insertion order. IDs present in the order list
// but missing from the hash (a torn delete) are skipped, not an error.
func (s *recordStore) list(ctx context.Context) ([]string, error) {
	ids, err := s.rdb.LRange(ctx, s.orderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read order list %s: %w", s.orderKey, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	vals, err := s.rdb.HMGet(ctx, s.hashKey, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read records from %s: %w", s.hashKey, err)
	}
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if raw, ok := v.(string); ok {
			out = append(out, raw)
		}
	}
	return out, nil
}

// replaceAll atomically swaps the whole collection, used by the duplicate
// repair pass.
func (s *recordStore) replaceAll(ctx context.Context, ids []string, raws [][]byte) error {
	if len(ids) != len(raws) {
		return fmt.Errorf("replaceAll: %d ids for %d records", len(ids), len(raws))
	}
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, s.hashKey, s.orderKey)
	for i, id := range ids {
		pipe.HSet(ctx, s.hashKey, id, raws[i])
		pipe.RPush(ctx, s.orderKey, id)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to replace collection %s: %w", s.hashKey, err)
	}
	return nil
}

func (s *recordStore) count(ctx context.Context) (int, error) {
	n, err := s.rdb.LLen(ctx, s.orderKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", s.orderKey, err)
	}
	return int(n), nil
}

func (s *recordStore) clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.hashKey, s.orderKey).Err(); err != nil {
		return fmt.Errorf("failed to clear collection %s: %w", s.hashKey, err)
	}
	return nil
}
