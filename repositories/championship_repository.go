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

var (
	ErrChampSubmissionNotFound = errors.New("championship submission not found")
	ErrChampResultNotFound     = errors.New("championship result not found")
	ErrCalendarNotSet          = errors.New("championship calendar not set")
	ErrReferenceTimeNotFound   = errors.New("reference time not found")
)

const (
	calendarKey      = "champ:calendar"
	referenceTimeKey = "champ:reference_times"
)

// ChampSubmissionRepository holds championship claims awaiting review.
type ChampSubmissionRepository interface {
	Create(ctx context.Context, sub *models.ChampSubmission) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.ChampSubmission, error)
	List(ctx context.Context) ([]models.ChampSubmission, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

// ChampResultRepository holds approved, scored championship performances.
type ChampResultRepository interface {
	Create(ctx context.Context, result *models.ChampResult) error
	Update(ctx context.Context, result *models.ChampResult) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.ChampResult, error)
	List(ctx context.Context) ([]models.ChampResult, error)
}

// CalendarRepository stores the season's 15-slot race calendar as a single
// document: slots are always written together.
type CalendarRepository interface {
	Get(ctx context.Context) ([]models.ChampCalendarEntry, error)
	Save(ctx context.Context, entries []models.ChampCalendarEntry) error
}

// ReferenceTimeRepository stores admin-entered winner times keyed by
// race/gender/category.
type ReferenceTimeRepository interface {
	Upsert(ctx context.Context, ref *models.ReferenceTime) error
	Get(ctx context.Context, raceName string, gender models.Gender, category models.Category) (*models.ReferenceTime, error)
	List(ctx context.Context) ([]models.ReferenceTime, error)
	Delete(ctx context.Context, raceName string, gender models.Gender, category models.Category) error
}

type redisChampSubmissionRepository struct {
	store *recordStore
}

func NewRedisChampSubmissionRepository(rdb *redis.Client) ChampSubmissionRepository {
	return &redisChampSubmissionRepository{store: newRecordStore(rdb, "champ_pending")}
}

func (r *redisChampSubmissionRepository) Create(ctx context.Context, sub *models.ChampSubmission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	return r.store.add(ctx, sub.ID, sub)
}

func (r *redisChampSubmissionRepository) Delete(ctx context.Context, id string) error {
	err := r.store.remove(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return ErrChampSubmissionNotFound
	}
	return err
}

func (r *redisChampSubmissionRepository) GetByID(ctx context.Context, id string) (*models.ChampSubmission, error) {
	var sub models.ChampSubmission
	err := r.store.get(ctx, id, &sub)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, ErrChampSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *redisChampSubmissionRepository) List(ctx context.Context) ([]models.ChampSubmission, error) {
	raws, err := r.store.list(ctx)
	if err != nil {
		return nil, err
	}
	subs := make([]models.ChampSubmission, 0, len(raws))
	for _, raw := range raws {
		var sub models.ChampSubmission
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			return nil, fmt.Errorf("failed to unmarshal championship submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (r *redisChampSubmissionRepository) Count(ctx context.Context) (int, error) {
	return r.store.count(ctx)
}

func (r *redisChampSubmissionRepository) Clear(ctx context.Context) error {
	return r.store.clear(ctx)
}

type redisChampResultRepository struct {
	store *recordStore
}

func NewRedisChampResultRepository(rdb *redis.Client) ChampResultRepository {
	return &redisChampResultRepository{store: newRecordStore(rdb, "champ_results")}
}

func (r *redisChampResultRepository) Create(ctx context.Context, result *models.ChampResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	return r.store.add(ctx, result.ID, result)
}

func (r *redisChampResultRepository) Update(ctx context.Context, result *models.ChampResult) error {
	err := r.store.update(ctx, result.ID, result)
	if errors.Is(err, ErrRecordNotFound) {
		return ErrChampResultNotFound
	}
	return err
}

func (r *redisChampResultRepository) Delete(ctx context.Context, id string) error {
	err := r.store.remove(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return ErrChampResultNotFound
	}
	return err
}

func (r *redisChampResultRepository) GetByID(ctx context.Context, id string) (*models.ChampResult, error) {
	var res models.ChampResult
	err := r.store.get(ctx, id, &res)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, ErrChampResultNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *redisChampResultRepository) List(ctx context.Context) ([]models.ChampResult, error) {
	raws, err := r.store.list(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]models.ChampResult, 0, len(raws))
	for _, raw := range raws {
		var res models.ChampResult
		if err := json.Unmarshal([]byte(raw), &res); err != nil {
			return nil, fmt.Errorf("failed to unmarshal championship result: %w", err)
		}
		results = append(results, res)
	}
	return results, nil
}

type redisCalendarRepository struct {
	rdb *redis.Client
}

func NewRedisCalendarRepository(rdb *redis.Client) CalendarRepository {
	return &redisCalendarRepository{rdb: rdb}
}

func (r *redisCalendarRepository) Get(ctx context.Context) ([]models.ChampCalendarEntry, error) {
	raw, err := r.rdb.Get(ctx, calendarKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCalendarNotSet
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar: %w", err)
	}
	var entries []models.ChampCalendarEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal calendar: %w", err)
	}
	return entries, nil
}

func (r *redisCalendarRepository) Save(ctx context.Context, entries []models.ChampCalendarEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal calendar: %w", err)
	}
	if err := r.rdb.Set(ctx, calendarKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save calendar: %w", err)
	}
	return nil
}

type redisReferenceTimeRepository struct {
	rdb *redis.Client
}

func NewRedisReferenceTimeRepository(rdb *redis.Client) ReferenceTimeRepository {
	return &redisReferenceTimeRepository{rdb: rdb}
}

func referenceField(raceName string, gender models.Gender, category models.Category) string {
	return raceName + "|" + string(gender) + "|" + string(category)
}

func (r *redisReferenceTimeRepository) Upsert(ctx context.Context, ref *models.ReferenceTime) error {
	raw, err := json.Marshal(ref)
	if err != nil {
		return fmt.Errorf("failed to marshal reference time: %w", err)
	}
	field := referenceField(ref.RaceName, ref.Gender, ref.Category)
	if err := r.rdb.HSet(ctx, referenceTimeKey, field, raw).Err(); err != nil {
		return fmt.Errorf("failed to save reference time %s: %w", field, err)
	}
	return nil
}

func (r *redisReferenceTimeRepository) Get(ctx context.Context, raceName string, gender models.Gender, category models.Category) (*models.ReferenceTime, error) {
	raw, err := r.rdb.HGet(ctx, referenceTimeKey, referenceField(raceName, gender, category)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrReferenceTimeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read reference time: %w", err)
	}
	var ref models.ReferenceTime
	if err := json.Unmarshal([]byte(raw), &ref); err != nil {
		return nil, fmt.Errorf("failed to unmarshal reference time: %w", err)
	}
	return &ref, nil
}

func (r *redisReferenceTimeRepository) List(ctx context.Context) ([]models.ReferenceTime, error) {
	vals, err := r.rdb.HGetAll(ctx, referenceTimeKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list reference times: %w", err)
	}
	refs := make([]models.ReferenceTime, 0, len(vals))
	for field, raw := range vals {
		var ref models.ReferenceTime
		if err := json.Unmarshal([]byte(raw), &ref); err != nil {
			return nil, fmt.Errorf("failed to unmarshal reference time %s: %w", field, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (r *redisReferenceTimeRepository) Delete(ctx context.Context, raceName string, gender models.Gender, category models.Category) error {
	removed, err := r.rdb.HDel(ctx, referenceTimeKey, referenceField(raceName, gender, category)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete reference time: %w", err)
	}
	if removed == 0 {
		return ErrReferenceTimeNotFound
	}
	return nil
}
