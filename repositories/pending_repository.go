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

var ErrSubmissionNotFound = errors.New("pending submission not found")

// PendingRepository holds runner PB claims awaiting admin review. Pure queue
// semantics: no ordering guarantee beyond insertion order for display.
type PendingRepository interface {
	Create(ctx context.Context, sub *models.PendingSubmission) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.PendingSubmission, error)
	List(ctx context.Context) ([]models.PendingSubmission, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
}

type redisPendingRepository struct {
	store *recordStore
}

func NewRedisPendingRepository(rdb *redis.Client) PendingRepository {
	return &redisPendingRepository{store: newRecordStore(rdb, "pending_results")}
}

func (r *redisPendingRepository) Create(ctx context.Context, sub *models.PendingSubmission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	return r.store.add(ctx, sub.ID, sub)
}

func (r *redisPendingRepository) Delete(ctx context.Context, id string) error {
	err := r.store.remove(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return ErrSubmissionNotFound
	}
	return err
}

func (r *redisPendingRepository) GetByID(ctx context.Context, id string) (*models.PendingSubmission, error) {
	var sub models.PendingSubmission
	err := r.store.get(ctx, id, &sub)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *redisPendingRepository) List(ctx context.Context) ([]models.PendingSubmission, error) {
	raws, err := r.store.list(ctx)
	if err != nil {
		return nil, err
	}
	subs := make([]models.PendingSubmission, 0, len(raws))
	for _, raw := range raws {
		var sub models.PendingSubmission
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pending submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func (r *redisPendingRepository) Count(ctx context.Context) (int, error) {
	return r.store.count(ctx)
}

func (r *redisPendingRepository) Clear(ctx context.Context) error {
	return r.store.clear(ctx)
}
