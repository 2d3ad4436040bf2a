package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/bramley-breezers/club-records/models"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrMemberNotFound = errors.New("member not found")

type MemberRepository interface {
	Create(ctx context.Context, member *models.Member) error
	Update(ctx context.Context, member *models.Member) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Member, error)
	GetByName(ctx context.Context, name string) (*models.Member, error)
	List(ctx context.Context) ([]models.Member, error)
	Count(ctx context.Context) (int, error)
}

type redisMemberRepository struct {
	store *recordStore
}

func NewRedisMemberRepository(rdb *redis.Client) MemberRepository {
	return &redisMemberRepository{store: newRecordStore(rdb, "members")}
}

func (r *redisMemberRepository) Create(ctx context.Context, member *models.Member) error {
	if member.ID == "" {
		member.ID = uuid.NewString()
	}
	return r.store.add(ctx, member.ID, member)
}

func (r *redisMemberRepository) Update(ctx context.Context, member *models.Member) error {
	err := r.store.update(ctx, member.ID, member)
	if errors.Is(err, ErrRecordNotFound) {
		return ErrMemberNotFound
	}
	return err
}

func (r *redisMemberRepository) Delete(ctx context.Context, id string) error {
	err := r.store.remove(ctx, id)
	if errors.Is(err, ErrRecordNotFound) {
		return ErrMemberNotFound
	}
	return err
}

func (r *redisMemberRepository) GetByID(ctx context.Context, id string) (*models.Member, error) {
	var m models.Member
	err := r.store.get(ctx, id, &m)
	if errors.Is(err, ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByName matches on the trimmed full name, the historical identity key.
// With duplicate names the earliest inserted member wins; uniqueness is not
// enforced anywhere upstream.
func (r *redisMemberRepository) GetByName(ctx context.Context, name string) (*models.Member, error) {
	members, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	want := strings.TrimSpace(name)
	for i := range members {
		if strings.TrimSpace(members[i].Name) == want {
			return &members[i], nil
		}
	}
	return nil, ErrMemberNotFound
}

func (r *redisMemberRepository) List(ctx context.Context) ([]models.Member, error) {
	raws, err := r.store.list(ctx)
	if err != nil {
		return nil, err
	}
	members := make([]models.Member, 0, len(raws))
	for _, raw := range raws {
		var m models.Member
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal member record: %w", err)
		}
		members = append(members, m)
	}
	return members, nil
}

func (r *redisMemberRepository) Count(ctx context.Context) (int, error) {
	return r.store.count(ctx)
}
