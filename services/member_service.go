package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bramley-breezers/club-records/models"
	"github.com/bramley-breezers/club-records/repositories"
)

type CreateMemberInput struct {
	Name   string              `json:"name"`
	DOB    string              `json:"dob"`
	Gender models.Gender       `json:"gender"`
	Status models.MemberStatus `json:"status"`
}

type UpdateMemberInput struct {
	Name   *string              `json:"name"`
	DOB    *string              `json:"dob"`
	Gender *models.Gender       `json:"gender"`
	Status *models.MemberStatus `json:"status"`
}

type MemberService interface {
	Create(ctx context.Context, input CreateMemberInput) (*models.Member, error)
	Update(ctx context.Context, id string, input UpdateMemberInput) (*models.Member, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Member, error)
	List(ctx context.Context) ([]models.Member, error)
}

type memberService struct {
	memberRepo repositories.MemberRepository
	cacheRepo  repositories.CacheRepository
}

func NewMemberService(memberRepo repositories.MemberRepository, cacheRepo repositories.CacheRepository) MemberService {
	return &memberService{memberRepo: memberRepo, cacheRepo: cacheRepo}
}

func (s *memberService) Create(ctx context.Context, input CreateMemberInput) (*models.Member, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: member name is required", ErrValidationFailed)
	}
	if input.Gender != models.GenderMale && input.Gender != models.GenderFemale {
		return nil, fmt.Errorf("%w: gender must be Male or Female", ErrValidationFailed)
	}
	status := input.Status
	if status == "" {
		status = models.MemberActive
	}
	member := &models.Member{
		Name:   name,
		DOB:    strings.TrimSpace(input.DOB),
		Gender: input.Gender,
		Status: status,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	s.bump(ctx)
	return member, nil
}

func (s *memberService) Update(ctx context.Context, id string, input UpdateMemberInput) (*models.Member, error) {
	member, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: member name is required", ErrValidationFailed)
		}
		member.Name = name
	}
	if input.DOB != nil {
		member.DOB = strings.TrimSpace(*input.DOB)
	}
	if input.Gender != nil {
		if *input.Gender != models.GenderMale && *input.Gender != models.GenderFemale {
			return nil, fmt.Errorf("%w: gender must be Male or Female", ErrValidationFailed)
		}
		member.Gender = *input.Gender
	}
	if input.Status != nil {
		member.Status = *input.Status
	}
	if err := s.memberRepo.Update(ctx, member); err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	s.bump(ctx)
	return member, nil
}

// Delete removes the roster entry only. Historical race results keep their
// snapshot of the runner's details and stay on the leaderboard.
func (s *memberService) Delete(ctx context.Context, id string) error {
	err := s.memberRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrMemberNotFound) {
		return ErrMemberNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	s.bump(ctx)
	return nil
}

func (s *memberService) GetByID(ctx context.Context, id string) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrMemberNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	return member, nil
}

func (s *memberService) List(ctx context.Context) ([]models.Member, error) {
	return s.memberRepo.List(ctx)
}

func (s *memberService) bump(ctx context.Context) {
	// Best effort: a failed bump only delays cache invalidation until the
	// next mutation, but a persistently failing INCR needs to be visible.
	if _, err := s.cacheRepo.BumpGeneration(ctx); err != nil {
		slog.Warn("failed to bump data generation after member mutation", slog.Any("error", err))
	}
}
