package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bramley-breezers/club-records/models"
	"github.com/bramley-breezers/club-records/ranking"
	"github.com/bramley-breezers/club-records/repositories"
)

type SubmitResultInput struct {
	Name     string `json:"name"`
	Distance string `json:"distance"`
	Time     string `json:"time"`
	Location string `json:"location"`
	RaceDate string `json:"race_date"`
	Comment  string `json:"comment"`
}

type UpdateResultInput struct {
	Name     *string `json:"name"`
	Distance *string `json:"distance"`
	Time     *string `json:"time"`
	Location *string `json:"location"`
	RaceDate *string `json:"race_date"`
}

// ResultService owns the PB pipeline: public submissions queue up, admins
// approve them into race_results, and approved rows can be edited or removed.
type ResultService interface {
	Submit(ctx context.Context, input SubmitResultInput) (*models.PendingSubmission, error)
	ListPending(ctx context.Context) ([]models.PendingSubmission, error)
	Approve(ctx context.Context, submissionID string) (*models.RaceResult, error)
	Reject(ctx context.Context, submissionID string) error
	ListResults(ctx context.Context) ([]models.RaceResult, error)
	UpdateResult(ctx context.Context, id string, input UpdateResultInput) (*models.RaceResult, error)
	DeleteResult(ctx context.Context, id string) error
}

type resultService struct {
	memberRepo  repositories.MemberRepository
	resultRepo  repositories.ResultRepository
	pendingRepo repositories.PendingRepository
	cacheRepo   repositories.CacheRepository
}

func NewResultService(
	memberRepo repositories.MemberRepository,
	resultRepo repositories.ResultRepository,
	pendingRepo repositories.PendingRepository,
	cacheRepo repositories.CacheRepository,
) ResultService {
	return &resultService{
		memberRepo:  memberRepo,
		resultRepo:  resultRepo,
		pendingRepo: pendingRepo,
		cacheRepo:   cacheRepo,
	}
}

// Submit queues a claim for review. Validation is light on purpose: admins
// see the raw claim and fix typos at approval time.
func (s *resultService) Submit(ctx context.Context, input SubmitResultInput) (*models.PendingSubmission, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: runner name is required", ErrValidationFailed)
	}
	if !models.Distance(input.Distance).Valid() {
		return nil, ErrInvalidDistance
	}
	if strings.TrimSpace(input.Time) == "" {
		return nil, fmt.Errorf("%w: time is required", ErrValidationFailed)
	}
	sub := &models.PendingSubmission{
		Name:        name,
		Distance:    models.Distance(input.Distance),
		TimeDisplay: strings.TrimSpace(input.Time),
		Location:    strings.TrimSpace(input.Location),
		RaceDate:    strings.TrimSpace(input.RaceDate),
		Comment:     strings.TrimSpace(input.Comment),
	}
	if err := s.pendingRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to queue submission: %w", err)
	}
	return sub, nil
}

func (s *resultService) ListPending(ctx context.Context) ([]models.PendingSubmission, error) {
	return s.pendingRepo.List(ctx)
}

// Approve promotes a pending claim to an official result. The runner must be
// on the roster; their gender and date of birth are copied onto the result so
// later roster edits cannot rewrite history. A claim that duplicates an
// existing name plus race date is refused and stays pending.
func (s *resultService) Approve(ctx context.Context, submissionID string) (*models.RaceResult, error) {
	sub, err := s.pendingRepo.GetByID(ctx, submissionID)
	if errors.Is(err, repositories.ErrSubmissionNotFound) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load submission: %w", err)
	}

	member, err := s.memberRepo.GetByName(ctx, sub.Name)
	if errors.Is(err, repositories.ErrMemberNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to match submission to roster: %w", err)
	}

	seconds := ranking.TimeToSeconds(sub.TimeDisplay)
	if seconds == ranking.InvalidSeconds {
		return nil, ErrInvalidTime
	}

	existing, err := s.resultRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing results: %w", err)
	}
	if ranking.IsDuplicate(sub.Name, sub.RaceDate, existing) {
		return nil, ErrDuplicateResult
	}

	result := &models.RaceResult{
		Name:        strings.TrimSpace(sub.Name),
		Gender:      member.Gender,
		DOB:         member.DOB,
		Distance:    sub.Distance,
		TimeSeconds: seconds,
		TimeDisplay: ranking.SecondsToTime(seconds),
		Location:    sub.Location,
		RaceDate:    sub.RaceDate,
	}
	if err := s.resultRepo.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to store approved result: %w", err)
	}
	if err := s.pendingRepo.Delete(ctx, submissionID); err != nil && !errors.Is(err, repositories.ErrSubmissionNotFound) {
		return nil, fmt.Errorf("failed to clear approved submission: %w", err)
	}
	s.bump(ctx)
	return result, nil
}

func (s *resultService) Reject(ctx context.Context, submissionID string) error {
	err := s.pendingRepo.Delete(ctx, submissionID)
	if errors.Is(err, repositories.ErrSubmissionNotFound) {
		return ErrSubmissionNotFound
	}
	return err
}

func (s *resultService) ListResults(ctx context.Context) ([]models.RaceResult, error) {
	return s.resultRepo.List(ctx)
}

func (s *resultService) UpdateResult(ctx context.Context, id string, input UpdateResultInput) (*models.RaceResult, error) {
	result, err := s.resultRepo.GetByID(ctx, id)
	if errors.Is(err, repositories.ErrResultNotFound) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load result: %w", err)
	}
	if input.Name != nil {
		// Reassigning a result re-snapshots gender and DOB from the new
		// runner's roster entry.
		member, err := s.memberRepo.GetByName(ctx, *input.Name)
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, ErrMemberNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to match result to roster: %w", err)
		}
		result.Name = strings.TrimSpace(*input.Name)
		result.Gender = member.Gender
		result.DOB = member.DOB
	}
	if input.Distance != nil {
		if !models.Distance(*input.Distance).Valid() {
			return nil, ErrInvalidDistance
		}
		result.Distance = models.Distance(*input.Distance)
	}
	if input.Time != nil {
		seconds := ranking.TimeToSeconds(*input.Time)
		if seconds == ranking.InvalidSeconds {
			return nil, ErrInvalidTime
		}
		result.TimeSeconds = seconds
		result.TimeDisplay = ranking.SecondsToTime(seconds)
	}
	if input.Location != nil {
		result.Location = strings.TrimSpace(*input.Location)
	}
	if input.RaceDate != nil {
		result.RaceDate = strings.TrimSpace(*input.RaceDate)
	}
	if err := s.resultRepo.Update(ctx, result); err != nil {
		if errors.Is(err, repositories.ErrResultNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to update result: %w", err)
	}
	s.bump(ctx)
	return result, nil
}

func (s *resultService) DeleteResult(ctx context.Context, id string) error {
	err := s.resultRepo.Delete(ctx, id)
	if errors.Is(err, repositories.ErrResultNotFound) {
		return ErrResultNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	s.bump(ctx)
	return nil
}

func (s *resultService) bump(ctx context.Context) {
	if _, err := s.cacheRepo.BumpGeneration(ctx); err != nil {
		slog.Warn("failed to bump data generation after result mutation", slog.Any("error", err))
	}
}
