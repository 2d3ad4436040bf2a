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

type ChampSubmitInput struct {
	Name     string `json:"name"`
	RaceName string `json:"race_name"`
	RaceDate string `json:"race_date"`
	Time     string `json:"time"`
	Comment  string `json:"comment"`
}

type CalendarSlotInput struct {
	Name     string         `json:"name"`
	Date     string         `json:"date"`
	Distance string         `json:"distance"`
	Terrain  models.Terrain `json:"terrain"`
}

type ReferenceTimeInput struct {
	RaceName string          `json:"race_name"`
	Gender   models.Gender   `json:"gender"`
	Category models.Category `json:"category"`
	Time     string          `json:"time"`
}

// ChampionshipService runs the season competition: the fixed 15-slot race
// calendar, admin-entered reference times, claim approval with scoring, and
// the best-six standings.
type ChampionshipService interface {
	Calendar(ctx context.Context) ([]models.ChampCalendarEntry, error)
	UpsertCalendarSlot(ctx context.Context, slot int, input CalendarSlotInput) ([]models.ChampCalendarEntry, error)

	UpsertReferenceTime(ctx context.Context, input ReferenceTimeInput) (*models.ReferenceTime, error)
	ListReferenceTimes(ctx context.Context) ([]models.ReferenceTime, error)

	Submit(ctx context.Context, input ChampSubmitInput) (*models.ChampSubmission, error)
	ListPending(ctx context.Context) ([]models.ChampSubmission, error)
	Approve(ctx context.Context, submissionID string) (*models.ChampResult, error)
	Reject(ctx context.Context, submissionID string) error

	ListResults(ctx context.Context) ([]models.ChampResult, error)
	OverridePoints(ctx context.Context, resultID string, points float64) (*models.ChampResult, error)
	DeleteResult(ctx context.Context, resultID string) error

	Standings(ctx context.Context) ([]models.StandingRow, error)
}

type championshipService struct {
	calendarRepo   repositories.CalendarRepository
	referenceRepo  repositories.ReferenceTimeRepository
	submissionRepo repositories.ChampSubmissionRepository
	resultRepo     repositories.ChampResultRepository
	memberRepo     repositories.MemberRepository
	settingsRepo   repositories.SettingsRepository
	cacheRepo      repositories.CacheRepository
}

func NewChampionshipService(
	calendarRepo repositories.CalendarRepository,
	referenceRepo repositories.ReferenceTimeRepository,
	submissionRepo repositories.ChampSubmissionRepository,
	resultRepo repositories.ChampResultRepository,
	memberRepo repositories.MemberRepository,
	settingsRepo repositories.SettingsRepository,
	cacheRepo repositories.CacheRepository,
) ChampionshipService {
	return &championshipService{
		calendarRepo:   calendarRepo,
		referenceRepo:  referenceRepo,
		submissionRepo: submissionRepo,
		resultRepo:     resultRepo,
		memberRepo:     memberRepo,
		settingsRepo:   settingsRepo,
		cacheRepo:      cacheRepo,
	}
}

// defaultCalendar materializes the season skeleton: fourteen open slots plus
// the fixed marathon wildcard in slot 15.
func defaultCalendar() []models.ChampCalendarEntry {
	entries := make([]models.ChampCalendarEntry, models.CalendarSlots)
	for i := 0; i < models.CalendarSlots-1; i++ {
		entries[i] = models.ChampCalendarEntry{
			Slot:     i + 1,
			Name:     fmt.Sprintf("Race %d", i+1),
			Date:     "TBC",
			Distance: "TBC",
		}
	}
	entries[models.CalendarSlots-1] = models.ChampCalendarEntry{
		Slot:     models.CalendarSlots,
		Name:     "Any Marathon (Power of 10)",
		Date:     "Season",
		Distance: models.DistanceMarathon,
		Terrain:  models.TerrainRoad,
	}
	return entries
}

func (s *championshipService) Calendar(ctx context.Context) ([]models.ChampCalendarEntry, error) {
	entries, err := s.calendarRepo.Get(ctx)
	if errors.Is(err, repositories.ErrCalendarNotSet) {
		entries = defaultCalendar()
		if saveErr := s.calendarRepo.Save(ctx, entries); saveErr != nil {
			return nil, fmt.Errorf("failed to seed calendar: %w", saveErr)
		}
		return entries, nil
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// UpsertCalendarSlot edits one slot in place. Slot 15 is the marathon
// wildcard and cannot be reassigned.
func (s *championshipService) UpsertCalendarSlot(ctx context.Context, slot int, input CalendarSlotInput) ([]models.ChampCalendarEntry, error) {
	if slot < 1 || slot > models.CalendarSlots {
		return nil, ErrInvalidSlot
	}
	if slot == models.CalendarSlots {
		return nil, ErrWildcardSlotLocked
	}
	entries, err := s.Calendar(ctx)
	if err != nil {
		return nil, err
	}
	entries[slot-1] = models.ChampCalendarEntry{
		Slot:     slot,
		Name:     strings.TrimSpace(input.Name),
		Date:     strings.TrimSpace(input.Date),
		Distance: models.Distance(strings.TrimSpace(input.Distance)),
		Terrain:  input.Terrain,
	}
	if err := s.calendarRepo.Save(ctx, entries); err != nil {
		return nil, err
	}
	s.bump(ctx)
	return entries, nil
}

func (s *championshipService) UpsertReferenceTime(ctx context.Context, input ReferenceTimeInput) (*models.ReferenceTime, error) {
	raceName := strings.TrimSpace(input.RaceName)
	if raceName == "" {
		return nil, fmt.Errorf("%w: race name is required", ErrValidationFailed)
	}
	seconds := ranking.TimeToSeconds(input.Time)
	if seconds == ranking.InvalidSeconds {
		return nil, ErrInvalidTime
	}
	ref := &models.ReferenceTime{
		RaceName: raceName,
		Gender:   input.Gender,
		Category: input.Category,
		Seconds:  seconds,
	}
	if err := s.referenceRepo.Upsert(ctx, ref); err != nil {
		return nil, err
	}
	s.bump(ctx)
	return ref, nil
}

func (s *championshipService) ListReferenceTimes(ctx context.Context) ([]models.ReferenceTime, error) {
	return s.referenceRepo.List(ctx)
}

func (s *championshipService) Submit(ctx context.Context, input ChampSubmitInput) (*models.ChampSubmission, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: runner name is required", ErrValidationFailed)
	}
	if strings.TrimSpace(input.RaceName) == "" {
		return nil, fmt.Errorf("%w: race name is required", ErrValidationFailed)
	}
	if strings.TrimSpace(input.Time) == "" {
		return nil, fmt.Errorf("%w: time is required", ErrValidationFailed)
	}
	sub := &models.ChampSubmission{
		Name:        name,
		RaceName:    strings.TrimSpace(input.RaceName),
		RaceDate:    strings.TrimSpace(input.RaceDate),
		TimeDisplay: strings.TrimSpace(input.Time),
		Comment:     strings.TrimSpace(input.Comment),
	}
	if err := s.submissionRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to queue championship submission: %w", err)
	}
	return sub, nil
}

func (s *championshipService) ListPending(ctx context.Context) ([]models.ChampSubmission, error) {
	return s.submissionRepo.List(ctx)
}

// Approve scores a claim against the admin-entered reference time for the
// runner's gender and age category. Without a matching reference time the
// claim stays in the queue so the admin can enter one and retry.
func (s *championshipService) Approve(ctx context.Context, submissionID string) (*models.ChampResult, error) {
	sub, err := s.submissionRepo.GetByID(ctx, submissionID)
	if errors.Is(err, repositories.ErrChampSubmissionNotFound) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load championship submission: %w", err)
	}

	member, err := s.memberRepo.GetByName(ctx, sub.Name)
	if errors.Is(err, repositories.ErrMemberNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to match submission to roster: %w", err)
	}

	runnerSeconds := ranking.TimeToSeconds(sub.TimeDisplay)
	if runnerSeconds <= 0 || runnerSeconds == ranking.InvalidSeconds {
		return nil, ErrInvalidTime
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	category := ranking.Classify(member.DOB, sub.RaceDate, settings.BandingMode)

	ref, err := s.referenceRepo.Get(ctx, sub.RaceName, member.Gender, category)
	if errors.Is(err, repositories.ErrReferenceTimeNotFound) {
		return nil, ErrReferenceTimeMissing
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load reference time: %w", err)
	}

	points, err := ranking.Score(ref.Seconds, runnerSeconds)
	if err != nil {
		return nil, ErrReferenceTimeMissing
	}

	result := &models.ChampResult{
		Name:     strings.TrimSpace(sub.Name),
		RaceName: sub.RaceName,
		RaceDate: sub.RaceDate,
		Gender:   member.Gender,
		Category: category,
		Points:   points,
	}
	if err := s.resultRepo.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to store championship result: %w", err)
	}
	if err := s.submissionRepo.Delete(ctx, submissionID); err != nil && !errors.Is(err, repositories.ErrChampSubmissionNotFound) {
		return nil, fmt.Errorf("failed to clear approved submission: %w", err)
	}
	s.bump(ctx)
	return result, nil
}

func (s *championshipService) Reject(ctx context.Context, submissionID string) error {
	err := s.submissionRepo.Delete(ctx, submissionID)
	if errors.Is(err, repositories.ErrChampSubmissionNotFound) {
		return ErrSubmissionNotFound
	}
	return err
}

func (s *championshipService) ListResults(ctx context.Context) ([]models.ChampResult, error) {
	return s.resultRepo.List(ctx)
}

// OverridePoints lets an admin hand-set a score, covering races where the
// inverse-ratio formula cannot apply.
func (s *championshipService) OverridePoints(ctx context.Context, resultID string, points float64) (*models.ChampResult, error) {
	if points < 0 {
		return nil, fmt.Errorf("%w: points cannot be negative", ErrValidationFailed)
	}
	result, err := s.resultRepo.GetByID(ctx, resultID)
	if errors.Is(err, repositories.ErrChampResultNotFound) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load championship result: %w", err)
	}
	result.Points = points
	if err := s.resultRepo.Update(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to update championship result: %w", err)
	}
	s.bump(ctx)
	return result, nil
}

func (s *championshipService) DeleteResult(ctx context.Context, resultID string) error {
	err := s.resultRepo.Delete(ctx, resultID)
	if errors.Is(err, repositories.ErrChampResultNotFound) {
		return ErrResultNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete championship result: %w", err)
	}
	s.bump(ctx)
	return nil
}

// Standings computes the best-six season table directly from storage. The
// cached variant lives in the cache service.
func (s *championshipService) Standings(ctx context.Context) ([]models.StandingRow, error) {
	results, err := s.resultRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	calendar, err := s.Calendar(ctx)
	if err != nil {
		return nil, err
	}
	return ranking.SeasonStandings(results, calendar), nil
}

func (s *championshipService) bump(ctx context.Context) {
	if _, err := s.cacheRepo.BumpGeneration(ctx); err != nil {
		slog.Warn("failed to bump data generation after championship mutation", slog.Any("error", err))
	}
}
