package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bramley-breezers/club-records/ranking"
	"github.com/bramley-breezers/club-records/repositories"
)

type QuickStats struct {
	Members        int   `json:"members"`
	RaceResults    int   `json:"race_results"`
	PendingResults int   `json:"pending_results"`
	ChampPending   int   `json:"champ_pending"`
	ChampResults   int   `json:"champ_results"`
	DataGeneration int64 `json:"data_generation"`
	CachesStale    bool  `json:"caches_stale"`
}

// MaintenanceService bundles the admin housekeeping operations: the duplicate
// repair pass, queue clearing and the dashboard counters.
type MaintenanceService interface {
	RepairDuplicates(ctx context.Context) (*ranking.RepairStats, error)
	ClearPendingQueues(ctx context.Context) error
	Stats(ctx context.Context) (*QuickStats, error)
}

type maintenanceService struct {
	memberRepo      repositories.MemberRepository
	resultRepo      repositories.ResultRepository
	pendingRepo     repositories.PendingRepository
	champSubRepo    repositories.ChampSubmissionRepository
	champResultRepo repositories.ChampResultRepository
	cacheRepo       repositories.CacheRepository
	cacheService    CacheService
	logger          *slog.Logger
}

func NewMaintenanceService(
	memberRepo repositories.MemberRepository,
	resultRepo repositories.ResultRepository,
	pendingRepo repositories.PendingRepository,
	champSubRepo repositories.ChampSubmissionRepository,
	champResultRepo repositories.ChampResultRepository,
	cacheRepo repositories.CacheRepository,
	cacheService CacheService,
	logger *slog.Logger,
) MaintenanceService {
	return &maintenanceService{
		memberRepo:      memberRepo,
		resultRepo:      resultRepo,
		pendingRepo:     pendingRepo,
		champSubRepo:    champSubRepo,
		champResultRepo: champResultRepo,
		cacheRepo:       cacheRepo,
		cacheService:    cacheService,
		logger:          logger,
	}
}

// RepairDuplicates collapses duplicate name plus race date groups down to the
// fastest time, rewriting the collection only when something was removed.
func (s *maintenanceService) RepairDuplicates(ctx context.Context) (*ranking.RepairStats, error) {
	results, err := s.resultRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load results for repair: %w", err)
	}
	cleaned, stats := ranking.Repair(results)
	if stats.Removed == 0 {
		return &stats, nil
	}
	if err := s.resultRepo.ReplaceAll(ctx, cleaned); err != nil {
		return nil, fmt.Errorf("failed to store repaired results: %w", err)
	}
	if _, err := s.cacheRepo.BumpGeneration(ctx); err != nil {
		return nil, err
	}
	s.logger.Info("duplicate repair completed",
		slog.Int("original", stats.Original),
		slog.Int("removed", stats.Removed))
	return &stats, nil
}

func (s *maintenanceService) ClearPendingQueues(ctx context.Context) error {
	if err := s.pendingRepo.Clear(ctx); err != nil {
		return err
	}
	return s.champSubRepo.Clear(ctx)
}

func (s *maintenanceService) Stats(ctx context.Context) (*QuickStats, error) {
	var stats QuickStats
	var err error
	if stats.Members, err = s.memberRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.RaceResults, err = s.resultRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PendingResults, err = s.pendingRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ChampPending, err = s.champSubRepo.Count(ctx); err != nil {
		return nil, err
	}
	champResults, err := s.champResultRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	stats.ChampResults = len(champResults)
	if stats.DataGeneration, err = s.cacheRepo.DataGeneration(ctx); err != nil {
		return nil, err
	}
	if stats.CachesStale, err = s.cacheService.Stale(ctx); err != nil {
		return nil, err
	}
	return &stats, nil
}
