package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bramley-breezers/club-records/live"
	"github.com/bramley-breezers/club-records/models"
	"github.com/bramley-breezers/club-records/ranking"
	"github.com/bramley-breezers/club-records/repositories"
	"golang.org/x/sync/errgroup"
)

// CacheService maintains the two precomputed read artifacts: the PB
// leaderboard and the championship standings. Both are stamped with the data
// generation current when the rebuild started, so any mutation racing a
// rebuild leaves the artifact detectably stale.
type CacheService interface {
	Rebuild(ctx context.Context) error
	Stale(ctx context.Context) (bool, error)
	Leaderboard(ctx context.Context, season int) ([]models.LeaderboardRow, error)
	Standings(ctx context.Context) ([]models.StandingRow, error)
}

type cacheService struct {
	memberRepo      repositories.MemberRepository
	resultRepo      repositories.ResultRepository
	champResultRepo repositories.ChampResultRepository
	calendarRepo    repositories.CalendarRepository
	settingsRepo    repositories.SettingsRepository
	cacheRepo       repositories.CacheRepository
	hub             *live.Hub
	logger          *slog.Logger
}

func NewCacheService(
	memberRepo repositories.MemberRepository,
	resultRepo repositories.ResultRepository,
	champResultRepo repositories.ChampResultRepository,
	calendarRepo repositories.CalendarRepository,
	settingsRepo repositories.SettingsRepository,
	cacheRepo repositories.CacheRepository,
	hub *live.Hub,
	logger *slog.Logger,
) CacheService {
	return &cacheService{
		memberRepo:      memberRepo,
		resultRepo:      resultRepo,
		champResultRepo: champResultRepo,
		calendarRepo:    calendarRepo,
		settingsRepo:    settingsRepo,
		cacheRepo:       cacheRepo,
		hub:             hub,
		logger:          logger,
	}
}

// Rebuild recomputes both artifacts from source data. The generation is read
// before any source read: if a mutation lands mid-rebuild it bumps the
// counter past our stamp and the next staleness check triggers another pass.
// Nothing is written unless both computations succeed.
func (s *cacheService) Rebuild(ctx context.Context) error {
	started := time.Now()
	generation, err := s.cacheRepo.DataGeneration(ctx)
	if err != nil {
		return err
	}

	var leaderboard []models.LeaderboardRow
	var standings []models.StandingRow

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.buildLeaderboard(gctx, 0)
		if err != nil {
			return fmt.Errorf("leaderboard rebuild: %w", err)
		}
		leaderboard = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.buildStandings(gctx)
		if err != nil {
			return fmt.Errorf("standings rebuild: %w", err)
		}
		standings = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	// Both artifacts go in one transactional write: a storage failure keeps
	// the previous pair intact rather than committing half the rebuild.
	builtAt := time.Now().UTC()
	err = s.cacheRepo.SetArtifacts(ctx,
		&models.CachedLeaderboard{Generation: generation, BuiltAt: builtAt, Rows: leaderboard},
		&models.CachedStandings{Generation: generation, BuiltAt: builtAt, Rows: standings},
	)
	if err != nil {
		return err
	}

	s.hub.Broadcast(live.EventLeaderboardUpdated, map[string]interface{}{"built_at": builtAt})
	s.hub.Broadcast(live.EventStandingsUpdated, map[string]interface{}{"built_at": builtAt})
	s.logger.Info("caches rebuilt",
		slog.Int64("generation", generation),
		slog.Int("leaderboard_rows", len(leaderboard)),
		slog.Int("standings_rows", len(standings)),
		slog.Duration("took", time.Since(started)))
	return nil
}

// Stale reports whether either artifact lags the data generation. A cache
// miss counts as stale.
func (s *cacheService) Stale(ctx context.Context) (bool, error) {
	generation, err := s.cacheRepo.DataGeneration(ctx)
	if err != nil {
		return false, err
	}
	lb, err := s.cacheRepo.GetLeaderboard(ctx)
	if errors.Is(err, repositories.ErrCacheMiss) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	st, err := s.cacheRepo.GetStandings(ctx)
	if errors.Is(err, repositories.ErrCacheMiss) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return lb.Generation < generation || st.Generation < generation, nil
}

// Leaderboard serves the all-time board from cache, rebuilding on miss or
// staleness. A season filter bypasses the cache and computes fresh: only the
// all-time view is precomputed.
func (s *cacheService) Leaderboard(ctx context.Context, season int) ([]models.LeaderboardRow, error) {
	if season != 0 {
		return s.buildLeaderboard(ctx, season)
	}
	stale, err := s.Stale(ctx)
	if err != nil {
		return nil, err
	}
	if stale {
		if err := s.Rebuild(ctx); err != nil {
			return nil, err
		}
	}
	cached, err := s.cacheRepo.GetLeaderboard(ctx)
	if err != nil {
		return nil, err
	}
	return cached.Rows, nil
}

func (s *cacheService) Standings(ctx context.Context) ([]models.StandingRow, error) {
	stale, err := s.Stale(ctx)
	if err != nil {
		return nil, err
	}
	if stale {
		if err := s.Rebuild(ctx); err != nil {
			return nil, err
		}
	}
	cached, err := s.cacheRepo.GetStandings(ctx)
	if err != nil {
		return nil, err
	}
	return cached.Rows, nil
}

func (s *cacheService) buildLeaderboard(ctx context.Context, season int) ([]models.LeaderboardRow, error) {
	results, err := s.resultRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	members, err := s.memberRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	active := make(map[string]bool, len(members))
	for i := range members {
		if members[i].EffectiveStatus() == models.MemberActive {
			active[strings.TrimSpace(members[i].Name)] = true
		}
	}
	rows := ranking.BuildLeaderboard(ranking.LeaderboardInput{
		Results: results,
		Mode:    settings.BandingMode,
		Season:  season,
		Active:  active,
	})
	for _, row := range rows {
		if row.Category == models.CategoryUnknown || row.TimeSeconds == ranking.InvalidSeconds {
			s.logger.Warn("leaderboard row built from unparsable fields",
				slog.String("runner", row.Name),
				slog.String("race_date", row.RaceDate),
				slog.String("category", string(row.Category)))
		}
	}
	return rows, nil
}

func (s *cacheService) buildStandings(ctx context.Context) ([]models.StandingRow, error) {
	results, err := s.champResultRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	calendar, err := s.calendarRepo.Get(ctx)
	if errors.Is(err, repositories.ErrCalendarNotSet) {
		calendar = defaultCalendar()
	} else if err != nil {
		return nil, err
	}
	return ranking.SeasonStandings(results, calendar), nil
}
