package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/bramley-breezers/club-records/live"
	"github.com/bramley-breezers/club-records/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type maintenanceFixture struct {
	svc         MaintenanceService
	memberRepo  *fakeMemberRepo
	resultRepo  *fakeResultRepo
	pendingRepo *fakePendingRepo
	champSub    *fakeChampSubRepo
	champRes    *fakeChampResultRepo
	cacheRepo   *fakeCacheRepo
}

func newMaintenanceFixture() *maintenanceFixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &maintenanceFixture{
		memberRepo:  &fakeMemberRepo{},
		resultRepo:  &fakeResultRepo{},
		pendingRepo: &fakePendingRepo{},
		champSub:    &fakeChampSubRepo{},
		champRes:    &fakeChampResultRepo{},
		cacheRepo:   &fakeCacheRepo{},
	}
	cacheSvc := NewCacheService(
		f.memberRepo,
		f.resultRepo,
		f.champRes,
		&fakeCalendarRepo{},
		&fakeSettingsRepo{},
		f.cacheRepo,
		live.NewHub(logger),
		logger,
	)
	f.svc = NewMaintenanceService(
		f.memberRepo,
		f.resultRepo,
		f.pendingRepo,
		f.champSub,
		f.champRes,
		f.cacheRepo,
		cacheSvc,
		logger,
	)
	return f
}

func TestRepairDuplicatesKeepsFastest(t *testing.T) {
	f := newMaintenanceFixture()
	ctx := context.Background()

	require.NoError(t, f.resultRepo.Create(ctx, &models.RaceResult{
		Name: "Jane Doe", RaceDate: "2026-03-07", Distance: models.Distance5K, TimeSeconds: 1200,
	}))
	require.NoError(t, f.resultRepo.Create(ctx, &models.RaceResult{
		Name: "John Roe", RaceDate: "2026-03-07", Distance: models.Distance5K, TimeSeconds: 1300,
	}))
	require.NoError(t, f.resultRepo.Create(ctx, &models.RaceResult{
		Name: "Jane Doe", RaceDate: "2026-03-07", Distance: models.Distance5K, TimeSeconds: 1150,
	}))

	stats, err := f.svc.RepairDuplicates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Original)
	assert.Equal(t, 2, stats.Deduplicated)
	assert.Equal(t, 1, stats.Removed)

	results, err := f.resultRepo.List(ctx)
	require.NoError(t, err)
	require.Len(t, results, 2)
	// The faster duplicate replaces the slower one at its original position.
	assert.Equal(t, 1150, results[0].TimeSeconds)
	assert.Equal(t, "John Roe", results[1].Name)
	assert.Positive(t, f.cacheRepo.generation)
}

func TestRepairDuplicatesNoopWhenClean(t *testing.T) {
	f := newMaintenanceFixture()
	ctx := context.Background()

	require.NoError(t, f.resultRepo.Create(ctx, &models.RaceResult{
		Name: "Jane Doe", RaceDate: "2026-03-07", TimeSeconds: 1200,
	}))

	stats, err := f.svc.RepairDuplicates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Removed)
	// No rewrite, no invalidation.
	assert.Zero(t, f.cacheRepo.generation)
}

func TestClearPendingQueues(t *testing.T) {
	f := newMaintenanceFixture()
	ctx := context.Background()

	require.NoError(t, f.pendingRepo.Create(ctx, &models.PendingSubmission{Name: "Jane Doe"}))
	require.NoError(t, f.champSub.Create(ctx, &models.ChampSubmission{Name: "Jane Doe"}))

	require.NoError(t, f.svc.ClearPendingQueues(ctx))
	assert.Empty(t, f.pendingRepo.subs)
	assert.Empty(t, f.champSub.subs)
}

func TestStatsCountsEverything(t *testing.T) {
	f := newMaintenanceFixture()
	ctx := context.Background()

	require.NoError(t, f.memberRepo.Create(ctx, &models.Member{Name: "Jane Doe"}))
	require.NoError(t, f.resultRepo.Create(ctx, &models.RaceResult{Name: "Jane Doe"}))
	require.NoError(t, f.pendingRepo.Create(ctx, &models.PendingSubmission{Name: "Jane Doe"}))
	require.NoError(t, f.champRes.Create(ctx, &models.ChampResult{Name: "Jane Doe"}))

	stats, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Members)
	assert.Equal(t, 1, stats.RaceResults)
	assert.Equal(t, 1, stats.PendingResults)
	assert.Equal(t, 0, stats.ChampPending)
	assert.Equal(t, 1, stats.ChampResults)
	assert.True(t, stats.CachesStale)
}
