package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/bramley-breezers/club-records/live"
	"github.com/bramley-breezers/club-records/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cacheFixture struct {
	svc          CacheService
	memberRepo   *fakeMemberRepo
	resultRepo   *fakeResultRepo
	champRepo    *fakeChampResultRepo
	calendarRepo *fakeCalendarRepo
	settingsRepo *fakeSettingsRepo
	cacheRepo    *fakeCacheRepo
}

func newCacheFixture() *cacheFixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &cacheFixture{
		memberRepo:   &fakeMemberRepo{},
		resultRepo:   &fakeResultRepo{},
		champRepo:    &fakeChampResultRepo{},
		calendarRepo: &fakeCalendarRepo{},
		settingsRepo: &fakeSettingsRepo{},
		cacheRepo:    &fakeCacheRepo{},
	}
	f.svc = NewCacheService(
		f.memberRepo,
		f.resultRepo,
		f.champRepo,
		f.calendarRepo,
		f.settingsRepo,
		f.cacheRepo,
		live.NewHub(logger),
		logger,
	)
	return f
}

func TestRebuildFailureKeepsPreviousArtifacts(t *testing.T) {
	f := newCacheFixture()
	ctx := context.Background()

	require.NoError(t, f.resultRepo.Create(ctx, &models.RaceResult{
		Name:        "Jane Doe",
		Gender:      models.GenderFemale,
		DOB:         "1985-06-15",
		Distance:    models.Distance5K,
		TimeSeconds: 1170,
		RaceDate:    "2026-03-07",
	}))
	f.cacheRepo.generation = 1
	require.NoError(t, f.svc.Rebuild(ctx))
	before := *f.cacheRepo.leaderboard

	// Another mutation lands, then artifact storage starts failing.
	f.cacheRepo.generation = 2
	f.cacheRepo.setErr = errors.New("redis down")
	require.NoError(t, f.resultRepo.Create(ctx, &models.RaceResult{
		Name:        "John Roe",
		Gender:      models.GenderMale,
		DOB:         "1990-01-20",
		Distance:    models.Distance5K,
		TimeSeconds: 1100,
		RaceDate:    "2026-03-14",
	}))

	require.Error(t, f.svc.Rebuild(ctx))

	// The previous pair stays in place, stamp and rows untouched.
	assert.Equal(t, before.Generation, f.cacheRepo.leaderboard.Generation)
	assert.Equal(t, before.Rows, f.cacheRepo.leaderboard.Rows)
	assert.Equal(t, before.Generation, f.cacheRepo.standings.Generation)
}

func TestRebuildStampsCurrentGeneration(t *testing.T) {
	f := newCacheFixture()
	ctx := context.Background()
	f.cacheRepo.generation = 7

	require.NoError(t, f.svc.Rebuild(ctx))

	require.NotNil(t, f.cacheRepo.leaderboard)
	require.NotNil(t, f.cacheRepo.standings)
	assert.Equal(t, int64(7), f.cacheRepo.leaderboard.Generation)
	assert.Equal(t, int64(7), f.cacheRepo.standings.Generation)
}

func TestStaleOnMissAndGenerationLag(t *testing.T) {
	f := newCacheFixture()
	ctx := context.Background()

	// No cached artifacts yet.
	stale, err := f.svc.Stale(ctx)
	require.NoError(t, err)
	assert.True(t, stale)

	require.NoError(t, f.svc.Rebuild(ctx))
	stale, err = f.svc.Stale(ctx)
	require.NoError(t, err)
	assert.False(t, stale)

	// A mutation bumps the generation past the cached stamp.
	_, err = f.cacheRepo.BumpGeneration(ctx)
	require.NoError(t, err)
	stale, err = f.svc.Stale(ctx)
	require.NoError(t, err)
	assert.True(t, stale)
}

func TestLeaderboardRebuildsWhenStale(t *testing.T) {
	f := newCacheFixture()
	ctx := context.Background()

	require.NoError(t, f.resultRepo.Create(ctx, &models.RaceResult{
		Name:        "Jane Doe",
		Gender:      models.GenderFemale,
		DOB:         "1985-06-15",
		Distance:    models.Distance5K,
		TimeSeconds: 1170,
		TimeDisplay: "00:19:30",
		RaceDate:    "2026-03-07",
	}))

	rows, err := f.svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Jane Doe", rows[0].Name)

	// Subsequent reads come from the cache, not a rebuild.
	require.NotNil(t, f.cacheRepo.leaderboard)
	built := f.cacheRepo.leaderboard.BuiltAt
	rows, err = f.svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, built, f.cacheRepo.leaderboard.BuiltAt)
}

func TestLeaderboardSeasonFilterBypassesCache(t *testing.T) {
	f := newCacheFixture()
	ctx := context.Background()

	require.NoError(t, f.resultRepo.Create(ctx, &models.RaceResult{
		Name:        "Jane Doe",
		Gender:      models.GenderFemale,
		DOB:         "1985-06-15",
		Distance:    models.Distance5K,
		TimeSeconds: 1170,
		RaceDate:    "2025-03-07",
	}))
	require.NoError(t, f.resultRepo.Create(ctx, &models.RaceResult{
		Name:        "Jane Doe",
		Gender:      models.GenderFemale,
		DOB:         "1985-06-15",
		Distance:    models.Distance5K,
		TimeSeconds: 1150,
		RaceDate:    "2026-04-11",
	}))

	rows, err := f.svc.Leaderboard(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1170, rows[0].TimeSeconds)
	// A season query never writes the cache.
	assert.Nil(t, f.cacheRepo.leaderboard)
}

func TestStandingsServedFromCache(t *testing.T) {
	f := newCacheFixture()
	ctx := context.Background()

	require.NoError(t, f.calendarRepo.Save(ctx, []models.ChampCalendarEntry{
		{Slot: 1, Name: "Spring 5", Date: "2026-04-05", Distance: models.Distance5K},
	}))
	require.NoError(t, f.champRepo.Create(ctx, &models.ChampResult{
		Name: "Jane Doe", RaceName: "Spring 5", RaceDate: "2026-04-05",
		Gender: models.GenderFemale, Category: models.Category("V40"), Points: 95,
	}))

	rows, err := f.svc.Standings(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.InDelta(t, 95.0, rows[0].Total, 0.001)
	require.NotNil(t, f.cacheRepo.standings)
}

func TestLeaderboardWarnsOnSentinelRows(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	memberRepo := &fakeMemberRepo{}
	resultRepo := &fakeResultRepo{}
	svc := NewCacheService(
		memberRepo,
		resultRepo,
		&fakeChampResultRepo{},
		&fakeCalendarRepo{},
		&fakeSettingsRepo{},
		&fakeCacheRepo{},
		live.NewHub(logger),
		logger,
	)
	ctx := context.Background()

	require.NoError(t, resultRepo.Create(ctx, &models.RaceResult{
		Name:        "Mystery Runner",
		Gender:      models.GenderMale,
		DOB:         "19xx-01-01",
		Distance:    models.Distance5K,
		TimeSeconds: 1200,
		RaceDate:    "2026-03-07",
	}))

	rows, err := svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.CategoryUnknown, rows[0].Category)
	assert.Contains(t, buf.String(), "unparsable fields")
	assert.Contains(t, buf.String(), "Mystery Runner")
}

func TestLeaderboardExcludesFormerMembersFlag(t *testing.T) {
	f := newCacheFixture()
	ctx := context.Background()

	require.NoError(t, f.memberRepo.Create(ctx, &models.Member{
		Name: "Jane Doe", Gender: models.GenderFemale, Status: models.MemberLeft,
	}))
	require.NoError(t, f.resultRepo.Create(ctx, &models.RaceResult{
		Name:        "Jane Doe",
		Gender:      models.GenderFemale,
		DOB:         "1985-06-15",
		Distance:    models.Distance5K,
		TimeSeconds: 1170,
		RaceDate:    "2026-03-07",
	}))

	rows, err := f.svc.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.False(t, rows[0].IsCurrentMember)
}
