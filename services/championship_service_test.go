package services

import (
	"context"
	"testing"

	"github.com/bramley-breezers/club-records/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type champFixture struct {
	svc          ChampionshipService
	memberRepo   *fakeMemberRepo
	calendarRepo *fakeCalendarRepo
	refRepo      *fakeReferenceRepo
	subRepo      *fakeChampSubRepo
	resultRepo   *fakeChampResultRepo
	settingsRepo *fakeSettingsRepo
	cacheRepo    *fakeCacheRepo
}

func newChampFixture() *champFixture {
	f := &champFixture{
		memberRepo:   &fakeMemberRepo{},
		calendarRepo: &fakeCalendarRepo{},
		refRepo:      &fakeReferenceRepo{},
		subRepo:      &fakeChampSubRepo{},
		resultRepo:   &fakeChampResultRepo{},
		settingsRepo: &fakeSettingsRepo{},
		cacheRepo:    &fakeCacheRepo{},
	}
	f.svc = NewChampionshipService(
		f.calendarRepo,
		f.refRepo,
		f.subRepo,
		f.resultRepo,
		f.memberRepo,
		f.settingsRepo,
		f.cacheRepo,
	)
	return f
}

func TestCalendarSeedsFifteenSlots(t *testing.T) {
	f := newChampFixture()

	entries, err := f.svc.Calendar(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, models.CalendarSlots)

	// Slots 1-14 start as placeholders, the wildcard never is.
	for _, e := range entries[:models.CalendarSlots-1] {
		assert.True(t, e.Placeholder(), "slot %d", e.Slot)
	}
	wildcard := entries[models.CalendarSlots-1]
	assert.False(t, wildcard.Placeholder())
	assert.Equal(t, models.DistanceMarathon, wildcard.Distance)

	// Seeded calendar is persisted.
	assert.True(t, f.calendarRepo.set)
}

func TestUpsertCalendarSlotRejectsWildcard(t *testing.T) {
	f := newChampFixture()

	_, err := f.svc.UpsertCalendarSlot(context.Background(), models.CalendarSlots, CalendarSlotInput{Name: "Other Race"})
	assert.ErrorIs(t, err, ErrWildcardSlotLocked)

	_, err = f.svc.UpsertCalendarSlot(context.Background(), 0, CalendarSlotInput{})
	assert.ErrorIs(t, err, ErrInvalidSlot)

	_, err = f.svc.UpsertCalendarSlot(context.Background(), 16, CalendarSlotInput{})
	assert.ErrorIs(t, err, ErrInvalidSlot)
}

func TestUpsertCalendarSlotUpdatesEntry(t *testing.T) {
	f := newChampFixture()

	entries, err := f.svc.UpsertCalendarSlot(context.Background(), 3, CalendarSlotInput{
		Name:     "Reading Half",
		Date:     "2026-03-22",
		Distance: "HM",
		Terrain:  models.TerrainRoad,
	})
	require.NoError(t, err)
	assert.Equal(t, "Reading Half", entries[2].Name)
	assert.False(t, entries[2].Placeholder())
	assert.Positive(t, f.cacheRepo.generation)
}

func TestApproveScoresAgainstReferenceTime(t *testing.T) {
	f := newChampFixture()
	ctx := context.Background()

	require.NoError(t, f.memberRepo.Create(ctx, &models.Member{
		Name:   "Jane Doe",
		DOB:    "1985-06-15",
		Gender: models.GenderFemale,
	}))
	// Jane is 40 on 2026-03-22 under 10Y banding: V40.
	require.NoError(t, f.refRepo.Upsert(ctx, &models.ReferenceTime{
		RaceName: "Reading Half",
		Gender:   models.GenderFemale,
		Category: models.Category("V40"),
		Seconds:  1200,
	}))
	sub, err := f.svc.Submit(ctx, ChampSubmitInput{
		Name:     "Jane Doe",
		RaceName: "Reading Half",
		RaceDate: "2026-03-22",
		Time:     "20:00",
	})
	require.NoError(t, err)

	result, err := f.svc.Approve(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Category("V40"), result.Category)
	assert.Equal(t, models.GenderFemale, result.Gender)
	assert.InDelta(t, 100.0, result.Points, 0.001)
	assert.Empty(t, f.subRepo.subs)
}

func TestApproveWithoutReferenceTimeStaysPending(t *testing.T) {
	f := newChampFixture()
	ctx := context.Background()

	require.NoError(t, f.memberRepo.Create(ctx, &models.Member{
		Name:   "Jane Doe",
		DOB:    "1985-06-15",
		Gender: models.GenderFemale,
	}))
	sub, err := f.svc.Submit(ctx, ChampSubmitInput{
		Name:     "Jane Doe",
		RaceName: "Reading Half",
		RaceDate: "2026-03-22",
		Time:     "20:00",
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, sub.ID)
	assert.ErrorIs(t, err, ErrReferenceTimeMissing)
	assert.Len(t, f.subRepo.subs, 1)
	assert.Empty(t, f.resultRepo.results)
}

func TestUpsertReferenceTimeParsesTime(t *testing.T) {
	f := newChampFixture()
	ctx := context.Background()

	ref, err := f.svc.UpsertReferenceTime(ctx, ReferenceTimeInput{
		RaceName: "Club 10k",
		Gender:   models.GenderMale,
		Category: models.CategorySenior,
		Time:     "34:30",
	})
	require.NoError(t, err)
	assert.Equal(t, 34*60+30, ref.Seconds)

	_, err = f.svc.UpsertReferenceTime(ctx, ReferenceTimeInput{
		RaceName: "Club 10k",
		Gender:   models.GenderMale,
		Category: models.CategorySenior,
		Time:     "not a time",
	})
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestOverridePoints(t *testing.T) {
	f := newChampFixture()
	ctx := context.Background()

	require.NoError(t, f.resultRepo.Create(ctx, &models.ChampResult{
		ID:       "c1",
		Name:     "Jane Doe",
		RaceName: "Muddy Fell Race",
		Points:   0,
	}))

	result, err := f.svc.OverridePoints(ctx, "c1", 87.5)
	require.NoError(t, err)
	assert.Equal(t, 87.5, result.Points)

	_, err = f.svc.OverridePoints(ctx, "c1", -1)
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = f.svc.OverridePoints(ctx, "missing", 50)
	assert.ErrorIs(t, err, ErrResultNotFound)
}

func TestStandingsExcludesPlaceholderRaces(t *testing.T) {
	f := newChampFixture()
	ctx := context.Background()

	_, err := f.svc.UpsertCalendarSlot(ctx, 1, CalendarSlotInput{
		Name:     "Spring 5",
		Date:     "2026-04-05",
		Distance: "5k",
	})
	require.NoError(t, err)

	require.NoError(t, f.resultRepo.Create(ctx, &models.ChampResult{
		Name: "Jane Doe", RaceName: "Spring 5", RaceDate: "2026-04-05",
		Gender: models.GenderFemale, Category: models.Category("V40"), Points: 95,
	}))
	// Race 2 is still a placeholder, so this result must not count.
	require.NoError(t, f.resultRepo.Create(ctx, &models.ChampResult{
		Name: "Jane Doe", RaceName: "Race 2", RaceDate: "2026-05-01",
		Gender: models.GenderFemale, Category: models.Category("V40"), Points: 80,
	}))

	rows, err := f.svc.Standings(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].RacesScored)
	assert.InDelta(t, 95.0, rows[0].Total, 0.001)
}
