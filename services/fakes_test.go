package services

import (
	"context"
	"strings"

	"github.com/bramley-breezers/club-records/models"
	"github.com/bramley-breezers/club-records/repositories"
	"github.com/google/uuid"
)

// In-memory repository fakes. They mirror the Redis implementations'
// insertion-order and not-found semantics so service tests exercise the same
// contracts.

type fakeMemberRepo struct {
	members []models.Member
}

func (f *fakeMemberRepo) Create(_ context.Context, m *models.Member) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	f.members = append(f.members, *m)
	return nil
}

func (f *fakeMemberRepo) Update(_ context.Context, m *models.Member) error {
	for i := range f.members {
		if f.members[i].ID == m.ID {
			f.members[i] = *m
			return nil
		}
	}
	return repositories.ErrMemberNotFound
}

func (f *fakeMemberRepo) Delete(_ context.Context, id string) error {
	for i := range f.members {
		if f.members[i].ID == id {
			f.members = append(f.members[:i], f.members[i+1:]...)
			return nil
		}
	}
	return repositories.ErrMemberNotFound
}

func (f *fakeMemberRepo) GetByID(_ context.Context, id string) (*models.Member, error) {
	for i := range f.members {
		if f.members[i].ID == id {
			m := f.members[i]
			return &m, nil
		}
	}
	return nil, repositories.ErrMemberNotFound
}

func (f *fakeMemberRepo) GetByName(_ context.Context, name string) (*models.Member, error) {
	want := strings.TrimSpace(name)
	for i := range f.members {
		if strings.TrimSpace(f.members[i].Name) == want {
			m := f.members[i]
			return &m, nil
		}
	}
	return nil, repositories.ErrMemberNotFound
}

func (f *fakeMemberRepo) List(_ context.Context) ([]models.Member, error) {
	return append([]models.Member(nil), f.members...), nil
}

func (f *fakeMemberRepo) Count(_ context.Context) (int, error) {
	return len(f.members), nil
}

type fakeResultRepo struct {
	results []models.RaceResult
}

func (f *fakeResultRepo) Create(_ context.Context, r *models.RaceResult) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	f.results = append(f.results, *r)
	return nil
}

func (f *fakeResultRepo) Update(_ context.Context, r *models.RaceResult) error {
	for i := range f.results {
		if f.results[i].ID == r.ID {
			f.results[i] = *r
			return nil
		}
	}
	return repositories.ErrResultNotFound
}

func (f *fakeResultRepo) Delete(_ context.Context, id string) error {
	for i := range f.results {
		if f.results[i].ID == id {
			f.results = append(f.results[:i], f.results[i+1:]...)
			return nil
		}
	}
	return repositories.ErrResultNotFound
}

func (f *fakeResultRepo) GetByID(_ context.Context, id string) (*models.RaceResult, error) {
	for i := range f.results {
		if f.results[i].ID == id {
			r := f.results[i]
			return &r, nil
		}
	}
	return nil, repositories.ErrResultNotFound
}

func (f *fakeResultRepo) List(_ context.Context) ([]models.RaceResult, error) {
	return append([]models.RaceResult(nil), f.results...), nil
}

func (f *fakeResultRepo) ReplaceAll(_ context.Context, results []models.RaceResult) error {
	for i := range results {
		if results[i].ID == "" {
			results[i].ID = uuid.NewString()
		}
	}
	f.results = append([]models.RaceResult(nil), results...)
	return nil
}

func (f *fakeResultRepo) Count(_ context.Context) (int, error) {
	return len(f.results), nil
}

type fakePendingRepo struct {
	subs []models.PendingSubmission
}

func (f *fakePendingRepo) Create(_ context.Context, s *models.PendingSubmission) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	f.subs = append(f.subs, *s)
	return nil
}

func (f *fakePendingRepo) Delete(_ context.Context, id string) error {
	for i := range f.subs {
		if f.subs[i].ID == id {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return nil
		}
	}
	return repositories.ErrSubmissionNotFound
}

func (f *fakePendingRepo) GetByID(_ context.Context, id string) (*models.PendingSubmission, error) {
	for i := range f.subs {
		if f.subs[i].ID == id {
			s := f.subs[i]
			return &s, nil
		}
	}
	return nil, repositories.ErrSubmissionNotFound
}

func (f *fakePendingRepo) List(_ context.Context) ([]models.PendingSubmission, error) {
	return append([]models.PendingSubmission(nil), f.subs...), nil
}

func (f *fakePendingRepo) Count(_ context.Context) (int, error) {
	return len(f.subs), nil
}

func (f *fakePendingRepo) Clear(_ context.Context) error {
	f.subs = nil
	return nil
}

type fakeChampSubRepo struct {
	subs []models.ChampSubmission
}

func (f *fakeChampSubRepo) Create(_ context.Context, s *models.ChampSubmission) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	f.subs = append(f.subs, *s)
	return nil
}

func (f *fakeChampSubRepo) Delete(_ context.Context, id string) error {
	for i := range f.subs {
		if f.subs[i].ID == id {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return nil
		}
	}
	return repositories.ErrChampSubmissionNotFound
}

func (f *fakeChampSubRepo) GetByID(_ context.Context, id string) (*models.ChampSubmission, error) {
	for i := range f.subs {
		if f.subs[i].ID == id {
			s := f.subs[i]
			return &s, nil
		}
	}
	return nil, repositories.ErrChampSubmissionNotFound
}

func (f *fakeChampSubRepo) List(_ context.Context) ([]models.ChampSubmission, error) {
	return append([]models.ChampSubmission(nil), f.subs...), nil
}

func (f *fakeChampSubRepo) Count(_ context.Context) (int, error) {
	return len(f.subs), nil
}

func (f *fakeChampSubRepo) Clear(_ context.Context) error {
	f.subs = nil
	return nil
}

type fakeChampResultRepo struct {
	results []models.ChampResult
}

func (f *fakeChampResultRepo) Create(_ context.Context, r *models.ChampResult) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	f.results = append(f.results, *r)
	return nil
}

func (f *fakeChampResultRepo) Update(_ context.Context, r *models.ChampResult) error {
	for i := range f.results {
		if f.results[i].ID == r.ID {
			f.results[i] = *r
			return nil
		}
	}
	return repositories.ErrChampResultNotFound
}

func (f *fakeChampResultRepo) Delete(_ context.Context, id string) error {
	for i := range f.results {
		if f.results[i].ID == id {
			f.results = append(f.results[:i], f.results[i+1:]...)
			return nil
		}
	}
	return repositories.ErrChampResultNotFound
}

func (f *fakeChampResultRepo) GetByID(_ context.Context, id string) (*models.ChampResult, error) {
	for i := range f.results {
		if f.results[i].ID == id {
			r := f.results[i]
			return &r, nil
		}
	}
	return nil, repositories.ErrChampResultNotFound
}

func (f *fakeChampResultRepo) List(_ context.Context) ([]models.ChampResult, error) {
	return append([]models.ChampResult(nil), f.results...), nil
}

type fakeCalendarRepo struct {
	entries []models.ChampCalendarEntry
	set     bool
}

func (f *fakeCalendarRepo) Get(_ context.Context) ([]models.ChampCalendarEntry, error) {
	if !f.set {
		return nil, repositories.ErrCalendarNotSet
	}
	return append([]models.ChampCalendarEntry(nil), f.entries...), nil
}

func (f *fakeCalendarRepo) Save(_ context.Context, entries []models.ChampCalendarEntry) error {
	f.entries = append([]models.ChampCalendarEntry(nil), entries...)
	f.set = true
	return nil
}

type fakeReferenceRepo struct {
	refs map[string]models.ReferenceTime
}

func refKey(raceName string, gender models.Gender, category models.Category) string {
	return raceName + "|" + string(gender) + "|" + string(category)
}

func (f *fakeReferenceRepo) Upsert(_ context.Context, ref *models.ReferenceTime) error {
	if f.refs == nil {
		f.refs = make(map[string]models.ReferenceTime)
	}
	f.refs[refKey(ref.RaceName, ref.Gender, ref.Category)] = *ref
	return nil
}

func (f *fakeReferenceRepo) Get(_ context.Context, raceName string, gender models.Gender, category models.Category) (*models.ReferenceTime, error) {
	ref, ok := f.refs[refKey(raceName, gender, category)]
	if !ok {
		return nil, repositories.ErrReferenceTimeNotFound
	}
	return &ref, nil
}

func (f *fakeReferenceRepo) List(_ context.Context) ([]models.ReferenceTime, error) {
	out := make([]models.ReferenceTime, 0, len(f.refs))
	for _, ref := range f.refs {
		out = append(out, ref)
	}
	return out, nil
}

func (f *fakeReferenceRepo) Delete(_ context.Context, raceName string, gender models.Gender, category models.Category) error {
	key := refKey(raceName, gender, category)
	if _, ok := f.refs[key]; !ok {
		return repositories.ErrReferenceTimeNotFound
	}
	delete(f.refs, key)
	return nil
}

type fakeSettingsRepo struct {
	settings *models.Settings
	hash     string
}

func (f *fakeSettingsRepo) Get(_ context.Context) (*models.Settings, error) {
	if f.settings == nil {
		s := models.DefaultSettings()
		return &s, nil
	}
	s := *f.settings
	return &s, nil
}

func (f *fakeSettingsRepo) Save(_ context.Context, settings *models.Settings) error {
	s := *settings
	f.settings = &s
	return nil
}

func (f *fakeSettingsRepo) GetPasswordHash(_ context.Context) (string, error) {
	if f.hash == "" {
		return "", repositories.ErrPasswordNotSet
	}
	return f.hash, nil
}

func (f *fakeSettingsRepo) SetPasswordHash(_ context.Context, hash string) error {
	f.hash = hash
	return nil
}

type fakeCacheRepo struct {
	generation  int64
	leaderboard *models.CachedLeaderboard
	standings   *models.CachedStandings

	setErr  error // injected write failure
	bumpErr error // injected INCR failure
}

func (f *fakeCacheRepo) GetLeaderboard(_ context.Context) (*models.CachedLeaderboard, error) {
	if f.leaderboard == nil {
		return nil, repositories.ErrCacheMiss
	}
	c := *f.leaderboard
	return &c, nil
}

func (f *fakeCacheRepo) GetStandings(_ context.Context) (*models.CachedStandings, error) {
	if f.standings == nil {
		return nil, repositories.ErrCacheMiss
	}
	c := *f.standings
	return &c, nil
}

// SetArtifacts mirrors the Redis pipeline: on failure neither artifact moves.
func (f *fakeCacheRepo) SetArtifacts(_ context.Context, leaderboard *models.CachedLeaderboard, standings *models.CachedStandings) error {
	if f.setErr != nil {
		return f.setErr
	}
	lb := *leaderboard
	st := *standings
	f.leaderboard = &lb
	f.standings = &st
	return nil
}

func (f *fakeCacheRepo) DataGeneration(_ context.Context) (int64, error) {
	return f.generation, nil
}

func (f *fakeCacheRepo) BumpGeneration(_ context.Context) (int64, error) {
	if f.bumpErr != nil {
		return 0, f.bumpErr
	}
	f.generation++
	return f.generation, nil
}
