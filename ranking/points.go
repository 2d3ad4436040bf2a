package ranking

import (
	"errors"
	"math"
	"sort"

	"github.com/bramley-breezers/club-records/models"
)

// BestN is how many point-scores count towards a season total, regardless of
// how many calendar races a runner completed.
const BestN = 6

// ErrScoreDeferred means a score cannot be computed yet: the reference time
// is absent or zero, or the finish time is invalid. The submission must stay
// pending rather than being approved with a garbage value.
var ErrScoreDeferred = errors.New("scoring deferred: reference or finish time missing")

// Score converts a raw finish into championship points against the category
// reference time: matching the reference scores exactly 100, slower times
// score proportionally lower. Rounded to two decimals.
func Score(referenceSeconds, runnerSeconds int) (float64, error) {
	if referenceSeconds <= 0 || runnerSeconds <= 0 {
		return 0, ErrScoreDeferred
	}
	return round2(100 * float64(referenceSeconds) / float64(runnerSeconds)), nil
}

// SeasonStandings aggregates approved championship results into season
// totals: per runner, the sum of their best six point-scores. Results for
// calendar slots that are still placeholders are excluded entirely. The
// total is independent of approval order; ties keep first-appearance order.
func SeasonStandings(results []models.ChampResult, calendar []models.ChampCalendarEntry) []models.StandingRow {
	placeholder := make(map[string]bool)
	for _, e := range calendar {
		if e.Placeholder() {
			placeholder[e.Name] = true
		}
	}

	type runner struct {
		row    models.StandingRow
		latest string // race date backing the displayed category
		points []float64
	}
	byName := make(map[string]*runner)
	names := make([]string, 0)

	for _, r := range results {
		if placeholder[r.RaceName] {
			continue
		}
		ru, ok := byName[r.Name]
		if !ok {
			ru = &runner{row: models.StandingRow{Name: r.Name}}
			byName[r.Name] = ru
			names = append(names, r.Name)
		}
		ru.points = append(ru.points, r.Points)
		if r.RaceDate > ru.latest {
			ru.latest = r.RaceDate
			ru.row.Gender = r.Gender
			ru.row.Category = r.Category
		}
	}

	rows := make([]models.StandingRow, 0, len(names))
	for _, name := range names {
		ru := byName[name]
		sort.Sort(sort.Reverse(sort.Float64Slice(ru.points)))
		counted := len(ru.points)
		if counted > BestN {
			counted = BestN
		}
		total := 0.0
		best := make([]float64, counted)
		copy(best, ru.points[:counted])
		for _, p := range best {
			total += p
		}
		ru.row.RacesScored = len(ru.points)
		ru.row.Counted = counted
		ru.row.BestPoints = best
		ru.row.Total = round2(total)
		rows = append(rows, ru.row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Total > rows[j].Total
	})
	return rows
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
