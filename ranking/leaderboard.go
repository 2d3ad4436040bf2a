package ranking

import (
	"sort"
	"strings"
	"time"

	"github.com/bramley-breezers/club-records/models"
)

// LeaderboardInput carries everything the PB aggregation needs. Settings are
// passed in explicitly; the aggregator never consults shared state.
type LeaderboardInput struct {
	Results []models.RaceResult
	Mode    models.BandingMode
	Season  int // calendar year of the race date; 0 means all-time
	Active  map[string]bool
}

type groupKey struct {
	Distance models.Distance
	Gender   models.Gender
	Category models.Category
}

// BuildLeaderboard derives the personal-best leaderboard: the single fastest
// result per (distance, gender, category) slice. Categories come from each
// result's own snapshotted DOB and race date. Ties on time keep the earliest
// inserted result, so identical input always yields identical output. The
// computation is a full recompute, never incremental.
func BuildLeaderboard(in LeaderboardInput) []models.LeaderboardRow {
	best := make(map[groupKey]models.LeaderboardRow)
	order := make(map[groupKey]int)

	for _, r := range in.Results {
		if in.Season != 0 && raceYear(r.RaceDate) != in.Season {
			continue
		}
		key := groupKey{
			Distance: r.Distance,
			Gender:   r.Gender,
			Category: Classify(r.DOB, r.RaceDate, in.Mode),
		}
		if cur, ok := best[key]; ok && cur.TimeSeconds <= r.TimeSeconds {
			continue
		}
		if _, ok := best[key]; !ok {
			order[key] = len(order)
		}
		best[key] = models.LeaderboardRow{
			Distance:        r.Distance,
			Gender:          r.Gender,
			Category:        key.Category,
			Name:            r.Name,
			TimeSeconds:     r.TimeSeconds,
			TimeDisplay:     r.TimeDisplay,
			Location:        r.Location,
			RaceDate:        r.RaceDate,
			IsCurrentMember: in.Active[strings.TrimSpace(r.Name)],
		}
	}

	rows := make([]models.LeaderboardRow, 0, len(best))
	for _, row := range best {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Distance != b.Distance {
			return distanceRank(a.Distance) < distanceRank(b.Distance)
		}
		if a.Gender != b.Gender {
			return a.Gender == models.GenderMale
		}
		return categoryRank(a.Category) < categoryRank(b.Category)
	})
	return rows
}

func raceYear(raceDate string) int {
	d, err := time.Parse(dateLayout, raceDate)
	if err != nil {
		return 0
	}
	return d.Year()
}

func distanceRank(d models.Distance) int {
	for i, known := range models.Distances {
		if d == known {
			return i
		}
	}
	return len(models.Distances)
}
