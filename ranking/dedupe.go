package ranking

import (
	"strings"

	"github.com/bramley-breezers/club-records/models"
)

// resultKey identifies a real-world performance: one runner, one calendar
// date. Comparison is exact after trimming surrounding whitespace; case is
// preserved because folding would silently merge distinct members.
func resultKey(name, raceDate string) string {
	return strings.TrimSpace(name) + "|" + strings.TrimSpace(raceDate)
}

// IsDuplicate reports whether the collection already holds a result for the
// given runner on the given date. It must run before every insertion.
func IsDuplicate(name, raceDate string, existing []models.RaceResult) bool {
	key := resultKey(name, raceDate)
	for _, r := range existing {
		if resultKey(r.Name, r.RaceDate) == key {
			return true
		}
	}
	return false
}

// RepairStats reports a deduplication pass for audit.
type RepairStats struct {
	Original     int `json:"original"`
	Deduplicated int `json:"deduplicated"`
	Removed      int `json:"removed"`
}

// Repair collapses (runner, date) collisions, keeping only the fastest time
// in each group. Survivors keep the position of the group's first occurrence,
// so repeated runs over the same input produce identical output.
func Repair(results []models.RaceResult) ([]models.RaceResult, RepairStats) {
	kept := make([]models.RaceResult, 0, len(results))
	index := make(map[string]int, len(results))

	for _, r := range results {
		key := resultKey(r.Name, r.RaceDate)
		at, seen := index[key]
		if !seen {
			index[key] = len(kept)
			kept = append(kept, r)
			continue
		}
		if r.TimeSeconds < kept[at].TimeSeconds {
			kept[at] = r
		}
	}

	stats := RepairStats{
		Original:     len(results),
		Deduplicated: len(kept),
		Removed:      len(results) - len(kept),
	}
	return kept, stats
}
