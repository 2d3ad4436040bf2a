package ranking

import (
	"fmt"
	"time"

	"github.com/bramley-breezers/club-records/models"
)

const dateLayout = "2006-01-02"

// Classify computes the age category for a runner born on dob as of refDate,
// both YYYY-MM-DD strings. Age is calendar-year subtraction minus one if the
// reference month/day falls before the birthday.
//
// TenYear banding: under 40 is Senior, then V40/V50/V60 with V70+ on top.
// FiveYear banding: under 35 is Senior, then V35..V70 with V75+ on top.
//
// Malformed dates classify as Unknown rather than failing, so one bad record
// cannot abort a whole aggregation. This function is the single source of
// truth for categories; do not reimplement the thresholds elsewhere.
func Classify(dob, refDate string, mode models.BandingMode) models.Category {
	born, err := time.Parse(dateLayout, dob)
	if err != nil {
		return models.CategoryUnknown
	}
	ref, err := time.Parse(dateLayout, refDate)
	if err != nil {
		return models.CategoryUnknown
	}

	age := ref.Year() - born.Year()
	if ref.Month() < born.Month() || (ref.Month() == born.Month() && ref.Day() < born.Day()) {
		age--
	}

	threshold, step, top := 40, 10, 70
	if mode == models.BandingFiveYear {
		threshold, step, top = 35, 5, 75
	}

	if age < threshold {
		return models.CategorySenior
	}
	if age >= top {
		return models.Category(fmt.Sprintf("V%d+", top))
	}
	return models.Category(fmt.Sprintf("V%d", age/step*step))
}

// categoryRank orders categories for display: Senior first, then veteran
// bands by age, Unknown last.
func categoryRank(c models.Category) int {
	switch c {
	case models.CategorySenior:
		return 0
	case models.CategoryUnknown:
		return 1 << 16
	}
	var band int
	if _, err := fmt.Sscanf(string(c), "V%d", &band); err != nil {
		return 1 << 16
	}
	return band
}
