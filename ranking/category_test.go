package ranking

import (
	"fmt"
	"testing"

	"github.com/bramley-breezers/club-records/models"
	"github.com/stretchr/testify/assert"
)

func TestClassifyTenYearBands(t *testing.T) {
	tests := []struct {
		dob      string
		raceDate string
		want     models.Category
	}{
		{"1985-06-15", "2025-06-10", "Senior"}, // turns 40 five days after the race
		{"1985-06-15", "2025-06-20", "V40"},    // birthday passed
		{"1985-06-15", "2025-06-15", "V40"},    // race on the birthday itself
		{"1976-01-01", "2025-06-01", "V40"},    // 49 floors to V40
		{"1970-01-01", "2025-06-01", "V50"},
		{"1950-01-01", "2025-06-01", "V70+"},
		{"1940-01-01", "2025-06-01", "V70+"}, // capped top band
		{"2000-01-01", "2025-06-01", "Senior"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.dob, tt.raceDate, models.BandingTenYear),
			"dob=%s race=%s", tt.dob, tt.raceDate)
	}
}

func TestClassifyFiveYearBands(t *testing.T) {
	tests := []struct {
		dob  string
		want models.Category
	}{
		{"1991-01-01", "Senior"}, // 34
		{"1990-01-01", "V35"},    // 35 exactly
		{"1978-01-01", "V45"},    // 47 floors to V45
		{"1981-01-01", "V40"},    // 44 floors to V40
		{"1950-01-01", "V75+"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.dob, "2025-06-01", models.BandingFiveYear), "dob=%s", tt.dob)
	}
}

func TestClassifySeniorThresholds(t *testing.T) {
	// Senior iff age < 40 under 10Y, iff age < 35 under 5Y.
	for age := 18; age <= 90; age++ {
		dob := fmt.Sprintf("%04d-01-01", 2025-age)
		tenYear := Classify(dob, "2025-06-01", models.BandingTenYear)
		fiveYear := Classify(dob, "2025-06-01", models.BandingFiveYear)
		assert.Equal(t, age < 40, tenYear == models.CategorySenior, "10Y age %d", age)
		assert.Equal(t, age < 35, fiveYear == models.CategorySenior, "5Y age %d", age)
	}
}

func TestClassifyMonotonicInAge(t *testing.T) {
	for _, mode := range []models.BandingMode{models.BandingTenYear, models.BandingFiveYear} {
		prev := -1
		for age := 18; age <= 95; age++ {
			dob := fmt.Sprintf("%04d-01-01", 2025-age)
			rank := categoryRank(Classify(dob, "2025-06-01", mode))
			assert.GreaterOrEqual(t, rank, prev, "mode=%s age=%d", mode, age)
			prev = rank
		}
	}
}

func TestClassifyMalformedDates(t *testing.T) {
	assert.Equal(t, models.CategoryUnknown, Classify("not-a-date", "2025-06-01", models.BandingTenYear))
	assert.Equal(t, models.CategoryUnknown, Classify("1985-06-15", "someday", models.BandingTenYear))
	assert.Equal(t, models.CategoryUnknown, Classify("", "", models.BandingFiveYear))
	assert.Equal(t, models.CategoryUnknown, Classify("15/06/1985", "2025-06-01", models.BandingTenYear))
}
