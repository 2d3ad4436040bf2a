package models

// LeaderboardRow is one derived PB leaderboard entry: the fastest result in a
// (distance, gender, category) slice. IsCurrentMember drives display
// de-emphasis only and never affects ranking.
type LeaderboardRow struct {
	Distance        Distance `json:"distance"`
	Gender          Gender   `json:"gender"`
	Category        Category `json:"category"`
	Name            string   `json:"name"`
	TimeSeconds     int      `json:"time_seconds"`
	TimeDisplay     string   `json:"time_display"`
	Location        string   `json:"location"`
	RaceDate        string   `json:"race_date"`
	IsCurrentMember bool     `json:"is_current_member"`
}

// StandingRow is one derived championship standings entry: a runner's season
// total over their best six scored races.
type StandingRow struct {
	Name        string    `json:"name"`
	Gender      Gender    `json:"gender"`
	Category    Category  `json:"category"`
	RacesScored int       `json:"races_scored"`
	Counted     int       `json:"counted"`
	Total       float64   `json:"total"`
	BestPoints  []float64 `json:"best_points"`
}
