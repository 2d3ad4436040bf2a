package models

import "time"

// CachedLeaderboard is the materialised PB leaderboard artifact. Generation
// records which data generation it was built from, so readers can detect
// staleness instead of trusting that every write path remembered to rebuild.
type CachedLeaderboard struct {
	Generation int64            `json:"generation"`
	BuiltAt    time.Time        `json:"built_at"`
	Rows       []LeaderboardRow `json:"rows"`
}

// CachedStandings is the materialised championship standings artifact.
type CachedStandings struct {
	Generation int64         `json:"generation"`
	BuiltAt    time.Time     `json:"built_at"`
	Rows       []StandingRow `json:"rows"`
}
