package models

// BandingMode selects the age-category scheme for the whole club.
type BandingMode string

const (
	BandingTenYear  BandingMode = "10Y"
	BandingFiveYear BandingMode = "5Y"
)

// Category is an age-group label such as "Senior" or "V40".
type Category string

const (
	CategorySenior  Category = "Senior"
	CategoryUnknown Category = "Unknown"
)

// Settings is the club-wide configuration. It is loaded per request and
// threaded into classifier and aggregator calls explicitly, never read
// through a global.
type Settings struct {
	ClubName         string      `json:"club_name"`
	LogoURL          string      `json:"logo_url,omitempty"`
	BandingMode      BandingMode `json:"banding_mode"`
	ShowChampionship bool        `json:"show_championship"`
}

// DefaultSettings seeds a fresh install.
func DefaultSettings() Settings {
	return Settings{
		ClubName:         "Bramley Breezers",
		BandingMode:      BandingTenYear,
		ShowChampionship: false,
	}
}
