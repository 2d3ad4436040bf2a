package models

type Terrain string

const (
	TerrainRoad  Terrain = "Road"
	TerrainTrail Terrain = "Trail"
	TerrainFell  Terrain = "Fell"
	TerrainXC    Terrain = "XC"
	TerrainTBC   Terrain = "TBC"
)

// CalendarSlots is the fixed number of championship races in a season.
const CalendarSlots = 15

// ChampCalendarEntry is one slot in the season calendar. A slot whose date
// or distance is still "TBC" is a placeholder and is excluded from scoring.
// The final slot is the "any marathon" wildcard: its date and location are
// supplied by the runner, not fixed in advance.
type ChampCalendarEntry struct {
	Slot     int      `json:"slot"` // 1-based
	Name     string   `json:"name"`
	Date     string   `json:"date"` // YYYY-MM-DD or "TBC"
	Distance Distance `json:"distance"`
	Terrain  Terrain  `json:"terrain"`
}

// Placeholder reports whether the slot is still undetermined. The marathon
// wildcard has a free-form date by design and never counts as a placeholder.
func (e ChampCalendarEntry) Placeholder() bool {
	if e.Slot == CalendarSlots {
		return false
	}
	return e.Date == "" || e.Date == "TBC" || string(e.Distance) == "TBC" || string(e.Distance) == ""
}

// ChampSubmission is a runner's claim for a championship race, awaiting
// admin approval. Scoring happens at approval time.
type ChampSubmission struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	RaceName    string `json:"race_name"`
	RaceDate    string `json:"race_date"`
	TimeDisplay string `json:"time_display"`
	Comment     string `json:"comment,omitempty"`
}

// ChampResult is an approved, scored championship performance.
type ChampResult struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	RaceName string   `json:"race_name"`
	RaceDate string   `json:"race_date"`
	Gender   Gender   `json:"gender"`
	Category Category `json:"category"`
	Points   float64  `json:"points"`
}

// ReferenceTime is the admin-entered winner time for one race/gender/category
// slice. It is the denominator-free baseline every runner in that slice is
// scored against.
type ReferenceTime struct {
	RaceName string   `json:"race_name"`
	Gender   Gender   `json:"gender"`
	Category Category `json:"category"`
	Seconds  int      `json:"seconds"`
}
