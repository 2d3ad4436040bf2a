package models

type Distance string

const (
	Distance5K       Distance = "5k"
	Distance10K      Distance = "10k"
	Distance10Mile   Distance = "10 Mile"
	DistanceHalf     Distance = "HM"
	DistanceMarathon Distance = "Marathon"
)

// Distances lists the recognised race distances in display order.
var Distances = []Distance{Distance5K, Distance10K, Distance10Mile, DistanceHalf, DistanceMarathon}

func (d Distance) Valid() bool {
	switch d {
	case Distance5K, Distance10K, Distance10Mile, DistanceHalf, DistanceMarathon:
		return true
	}
	return false
}

// RaceResult is an approved personal-best record. Gender and DOB are
// snapshotted from the member at approval time and are deliberately not
// re-joined afterwards: a later member edit must not rewrite history.
type RaceResult struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Gender      Gender   `json:"gender"`
	DOB         string   `json:"dob"`
	Distance    Distance `json:"distance"`
	TimeSeconds int      `json:"time_seconds"`
	TimeDisplay string   `json:"time_display"`
	Location    string   `json:"location"`
	RaceDate    string   `json:"race_date"` // YYYY-MM-DD
}
