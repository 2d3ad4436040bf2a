package models

// PendingSubmission is a runner-submitted PB claim awaiting admin review.
// It becomes a RaceResult on approval or is discarded on rejection.
type PendingSubmission struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Distance    Distance `json:"distance"`
	TimeDisplay string   `json:"time_display"`
	Location    string   `json:"location"`
	RaceDate    string   `json:"race_date"`
	Comment     string   `json:"comment,omitempty"`
}
