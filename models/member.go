package models

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

type MemberStatus string

const (
	MemberActive MemberStatus = "Active"
	MemberLeft   MemberStatus = "Left"
)

// Member is a club member. Names are the historical identity key for race
// results; uniqueness is assumed but not enforced anywhere upstream.
type Member struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	DOB    string       `json:"dob"` // YYYY-MM-DD
	Gender Gender       `json:"gender"`
	Status MemberStatus `json:"status,omitempty"`
}

// EffectiveStatus treats a missing status as Active, matching records
// imported before the status field existed.
func (m *Member) EffectiveStatus() MemberStatus {
	if m.Status == "" {
		return MemberActive
	}
	return m.Status
}
