package services

import "errors"

// Shared errors used across services and the HTTP mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrValidationFailed  = errors.New("validation failed")
	ErrPasswordTooShort  = errors.New("password is too short")
	ErrInvalidCredential = errors.New("invalid admin password")

	ErrDuplicateResult      = errors.New("result already recorded for this runner and race date")
	ErrInvalidTime          = errors.New("time must be HH:MM:SS, MM:SS or SS")
	ErrInvalidDistance      = errors.New("unknown race distance")
	ErrReferenceTimeMissing = errors.New("no reference time for this race, gender and category")
	ErrWildcardSlotLocked   = errors.New("calendar slot 15 is the fixed marathon wildcard")
	ErrInvalidSlot          = errors.New("calendar slot out of range")

	ErrMemberNotFound     = errors.New("member not found")
	ErrResultNotFound     = errors.New("race result not found")
	ErrSubmissionNotFound = errors.New("submission not found")
)
