package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrLocationRequired    = errors.New("latitude and longitude are required")
	ErrInvalidWorkLocation = errors.New("work location must be OFFICE or SITE")
	ErrLateReasonRequired  = errors.New("a reason is required when checking in late")
	ErrAlreadyCheckedIn    = errors.New("you already have an active session for today")

	// Check-out errors
	ErrNoActiveSession        = errors.New("no active session found for today")
	ErrCheckInLocationMissing = errors.New("check-out is blocked: this session has no check-in location to validate against")
	ErrOutsideRadius          = errors.New("check-out location is outside the allowed radius")
	ErrSessionAlreadyClosed   = errors.New("session has already been checked out")

	// Location ping errors
	ErrSessionNotActive = errors.New("session is not active")

	// General errors
	ErrSessionNotFound = errors.New("attendance session not found")
)
