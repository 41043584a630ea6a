package attendance

import (
	"time"
)

// WorkLocation is where the user is working from for the day.
type WorkLocation string

const (
	WorkLocationOffice WorkLocation = "OFFICE"
	WorkLocationSite   WorkLocation = "SITE"
)

func IsValidWorkLocation(w WorkLocation) bool {
	return w == WorkLocationOffice || w == WorkLocationSite
}

// Session status values.
const (
	StatusOnTime         = "ON_TIME"
	StatusLate           = "LATE"
	StatusAutoCheckedOut = "AUTO_CHECKED_OUT"
)

// FlagAutoCheckedOut is added to a session's flags when the nightly sweep
// closes it.
const FlagAutoCheckedOut = "AUTO_CHECKED_OUT"

// Session is one user's attendance for one civil day. A session is active
// while CheckOutTime is nil; closing it (manual check-out or the sweep) is
// terminal.
type Session struct {
	ID     string
	UserID string

	// Date is civil midnight of the session's day, the day-partition key.
	Date time.Time

	WorkLocation        WorkLocation
	Status              string
	CheckInTime         time.Time
	ExpectedCheckInTime time.Time
	IsLate              bool
	LateMinutes         *int
	LateReason          *string

	CheckInLatitude  *float64
	CheckInLongitude *float64
	CheckInAddress   *string
	CheckInNotes     *string

	CheckOutTime      *time.Time
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CheckOutAddress   *string
	CheckOutNotes     *string

	TotalHours     *float64
	AutoCheckedOut bool
	Flags          []string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for display
	UserName *string
}

// IsActive reports whether the session is still open.
func (s Session) IsActive() bool {
	return s.CheckOutTime == nil
}

// HasCheckInLocation reports whether the session recorded coordinates at
// check-in. Without them the geofence cannot be evaluated and manual
// check-out is blocked.
func (s Session) HasCheckInLocation() bool {
	return s.CheckInLatitude != nil && s.CheckInLongitude != nil
}

// LocationPing is an immutable location sample appended to a session: once at
// check-in, on every location report while active, and once more at close.
type LocationPing struct {
	ID        string
	SessionID string
	Timestamp time.Time
	Latitude  float64
	Longitude float64
	Address   *string
	Accuracy  *float64
}
