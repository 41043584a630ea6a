package clock

import "time"

// Location is the fixed civil timezone for the whole portal (UTC+5:45).
// All "today", lateness and day-boundary decisions go through this package so
// that every caller agrees on where a civil day starts, regardless of the
// server timezone.
var Location = time.FixedZone("UTC+05:45", 5*3600+45*60)

// Expected check-in is 10:00:00 civil time.
const (
	expectedCheckInHour   = 10
	expectedCheckInMinute = 0
)

// CivilParts holds the wall-clock fields of an instant projected into the
// fixed civil timezone.
type CivilParts struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
	Second int
}

// PartsOf projects a UTC instant into the civil calendar.
func PartsOf(t time.Time) CivilParts {
	local := t.In(Location)
	return CivilParts{
		Year:   local.Year(),
		Month:  local.Month(),
		Day:    local.Day(),
		Hour:   local.Hour(),
		Minute: local.Minute(),
		Second: local.Second(),
	}
}

// FromCivil constructs the instant corresponding to the given civil
// wall-clock time.
func FromCivil(year int, month time.Month, day, hour, minute, second int) time.Time {
	return time.Date(year, month, day, hour, minute, second, 0, Location)
}

// TodayMidnight returns civil midnight of the day containing now. This is the
// partition key for attendance sessions: any two instants on the same civil
// day map to the same value.
func TodayMidnight(now time.Time) time.Time {
	local := now.In(Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Location)
}

// ExpectedCheckIn returns civil 10:00:00 of the day containing now.
func ExpectedCheckIn(now time.Time) time.Time {
	local := now.In(Location)
	return time.Date(local.Year(), local.Month(), local.Day(), expectedCheckInHour, expectedCheckInMinute, 0, 0, Location)
}

// IsLate reports whether now is past the expected check-in time. The boundary
// is civil 10:01: a check-in at 10:00:30 is still on time. This mirrors the
// rule the portal has always used, so keep the minute granularity.
func IsLate(now time.Time) bool {
	local := now.In(Location)
	if local.Hour() > expectedCheckInHour {
		return true
	}
	return local.Hour() == expectedCheckInHour && local.Minute() >= 1
}

// CivilDate formats an instant as its civil calendar date (YYYY-MM-DD).
func CivilDate(t time.Time) string {
	return t.In(Location).Format("2006-01-02")
}
