package attendance

import "github.com/crewops/ops-portal-go/internal/pkg/validator"

type CheckInRequest struct {
	WorkLocation WorkLocation `json:"work_location"`
	Latitude     *float64     `json:"latitude"`
	Longitude    *float64     `json:"longitude"`
	Address      *string      `json:"address"`
	Notes        *string      `json:"notes"`
	LateReason   *string      `json:"late_reason"`
}

func (r CheckInRequest) Validate() error {
	if r.Latitude == nil || r.Longitude == nil {
		return ErrLocationRequired
	}
	if err := validateCoordinates(*r.Latitude, *r.Longitude); err != nil {
		return err
	}
	if !IsValidWorkLocation(r.WorkLocation) {
		return ErrInvalidWorkLocation
	}
	return nil
}

type RecordLocationRequest struct {
	SessionID string   `json:"-"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   *string  `json:"address"`
	Accuracy  *float64 `json:"accuracy"`
}

func (r RecordLocationRequest) Validate() error {
	if r.Latitude == nil || r.Longitude == nil {
		return ErrLocationRequired
	}
	return validateCoordinates(*r.Latitude, *r.Longitude)
}

type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   *string  `json:"address"`
	Notes     *string  `json:"notes"`
}

func (r CheckOutRequest) Validate() error {
	if r.Latitude == nil || r.Longitude == nil {
		return ErrLocationRequired
	}
	return validateCoordinates(*r.Latitude, *r.Longitude)
}

func validateCoordinates(lat, lng float64) error {
	var errs validator.ValidationErrors
	if !validator.IsValidLatitude(lat) {
		errs = append(errs, validator.ValidationError{Field: "latitude", Message: "must be between -90 and 90"})
	}
	if !validator.IsValidLongitude(lng) {
		errs = append(errs, validator.ValidationError{Field: "longitude", Message: "must be between -180 and 180"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateSessionRequest lets an admin correct a session's computed fields.
type UpdateSessionRequest struct {
	ID          string  `json:"-"`
	Status      *string `json:"status"`
	IsLate      *bool   `json:"is_late"`
	LateMinutes *int    `json:"late_minutes"`
	LateReason  *string `json:"late_reason"`
}

// SweepResult is the per-session outcome of an auto-checkout run. Failures
// are reported here rather than aborting the sweep.
type SweepResult struct {
	SessionID string `json:"session_id"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

type SessionResponse struct {
	ID                  string       `json:"id"`
	UserID              string       `json:"user_id"`
	UserName            *string      `json:"user_name,omitempty"`
	Date                string       `json:"date"`
	WorkLocation        WorkLocation `json:"work_location"`
	Status              string       `json:"status"`
	CheckInTime         string       `json:"check_in_time"`
	ExpectedCheckInTime string       `json:"expected_check_in_time"`
	IsLate              bool         `json:"is_late"`
	LateMinutes         *int         `json:"late_minutes,omitempty"`
	LateReason          *string      `json:"late_reason,omitempty"`
	CheckInLatitude     *float64     `json:"check_in_latitude,omitempty"`
	CheckInLongitude    *float64     `json:"check_in_longitude,omitempty"`
	CheckInAddress      *string      `json:"check_in_address,omitempty"`
	CheckInNotes        *string      `json:"check_in_notes,omitempty"`
	CheckOutTime        *string      `json:"check_out_time,omitempty"`
	CheckOutLatitude    *float64     `json:"check_out_latitude,omitempty"`
	CheckOutLongitude   *float64     `json:"check_out_longitude,omitempty"`
	CheckOutAddress     *string      `json:"check_out_address,omitempty"`
	CheckOutNotes       *string      `json:"check_out_notes,omitempty"`
	TotalHours          *float64     `json:"total_hours,omitempty"`
	AutoCheckedOut      bool         `json:"auto_checked_out"`
	Flags               []string     `json:"flags,omitempty"`
}

type SweepResponse struct {
	Processed int           `json:"processed"`
	Failed    int           `json:"failed"`
	Results   []SweepResult `json:"results"`
}
