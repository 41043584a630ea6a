package leave

import (
	"strings"

	"github.com/crewops/ops-portal-go/internal/pkg/validator"
)

type CreateLeaveRequestRequest struct {
	LeaveType   LeaveType    `json:"leave_type"`
	StartDate   string       `json:"start_date"` // YYYY-MM-DD, civil date
	EndDate     string       `json:"end_date"`
	IsHalfDay   bool         `json:"is_half_day"`
	HalfDayType *HalfDayType `json:"half_day_type"`
	Reason      string       `json:"reason"`
	Notes       *string      `json:"notes"`
}

func (r CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be a YYYY-MM-DD date"})
	}
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be a YYYY-MM-DD date"})
	}
	if len(errs) > 0 {
		return errs
	}

	if !IsValidLeaveType(r.LeaveType) {
		return ErrInvalidLeaveType
	}
	if len(strings.TrimSpace(r.Reason)) < MinReasonLength {
		return ErrReasonTooShort
	}
	if r.IsHalfDay && (r.HalfDayType == nil || !IsValidHalfDayType(*r.HalfDayType)) {
		return ErrInvalidHalfDay
	}
	return nil
}

// UpdateLeaveRequestRequest edits a request that is still pending. Only the
// owner may edit; the pending ledger reservation is moved to the new total.
type UpdateLeaveRequestRequest struct {
	ID          string       `json:"-"`
	LeaveType   *LeaveType   `json:"leave_type"`
	StartDate   *string      `json:"start_date"`
	EndDate     *string      `json:"end_date"`
	IsHalfDay   *bool        `json:"is_half_day"`
	HalfDayType *HalfDayType `json:"half_day_type"`
	Reason      *string      `json:"reason"`
	Notes       *string      `json:"notes"`
}

type RejectLeaveRequestRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r RejectLeaveRequestRequest) Validate() error {
	if strings.TrimSpace(r.Reason) == "" {
		return ErrRejectionReasonRequired
	}
	return nil
}

type LeaveRequestResponse struct {
	ID              string       `json:"id"`
	UserID          string       `json:"user_id"`
	UserName        *string      `json:"user_name,omitempty"`
	LeaveType       LeaveType    `json:"leave_type"`
	Status          Status       `json:"status"`
	StartDate       string       `json:"start_date"`
	EndDate         string       `json:"end_date"`
	IsHalfDay       bool         `json:"is_half_day"`
	HalfDayType     *HalfDayType `json:"half_day_type,omitempty"`
	Reason          string       `json:"reason"`
	Notes           *string      `json:"notes,omitempty"`
	TotalDays       float64      `json:"total_days"`
	ApprovedByID    *string      `json:"approved_by_id,omitempty"`
	ApprovedAt      *string      `json:"approved_at,omitempty"`
	RejectionReason *string      `json:"rejection_reason,omitempty"`
	CreatedAt       string       `json:"created_at"`
}

type LeaveBalanceResponse struct {
	UserID         string    `json:"user_id"`
	Year           int       `json:"year"`
	LeaveType      LeaveType `json:"leave_type"`
	TotalAllocated float64   `json:"total_allocated"`
	TotalUsed      float64   `json:"total_used"`
	TotalPending   float64   `json:"total_pending"`
	Balance        float64   `json:"balance"`
}
