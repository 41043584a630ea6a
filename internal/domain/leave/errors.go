package leave

import "errors"

var (
	ErrLeaveRequestNotFound    = errors.New("leave request not found")
	ErrInvalidDateRange        = errors.New("end date must not be before start date")
	ErrInvalidHalfDay          = errors.New("a half-day request must start and end on the same date")
	ErrInvalidLeaveType        = errors.New("invalid leave type")
	ErrReasonTooShort          = errors.New("reason must be at least 10 characters")
	ErrInvalidStatusTransition = errors.New("leave request is not in a state that allows this action")
	ErrRejectionReasonRequired = errors.New("a reason is required to reject a leave request")
	ErrNotRequestOwner         = errors.New("only the request owner may modify this leave request")
	ErrHolidayLookup           = errors.New("failed to look up holidays for the requested range")
)
