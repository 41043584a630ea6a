package response

import (
	"errors"
	"net/http"

	"github.com/crewops/ops-portal-go/internal/domain/attendance"
	"github.com/crewops/ops-portal-go/internal/domain/auth"
	"github.com/crewops/ops-portal-go/internal/domain/leave"
	"github.com/crewops/ops-portal-go/internal/domain/user"
	"github.com/crewops/ops-portal-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrAccountInactive):
		Forbidden(w, "Account is inactive")
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrLocationRequired):
		BadRequest(w, "Latitude and longitude are required", nil)
	case errors.Is(err, attendance.ErrInvalidWorkLocation):
		BadRequest(w, "Invalid work location", nil)
	case errors.Is(err, attendance.ErrLateReasonRequired):
		BadRequest(w, "A reason is required for late check-in", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrNoActiveSession):
		NotFound(w, "No active session found")
	case errors.Is(err, attendance.ErrSessionNotFound):
		NotFound(w, "Session not found")
	case errors.Is(err, attendance.ErrCheckInLocationMissing):
		BadRequest(w, "Session has no check-in location", nil)
	case errors.Is(err, attendance.ErrOutsideRadius):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrSessionAlreadyClosed):
		Conflict(w, "Session already closed")
	case errors.Is(err, attendance.ErrSessionNotActive):
		Conflict(w, "Session is not active")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "End date must not be before start date", nil)
	case errors.Is(err, leave.ErrInvalidHalfDay):
		BadRequest(w, "Half-day requests need a single day and a valid half", nil)
	case errors.Is(err, leave.ErrInvalidLeaveType):
		BadRequest(w, "Invalid leave type", nil)
	case errors.Is(err, leave.ErrReasonTooShort):
		BadRequest(w, "Reason is too short", nil)
	case errors.Is(err, leave.ErrRejectionReasonRequired):
		BadRequest(w, "A rejection reason is required", nil)
	case errors.Is(err, leave.ErrInvalidStatusTransition):
		Conflict(w, "Leave request is not in a state that allows this action")
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, "Not the owner of this leave request")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
