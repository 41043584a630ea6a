package leave

import (
	"context"
	"time"
)

// StatusPatch carries the fields written on a status transition. From is the
// status the row must still hold for the write to apply; the repository uses
// it to serialize concurrent transitions over the same request.
type StatusPatch struct {
	From            Status
	Status          Status
	ApprovedByID    *string
	ApprovedAt      *time.Time
	RejectionReason *string
}

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// Update rewrites the editable fields of a request, conditional on the
	// row still being PENDING.
	Update(ctx context.Context, req LeaveRequest) error

	// UpdateStatus applies a transition patch, conditional on the row still
	// being in patch.From. Returns ErrInvalidStatusTransition when another
	// transition got there first.
	UpdateStatus(ctx context.Context, id string, patch StatusPatch) error

	ListForUser(ctx context.Context, userID string, year int) ([]LeaveRequest, error)
	ListByStatus(ctx context.Context, status Status) ([]LeaveRequest, error)
}

type LeaveBalanceRepository interface {
	// ApplyDelta atomically increments the balance row's counters, creating
	// the row with TotalAllocated=0 when it does not exist yet. Returns the
	// row after the delta.
	ApplyDelta(ctx context.Context, userID string, year int, leaveType LeaveType, delta LedgerDelta) (LeaveBalance, error)

	Get(ctx context.Context, userID string, year int, leaveType LeaveType) (LeaveBalance, error)
	ListForUser(ctx context.Context, userID string, year int) ([]LeaveBalance, error)
}

// HolidayRepository supplies the holiday set consumed by the working-day
// calculation.
type HolidayRepository interface {
	// ListDatesInRange returns the civil dates (YYYY-MM-DD) of all holidays
	// in [start, end].
	ListDatesInRange(ctx context.Context, start, end time.Time) ([]string, error)
}
