package leave

import "time"

// LeaveType classifies a request and keys the balance ledger.
type LeaveType string

const (
	TypeAnnual LeaveType = "ANNUAL"
	TypeSick   LeaveType = "SICK"
	TypeCasual LeaveType = "CASUAL"
	TypeUnpaid LeaveType = "UNPAID"
)

func IsValidLeaveType(t LeaveType) bool {
	switch t {
	case TypeAnnual, TypeSick, TypeCasual, TypeUnpaid:
		return true
	}
	return false
}

// Status is the leave request state. PENDING may move to APPROVED, REJECTED
// or CANCELLED; APPROVED may move back to PENDING via unapprove. REJECTED and
// CANCELLED are terminal.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

func IsValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// HalfDayType says which half of the day a half-day request covers.
type HalfDayType string

const (
	FirstHalf  HalfDayType = "FIRST_HALF"
	SecondHalf HalfDayType = "SECOND_HALF"
)

func IsValidHalfDayType(h HalfDayType) bool {
	return h == FirstHalf || h == SecondHalf
}

// MinReasonLength is the minimum length of a leave request reason.
const MinReasonLength = 10

type LeaveRequest struct {
	ID          string
	UserID      string
	LeaveType   LeaveType
	Status      Status
	StartDate   time.Time
	EndDate     time.Time
	IsHalfDay   bool
	HalfDayType *HalfDayType
	Reason      string
	Notes       *string

	// TotalDays is fixed at create/edit time from the working-day count and
	// is the unit debited and credited on the balance ledger.
	TotalDays float64

	ApprovedByID    *string
	ApprovedAt      *time.Time
	RejectionReason *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined for display
	UserName *string
}

// LeaveBalance is the per-(user, year, leave type) ledger row. Counters are
// maintained incrementally; the invariant after every transition is
// Balance = TotalAllocated - TotalUsed - TotalPending.
type LeaveBalance struct {
	UserID         string
	Year           int
	LeaveType      LeaveType
	TotalAllocated float64
	TotalUsed      float64
	TotalPending   float64
	Balance        float64
	UpdatedAt      time.Time
}

// LedgerDelta is the three-counter adjustment a request transition applies to
// its balance row. It is applied as one atomic increment, never as a
// read-modify-write of the row.
type LedgerDelta struct {
	Pending float64
	Used    float64
	Balance float64
}

// Transition deltas, one per legal request transition for a request worth
// days. Reversals mirror the forward entries so counters never drift.

func CreateDelta(days float64) LedgerDelta {
	return LedgerDelta{Pending: days, Balance: -days}
}

func ApproveDelta(days float64) LedgerDelta {
	return LedgerDelta{Pending: -days, Used: days}
}

func RejectDelta(days float64) LedgerDelta {
	return LedgerDelta{Pending: -days, Balance: days}
}

func CancelDelta(days float64) LedgerDelta {
	return RejectDelta(days)
}

func UnapproveDelta(days float64) LedgerDelta {
	return LedgerDelta{Pending: days, Used: -days}
}

// EditDelta moves the pending reservation from oldDays to newDays when a
// pending request is edited.
func EditDelta(oldDays, newDays float64) LedgerDelta {
	return LedgerDelta{Pending: newDays - oldDays, Balance: oldDays - newDays}
}
