package leave

import "context"

// LeaveService defines business logic for the leave request lifecycle and the
// balance ledger it drives.
type LeaveService interface {
	// CreateRequest validates and creates a PENDING request, reserving its
	// days on the ledger.
	CreateRequest(ctx context.Context, userID string, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)

	// UpdateRequest edits a pending request owned by userID, moving the
	// ledger reservation to the recalculated total.
	UpdateRequest(ctx context.Context, userID string, req UpdateLeaveRequestRequest) (LeaveRequestResponse, error)

	// CancelRequest cancels a pending request owned by userID, releasing its
	// reservation.
	CancelRequest(ctx context.Context, userID string, requestID string) (LeaveRequestResponse, error)

	// Approve moves a pending request to APPROVED, converting its pending
	// days to used days.
	Approve(ctx context.Context, approverID string, requestID string) (LeaveRequestResponse, error)

	// Reject moves a pending request to REJECTED with a reason, releasing
	// its reservation.
	Reject(ctx context.Context, approverID string, req RejectLeaveRequestRequest) (LeaveRequestResponse, error)

	// Unapprove reverses an approval back to PENDING. Admin only; notifies
	// no one.
	Unapprove(ctx context.Context, approverID string, requestID string) (LeaveRequestResponse, error)

	GetRequest(ctx context.Context, id string) (LeaveRequestResponse, error)
	ListMyRequests(ctx context.Context, userID string, year int) ([]LeaveRequestResponse, error)
	ListMyBalances(ctx context.Context, userID string, year int) ([]LeaveBalanceResponse, error)

	// ListRequestsByStatus returns every request currently in the given
	// status, with requester names, for the admin review queue.
	ListRequestsByStatus(ctx context.Context, status Status) ([]LeaveRequestResponse, error)
}
