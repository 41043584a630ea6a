package attendance

import (
	"context"
	"time"
)

// SessionService defines business logic for the attendance session lifecycle.
type SessionService interface {
	// CheckIn opens today's session for the user, computing lateness against
	// the expected civil check-in time.
	CheckIn(ctx context.Context, userID string, req CheckInRequest) (SessionResponse, error)

	// RecordLocation appends a location ping to the user's active session.
	RecordLocation(ctx context.Context, userID string, req RecordLocationRequest) error

	// CheckOut closes today's active session, geofence-gated against the
	// check-in location.
	CheckOut(ctx context.Context, userID string, req CheckOutRequest) (SessionResponse, error)

	// AutoCheckout force-closes every still-open session for the civil day
	// containing asOf. Per-session failures are collected, not propagated.
	AutoCheckout(ctx context.Context, asOf time.Time) (SweepResponse, error)

	// UpdateSession applies an admin override to a session.
	UpdateSession(ctx context.Context, req UpdateSessionRequest) (SessionResponse, error)

	GetSession(ctx context.Context, id string) (SessionResponse, error)
	ListMySessions(ctx context.Context, userID string, from, to time.Time) ([]SessionResponse, error)
}
