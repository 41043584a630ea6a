package attendance

import (
	"context"
	"time"
)

// ClosePatch carries the fields written when a session transitions to closed.
type ClosePatch struct {
	CheckOutTime      time.Time
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CheckOutAddress   *string
	CheckOutNotes     *string
	TotalHours        float64
	Status            string
	AutoCheckedOut    bool
	Flags             []string
}

// SessionRepository defines data access for attendance sessions and their
// location pings.
type SessionRepository interface {
	Create(ctx context.Context, session Session) (Session, error)

	GetByID(ctx context.Context, id string) (Session, error)

	// GetActiveSession returns the open session (check_out_time IS NULL) for
	// the user on the given civil day. ErrNoActiveSession when there is none.
	GetActiveSession(ctx context.Context, userID string, day time.Time) (Session, error)

	// ListOpenSessionsForDay returns every open session on the given civil
	// day belonging to active users in attendance-eligible roles. Feeds the
	// auto-checkout sweep; already-closed sessions are never returned, which
	// is what makes re-running the sweep safe.
	ListOpenSessionsForDay(ctx context.Context, day time.Time) ([]Session, error)

	// CloseSession applies the patch only if the session is still open. The
	// write is guarded by check_out_time IS NULL so that two racing closers
	// cannot both succeed; the loser gets ErrSessionAlreadyClosed.
	CloseSession(ctx context.Context, id string, patch ClosePatch) error

	// UpdateOverride applies an admin correction to status/late fields.
	UpdateOverride(ctx context.Context, req UpdateSessionRequest) error

	ListForUser(ctx context.Context, userID string, from, to time.Time) ([]Session, error)

	// AppendPing records an immutable location sample for a session.
	AppendPing(ctx context.Context, ping LocationPing) (LocationPing, error)

	// LatestPing returns the most recent ping for a session, or nil when the
	// session has none.
	LatestPing(ctx context.Context, sessionID string) (*LocationPing, error)
}
