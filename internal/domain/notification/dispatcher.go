package notification

import "context"

// Event is one "notify these users" request.
type Event struct {
	RecipientIDs []string
	Type         NotificationType
	Title        string
	Message      string
	Data         map[string]interface{}
}

// Dispatcher fans a notification event out to its recipients. Dispatch is
// fire-and-forget: callers log a failed Dispatch and move on, it never fails
// the operation that produced the event.
type Dispatcher interface {
	Dispatch(ctx context.Context, event Event) error

	// Stop drains queued events and stops background workers.
	Stop()
}
