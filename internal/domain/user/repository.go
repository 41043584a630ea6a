package user

import "context"

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)

	// ListAdminIDs returns the ids of all active admin users. Used as the
	// recipient list for attendance and leave notifications.
	ListAdminIDs(ctx context.Context) ([]string, error)
}
