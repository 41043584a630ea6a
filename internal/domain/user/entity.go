package user

import "time"

// Role determines what a user may do in the portal.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleCoordinator Role = "COORDINATOR"
	RoleStaff       Role = "STAFF"
)

// AttendanceEligibleRoles are the roles whose members track attendance and are
// swept by the nightly auto-checkout.
func AttendanceEligibleRoles() []Role {
	return []Role{RoleCoordinator, RoleStaff}
}

func IsValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleCoordinator, RoleStaff:
		return true
	}
	return false
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Phone        *string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
