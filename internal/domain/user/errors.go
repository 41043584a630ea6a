package user

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrAdminAccessRequired = errors.New("admin access required")
	ErrAccountInactive     = errors.New("account is inactive")
)
