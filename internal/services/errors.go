// Package services – shared error values
//
// Sentinel errors returned by the service layer. Handlers translate these
// into HTTP status codes; repositories never return them directly.
package services

import "errors"

var (
	// ErrEmailRequired indicates a permission operation without an email.
	ErrEmailRequired = errors.New("email is required")

	// ErrRoleRequired indicates a permission write without a role.
	ErrRoleRequired = errors.New("role is required")

	// ErrInvalidRole indicates a role outside the assignable set.
	ErrInvalidRole = errors.New("invalid role")

	// ErrPermissionNotFound indicates the target permission does not exist.
	ErrPermissionNotFound = errors.New("permission not found")

	// ErrSyncFailed wraps any fault of the ticket sync pipeline. The
	// original cause is joined for logs; callers only branch on this one.
	ErrSyncFailed = errors.New("sync failed")
)
