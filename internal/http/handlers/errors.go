// Package handlers defines HTTP-layer error codes used across all API
// endpoints.
//
// These symbolic constants are mapped to HTTP responses via the `fail()`
// helper and give clients a stable, machine-readable error taxonomy that
// supplements human-readable messages. Codes are lowercase snake_case;
// generic codes mirror common HTTP status semantics, domain-specific codes
// name business failures that a status alone cannot convey.

package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeSyncFailed       = "sync_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeSaveFailed       = "save_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
