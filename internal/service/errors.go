package service

import "errors"

// Sentinel errors shared across services. Handlers translate these into the
// HTTP status codes and message wording clients branch on.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden indicates the viewer lacks permission for the resource.
	ErrForbidden = errors.New("permission denied")
	// ErrInvalidTransition indicates a status change the lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid status transition")
)

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampLimit(limit, fallback, max int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > max {
		return max
	}
	return limit
}
