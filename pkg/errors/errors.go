package errors

import "errors"

// Upstream failures, shared by every Source implementation so that services and
// handlers can map them without knowing which backend produced them.
var (
	// ErrUpstreamUnavailable backend unreachable, timed out or kept rate-limiting
	ErrUpstreamUnavailable = errors.New("attendance backend unavailable")
	// ErrUpstreamUnauthorized session rejected by the backend
	ErrUpstreamUnauthorized = errors.New("session rejected by backend")
	// ErrUpstreamRejected backend refused the payload
	ErrUpstreamRejected = errors.New("request rejected by backend")
	// ErrNotFound record does not exist upstream
	ErrNotFound = errors.New("record not found")
)
