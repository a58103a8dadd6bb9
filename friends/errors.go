// Package friends implements the relationship engine: the state machine
// between "no relationship", "request pending" and "friends" for any pair of
// users, backed by the friend_requests and friendships collections.
package friends

import "errors"

// Error kinds surfaced by the engine. Handlers map these to transport
// statuses; the engine itself never sees HTTP.
var (
	// ErrInvalidTarget is returned when a user targets themselves.
	ErrInvalidTarget = errors.New("friends: invalid target user")

	// ErrNotFound is returned when a referenced user, request or
	// friendship does not exist.
	ErrNotFound = errors.New("friends: not found")

	// ErrForbidden is returned when the acting user is not the recipient
	// of the request being accepted or declined.
	ErrForbidden = errors.New("friends: not authorized")

	// ErrConflict is returned for duplicate requests or friendships, and
	// for transitions on an already-resolved request.
	ErrConflict = errors.New("friends: conflicting relationship state")
)
