// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrAlreadyVerified lets the resend-verification endpoint
// answer with a 400 instead of reissuing a token, while ErrNotFound
// maps to a 404 for whichever per-role table was queried.
package repository

import "errors"

// ErrNotFound is returned when the identity addressed by a query has
// no row in the relevant per-role table.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when an insert would duplicate an email
// address that must stay unique. Handlers translate this into a 400.
var ErrEmailExists = errors.New("email already exists")

// ErrAlreadyVerified is returned when a verification token is requested
// for an identity whose email address is already confirmed.
var ErrAlreadyVerified = errors.New("email is already verified")

// ErrInvalidToken is returned when a verification token does not match
// the stored one, has already been consumed, or the identity carries no
// pending verification at all. Tokens are single-use, not time-limited.
var ErrInvalidToken = errors.New("invalid or expired verification token")

// ErrRoomUnavailable is returned when an owner account is created for a
// room that is not in the available pool.
var ErrRoomUnavailable = errors.New("room number not available")

// ErrNoOwnerForRoom is returned when a tenant is created for a room no
// owner holds.
var ErrNoOwnerForRoom = errors.New("no owner found for room number")
