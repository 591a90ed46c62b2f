// Package identity implements the compound user-id scheme used across the
// whole application.  Every account is addressed as "<prefix>-<number>"
// (o-123, t-45, a-7, e-701) where the prefix encodes the role and the number
// is the primary key of the role's own table.  The same string is what users
// type as their login name, what the client stores in its session, and what
// request bodies carry as userId.
package identity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Role is one of the four account kinds the system knows about.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOwner    Role = "owner"
	RoleTenant   Role = "tenant"
	RoleEmployee Role = "employee"
	// RoleUnknown is returned when a role cannot be determined from the input.
	RoleUnknown Role = "unknown"
)

var (
	// ErrInvalidNumericID is returned by Encode when the numeric component
	// is not a positive integer.
	ErrInvalidNumericID = errors.New("numeric id must be a positive integer")
	// ErrMalformedUserID is returned by Decode when the numeric portion of
	// a user id cannot be parsed.  Malformed ids are never coerced to 0.
	ErrMalformedUserID = errors.New("malformed user id")
	// ErrUnknownRole is returned by ParseRole for a value outside the four
	// known account kinds.
	ErrUnknownRole = errors.New("unknown role")
)

var rolePrefix = map[Role]string{
	RoleAdmin:    "a",
	RoleOwner:    "o",
	RoleTenant:   "t",
	RoleEmployee: "e",
}

var prefixRole = map[string]Role{
	"a": RoleAdmin,
	"o": RoleOwner,
	"t": RoleTenant,
	"e": RoleEmployee,
}

// UserID is a decoded identity.  Role may be RoleUnknown when the input
// carried no recognizable prefix; callers that care (authentication) must
// check it themselves.
type UserID struct {
	Role Role
	Num  int64
}

// String renders the canonical "<prefix>-<number>" form.  An unknown role
// renders the bare number, matching what trusted internal callers pass around.
func (u UserID) String() string {
	p, ok := rolePrefix[u.Role]
	if !ok {
		return strconv.FormatInt(u.Num, 10)
	}
	return fmt.Sprintf("%s-%d", p, u.Num)
}

// Encode builds the wire form of an identity.  The numeric id must be a
// positive integer.
func Encode(role Role, num int64) (string, error) {
	if num <= 0 {
		return "", ErrInvalidNumericID
	}
	p, ok := rolePrefix[role]
	if !ok {
		return "", ErrUnknownRole
	}
	return fmt.Sprintf("%s-%d", p, num), nil
}

// Decode splits a user id on its first dash and parses the remainder as a
// base-10 integer.  A value with no dash at all is treated as a bare numeric
// id: some internal callers pass the raw number once the role is already
// known from context, and that form is accepted on purpose.  The prefix, when
// present, is mapped to a role but never validated against an expectation;
// that check belongs to the caller.
func Decode(s string) (UserID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return UserID{}, ErrMalformedUserID
	}
	role := RoleUnknown
	numPart := s
	if i := strings.Index(s, "-"); i >= 0 {
		if r, ok := prefixRole[strings.ToLower(s[:i])]; ok {
			role = r
		}
		numPart = s[i+1:]
	}
	n, err := strconv.ParseInt(numPart, 10, 64)
	if err != nil || n <= 0 {
		return UserID{}, fmt.Errorf("%w: %q", ErrMalformedUserID, s)
	}
	return UserID{Role: role, Num: n}, nil
}

// RoleFromUsername infers the role from the first letter of a login name,
// case-insensitively: A->admin, E->employee, T->tenant, O->owner.  Anything
// else is RoleUnknown.  This rule is deliberately kept in one place so it can
// later be swapped for an explicit role field without touching callers.
func RoleFromUsername(username string) Role {
	if username == "" {
		return RoleUnknown
	}
	switch strings.ToUpper(username[:1]) {
	case "A":
		return RoleAdmin
	case "E":
		return RoleEmployee
	case "T":
		return RoleTenant
	case "O":
		return RoleOwner
	}
	return RoleUnknown
}

// ParseRole validates a userType value coming off the wire.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleOwner:
		return RoleOwner, nil
	case RoleTenant:
		return RoleTenant, nil
	case RoleEmployee:
		return RoleEmployee, nil
	}
	return RoleUnknown, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// ProfileTable names the role's profile table.
func (r Role) ProfileTable() string {
	switch r {
	case RoleAdmin:
		return "block_admin"
	case RoleOwner:
		return "owner"
	case RoleTenant:
		return "tenant"
	case RoleEmployee:
		return "employee"
	}
	return ""
}

// IDColumn names the primary-key column of the role's profile table.
func (r Role) IDColumn() string {
	switch r {
	case RoleAdmin:
		return "admin_id"
	case RoleOwner:
		return "owner_id"
	case RoleTenant:
		return "tenant_id"
	case RoleEmployee:
		return "emp_id"
	}
	return ""
}

// AuthTable names the role's credential table.
func (r Role) AuthTable() string {
	if r.ProfileTable() == "" {
		return ""
	}
	return "auth_" + string(r)
}
