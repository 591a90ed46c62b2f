// Package auth implements login: derive the role from the username
// prefix, check the credential, require a verified email, and record
// the login in the audit trail.
package auth

import (
	"context"
	"errors"
	"log"

	"github.com/locmanager/locmanager/internal/identity"
)

var (
	// ErrInvalidFormat covers usernames with no recognizable role
	// prefix and passwords shorter than six characters. Both collapse
	// into the same answer so login probes learn nothing.
	ErrInvalidFormat = errors.New("invalid username or password format")

	// ErrEmailNotVerified blocks login until the address is confirmed.
	ErrEmailNotVerified = errors.New("email not verified")
)

// Credentials checks a password against the stored credential.
type Credentials interface {
	Verify(ctx context.Context, role identity.Role, id int64, password string) (bool, error)
}

// Profiles reads the verification flag and the admin secondary id.
type Profiles interface {
	EmailVerified(ctx context.Context, uid identity.UserID) (bool, error)
	AdminID(ctx context.Context, id int64) (int64, error)
}

// Activities records audit entries. Best effort on login: a failed
// insert never blocks an otherwise valid session.
type Activities interface {
	Record(ctx context.Context, userID int64, action string) error
}

// Result is the outcome of an authentication attempt. A wrong password
// is not an error: it yields Access "denied" with the derived role so
// the client can render the right login form.
type Result struct {
	Access   string        `json:"access"`
	Role     identity.Role `json:"user"`
	Username string        `json:"username,omitempty"`
	AdminID  int64         `json:"adminId,omitempty"`
}

type Service struct {
	Credentials Credentials
	Profiles    Profiles
	Activities  Activities
}

func NewService(creds Credentials, profiles Profiles, acts Activities) *Service {
	return &Service{Credentials: creds, Profiles: profiles, Activities: acts}
}

const loginAction = "Connexion utilisateur"

// Authenticate runs the login sequence for a compound username.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*Result, error) {
	role := identity.RoleFromUsername(username)
	if role == identity.RoleUnknown || len(password) < 6 {
		return nil, ErrInvalidFormat
	}

	uid, err := identity.Decode(username)
	if err != nil {
		return nil, ErrInvalidFormat
	}

	ok, err := s.Credentials.Verify(ctx, role, uid.Num, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Result{Access: "denied", Role: role}, nil
	}

	verified, err := s.Profiles.EmailVerified(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, ErrEmailNotVerified
	}

	if err := s.Activities.Record(ctx, uid.Num, loginAction); err != nil {
		log.Printf("auth: record login for %s failed: %v", uid, err)
	}

	res := &Result{Access: "granted", Role: role, Username: username}
	if role == identity.RoleAdmin {
		adminID, err := s.Profiles.AdminID(ctx, uid.Num)
		if err != nil {
			return nil, err
		}
		res.AdminID = adminID
	}
	return res, nil
}
