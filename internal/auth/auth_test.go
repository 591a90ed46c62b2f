package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/locmanager/locmanager/internal/identity"
)

type fakeCredentials struct {
	password string
	err      error
}

func (f *fakeCredentials) Verify(_ context.Context, _ identity.Role, _ int64, password string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return password == f.password, nil
}

type fakeProfiles struct {
	verified    bool
	verifiedErr error
	adminID     int64
}

func (f *fakeProfiles) EmailVerified(context.Context, identity.UserID) (bool, error) {
	return f.verified, f.verifiedErr
}

func (f *fakeProfiles) AdminID(context.Context, int64) (int64, error) {
	return f.adminID, nil
}

type fakeActivities struct {
	recorded []string
	err      error
}

func (f *fakeActivities) Record(_ context.Context, _ int64, action string) error {
	f.recorded = append(f.recorded, action)
	return f.err
}

func newService(creds *fakeCredentials, profiles *fakeProfiles, acts *fakeActivities) *Service {
	return NewService(creds, profiles, acts)
}

func TestAuthenticateGranted(t *testing.T) {
	acts := &fakeActivities{}
	svc := newService(&fakeCredentials{password: "secret123"}, &fakeProfiles{verified: true}, acts)

	res, err := svc.Authenticate(context.Background(), "t-42", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Access != "granted" {
		t.Fatalf("access = %q, want granted", res.Access)
	}
	if res.Role != identity.RoleTenant {
		t.Fatalf("role = %q, want tenant", res.Role)
	}
	if res.Username != "t-42" {
		t.Fatalf("username = %q, want t-42", res.Username)
	}
	if len(acts.recorded) != 1 || acts.recorded[0] != loginAction {
		t.Fatalf("recorded = %v, want one login entry", acts.recorded)
	}
}

func TestAuthenticateDenied(t *testing.T) {
	acts := &fakeActivities{}
	svc := newService(&fakeCredentials{password: "secret123"}, &fakeProfiles{verified: true}, acts)

	res, err := svc.Authenticate(context.Background(), "o-7", "wrongpass")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Access != "denied" {
		t.Fatalf("access = %q, want denied", res.Access)
	}
	if res.Role != identity.RoleOwner {
		t.Fatalf("role = %q, want owner", res.Role)
	}
	if len(acts.recorded) != 0 {
		t.Fatalf("denied attempt must not be recorded, got %v", acts.recorded)
	}
}

func TestAuthenticateInvalidFormat(t *testing.T) {
	svc := newService(&fakeCredentials{password: "secret123"}, &fakeProfiles{verified: true}, &fakeActivities{})

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"unknown prefix", "x-5", "secret123"},
		{"short password", "t-5", "12345"},
		{"empty username", "", "secret123"},
		{"malformed id", "t-abc", "secret123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Authenticate(context.Background(), tc.username, tc.password); !errors.Is(err, ErrInvalidFormat) {
				t.Fatalf("err = %v, want ErrInvalidFormat", err)
			}
		})
	}
}

func TestAuthenticateUnverifiedEmail(t *testing.T) {
	acts := &fakeActivities{}
	svc := newService(&fakeCredentials{password: "secret123"}, &fakeProfiles{verified: false}, acts)

	_, err := svc.Authenticate(context.Background(), "e-3", "secret123")
	if !errors.Is(err, ErrEmailNotVerified) {
		t.Fatalf("err = %v, want ErrEmailNotVerified", err)
	}
	if len(acts.recorded) != 0 {
		t.Fatalf("blocked login must not be recorded, got %v", acts.recorded)
	}
}

func TestAuthenticateAdminCarriesAdminID(t *testing.T) {
	svc := newService(&fakeCredentials{password: "secret123"}, &fakeProfiles{verified: true, adminID: 9}, &fakeActivities{})

	res, err := svc.Authenticate(context.Background(), "a-9", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.AdminID != 9 {
		t.Fatalf("adminId = %d, want 9", res.AdminID)
	}
}

func TestAuthenticateAuditFailureDoesNotBlock(t *testing.T) {
	acts := &fakeActivities{err: errors.New("insert failed")}
	svc := newService(&fakeCredentials{password: "secret123"}, &fakeProfiles{verified: true}, acts)

	res, err := svc.Authenticate(context.Background(), "t-1", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Access != "granted" {
		t.Fatalf("access = %q, want granted", res.Access)
	}
}
