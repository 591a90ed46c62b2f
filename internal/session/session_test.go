package session

import (
	"testing"

	"github.com/locmanager/locmanager/internal/identity"
)

func TestRedirectTarget(t *testing.T) {
	tenant := &Session{UserType: identity.RoleTenant, Username: "t-1"}

	cases := []struct {
		name     string
		path     string
		session  *Session
		want     string
		redirect bool
	}{
		{"own namespace", "/tenant", tenant, "", false},
		{"own nested path", "/tenant/home", tenant, "", false},
		{"foreign namespace", "/admin", tenant, "/tenant", true},
		{"foreign nested path", "/owner/createtenant", tenant, "/tenant", true},
		{"shared profile", "/profile/edit", tenant, "", false},
		{"shared verified", "/verified", tenant, "", false},
		{"shared support", "/support", tenant, "", false},
		{"shared management portal", "/management-portal", tenant, "", false},
		{"landing page", "/", tenant, "", false},
		{"anonymous", "/admin", nil, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, redirect := RedirectTarget(tc.path, tc.session)
			if redirect != tc.redirect || got != tc.want {
				t.Fatalf("RedirectTarget(%q) = (%q, %v), want (%q, %v)",
					tc.path, got, redirect, tc.want, tc.redirect)
			}
		})
	}
}

func TestRedirectTargetUnknownRole(t *testing.T) {
	s := &Session{UserType: identity.RoleUnknown}
	if _, redirect := RedirectTarget("/admin", s); redirect {
		t.Fatal("unknown role must never be redirected")
	}
}

func TestMenuFor(t *testing.T) {
	cases := []struct {
		role  identity.Role
		first string
		size  int
	}{
		{identity.RoleAdmin, "Accueil", 8},
		{identity.RoleEmployee, "Accueil", 4},
		{identity.RoleTenant, "Accueil", 5},
		{identity.RoleOwner, "Accueil", 7},
	}
	for _, tc := range cases {
		menu := MenuFor(tc.role)
		if len(menu) != tc.size {
			t.Fatalf("MenuFor(%s) has %d entries, want %d", tc.role, len(menu), tc.size)
		}
		if menu[0].Label != tc.first {
			t.Fatalf("MenuFor(%s) starts with %q", tc.role, menu[0].Label)
		}
		if last := menu[len(menu)-1]; last.Path != "/profile/edit" {
			t.Fatalf("MenuFor(%s) ends with path %q", tc.role, last.Path)
		}
	}
	if MenuFor(identity.RoleUnknown) != nil {
		t.Fatal("unknown role must get an empty menu")
	}
}
