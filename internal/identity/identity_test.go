package identity

import (
	"errors"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		role Role
		num  int64
		want string
	}{
		{RoleAdmin, 7, "a-7"},
		{RoleOwner, 123, "o-123"},
		{RoleTenant, 45, "t-45"},
		{RoleEmployee, 701, "e-701"},
	}
	for _, c := range cases {
		s, err := Encode(c.role, c.num)
		if err != nil {
			t.Fatalf("Encode(%s,%d): %v", c.role, c.num, err)
		}
		if s != c.want {
			t.Fatalf("Encode(%s,%d) = %q, want %q", c.role, c.num, s, c.want)
		}
		got, err := Decode(s)
		if err != nil {
			t.Fatalf("Decode(%q): %v", s, err)
		}
		if got.Role != c.role || got.Num != c.num {
			t.Fatalf("Decode(%q) = %+v, want {%s %d}", s, got, c.role, c.num)
		}
	}
}

func TestEncodeRejectsNonPositive(t *testing.T) {
	for _, n := range []int64{0, -1, -45} {
		if _, err := Encode(RoleTenant, n); !errors.Is(err, ErrInvalidNumericID) {
			t.Fatalf("Encode(tenant,%d) err = %v, want ErrInvalidNumericID", n, err)
		}
	}
}

func TestEncodeRejectsUnknownRole(t *testing.T) {
	if _, err := Encode(RoleUnknown, 1); !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("err = %v, want ErrUnknownRole", err)
	}
}

func TestDecodeBareNumericFallback(t *testing.T) {
	got, err := Decode("45")
	if err != nil {
		t.Fatalf("Decode(\"45\"): %v", err)
	}
	if got.Role != RoleUnknown || got.Num != 45 {
		t.Fatalf("Decode(\"45\") = %+v, want {unknown 45}", got)
	}
}

func TestDecodeUppercasePrefix(t *testing.T) {
	got, err := Decode("T-45")
	if err != nil {
		t.Fatalf("Decode(\"T-45\"): %v", err)
	}
	if got.Role != RoleTenant || got.Num != 45 {
		t.Fatalf("Decode(\"T-45\") = %+v", got)
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, s := range []string{"", "o-", "o-abc", "abc", "t-0", "t--5", "o-12x"} {
		if _, err := Decode(s); !errors.Is(err, ErrMalformedUserID) {
			t.Fatalf("Decode(%q) err = %v, want ErrMalformedUserID", s, err)
		}
	}
}

func TestDecodeUnrecognizedPrefixKeepsNumber(t *testing.T) {
	// The codec does not validate the prefix; the caller owns that check.
	got, err := Decode("x-9")
	if err != nil {
		t.Fatalf("Decode(\"x-9\"): %v", err)
	}
	if got.Role != RoleUnknown || got.Num != 9 {
		t.Fatalf("Decode(\"x-9\") = %+v, want {unknown 9}", got)
	}
}

func TestRoleFromUsername(t *testing.T) {
	cases := map[string]Role{
		"a-7":    RoleAdmin,
		"A-7":    RoleAdmin,
		"e-701":  RoleEmployee,
		"t-45":   RoleTenant,
		"o-123":  RoleOwner,
		"x-1":    RoleUnknown,
		"":       RoleUnknown,
		"123":    RoleUnknown,
		"orwell": RoleOwner, // only the first letter matters
	}
	for in, want := range cases {
		if got := RoleFromUsername(in); got != want {
			t.Errorf("RoleFromUsername(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, s := range []string{"admin", "Owner", " tenant ", "EMPLOYEE"} {
		if _, err := ParseRole(s); err != nil {
			t.Errorf("ParseRole(%q): %v", s, err)
		}
	}
	if _, err := ParseRole("manager"); !errors.Is(err, ErrUnknownRole) {
		t.Errorf("ParseRole(\"manager\") err = %v, want ErrUnknownRole", err)
	}
}

func TestRoleTables(t *testing.T) {
	cases := []struct {
		role            Role
		table, id, auth string
	}{
		{RoleAdmin, "block_admin", "admin_id", "auth_admin"},
		{RoleOwner, "owner", "owner_id", "auth_owner"},
		{RoleTenant, "tenant", "tenant_id", "auth_tenant"},
		{RoleEmployee, "employee", "emp_id", "auth_employee"},
	}
	for _, c := range cases {
		if c.role.ProfileTable() != c.table || c.role.IDColumn() != c.id || c.role.AuthTable() != c.auth {
			t.Errorf("%s tables = %s/%s/%s", c.role, c.role.ProfileTable(), c.role.IDColumn(), c.role.AuthTable())
		}
	}
	if RoleUnknown.ProfileTable() != "" || RoleUnknown.AuthTable() != "" {
		t.Errorf("unknown role must not map to tables")
	}
}
