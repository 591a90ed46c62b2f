package profile

import "testing"

func strp(s string) *string { return &s }
func intp(n int64) *int64   { return &n }

func fields(errs []FieldError) map[string]string {
	m := make(map[string]string, len(errs))
	for _, e := range errs {
		m[e.Field] = e.Message
	}
	return m
}

func TestValidateAbsentFieldsAreSkipped(t *testing.T) {
	if errs := Validate(Update{}); errs != nil {
		t.Fatalf("empty update should be clean, got %v", errs)
	}
}

func TestValidatePerField(t *testing.T) {
	cases := []struct {
		name  string
		u     Update
		field string
	}{
		{"short name", Update{Name: strp("A")}, "name"},
		{"blank name", Update{Name: strp("   ")}, "name"},
		{"bad email", Update{Email: strp("not-an-address")}, "email"},
		{"phone wrong prefix", Update{Phone: strp("0512345678")}, "phone"},
		{"phone too short", Update{Phone: strp("061234567")}, "phone"},
		{"room not positive", Update{RoomNo: intp(0)}, "room_no"},
		{"age zero", Update{Age: intp(0)}, "age"},
		{"age absurd", Update{Age: intp(131)}, "age"},
		{"dob garbage", Update{DOB: strp("yesterday")}, "dob"},
		{"dob in the future", Update{DOB: strp("2999-01-01")}, "dob"},
		{"block not numeric", Update{BlockNo: strp("B1")}, "block_no"},
		{"block negative", Update{BlockNo: strp("-3")}, "block_no"},
		{"short password", Update{Password: strp("abc")}, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := Validate(tc.u)
			if len(errs) != 1 {
				t.Fatalf("want exactly one violation, got %v", errs)
			}
			if errs[0].Field != tc.field {
				t.Fatalf("want violation on %q, got %q", tc.field, errs[0].Field)
			}
		})
	}
}

func TestValidateAcceptsCleanUpdate(t *testing.T) {
	u := Update{
		Name:            strp("Jean Dupont"),
		Email:           strp("jean@example.com"),
		Phone:           strp("+33612345678"),
		RoomNo:          intp(104),
		Age:             intp(42),
		DOB:             strp("1984-03-15"),
		BlockNo:         strp("2"),
		Password:        strp("secret123"),
		ConfirmPassword: strp("secret123"),
	}
	if errs := Validate(u); errs != nil {
		t.Fatalf("clean update rejected: %v", errs)
	}
}

func TestValidateDOBAcceptsTimestampForm(t *testing.T) {
	if errs := Validate(Update{DOB: strp("1990-06-01T00:00:00Z")}); errs != nil {
		t.Fatalf("RFC 3339 dob rejected: %v", errs)
	}
}

func TestValidatePasswordMismatch(t *testing.T) {
	u := Update{Password: strp("secret123"), ConfirmPassword: strp("secret124")}
	errs := Validate(u)
	if _, ok := fields(errs)["confirmPassword"]; !ok {
		t.Fatalf("mismatching confirmation not flagged: %v", errs)
	}
}

func TestValidateAccumulatesAllViolations(t *testing.T) {
	u := Update{
		Name:  strp("X"),
		Email: strp("nope"),
		Phone: strp("12345"),
		Age:   intp(-1),
	}
	errs := Validate(u)
	got := fields(errs)
	for _, f := range []string{"name", "email", "phone", "age"} {
		if _, ok := got[f]; !ok {
			t.Errorf("violation on %q missing from %v", f, errs)
		}
	}
	if len(errs) != 4 {
		t.Fatalf("want 4 violations, got %d", len(errs))
	}
}
