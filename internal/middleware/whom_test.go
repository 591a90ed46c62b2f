package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func runWhom(t *testing.T, header string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(WhomHeader, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Whom()(func(c echo.Context) error { return nil })
	if err := h(c); err != nil {
		t.Fatalf("middleware returned error: %v", err)
	}
	return c
}

func TestWhomParsesClaim(t *testing.T) {
	c := runWhom(t, `{"userType":"owner","username":"o-12"}`)
	if got := c.Get("user_type"); got != "owner" {
		t.Fatalf("user_type = %v", got)
	}
	if got := c.Get("username"); got != "o-12" {
		t.Fatalf("username = %v", got)
	}
	if got := c.Get("user_id"); got != "o-12" {
		t.Fatalf("user_id = %v", got)
	}
}

func TestWhomIgnoresMissingOrMalformedHeader(t *testing.T) {
	for _, header := range []string{"", "not json", `{"userType":`} {
		c := runWhom(t, header)
		if c.Get("user_type") != nil {
			t.Fatalf("header %q populated user_type", header)
		}
	}
}

func TestRequireUserType(t *testing.T) {
	const msg = "Seuls les administrateurs, propriétaires ou employés peuvent mettre à jour les demandes de maintenance."

	cases := []struct {
		name     string
		userType any
		allowed  bool
	}{
		{"allowed type", "admin", true},
		{"second allowed type", "owner", true},
		{"blocked type", "tenant", false},
		{"no claim at all", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPut, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.userType != nil {
				c.Set("user_type", tc.userType)
			}

			called := false
			h := RequireUserType(msg, "admin", "owner", "employee")(func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			})
			if err := h(c); err != nil {
				t.Fatalf("middleware returned error: %v", err)
			}

			if called != tc.allowed {
				t.Fatalf("handler called = %v, want %v", called, tc.allowed)
			}
			if !tc.allowed {
				if rec.Code != http.StatusForbidden {
					t.Fatalf("status = %d, want 403", rec.Code)
				}
				if !strings.Contains(rec.Body.String(), "Seuls les administrateurs") {
					t.Fatalf("body %q lacks refusal message", rec.Body.String())
				}
			}
		})
	}
}
