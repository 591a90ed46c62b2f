package middleware // middleware provides shared request processing for handlers

import (
    "encoding/json" // json decodes the whom header payload
    "net/http"      // http package defines standard HTTP status codes

    "github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// WhomHeader is the request header carrying the client's identity
// claim. The client replays it with every call; the server treats it
// as a hint, never as proof, and re-checks identity against storage on
// every sensitive operation.
const WhomHeader = "whom"

// whomClaim mirrors the JSON the client stores after login.
type whomClaim struct {
    UserType string `json:"userType"`
    Username string `json:"username"`
}

// Whom parses the whom header into the context under the keys
// "user_type", "username" and "user_id".  A missing or malformed
// header leaves the keys unset; gating is left to RequireUserType so
// public routes stay public.
func Whom() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            raw := c.Request().Header.Get(WhomHeader)
            if raw != "" {
                var claim whomClaim
                if err := json.Unmarshal([]byte(raw), &claim); err == nil {
                    c.Set("user_type", claim.UserType)
                    c.Set("username", claim.Username)
                    c.Set("user_id", claim.Username)
                }
            }
            return next(c)
        }
    }
}

// RequireUserType returns a middleware function that enforces that the
// caller's whom claim names one of the specified user types.  If the
// claim is missing or the type is not in the allowed set, the request
// is aborted with a 403 Forbidden response carrying the given message.
func RequireUserType(message string, types ...string) echo.MiddlewareFunc {
    // Build a set of allowed types for constant‑time lookups.  The map
    // value is a boolean and is always true when present.
    allowed := make(map[string]bool, len(types))
    for _, t := range types {
        allowed[t] = true
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            // Retrieve the user type from context.  It should have
            // been stored by Whom as a string.  If not present or of
            // wrong type, treat as missing.
            v := c.Get("user_type")
            userType, ok := v.(string)
            if !ok || !allowed[userType] {
                // If the type is missing or not allowed, return 403
                return c.JSON(http.StatusForbidden, map[string]string{"error": message})
            }
            // Otherwise call the next handler in the chain
            return next(c)
        }
    }
}
