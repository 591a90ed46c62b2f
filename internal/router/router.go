package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"

	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/locmanager/locmanager/internal/handler" // import the handlers that implement business logic
)

// RegisterRoutes registers routes that carry no handler dependencies.
// It exposes the health check used by load balancers and the catch-all
// that mirrors the 404 contract of the rest of the API.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)

	// Any path no other route claims answers with a JSON 404 naming the
	// requested URL, the same shape every error response of the API uses.
	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Route not found: " + c.Request().RequestURI})
	})
}

// RegisterAuth wires the login, logout and email-verification endpoints.
// None of these require an authenticated caller: login establishes the
// session the client stores, and the verification link arrives by mail.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, v *handler.VerificationHandler) {
	// Username/password check; the response tells the client which role
	// the compound id resolved to and whether access was granted.
	e.POST("/auth", a.Login)
	// Records the logout in the activity log.  The client forgets its own
	// session state, so this endpoint always answers 200 on valid input.
	e.POST("/logout", a.Logout)
	// Returns the numeric id embedded in a compound user id.
	e.POST("/get-auth-id", a.AuthID)

	// Landing point of the emailed verification link.  Redirects to the
	// web client with either a message or an error query parameter.
	e.GET("/verify-email", v.Verify)
	// Rotates the pending token and queues a fresh verification mail.
	e.POST("/resend-verification", v.Resend)
}
