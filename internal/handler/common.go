package handler // handler defines http handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// serverError reports a storage failure the French way the client
// expects everywhere.
func serverError(c echo.Context, err error) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Erreur serveur: " + err.Error()})
}

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems to verify that the service is running.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
