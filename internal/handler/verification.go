package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locmanager/locmanager/internal/identity"
	"github.com/locmanager/locmanager/internal/repository"
	"github.com/locmanager/locmanager/internal/verification"
)

// VerificationHandler serves the verification link and the resend
// endpoint.
type VerificationHandler struct {
	Verification *verification.Service
	FrontendURL  string
}

func NewVerificationHandler(v *verification.Service, frontendURL string) *VerificationHandler {
	return &VerificationHandler{Verification: v, FrontendURL: frontendURL}
}

func (h *VerificationHandler) redirectMessage(c echo.Context, msg string) error {
	return c.Redirect(http.StatusFound, h.FrontendURL+"/verified?message="+url.QueryEscape(msg))
}

func (h *VerificationHandler) redirectError(c echo.Context, msg string) error {
	return c.Redirect(http.StatusFound, h.FrontendURL+"/verified?error="+url.QueryEscape(msg))
}

// Verify: GET /verify-email?userId&userType&token. The link lands in a
// mail client, so every outcome is a redirect to the frontend landing
// page rather than a JSON body.
func (h *VerificationHandler) Verify(c echo.Context) error {
	userID := c.QueryParam("userId")
	userType := c.QueryParam("userType")
	token := c.QueryParam("token")

	if userID == "" || userType == "" || token == "" {
		return h.redirectError(c, "Missing required query parameters")
	}
	role, err := identity.ParseRole(userType)
	if err != nil {
		return h.redirectError(c, "Invalid userType")
	}
	decoded, err := identity.Decode(userID)
	if err != nil {
		return h.redirectError(c, "Invalid userId format")
	}
	uid := identity.UserID{Role: role, Num: decoded.Num}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	verified, err := h.Verification.Verified(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return h.redirectError(c, "Utilisateur non trouvé dans la table correspondante")
		}
		return h.redirectError(c, "Server error: "+err.Error())
	}
	if verified {
		return h.redirectMessage(c, "Email already verified")
	}

	if err := h.Verification.Consume(ctx, uid, token); err != nil {
		if errors.Is(err, repository.ErrInvalidToken) {
			return h.redirectError(c, "Invalid or expired verification token")
		}
		if errors.Is(err, repository.ErrNotFound) {
			return h.redirectError(c, "Utilisateur non trouvé dans la table correspondante")
		}
		return h.redirectError(c, "Server error: "+err.Error())
	}
	return h.redirectMessage(c, "Email verified successfully")
}

// Resend: POST /resend-verification {userId, userType}.
func (h *VerificationHandler) Resend(c echo.Context) error {
	var req struct {
		UserID   string `json:"userId"`
		UserType string `json:"userType"`
	}
	if err := c.Bind(&req); err != nil || req.UserID == "" || req.UserType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing userId or userType"})
	}
	role, err := identity.ParseRole(req.UserType)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid userType"})
	}
	decoded, err := identity.Decode(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid userId format"})
	}
	uid := identity.UserID{Role: role, Num: decoded.Num}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Verification.Resend(ctx, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyVerified):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email is already verified"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error: " + err.Error()})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Verification email resent successfully"})
}
