package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locmanager/locmanager/internal/auth"
	"github.com/locmanager/locmanager/internal/identity"
	"github.com/locmanager/locmanager/internal/repository"
)

// AuthHandler bundles dependencies for login and logout endpoints.
type AuthHandler struct {
	Auth       *auth.Service
	Activities *repository.ActivityRepo
}

func NewAuthHandler(a *auth.Service, acts *repository.ActivityRepo) *AuthHandler {
	return &AuthHandler{Auth: a, Activities: acts}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userIDReq struct {
	UserID string `json:"userId"`
}

// Login: POST /auth. A wrong password answers 200 with access denied;
// only malformed input, missing rows and unverified email are errors.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Nom d'utilisateur et mot de passe requis"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Nom d'utilisateur et mot de passe requis"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Auth.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidFormat):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid user type"})
		case errors.Is(err, auth.ErrEmailNotVerified):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "Veuillez vérifier votre adresse e-mail avant de vous connecter."})
		case errors.Is(err, repository.ErrNotFound):
			role := identity.RoleFromUsername(req.Username)
			return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf("Utilisateur %s non trouvé dans la table correspondante", role)})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Erreur serveur lors de l'authentification"})
		}
	}

	if res.Access == "denied" {
		return c.JSON(http.StatusOK, echo.Map{"access": "denied", "user": res.Role})
	}

	body := echo.Map{
		"access":   res.Access,
		"user":     res.Role,
		"userType": res.Role,
		"username": res.Username,
	}
	if res.Role == identity.RoleAdmin {
		body["adminId"] = res.AdminID
	}
	return c.JSON(http.StatusOK, body)
}

// Logout: POST /logout. Records the logout in the audit trail; there
// is no server-side session to destroy.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req userIDReq
	if err := c.Bind(&req); err != nil || req.UserID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing userId in request body"})
	}
	uid, err := identity.Decode(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid userId format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Activities.Record(ctx, uid.Num, repository.ActionLogout); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Erreur serveur lors de la déconnexion"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Déconnexion réussie"})
}

// AuthID: POST /get-auth-id. Strips the role prefix off a compound id.
func (h *AuthHandler) AuthID(c echo.Context) error {
	var req userIDReq
	if err := c.Bind(&req); err != nil || req.UserID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing userId in request body"})
	}
	uid, err := identity.Decode(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid userId format"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": uid.Num})
}
