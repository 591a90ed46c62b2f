package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locmanager/locmanager/internal/identity"
	"github.com/locmanager/locmanager/internal/profile"
	"github.com/locmanager/locmanager/internal/repository"
)

// ProfileHandler serves the profile update workflow and the per-role
// detail reads.
type ProfileHandler struct {
	Profile  *profile.Service
	Profiles *repository.ProfileRepo
}

func NewProfileHandler(svc *profile.Service, repo *repository.ProfileRepo) *ProfileHandler {
	return &ProfileHandler{Profile: svc, Profiles: repo}
}

type updateProfileReq struct {
	UserID          string  `json:"userId"`
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	RoomNo          *int64  `json:"room_no"`
	Age             *int64  `json:"age"`
	DOB             *string `json:"dob"`
	BlockNo         *string `json:"block_no"`
	Password        *string `json:"password"`
	ConfirmPassword *string `json:"confirmPassword"`
}

func notFoundMessage(role identity.Role) string {
	switch role {
	case identity.RoleAdmin:
		return "Administrateur non trouvé."
	case identity.RoleTenant:
		return "Locataire non trouvé."
	case identity.RoleOwner:
		return "Propriétaire non trouvé."
	case identity.RoleEmployee:
		return "Employé non trouvé avec cet emp_id."
	default:
		return "Utilisateur non trouvé."
	}
}

// Update: PUT /updateprofile/:userType. Every present field is
// validated before anything is written; a rejected update leaves the
// row untouched.
func (h *ProfileHandler) Update(c echo.Context) error {
	role, err := identity.ParseRole(strings.ToLower(c.Param("userType")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Type d'utilisateur invalide."})
	}

	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Corps de requête invalide."})
	}
	if req.UserID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing userId in request body"})
	}
	decoded, err := identity.Decode(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid userId format"})
	}
	uid := identity.UserID{Role: role, Num: decoded.Num}

	upd := profile.Update{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		RoomNo:          req.RoomNo,
		Age:             req.Age,
		DOB:             req.DOB,
		BlockNo:         req.BlockNo,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Profile.Update(ctx, uid, upd); err != nil {
		var verr *profile.ValidationError
		switch {
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error()})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": notFoundMessage(role)})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Erreur lors de la mise à jour du profil: " + err.Error()})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Profil mis à jour avec succès. Veuillez vérifier votre nouvelle adresse e-mail si elle a été modifiée."})
}

// Owner: POST /owner. Single owner summary wrapped in an owner key.
func (h *ProfileHandler) Owner(c echo.Context) error {
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

	owner, err := h.Profiles.GetOwner(ctx, uid.Num)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Owner not found"})
		}
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"owner": owner})
}

// Tenant: POST /tenant. The client expects an array with one element.
func (h *ProfileHandler) Tenant(c echo.Context) error {
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

	tenant, err := h.Profiles.GetTenant(ctx, uid.Num)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Tenant not found"})
		}
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, []repository.Tenant{tenant})
}

// BlockAdmin: POST /block_admin.
func (h *ProfileHandler) BlockAdmin(c echo.Context) error {
	var req struct {
		AdminID int64 `json:"admin_id"`
	}
	if err := c.Bind(&req); err != nil || req.AdminID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing admin_id in request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	admin, err := h.Profiles.GetAdmin(ctx, req.AdminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Admin not found"})
		}
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, admin)
}

// TenantDetails: GET /tenantdetails.
func (h *ProfileHandler) TenantDetails(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tenants, err := h.Profiles.ListTenants(ctx)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, tenants)
}

// OwnerDetails: GET /ownerdetails.
func (h *ProfileHandler) OwnerDetails(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	owners, err := h.Profiles.ListOwners(ctx)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, owners)
}

// EmployeeDetails: GET /employee.
func (h *ProfileHandler) EmployeeDetails(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	employees, err := h.Profiles.ListEmployees(ctx)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, employees)
}

// OwnerTenantDetails: POST /ownertenantdetails. The tenants renting
// the caller's rooms.
func (h *ProfileHandler) OwnerTenantDetails(c echo.Context) error {
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

	tenants, err := h.Profiles.TenantsOfOwner(ctx, uid.Num)
	if err != nil {
		return serverError(c, err)
	}
	if tenants == nil {
		tenants = []repository.Tenant{}
	}
	return c.JSON(http.StatusOK, tenants)
}
