package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locmanager/locmanager/internal/identity"
	"github.com/locmanager/locmanager/internal/repository"
)

// MaintenanceHandler exposes the maintenance request lifecycle.
type MaintenanceHandler struct {
	Requests *repository.MaintenanceRepo
	Profiles *repository.ProfileRepo
}

func NewMaintenanceHandler(requests *repository.MaintenanceRepo, profiles *repository.ProfileRepo) *MaintenanceHandler {
	return &MaintenanceHandler{Requests: requests, Profiles: profiles}
}

// Submit: POST /submitmaintenancerequest.
func (h *MaintenanceHandler) Submit(c echo.Context) error {
	var req struct {
		UserID      string `json:"userId"`
		UserType    string `json:"userType"`
		RoomNo      int64  `json:"room_no"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil || req.UserID == "" || req.UserType == "" || req.RoomNo == 0 || req.Description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required fields: userId, userType, room_no, description"})
	}

	role, err := identity.ParseRole(req.UserType)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid userType"})
	}
	uid, err := identity.Decode(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid userId format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := h.Requests.Submit(ctx, uid.Num, role, req.RoomNo, req.Description)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Maintenance request submitted successfully",
		"requestId": id,
	})
}

// List: POST /maintenancerequests. Tenants see their own requests,
// owners see requests on their rooms. Paged.
func (h *MaintenanceHandler) List(c echo.Context) error {
	var req struct {
		UserID   string `json:"userId"`
		UserType string `json:"userType"`
		Page     int    `json:"page"`
		Limit    int    `json:"limit"`
	}
	if err := c.Bind(&req); err != nil || req.UserID == "" || req.UserType == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Utilisateur non connecté."})
	}

	role, err := identity.ParseRole(req.UserType)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Type d'utilisateur invalide."})
	}
	uid, err := identity.Decode(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Format de userId invalide."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	requests, err := h.Requests.List(ctx, uid.Num, role, req.Page, req.Limit)
	if err != nil {
		return serverError(c, err)
	}
	if requests == nil {
		requests = []repository.Request{}
	}
	return c.JSON(http.StatusOK, requests)
}

// UpdateStatus: PUT /updatemaintenancerequest/:id. Caller role is
// enforced by the whom middleware on the route.
func (h *MaintenanceHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Identifiant de demande invalide."})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Corps de requête invalide."})
	}
	switch req.Status {
	case "pending", "in_progress", "resolved":
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Statut invalide. Les valeurs autorisées sont : 'pending', 'in_progress', 'resolved'."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Requests.UpdateStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Demande de maintenance non trouvée."})
		}
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Statut de la demande mis à jour avec succès."})
}

// PendingTasks: POST /pendingtasks. Open requests in the block the
// employee is assigned to.
func (h *MaintenanceHandler) PendingTasks(c echo.Context) error {
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

	emp, err := h.Profiles.GetEmployee(ctx, uid.Num)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf("Employee not found for emp_id: %d", uid.Num)})
		}
		return serverError(c, err)
	}
	if emp.BlockNo == nil {
		return c.JSON(http.StatusOK, []repository.Request{})
	}

	tasks, err := h.Requests.PendingForBlock(ctx, *emp.BlockNo)
	if err != nil {
		return serverError(c, err)
	}
	if tasks == nil {
		tasks = []repository.Request{}
	}
	return c.JSON(http.StatusOK, tasks)
}
