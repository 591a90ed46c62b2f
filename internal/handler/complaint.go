package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locmanager/locmanager/internal/identity"
	"github.com/locmanager/locmanager/internal/repository"
)

// ComplaintHandler covers filing, listing and resolving complaints.
type ComplaintHandler struct {
	Complaints *repository.ComplaintRepo
}

func NewComplaintHandler(repo *repository.ComplaintRepo) *ComplaintHandler {
	return &ComplaintHandler{Complaints: repo}
}

// Raise: POST /raisingcomplaint {desc, blockno, roomno}.
func (h *ComplaintHandler) Raise(c echo.Context) error {
	var req struct {
		Desc    string `json:"desc"`
		BlockNo int64  `json:"blockno"`
		RoomNo  int64  `json:"roomno"`
	}
	if err := c.Bind(&req); err != nil || req.Desc == "" || req.BlockNo == 0 || req.RoomNo == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing desc, blockno or roomno in request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Complaints.Register(ctx, req.Desc, req.BlockNo, req.RoomNo); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Erreur serveur lors de l'enregistrement de la plainte"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Plainte enregistrée avec succès"})
}

// View: GET /viewcomplaints. Every open complaint, for admins and
// employees.
func (h *ComplaintHandler) View(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	complaints, err := h.Complaints.All(ctx)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, complaints)
}

// OwnerComplaints: POST /ownercomplaints. Complaints on the caller's
// rooms.
func (h *ComplaintHandler) OwnerComplaints(c echo.Context) error {
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

	complaints, err := h.Complaints.ForOwner(ctx, uid.Num)
	if err != nil {
		return serverError(c, err)
	}
	if complaints == nil {
		complaints = []repository.OwnerComplaint{}
	}
	return c.JSON(http.StatusOK, complaints)
}

// Resolve: POST /deletecomplaint {id}. Clears the complaint on a room
// and marks it handled.
func (h *ComplaintHandler) Resolve(c echo.Context) error {
	var req struct {
		ID int64 `json:"id"`
	}
	if err := c.Bind(&req); err != nil || req.ID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing id in request body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Complaints.Resolve(ctx, req.ID); err != nil {
		return serverError(c, err)
	}
	return c.NoContent(http.StatusOK)
}
