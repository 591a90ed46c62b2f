package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/locmanager/locmanager/internal/identity"
	"github.com/locmanager/locmanager/internal/profile"
	"github.com/locmanager/locmanager/internal/queue"
	"github.com/locmanager/locmanager/internal/repository"
)

var accountEmailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AccountHandler provisions and removes accounts. Creation commits the
// profile row, the credential and the verification token in one
// transaction, then queues the verification mail; a broken relay never
// undoes an account.
type AccountHandler struct {
	Accounts  *repository.AccountRepo
	Publisher profile.Publisher
}

func NewAccountHandler(accounts *repository.AccountRepo, pub profile.Publisher) *AccountHandler {
	return &AccountHandler{Accounts: accounts, Publisher: pub}
}

func (h *AccountHandler) queueVerification(ctx context.Context, uid identity.UserID, email, token string) {
	ev := queue.EmailRequested{
		Kind:        queue.EmailKindVerification,
		To:          email,
		UserID:      uid.String(),
		UserType:    string(uid.Role),
		Token:       token,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Publisher.PublishEmailRequested(ctx, ev); err != nil {
		log.Printf("account: publish verification mail for %s failed: %v", uid, err)
	}
}

type createOwnerReq struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Age             int64  `json:"age"`
	RoomNo          int64  `json:"roomno"`
	Password        string `json:"password"`
	AggrementStatus string `json:"aggrementStatus"`
	DOB             string `json:"dob"`
}

// CreateOwner: POST /createowner.
func (h *AccountHandler) CreateOwner(c echo.Context) error {
	var req createOwnerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required fields"})
	}
	if req.Name == "" || req.Email == "" || req.Age == 0 || req.RoomNo == 0 ||
		req.Password == "" || req.AggrementStatus == "" || req.DOB == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required fields"})
	}
	if !accountEmailRe.MatchString(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid email address"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	token := uuid.NewString()
	id, err := h.Accounts.CreateOwner(ctx, repository.NewOwner{
		Name:            req.Name,
		Email:           req.Email,
		Age:             req.Age,
		RoomNo:          req.RoomNo,
		AggrementStatus: req.AggrementStatus,
		DOB:             req.DOB,
		Password:        req.Password,
	}, token)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Email already exists"})
		case errors.Is(err, repository.ErrRoomUnavailable):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Room number not available"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to create owner: " + err.Error()})
		}
	}

	uid := identity.UserID{Role: identity.RoleOwner, Num: id}
	h.queueVerification(ctx, uid, req.Email, token)

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Owner created successfully. Please verify your email.",
		"userId":  uid.String(),
	})
}

type createTenantReq struct {
	Name      string  `json:"name"`
	Age       int64   `json:"age"`
	RoomNo    int64   `json:"roomno"`
	Password  string  `json:"password"`
	DOB       string  `json:"dob"`
	ProofID   string  `json:"ID"`
	Stat      string  `json:"stat"`
	LeaveDate *string `json:"leaveDate"`
	Email     string  `json:"email"`
}

// CreateTenant: POST /createtenant.
func (h *AccountHandler) CreateTenant(c echo.Context) error {
	var req createTenantReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required fields, including email"})
	}
	if req.Name == "" || req.RoomNo == 0 || req.Password == "" || req.DOB == "" ||
		req.ProofID == "" || req.Stat == "" || req.Age == 0 || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required fields, including email"})
	}
	if !accountEmailRe.MatchString(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid email address"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	token := uuid.NewString()
	id, err := h.Accounts.CreateTenant(ctx, repository.NewTenant{
		Name:      req.Name,
		DOB:       req.DOB,
		Stat:      req.Stat,
		LeaveDate: req.LeaveDate,
		RoomNo:    req.RoomNo,
		Age:       req.Age,
		Email:     req.Email,
		Password:  req.Password,
		ProofID:   req.ProofID,
	}, token)
	if err != nil {
		if errors.Is(err, repository.ErrNoOwnerForRoom) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": fmt.Sprintf("No owner found for room number %d", req.RoomNo)})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Erreur serveur lors de la création du locataire: " + err.Error()})
	}

	uid := identity.UserID{Role: identity.RoleTenant, Num: id}
	h.queueVerification(ctx, uid, req.Email, token)

	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Tenant created successfully. Please verify your email.",
		"tenant_id": id,
		"user_id":   uid.String(),
	})
}

func (h *AccountHandler) deleteByUserID(c echo.Context, del func(context.Context, int64) error) error {
	var req userIDReq
	if err := c.Bind(&req); err != nil || req.UserID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing userId in request body"})
	}
	uid, err := identity.Decode(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid userId format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := del(ctx, uid.Num); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		return serverError(c, err)
	}
	return c.NoContent(http.StatusOK)
}

// DeleteTenant: POST /deletetenant.
func (h *AccountHandler) DeleteTenant(c echo.Context) error {
	return h.deleteByUserID(c, h.Accounts.DeleteTenant)
}

// DeleteOwner: POST /deleteowner.
func (h *AccountHandler) DeleteOwner(c echo.Context) error {
	return h.deleteByUserID(c, h.Accounts.DeleteOwner)
}

// DeleteEmployee: POST /deletemployee.
func (h *AccountHandler) DeleteEmployee(c echo.Context) error {
	return h.deleteByUserID(c, h.Accounts.DeleteEmployee)
}

// DeleteUser: DELETE /delete-user. Management portal removal; takes a
// bare numeric id plus an explicit userType.
func (h *AccountHandler) DeleteUser(c echo.Context) error {
	var req struct {
		UserID   string `json:"userId"`
		UserType string `json:"userType"`
	}
	if err := c.Bind(&req); err != nil || req.UserID == "" || req.UserType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "User ID and type are required"})
	}
	uid, err := identity.Decode(req.UserID)
	if err != nil || fmt.Sprint(uid.Num) != req.UserID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "User ID must be a valid positive integer"})
	}
	role, err := identity.ParseRole(req.UserType)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid userType"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Accounts.DeleteProfileRow(ctx, role, uid.Num); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "User deleted successfully"})
}
