package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locmanager/locmanager/internal/identity"
	"github.com/locmanager/locmanager/internal/repository"
)

// PaymentHandler covers tenant rent settlement.
type PaymentHandler struct {
	Payments   *repository.PaymentRepo
	Activities *repository.ActivityRepo
}

func NewPaymentHandler(payments *repository.PaymentRepo, activities *repository.ActivityRepo) *PaymentHandler {
	return &PaymentHandler{Payments: payments, Activities: activities}
}

// Pay: POST /paymaintanance. Settles the caller's rent and records
// the payment in the activity log.
func (h *PaymentHandler) Pay(c echo.Context) error {
	var req userIDReq
	if err := c.Bind(&req); err != nil || req.UserID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing userId in request body"})
	}
	uid, err := identity.Decode(req.UserID)
	if err != nil || uid.Role != identity.RoleTenant {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid userId format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Payments.MarkPaid(ctx, uid.Num); err != nil {
		return serverError(c, err)
	}
	if err := h.Activities.Record(ctx, uid.Num, repository.ActionMaintenancePaid); err != nil {
		c.Logger().Errorf("activity record failed: %v", err)
	}
	return c.NoContent(http.StatusOK)
}

// Status: POST /paymentstatus.
func (h *PaymentHandler) Status(c echo.Context) error {
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

	status, err := h.Payments.Status(ctx, uid.Num)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf("Payment status not found for userId: %d", uid.Num)})
		}
		return serverError(c, err)
	}

	state := "overdue"
	amountDue := 1000
	if status.Status != nil && *status.Status == repository.StatPaid {
		state = "paid"
		amountDue = 0
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":          state,
		"amountDue":       amountDue,
		"nextPaymentDate": status.DueDate,
	})
}
