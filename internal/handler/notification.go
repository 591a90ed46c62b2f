package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locmanager/locmanager/internal/identity"
	"github.com/locmanager/locmanager/internal/repository"
)

// NotificationHandler serves notifications and internal messaging.
type NotificationHandler struct {
	Notifications *repository.NotificationRepo
}

func NewNotificationHandler(repo *repository.NotificationRepo) *NotificationHandler {
	return &NotificationHandler{Notifications: repo}
}

// Recent: POST /notifications. Admins see the five latest rows across
// all users, everyone else their own.
func (h *NotificationHandler) Recent(c echo.Context) error {
	var req struct {
		UserID   string `json:"userId"`
		UserType string `json:"userType"`
	}
	if err := c.Bind(&req); err != nil || req.UserID == "" || req.UserType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing userId or userType in request body"})
	}
	role, err := identity.ParseRole(req.UserType)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid userType"})
	}
	uid, err := identity.Decode(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid userId format"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	notifications, err := h.Notifications.Recent(ctx, uid.Num, role)
	if err != nil {
		return serverError(c, err)
	}
	if notifications == nil {
		notifications = []repository.Notification{}
	}
	return c.JSON(http.StatusOK, notifications)
}

// Send: POST /sendmessage.
func (h *NotificationHandler) Send(c echo.Context) error {
	var msg repository.Message
	if err := c.Bind(&msg); err != nil ||
		msg.SenderID == 0 || msg.SenderType == "" ||
		msg.ReceiverID == 0 || msg.ReceiverType == "" ||
		msg.Subject == "" || msg.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required fields"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	id, err := h.Notifications.SendMessage(ctx, msg)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Message sent successfully", "messageId": id})
}

// Recipients: GET /usersformessaging.
func (h *NotificationHandler) Recipients(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Notifications.UsersForMessaging(ctx)
	if err != nil {
		return serverError(c, err)
	}
	if users == nil {
		users = []repository.Recipient{}
	}
	return c.JSON(http.StatusOK, users)
}
