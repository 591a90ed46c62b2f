package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/locmanager/locmanager/internal/profile"
	"github.com/locmanager/locmanager/internal/queue"
)

// SupportHandler forwards the support form to the mail queue.
type SupportHandler struct {
	Publisher profile.Publisher
}

func NewSupportHandler(pub profile.Publisher) *SupportHandler {
	return &SupportHandler{Publisher: pub}
}

// Send: POST /send-support-message.
func (h *SupportHandler) Send(c echo.Context) error {
	var req struct {
		UserID   string `json:"userId"`
		UserType string `json:"userType"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		Subject  string `json:"subject"`
		Message  string `json:"message"`
	}
	if err := c.Bind(&req); err != nil ||
		req.UserID == "" || req.UserType == "" || req.Name == "" ||
		req.Email == "" || req.Subject == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Tous les champs sont requis"})
	}
	if !accountEmailRe.MatchString(req.Email) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Adresse e-mail invalide"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	event := queue.EmailRequested{
		Kind:        queue.EmailKindSupport,
		UserID:      req.UserID,
		UserType:    req.UserType,
		FromName:    req.Name,
		FromEmail:   req.Email,
		Subject:     req.Subject,
		Message:     req.Message,
		RequestedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := h.Publisher.PublishEmailRequested(ctx, event); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Échec de l'envoi du message. Veuillez réessayer plus tard."})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Message envoyé avec succès"})
}
