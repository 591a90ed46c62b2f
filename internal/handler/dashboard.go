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

// DashboardHandler aggregates the per-role dashboards and the admin
// statistics endpoints.
type DashboardHandler struct {
	Profiles   *repository.ProfileRepo
	Stats      *repository.StatsRepo
	Complaints *repository.ComplaintRepo
	Activities *repository.ActivityRepo
	Property   *repository.PropertyRepo

	startedAt time.Time
}

func NewDashboardHandler(profiles *repository.ProfileRepo, stats *repository.StatsRepo, complaints *repository.ComplaintRepo, activities *repository.ActivityRepo, property *repository.PropertyRepo) *DashboardHandler {
	return &DashboardHandler{
		Profiles:   profiles,
		Stats:      stats,
		Complaints: complaints,
		Activities: activities,
		Property:   property,
		startedAt:  time.Now(),
	}
}

// bindUserID reads the userId body field. On failure the 400 response
// is already written and ok is false.
func bindUserID(c echo.Context) (uid identity.UserID, ok bool) {
	var req userIDReq
	if err := c.Bind(&req); err != nil || req.UserID == "" {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing userId in request body"})
		return identity.UserID{}, false
	}
	uid, err := identity.Decode(req.UserID)
	if err != nil {
		_ = c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid userId format"})
		return identity.UserID{}, false
	}
	return uid, true
}

// Admin: POST /dashboard/admin.
func (h *DashboardHandler) Admin(c echo.Context) error {
	if _, ok := bindUserID(c); !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	overview, err := h.Stats.AdminOverview(ctx)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, overview)
}

// Owner: POST /dashboard/owner. Owner row plus the open complaint
// total.
func (h *DashboardHandler) Owner(c echo.Context) error {
	uid, ok := bindUserID(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	owner, err := h.Profiles.GetOwner(ctx, uid.Num)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf("Owner not found for userId: %d", uid.Num)})
		}
		return serverError(c, err)
	}
	total, err := h.Complaints.CountOpen(ctx)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"owner": owner, "totalcomplaint": total})
}

// Tenant: POST /dashboard/tenant.
func (h *DashboardHandler) Tenant(c echo.Context) error {
	uid, ok := bindUserID(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tenant, err := h.Profiles.GetTenant(ctx, uid.Num)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": fmt.Sprintf("Tenant not found for userId: %d", uid.Num)})
		}
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, []repository.Tenant{tenant})
}

// Employee: POST /dashboard/employee. Employee row widened with the
// block name and the open complaint total.
func (h *DashboardHandler) Employee(c echo.Context) error {
	uid, ok := bindUserID(c)
	if !ok {
		return nil
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

	blockName := "Inconnu"
	if emp.BlockNo != nil {
		if name, err := h.Property.BlockName(ctx, *emp.BlockNo); err == nil && name != nil {
			blockName = *name
		}
	}
	total, err := h.Complaints.CountOpen(ctx)
	if err != nil {
		return serverError(c, err)
	}

	email := ""
	if emp.Email != nil {
		email = *emp.Email
	}
	return c.JSON(http.StatusOK, echo.Map{
		"emp_name":          emp.EmpName,
		"salary":            emp.Salary,
		"block_no":          emp.BlockNo,
		"block_name":        blockName,
		"email":             email,
		"is_email_verified": emp.IsEmailVerified,
		"totalcomplaint":    total,
	})
}

// TenantOverview: POST /tenantoverview. Lease totals for one owner.
func (h *DashboardHandler) TenantOverview(c echo.Context) error {
	uid, ok := bindUserID(c)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	overview, err := h.Stats.TenantOverview(ctx, uid.Num)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, overview)
}

// RecentActivities: POST /recentactivities. Admins see the whole log,
// everyone else their own rows.
func (h *DashboardHandler) RecentActivities(c echo.Context) error {
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

	activities, err := h.Activities.Recent(ctx, uid.Num, role)
	if err != nil {
		return serverError(c, err)
	}
	if activities == nil {
		activities = []repository.Activity{}
	}
	return c.JSON(http.StatusOK, activities)
}

// QuickStats: GET /quickstats.
func (h *DashboardHandler) QuickStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	stats, err := h.Stats.QuickStats(ctx)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// SystemStatus: GET /systemstatus. Uptime here is the share of time
// since the 2025-01-01 epoch the process has not been down, capped at
// 99.9%.
func (h *DashboardHandler) SystemStatus(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	epoch := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	total := time.Since(epoch).Seconds()
	running := time.Since(h.startedAt).Seconds()
	pct := (total - running) / total * 100
	if pct > 99.9 {
		pct = 99.9
	}
	uptime := fmt.Sprintf("%.1f%%", pct)

	activeUsers, err := h.Stats.ActiveUsersLast24h(ctx)
	if err != nil {
		return serverError(c, err)
	}
	alerts, err := h.Stats.UnresolvedAlerts(ctx)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"uptime":      uptime,
		"activeUsers": activeUsers,
		"alerts":      alerts,
	})
}

// SystemAlerts: GET /systemalerts.
func (h *DashboardHandler) SystemAlerts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	alerts, err := h.Stats.UnresolvedAlerts(ctx)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"alerts": alerts})
}

// Analytics: GET /analytics.
func (h *DashboardHandler) Analytics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	analytics, err := h.Stats.Analytics(ctx)
	if err != nil {
		return serverError(c, err)
	}
	return c.JSON(http.StatusOK, analytics)
}

// StatsHistory: GET /stats-history.
func (h *DashboardHandler) StatsHistory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	points, err := h.Stats.StatsHistory(ctx)
	if err != nil {
		return serverError(c, err)
	}
	if points == nil {
		points = []repository.StatsPoint{}
	}
	return c.JSON(http.StatusOK, points)
}

// AllUsers: GET /all-users.
func (h *DashboardHandler) AllUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Stats.AllUsers(ctx)
	if err != nil {
		return serverError(c, err)
	}
	if users == nil {
		users = []repository.AccountSummary{}
	}
	return c.JSON(http.StatusOK, users)
}
