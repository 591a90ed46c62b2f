package router

import (
	"github.com/labstack/echo/v4"

	"github.com/locmanager/locmanager/internal/handler"
	"github.com/locmanager/locmanager/internal/middleware" // whom-header role gate
)

// RegisterProperty wires room, block and parking endpoints.
func RegisterProperty(e *echo.Echo, p *handler.PropertyHandler) {
	e.POST("/viewparking", p.ViewParking)
	e.POST("/bookslot", p.BookSlot)
	e.GET("/available-parking-slots", p.AvailableParkingSlots)
	e.GET("/available-rooms", p.AvailableRooms)
	e.GET("/occupied-rooms", p.OccupiedRooms)
	e.GET("/available-blocks", p.AvailableBlocks)
	e.POST("/block", p.BlockByRoom)
	e.POST("/ownerroomdetails", p.OwnerRoomDetails)
}

// RegisterComplaints wires complaint filing and resolution.
func RegisterComplaints(e *echo.Echo, h *handler.ComplaintHandler) {
	e.POST("/raisingcomplaint", h.Raise)
	e.GET("/viewcomplaints", h.View)
	e.POST("/ownercomplaints", h.OwnerComplaints)
	e.POST("/deletecomplaint", h.Resolve)
}

// RegisterMaintenance wires the maintenance request lifecycle.  Status
// updates are restricted to staff roles through the whom header.
func RegisterMaintenance(e *echo.Echo, h *handler.MaintenanceHandler) {
	e.POST("/submitmaintenancerequest", h.Submit)
	e.POST("/maintenancerequests", h.List)
	e.POST("/pendingtasks", h.PendingTasks)

	// Only admins, owners and employees may move a request through its
	// lifecycle; tenants are turned away with a 403.
	e.PUT("/updatemaintenancerequest/:id", h.UpdateStatus,
		middleware.RequireUserType(
			"Seuls les administrateurs, propriétaires ou employés peuvent mettre à jour les demandes de maintenance.",
			"admin", "owner", "employee",
		))
}

// RegisterPayments wires rent settlement.
func RegisterPayments(e *echo.Echo, h *handler.PaymentHandler) {
	e.POST("/paymaintanance", h.Pay)
	e.POST("/paymentstatus", h.Status)
}

// RegisterDashboards wires the per-role dashboards and the admin
// statistics endpoints.
func RegisterDashboards(e *echo.Echo, h *handler.DashboardHandler) {
	d := e.Group("/dashboard")
	d.POST("/admin", h.Admin)
	d.POST("/owner", h.Owner)
	d.POST("/tenant", h.Tenant)
	d.POST("/employee", h.Employee)

	e.POST("/tenantoverview", h.TenantOverview)
	e.POST("/recentactivities", h.RecentActivities)
	e.GET("/quickstats", h.QuickStats)
	e.GET("/systemstatus", h.SystemStatus)
	e.GET("/systemalerts", h.SystemAlerts)
	e.GET("/analytics", h.Analytics)
	e.GET("/stats-history", h.StatsHistory)
	e.GET("/all-users", h.AllUsers)
}

// RegisterNotifications wires notifications and internal messaging.
func RegisterNotifications(e *echo.Echo, h *handler.NotificationHandler) {
	e.POST("/notifications", h.Recent)
	e.POST("/sendmessage", h.Send)
	e.GET("/usersformessaging", h.Recipients)
}

// RegisterSupport wires the support contact form.
func RegisterSupport(e *echo.Echo, h *handler.SupportHandler) {
	e.POST("/send-support-message", h.Send)
}
