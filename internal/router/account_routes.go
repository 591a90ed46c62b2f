package router

import (
	"github.com/labstack/echo/v4"

	"github.com/locmanager/locmanager/internal/handler" // account and profile handlers
)

// RegisterAccounts wires account creation and deletion.  Creation
// endpoints open the email-verification flow for the new account;
// deletion endpoints cascade over the credential and identity rows.
func RegisterAccounts(e *echo.Echo, a *handler.AccountHandler) {
	// Owner onboarding: profile row, credential row and verification mail
	// in one transaction-backed call.
	e.POST("/createowner", a.CreateOwner)
	// Tenant onboarding additionally links the tenant to the owner of the
	// room being rented.
	e.POST("/createtenant", a.CreateTenant)

	// Cascading removals keyed by compound user id.
	e.POST("/deletetenant", a.DeleteTenant)
	e.POST("/deleteowner", a.DeleteOwner)
	e.POST("/deletemployee", a.DeleteEmployee)

	// Management-portal removal keyed by bare numeric id plus userType.
	e.DELETE("/delete-user", a.DeleteUser)
}

// RegisterProfiles wires profile reads and the profile-update workflow.
func RegisterProfiles(e *echo.Echo, p *handler.ProfileHandler) {
	// Single-profile lookups keyed by compound user id in the body.
	e.POST("/owner", p.Owner)
	e.POST("/tenant", p.Tenant)
	e.POST("/block_admin", p.BlockAdmin)

	// Table views used by the admin screens.
	e.GET("/tenantdetails", p.TenantDetails)
	e.GET("/ownerdetails", p.OwnerDetails)
	e.GET("/employee", p.EmployeeDetails)

	// Tenants of one owner.
	e.POST("/ownertenantdetails", p.OwnerTenantDetails)

	// Validated partial update; an email change re-arms verification.
	e.PUT("/updateprofile/:userType", p.Update)
}
