// Package session holds the client-side session contract: which role
// owns which route namespace, and which navigation menu each role sees.
package session

import (
	"strings"

	"github.com/locmanager/locmanager/internal/identity"
)

// Session is the per-request identity the client replays with every
// call. It is not a server-side state: the server derives it from the
// request and never stores it.
type Session struct {
	UserType identity.Role `json:"userType"`
	Username string        `json:"username"`
	AdminID  int64         `json:"adminId,omitempty"`
}

// Routes every role may visit. The empty segment is the landing page.
var sharedRoutes = []string{"", "profile", "verified", "user-manual", "support", "management-portal"}

func isShared(segment string) bool {
	for _, r := range sharedRoutes {
		if segment == r {
			return true
		}
	}
	return false
}

// RedirectTarget decides whether a path belongs to the session's role.
// A path whose leading segment names another role's namespace redirects
// to the session's own dashboard. Shared routes and anonymous visitors
// are never redirected.
func RedirectTarget(path string, s *Session) (string, bool) {
	if s == nil || s.UserType == identity.RoleUnknown {
		return "", false
	}
	segment, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if isShared(segment) || segment == string(s.UserType) {
		return "", false
	}
	return "/" + string(s.UserType), true
}

// MenuItem is one navigation entry.
type MenuItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

var (
	menuAdmin = []MenuItem{
		{Label: "Accueil", Path: "home"},
		{Label: "Détails des locataires", Path: "tenantdetails"},
		{Label: "Détails des propriétaires", Path: "ownerdetails"},
		{Label: "Créer un propriétaire", Path: "createowner"},
		{Label: "Attribution d'une place de parking", Path: "allottingparkingslot"},
		{Label: "Plaintes", Path: "complaints"},
		{Label: "Demandes de maintenance", Path: "maintenancerequests"},
		{Label: "Modifier le profil", Path: "/profile/edit"},
	}
	menuEmployee = []MenuItem{
		{Label: "Accueil", Path: "home"},
		{Label: "Plaintes", Path: "complaints"},
		{Label: "Demandes de maintenance", Path: "maintenancerequests"},
		{Label: "Modifier le profil", Path: "/profile/edit"},
	}
	menuTenant = []MenuItem{
		{Label: "Accueil", Path: "home"},
		{Label: "Déposer une plainte", Path: "raisingcomplaints"},
		{Label: "Place de parking attribuée", Path: "allotedparkingslot"},
		{Label: "Payer l'entretien", Path: "paymaintenance"},
		{Label: "Modifier le profil", Path: "/profile/edit"},
	}
	menuOwner = []MenuItem{
		{Label: "Accueil", Path: "home"},
		{Label: "Détails des locataires", Path: "tenantdetails"},
		{Label: "Plainte", Path: "complaint"},
		{Label: "Créer un locataire", Path: "createtenant"},
		{Label: "Détails des chambres", Path: "roomdetails"},
		{Label: "Demandes de maintenance", Path: "maintenancerequests"},
		{Label: "Modifier le profil", Path: "/profile/edit"},
	}
)

// MenuFor returns the navigation menu of a role. Unknown roles get an
// empty menu.
func MenuFor(role identity.Role) []MenuItem {
	switch role {
	case identity.RoleAdmin:
		return menuAdmin
	case identity.RoleEmployee:
		return menuEmployee
	case identity.RoleTenant:
		return menuTenant
	case identity.RoleOwner:
		return menuOwner
	default:
		return nil
	}
}
