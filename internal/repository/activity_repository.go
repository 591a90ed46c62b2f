package repository

import (
	"context"
	"database/sql"

	"github.com/locmanager/locmanager/internal/identity"
)

// Audit action labels, surfaced verbatim in the activity feed.
const (
	ActionLogin           = "Connexion utilisateur"
	ActionLogout          = "Déconnexion utilisateur"
	ActionMaintenancePaid = "Maintenance payé"
)

// ActivityRepo records and reads the audit trail of user actions.
type ActivityRepo struct {
	DB *sql.DB
}

func NewActivityRepo(db *sql.DB) *ActivityRepo {
	return &ActivityRepo{DB: db}
}

// Record appends an action for the given user. Failures here are the
// caller's to decide on: the auth flow treats the audit row as best
// effort, payment flows do not.
func (r *ActivityRepo) Record(ctx context.Context, userID int64, action string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO activities (user_id, action, date) VALUES (?, ?, NOW())",
		userID, action)
	return err
}

// Activity is one row of the audit trail.
type Activity struct {
	UserID string `json:"user_id"`
	Action string `json:"action"`
	Date   string `json:"date"`
}

// Recent returns the latest entries, newest first. Admins see the
// whole trail, everyone else only their own rows.
func (r *ActivityRepo) Recent(ctx context.Context, userID int64, role identity.Role) ([]Activity, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if role == identity.RoleAdmin {
		rows, err = r.DB.QueryContext(ctx,
			"SELECT user_id, action, date FROM activities ORDER BY date DESC LIMIT 5")
	} else {
		rows, err = r.DB.QueryContext(ctx,
			"SELECT user_id, action, date FROM activities WHERE user_id=? ORDER BY date DESC LIMIT 5", userID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.UserID, &a.Action, &a.Date); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
