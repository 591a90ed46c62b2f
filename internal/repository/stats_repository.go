package repository

import (
	"context"
	"database/sql"
)

// StatsRepo aggregates the counters behind the dashboards and the
// management portal.
type StatsRepo struct {
	DB *sql.DB
}

func NewStatsRepo(db *sql.DB) *StatsRepo {
	return &StatsRepo{DB: db}
}

// AdminOverview is the admin dashboard payload.
type AdminOverview struct {
	TotalOwner      int64   `json:"totalowner"`
	TotalTenant     int64   `json:"totaltenant"`
	TotalEmployee   int64   `json:"totalemployee"`
	AvgOwnerAge     float64 `json:"avgOwnerAge"`
	AvgTenantAge    float64 `json:"avgTenantAge"`
	AvgEmployeeAge  float64 `json:"avgEmployeeAge"`
	ActiveOwners    int64   `json:"activeOwners"`
	ActiveTenants   int64   `json:"activeTenants"`
	ActiveEmployees int64   `json:"activeEmployees"`
}

// AdminOverview gathers population totals, average ages and activity
// counters. An owner is active when at least one tenant rents from it,
// a tenant when its rent is settled, an employee when on payroll.
func (r *StatsRepo) AdminOverview(ctx context.Context) (*AdminOverview, error) {
	var o AdminOverview
	steps := []struct {
		query string
		dest  any
	}{
		{"SELECT COUNT(owner_id) FROM owner", &o.TotalOwner},
		{"SELECT COUNT(tenant_id) FROM tenant", &o.TotalTenant},
		{"SELECT COUNT(emp_id) FROM employee", &o.TotalEmployee},
		{"SELECT COALESCE(AVG(age), 0) FROM owner WHERE age IS NOT NULL", &o.AvgOwnerAge},
		{"SELECT COALESCE(AVG(age), 0) FROM tenant WHERE age IS NOT NULL", &o.AvgTenantAge},
		{"SELECT COALESCE(AVG(age), 0) FROM employee WHERE age IS NOT NULL", &o.AvgEmployeeAge},
		{"SELECT COUNT(DISTINCT o.owner_id) FROM owner o JOIN tenant t ON t.ownerno = o.owner_id", &o.ActiveOwners},
		{"SELECT COUNT(*) FROM tenant WHERE stat = 'Payé'", &o.ActiveTenants},
		{"SELECT COUNT(*) FROM employee WHERE salary IS NOT NULL", &o.ActiveEmployees},
	}
	for _, s := range steps {
		if err := r.DB.QueryRowContext(ctx, s.query).Scan(s.dest); err != nil {
			return nil, err
		}
	}
	return &o, nil
}

// Analytics is the management portal payload.
type Analytics struct {
	TotalUsers      int64 `json:"totalUsers"`
	TotalAdmins     int64 `json:"totalAdmins"`
	TotalOwners     int64 `json:"totalOwners"`
	TotalTenants    int64 `json:"totalTenants"`
	TotalEmployees  int64 `json:"totalEmployees"`
	ActiveLeases    int64 `json:"activeLeases"`
	PendingRequests int64 `json:"pendingRequests"`
}

func (r *StatsRepo) Analytics(ctx context.Context) (*Analytics, error) {
	var a Analytics
	steps := []struct {
		query string
		dest  any
	}{
		{`SELECT (SELECT COUNT(*) FROM block_admin) +
			(SELECT COUNT(*) FROM owner) +
			(SELECT COUNT(*) FROM tenant) +
			(SELECT COUNT(*) FROM employee)`, &a.TotalUsers},
		{"SELECT COUNT(*) FROM block_admin", &a.TotalAdmins},
		{"SELECT COUNT(*) FROM owner", &a.TotalOwners},
		{"SELECT COUNT(*) FROM tenant", &a.TotalTenants},
		{"SELECT COUNT(*) FROM employee", &a.TotalEmployees},
		{"SELECT COUNT(*) FROM tenant WHERE stat = 'active'", &a.ActiveLeases},
		{"SELECT COUNT(*) FROM maintenance_requests WHERE status = 'pending'", &a.PendingRequests},
	}
	for _, s := range steps {
		if err := r.DB.QueryRowContext(ctx, s.query).Scan(s.dest); err != nil {
			return nil, err
		}
	}
	return &a, nil
}

// TenantOverview is the owner dashboard snapshot of its tenants.
type TenantOverview struct {
	TotalTenants int64 `json:"totalTenants"`
	ActiveLeases int64 `json:"activeLeases"`
}

func (r *StatsRepo) TenantOverview(ctx context.Context, ownerID int64) (*TenantOverview, error) {
	var o TenantOverview
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tenant WHERE ownerno = ?", ownerID).Scan(&o.TotalTenants)
	if err != nil {
		return nil, err
	}
	err = r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM tenant WHERE ownerno = ? AND stat = 'Payé'", ownerID).Scan(&o.ActiveLeases)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// QuickStats is the admin home strip.
type QuickStats struct {
	TotalLoginsToday     int64 `json:"totalLoginsToday"`
	TotalComplaintsFiled int64 `json:"totalComplaintsFiled"`
	PendingRequests      int64 `json:"pendingRequests"`
}

func (r *StatsRepo) QuickStats(ctx context.Context) (*QuickStats, error) {
	var q QuickStats
	steps := []struct {
		query string
		dest  any
	}{
		{`SELECT COUNT(*) FROM activities
			WHERE action = 'Connexion utilisateur' AND DATE(date) = CURDATE()`, &q.TotalLoginsToday},
		{"SELECT COUNT(complaints) FROM block WHERE complaints IS NOT NULL", &q.TotalComplaintsFiled},
		{"SELECT COUNT(*) FROM maintenance_requests WHERE status = 'pending'", &q.PendingRequests},
	}
	for _, s := range steps {
		if err := r.DB.QueryRowContext(ctx, s.query).Scan(s.dest); err != nil {
			return nil, err
		}
	}
	return &q, nil
}

// ActiveUsersLast24h counts distinct users who logged in over the last
// day.
func (r *StatsRepo) ActiveUsersLast24h(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT user_id) FROM activities
		WHERE action = 'Connexion utilisateur'
		AND date >= DATE_SUB(NOW(), INTERVAL 24 HOUR)`).Scan(&n)
	return n, err
}

// UnresolvedAlerts counts the open system alerts raised this week.
func (r *StatsRepo) UnresolvedAlerts(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM system_alerts
		WHERE resolved = FALSE
		AND created_at >= DATE_SUB(NOW(), INTERVAL 7 DAY)`).Scan(&n)
	return n, err
}

// StatsPoint is one month of the population history.
type StatsPoint struct {
	Month          string `json:"month"`
	TotalOwners    int64  `json:"total_owners"`
	TotalTenants   int64  `json:"total_tenants"`
	TotalEmployees int64  `json:"total_employees"`
}

func (r *StatsRepo) StatsHistory(ctx context.Context) ([]StatsPoint, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT month, total_owners, total_tenants, total_employees
		FROM stats_history ORDER BY month ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatsPoint
	for rows.Next() {
		var p StatsPoint
		if err := rows.Scan(&p.Month, &p.TotalOwners, &p.TotalTenants, &p.TotalEmployees); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AccountSummary is one user of the management portal listing.
type AccountSummary struct {
	ID            int64   `json:"id"`
	Name          *string `json:"name"`
	Type          string  `json:"type"`
	Email         *string `json:"email"`
	EmailVerified bool    `json:"is_email_verified"`
}

// AllUsers lists every account across the four role tables.
func (r *StatsRepo) AllUsers(ctx context.Context) ([]AccountSummary, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT admin_id AS id, admin_name AS name, 'admin' AS type, email, is_email_verified FROM block_admin
		UNION ALL
		SELECT owner_id, name, 'owner', email, is_email_verified FROM owner
		UNION ALL
		SELECT tenant_id, name, 'tenant', email, is_email_verified FROM tenant
		UNION ALL
		SELECT emp_id, emp_name, 'employee', email, is_email_verified FROM employee`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AccountSummary
	for rows.Next() {
		var a AccountSummary
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Email, &a.EmailVerified); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
