package repository

import (
	"context"
	"database/sql"

	"github.com/locmanager/locmanager/internal/identity"
)

// MaintenanceRepo stores maintenance requests and their lifecycle
// (pending, in_progress, completed).
type MaintenanceRepo struct {
	DB *sql.DB
}

func NewMaintenanceRepo(db *sql.DB) *MaintenanceRepo {
	return &MaintenanceRepo{DB: db}
}

// Request is one maintenance request row.
type Request struct {
	ID          int64  `json:"id"`
	BlockNo     *int64 `json:"block_no"`
	RoomNo      int64  `json:"room_no"`
	TenantID    *int64 `json:"tenant_id"`
	Description string `json:"description"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submitted_at"`
}

// Submit files a new request as pending. Returns the new request id.
func (r *MaintenanceRepo) Submit(ctx context.Context, userID int64, userType identity.Role, roomNo int64, description string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO maintenance_requests (user_id, user_type, room_no, description, status, submitted_at)
		VALUES (?, ?, ?, ?, 'pending', NOW())`,
		userID, string(userType), roomNo, description)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// List returns a page of requests, newest first. Tenants see their own
// requests; every other role sees the requests on rooms held by the
// matching owner id.
func (r *MaintenanceRepo) List(ctx context.Context, userID int64, role identity.Role, page, limit int) ([]Request, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 2
	}
	offset := (page - 1) * limit

	var query string
	if role == identity.RoleTenant {
		query = `
			SELECT id, block_no, room_no, tenant_id, description, status, submitted_at
			FROM maintenance_requests
			WHERE tenant_id = ?
			ORDER BY submitted_at DESC
			LIMIT ? OFFSET ?`
	} else {
		query = `
			SELECT id, block_no, room_no, tenant_id, description, status, submitted_at
			FROM maintenance_requests
			WHERE room_no IN (SELECT room_no FROM owner WHERE owner_id = ?)
			ORDER BY submitted_at DESC
			LIMIT ? OFFSET ?`
	}

	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

// UpdateStatus moves a request to a new status. ErrNotFound when the
// id does not exist.
func (r *MaintenanceRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE maintenance_requests SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// PendingForBlock lists the pending and in-progress requests on the
// rooms of a block, for the employee task board.
func (r *MaintenanceRepo) PendingForBlock(ctx context.Context, blockNo int64) ([]Request, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT mr.id, b.block_no, mr.room_no, mr.tenant_id, mr.description, mr.status, mr.submitted_at
		FROM maintenance_requests mr
		JOIN block b ON mr.room_no = b.room_no
		WHERE b.block_no = ? AND mr.status IN ('pending', 'in_progress')
		ORDER BY mr.submitted_at DESC`, blockNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

// PendingCount counts requests still waiting to be taken.
func (r *MaintenanceRepo) PendingCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM maintenance_requests WHERE status='pending'").Scan(&n)
	return n, err
}

func scanRequests(rows *sql.Rows) ([]Request, error) {
	var out []Request
	for rows.Next() {
		var req Request
		if err := rows.Scan(&req.ID, &req.BlockNo, &req.RoomNo, &req.TenantID, &req.Description, &req.Status, &req.SubmittedAt); err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
