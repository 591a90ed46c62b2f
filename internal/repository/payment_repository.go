package repository

import (
	"context"
	"database/sql"
)

// Rent settlement marker on the tenant row.
const StatPaid = "Payé"

// PaymentRepo reads and settles tenant rent.
type PaymentRepo struct {
	DB *sql.DB
}

func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{DB: db}
}

// PaymentStatus is the tenant-facing rent state.
type PaymentStatus struct {
	Status  *string `json:"status"`
	DueDate *string `json:"dueDate"`
}

// Status returns the rent state of a tenant, ErrNotFound when the
// tenant does not exist.
func (r *PaymentRepo) Status(ctx context.Context, tenantID int64) (*PaymentStatus, error) {
	var s PaymentStatus
	err := r.DB.QueryRowContext(ctx,
		"SELECT stat, leaveDate FROM tenant WHERE tenant_id = ?", tenantID).
		Scan(&s.Status, &s.DueDate)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// MarkPaid settles the tenant's maintenance rent.
func (r *PaymentRepo) MarkPaid(ctx context.Context, tenantID int64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE tenant SET stat = ? WHERE tenant_id = ?", StatPaid, tenantID)
	return err
}
