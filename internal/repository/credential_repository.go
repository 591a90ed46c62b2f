package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/locmanager/locmanager/internal/identity"
	"github.com/locmanager/locmanager/internal/utils"
)

// CredentialRepo manages the per-role auth_* tables. Each table holds
// exactly one row per identity: (id, password) where password is a
// bcrypt hash. Table names come from the role and are interpolated into
// the statements; they are never user input.
type CredentialRepo struct{ DB *sql.DB }

func NewCredentialRepo(db *sql.DB) *CredentialRepo { return &CredentialRepo{DB: db} }

// Verify compares the submitted password against the stored hash for
// (role, id). A missing credential row is a negative outcome, not an
// error: authentication must fail, not throw.
func (r *CredentialRepo) Verify(ctx context.Context, role identity.Role, id int64, password string) (bool, error) {
	var hash string
	q := fmt.Sprintf("SELECT password FROM %s WHERE id=? LIMIT 1", role.AuthTable())
	err := r.DB.QueryRowContext(ctx, q, id).Scan(&hash)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return utils.VerifyPassword(hash, password), nil
}

// CreateTx inserts the credential row for a freshly provisioned account
// inside the caller's transaction.
func (r *CredentialRepo) CreateTx(ctx context.Context, tx *sql.Tx, role identity.Role, id int64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	q := fmt.Sprintf("INSERT INTO %s (id, password) VALUES (?,?)", role.AuthTable())
	_, err = tx.ExecContext(ctx, q, id, hash)
	return err
}

// RotateTx rewrites the stored hash inside the caller's transaction,
// used when a profile update carries a new password.
func (r *CredentialRepo) RotateTx(ctx context.Context, tx *sql.Tx, role identity.Role, id int64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	q := fmt.Sprintf("UPDATE %s SET password=? WHERE id=?", role.AuthTable())
	res, err := tx.ExecContext(ctx, q, hash, id)
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

// DeleteTx removes the credential row when the owning account is deleted.
func (r *CredentialRepo) DeleteTx(ctx context.Context, tx *sql.Tx, role identity.Role, id int64) error {
	q := fmt.Sprintf("DELETE FROM %s WHERE id=?", role.AuthTable())
	_, err := tx.ExecContext(ctx, q, id)
	return err
}
