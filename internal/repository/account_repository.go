package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/locmanager/locmanager/internal/identity"
)

// AccountRepo provisions and removes owner/tenant/employee accounts.
// Every creation is one transaction covering the profile row, the
// credential row, the proof-of-identity row where applicable, and the
// initial verification token: all-or-nothing, rollback on any step.
// The verification email itself is queued by the caller after commit.
type AccountRepo struct {
	DB          *sql.DB
	Credentials *CredentialRepo
	BcryptCost  int
}

func NewAccountRepo(db *sql.DB, creds *CredentialRepo, bcryptCost int) *AccountRepo {
	return &AccountRepo{DB: db, Credentials: creds, BcryptCost: bcryptCost}
}

// NewOwner carries the fields of an owner signup.
type NewOwner struct {
	Name            string
	Email           string
	Age             int64
	RoomNo          int64
	AggrementStatus string
	DOB             string
	Password        string
}

// NewTenant carries the fields of a tenant provisioning request.
type NewTenant struct {
	Name      string
	DOB       string
	Stat      string
	LeaveDate *string
	RoomNo    int64
	Age       int64
	Email     string
	Password  string
	ProofID   string
}

// CreateOwner inserts the owner, its credential and its pending
// verification token, enforcing email uniqueness and room availability
// inside the transaction. Returns the new owner id.
func (r *AccountRepo) CreateOwner(ctx context.Context, o NewOwner, token string) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var existing int64
	err = tx.QueryRowContext(ctx, "SELECT owner_id FROM owner WHERE email=? LIMIT 1", o.Email).Scan(&existing)
	if err == nil {
		return 0, ErrEmailExists
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	var free int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM room WHERE room_no=? AND room_no NOT IN (SELECT room_no FROM owner)",
		o.RoomNo).Scan(&free)
	if err != nil {
		return 0, err
	}
	if free == 0 {
		return 0, ErrRoomUnavailable
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO owner (name, email, age, room_no, aggrement_status, dob, is_email_verified, verification_token)
		VALUES (?, ?, ?, ?, ?, ?, FALSE, ?)`,
		o.Name, o.Email, o.Age, o.RoomNo, o.AggrementStatus, o.DOB, token)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := r.Credentials.CreateTx(ctx, tx, identity.RoleOwner, id, o.Password, r.BcryptCost); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// CreateTenant resolves the owner holding the requested room, then
// inserts the tenant, its credential, its identity proof and its
// pending verification token in one transaction.
func (r *AccountRepo) CreateTenant(ctx context.Context, t NewTenant, token string) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var ownerNo int64
	err = tx.QueryRowContext(ctx, "SELECT owner_id FROM owner WHERE room_no=? LIMIT 1", t.RoomNo).Scan(&ownerNo)
	if err == sql.ErrNoRows {
		return 0, ErrNoOwnerForRoom
	}
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO tenant (name, dob, stat, leaveDate, room_no, age, ownerno, email, is_email_verified, verification_token)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, FALSE, ?)`,
		t.Name, t.DOB, t.Stat, t.LeaveDate, t.RoomNo, t.Age, ownerNo, t.Email, token)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if err := r.Credentials.CreateTx(ctx, tx, identity.RoleTenant, id, t.Password, r.BcryptCost); err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO identity (proof_no, owner_id, tenant_id) VALUES (?, NULL, ?)",
		t.ProofID, id); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteTenant removes the tenant and every dependent row.
func (r *AccountRepo) DeleteTenant(ctx context.Context, id int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM rental WHERE tenant_id=?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM identity WHERE tenant_id=?", id); err != nil {
		return err
	}
	if err := r.Credentials.DeleteTx(ctx, tx, identity.RoleTenant, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM tenant WHERE tenant_id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// DeleteOwner removes the owner and every dependent row.
func (r *AccountRepo) DeleteOwner(ctx context.Context, id int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM identity WHERE owner_id=?", id); err != nil {
		return err
	}
	if err := r.Credentials.DeleteTx(ctx, tx, identity.RoleOwner, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM owner WHERE owner_id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// DeleteProfileRow removes just the profile row of any role, for the
// management portal. Dependent rows are left to the schema's foreign
// keys.
func (r *AccountRepo) DeleteProfileRow(ctx context.Context, role identity.Role, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s=?", role.ProfileTable(), role.IDColumn())
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteEmployee removes the employee and every dependent row.
func (r *AccountRepo) DeleteEmployee(ctx context.Context, id int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM identity WHERE emp_id=?", id); err != nil {
		return err
	}
	if err := r.Credentials.DeleteTx(ctx, tx, identity.RoleEmployee, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM employee WHERE emp_id=?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}
