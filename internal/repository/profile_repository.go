package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/locmanager/locmanager/internal/identity"
	"github.com/locmanager/locmanager/internal/profile"
	"github.com/locmanager/locmanager/internal/utils"
)

// ProfileRepo reads and writes the four per-role profile tables
// (block_admin, owner, tenant, employee). Each table carries the
// verification pair (is_email_verified, verification_token) alongside
// its role-specific columns.
type ProfileRepo struct {
	DB         *sql.DB
	BcryptCost int
}

func NewProfileRepo(db *sql.DB, bcryptCost int) *ProfileRepo {
	return &ProfileRepo{DB: db, BcryptCost: bcryptCost}
}

// Owner mirrors the columns of the 'owner' table the API exposes.
type Owner struct {
	OwnerID         int64   `json:"owner_id"`
	Name            string  `json:"name"`
	RoomNo          *int64  `json:"room_no"`
	Email           *string `json:"email"`
	IsEmailVerified bool    `json:"is_email_verified"`
	Age             *int64  `json:"age,omitempty"`
	AggrementStatus *string `json:"aggrement_status,omitempty"`
}

// Tenant mirrors the 'tenant' table.
type Tenant struct {
	TenantID        int64      `json:"tenant_id"`
	Name            string     `json:"name"`
	DOB             *time.Time `json:"dob"`
	Stat            *string    `json:"stat,omitempty"`
	LeaveDate       *time.Time `json:"leaveDate,omitempty"`
	Age             *int64     `json:"age"`
	RoomNo          *int64     `json:"room_no"`
	Email           *string    `json:"email"`
	IsEmailVerified bool       `json:"is_email_verified"`
}

// Admin mirrors the 'block_admin' table.
type Admin struct {
	AdminID         int64   `json:"admin_id"`
	AdminName       string  `json:"admin_name"`
	BlockNo         *int64  `json:"block_no"`
	Email           *string `json:"email"`
	Phone           *string `json:"phone"`
	IsEmailVerified bool    `json:"is_email_verified"`
}

// Employee mirrors the 'employee' table.
type Employee struct {
	EmpID           int64    `json:"emp_id"`
	EmpName         string   `json:"emp_name"`
	Salary          *float64 `json:"salary"`
	BlockNo         *int64   `json:"block_no"`
	Email           *string  `json:"email"`
	IsEmailVerified bool     `json:"is_email_verified"`
}

// GetOwner fetches one owner row.
func (r *ProfileRepo) GetOwner(ctx context.Context, id int64) (Owner, error) {
	var o Owner
	err := r.DB.QueryRowContext(ctx,
		"SELECT owner_id, name, room_no, email, is_email_verified FROM owner WHERE owner_id=? LIMIT 1",
		id).Scan(&o.OwnerID, &o.Name, &o.RoomNo, &o.Email, &o.IsEmailVerified)
	if err == sql.ErrNoRows {
		return Owner{}, ErrNotFound
	}
	return o, err
}

// GetTenant fetches one tenant row.
func (r *ProfileRepo) GetTenant(ctx context.Context, id int64) (Tenant, error) {
	var t Tenant
	err := r.DB.QueryRowContext(ctx,
		"SELECT tenant_id, name, dob, age, room_no, email, is_email_verified FROM tenant WHERE tenant_id=? LIMIT 1",
		id).Scan(&t.TenantID, &t.Name, &t.DOB, &t.Age, &t.RoomNo, &t.Email, &t.IsEmailVerified)
	if err == sql.ErrNoRows {
		return Tenant{}, ErrNotFound
	}
	return t, err
}

// GetAdmin fetches one block admin row.
func (r *ProfileRepo) GetAdmin(ctx context.Context, id int64) (Admin, error) {
	var a Admin
	a.AdminID = id
	err := r.DB.QueryRowContext(ctx,
		"SELECT admin_name, block_no, email, phone, is_email_verified FROM block_admin WHERE admin_id=? LIMIT 1",
		id).Scan(&a.AdminName, &a.BlockNo, &a.Email, &a.Phone, &a.IsEmailVerified)
	if err == sql.ErrNoRows {
		return Admin{}, ErrNotFound
	}
	return a, err
}

// GetEmployee fetches one employee row.
func (r *ProfileRepo) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	var e Employee
	e.EmpID = id
	err := r.DB.QueryRowContext(ctx,
		"SELECT emp_name, salary, block_no, email, is_email_verified FROM employee WHERE emp_id=? LIMIT 1",
		id).Scan(&e.EmpName, &e.Salary, &e.BlockNo, &e.Email, &e.IsEmailVerified)
	if err == sql.ErrNoRows {
		return Employee{}, ErrNotFound
	}
	return e, err
}

// ListOwners returns every owner row for the admin listing views.
func (r *ProfileRepo) ListOwners(ctx context.Context) ([]Owner, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT owner_id, name, age, room_no, aggrement_status, email, is_email_verified FROM owner")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Owner{}
	for rows.Next() {
		var o Owner
		if err := rows.Scan(&o.OwnerID, &o.Name, &o.Age, &o.RoomNo, &o.AggrementStatus, &o.Email, &o.IsEmailVerified); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListTenants returns every tenant row.
func (r *ProfileRepo) ListTenants(ctx context.Context) ([]Tenant, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT tenant_id, name, dob, stat, leaveDate, age, room_no, email, is_email_verified FROM tenant")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Tenant{}
	for rows.Next() {
		var t Tenant
		if err := rows.Scan(&t.TenantID, &t.Name, &t.DOB, &t.Stat, &t.LeaveDate, &t.Age, &t.RoomNo, &t.Email, &t.IsEmailVerified); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListEmployees returns every employee row.
func (r *ProfileRepo) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT emp_id, emp_name, salary, block_no, email, is_email_verified FROM employee")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Employee{}
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.EmpID, &e.EmpName, &e.Salary, &e.BlockNo, &e.Email, &e.IsEmailVerified); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// TenantsOfOwner lists the tenants living in the owner's rooms.
func (r *ProfileRepo) TenantsOfOwner(ctx context.Context, ownerID int64) ([]Tenant, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT tenant_id, name, dob, stat, age, room_no, email, is_email_verified
		FROM tenant
		WHERE room_no IN (SELECT room_no FROM owner WHERE owner_id = ?)`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Tenant{}
	for rows.Next() {
		var t Tenant
		if err := rows.Scan(&t.TenantID, &t.Name, &t.DOB, &t.Stat, &t.Age, &t.RoomNo, &t.Email, &t.IsEmailVerified); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// EmailVerified reports the verification flag for any role's row.
func (r *ProfileRepo) EmailVerified(ctx context.Context, uid identity.UserID) (bool, error) {
	table, idCol := uid.Role.ProfileTable(), uid.Role.IDColumn()
	if table == "" {
		return false, fmt.Errorf("profile: no table for role %q", uid.Role)
	}
	var verified bool
	q := fmt.Sprintf("SELECT is_email_verified FROM %s WHERE %s=? LIMIT 1", table, idCol)
	err := r.DB.QueryRowContext(ctx, q, uid.Num).Scan(&verified)
	if err == sql.ErrNoRows {
		return false, ErrNotFound
	}
	return verified, err
}

// AdminID confirms an admin row exists and echoes its id back. Login
// keeps this as a distinct step so a credential row without a matching
// block_admin row surfaces as a 404 rather than a granted session.
func (r *ProfileRepo) AdminID(ctx context.Context, id int64) (int64, error) {
	var adminID int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT admin_id FROM block_admin WHERE admin_id=? LIMIT 1", id).Scan(&adminID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	return adminID, err
}

// Apply writes a validated profile update as one transaction. The row
// is locked first: MySQL's affected-row count cannot distinguish a
// missing row from an unchanged one, and the lock also serializes
// against concurrent verification traffic on the same identity. A
// non-empty token means the email changed: the verification flag drops
// and the fresh token is stored on the same row. A present password
// rewrites the credential row before commit.
func (r *ProfileRepo) Apply(ctx context.Context, uid identity.UserID, u profile.Update, token string) error {
	table, idCol := uid.Role.ProfileTable(), uid.Role.IDColumn()
	if table == "" {
		return fmt.Errorf("profile: no table for role %q", uid.Role)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var one int
	lockQ := fmt.Sprintf("SELECT 1 FROM %s WHERE %s=? FOR UPDATE", table, idCol)
	if err := tx.QueryRowContext(ctx, lockQ, uid.Num).Scan(&one); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}

	var sets []string
	var args []interface{}
	if u.Name != nil {
		sets = append(sets, nameColumn(uid.Role)+"=?")
		args = append(args, *u.Name)
	}
	if u.Email != nil {
		sets = append(sets, "email=?", "is_email_verified=FALSE", "verification_token=?")
		args = append(args, *u.Email, token)
	}
	if u.Phone != nil {
		sets = append(sets, "phone=?")
		args = append(args, *u.Phone)
	}
	if u.RoomNo != nil {
		sets = append(sets, "room_no=?")
		args = append(args, *u.RoomNo)
	}
	if u.Age != nil {
		sets = append(sets, "age=?")
		args = append(args, *u.Age)
	}
	if u.DOB != nil {
		sets = append(sets, "dob=?")
		args = append(args, *u.DOB)
	}
	if u.BlockNo != nil {
		sets = append(sets, "block_no=?")
		args = append(args, *u.BlockNo)
	}

	if len(sets) > 0 {
		q := fmt.Sprintf("UPDATE %s SET %s WHERE %s=?", table, strings.Join(sets, ", "), idCol)
		if _, err := tx.ExecContext(ctx, q, append(args, uid.Num)...); err != nil {
			return err
		}
	}

	if u.Password != nil {
		hash, err := utils.HashPassword(*u.Password, r.BcryptCost)
		if err != nil {
			return err
		}
		q := fmt.Sprintf("UPDATE %s SET password=? WHERE id=?", uid.Role.AuthTable())
		res, err := tx.ExecContext(ctx, q, hash, uid.Num)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrNotFound
		}
	}

	return tx.Commit()
}

// nameColumn maps a role to its profile table's name column; the tables
// predate the service and are not uniform.
func nameColumn(r identity.Role) string {
	switch r {
	case identity.RoleAdmin:
		return "admin_name"
	case identity.RoleEmployee:
		return "emp_name"
	}
	return "name"
}
