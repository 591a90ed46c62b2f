package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/locmanager/locmanager/internal/identity"
)

// VerificationRepo drives the verification columns of the per-role
// profile tables. An identity is in one of three states: unverified
// with no token, pending with a stored token, or verified with the
// token cleared. Issue and Consume lock the row (SELECT ... FOR UPDATE)
// so a concurrent resend and consume on the same identity serialize
// instead of racing.
type VerificationRepo struct{ DB *sql.DB }

func NewVerificationRepo(db *sql.DB) *VerificationRepo { return &VerificationRepo{DB: db} }

// Issue stores a fresh token for an unverified identity, replacing any
// previous one, and returns the row's email address so the caller can
// queue the verification mail. Verified identities get
// ErrAlreadyVerified; a missing row or a row without an email address
// gets ErrNotFound.
func (r *VerificationRepo) Issue(ctx context.Context, uid identity.UserID, token string) (string, error) {
	table, idCol := uid.Role.ProfileTable(), uid.Role.IDColumn()
	if table == "" {
		return "", fmt.Errorf("verification: no table for role %q", uid.Role)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	var email sql.NullString
	var verified bool
	q := fmt.Sprintf("SELECT email, is_email_verified FROM %s WHERE %s=? FOR UPDATE", table, idCol)
	if err := tx.QueryRowContext(ctx, q, uid.Num).Scan(&email, &verified); err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", err
	}
	if verified {
		return "", ErrAlreadyVerified
	}
	if !email.Valid || email.String == "" {
		return "", ErrNotFound
	}

	upd := fmt.Sprintf("UPDATE %s SET verification_token=? WHERE %s=?", table, idCol)
	if _, err := tx.ExecContext(ctx, upd, token, uid.Num); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", err
	}
	return email.String, nil
}

// Consume marks the identity verified iff the supplied token equals the
// stored one exactly, clearing the token in the same write. Tokens are
// single-use: a second consume, a mismatch, or an already-verified row
// all fail with ErrInvalidToken.
func (r *VerificationRepo) Consume(ctx context.Context, uid identity.UserID, token string) error {
	table, idCol := uid.Role.ProfileTable(), uid.Role.IDColumn()
	if table == "" {
		return fmt.Errorf("verification: no table for role %q", uid.Role)
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var verified bool
	var stored sql.NullString
	q := fmt.Sprintf("SELECT is_email_verified, verification_token FROM %s WHERE %s=? FOR UPDATE", table, idCol)
	if err := tx.QueryRowContext(ctx, q, uid.Num).Scan(&verified, &stored); err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		return err
	}
	if verified || !stored.Valid || stored.String == "" || stored.String != token {
		return ErrInvalidToken
	}

	upd := fmt.Sprintf("UPDATE %s SET is_email_verified=TRUE, verification_token=NULL WHERE %s=?", table, idCol)
	if _, err := tx.ExecContext(ctx, upd, uid.Num); err != nil {
		return err
	}
	return tx.Commit()
}

// Verified reports the current flag without locking.
func (r *VerificationRepo) Verified(ctx context.Context, uid identity.UserID) (bool, error) {
	table, idCol := uid.Role.ProfileTable(), uid.Role.IDColumn()
	if table == "" {
		return false, fmt.Errorf("verification: no table for role %q", uid.Role)
	}
	var verified bool
	q := fmt.Sprintf("SELECT is_email_verified FROM %s WHERE %s=? LIMIT 1", table, idCol)
	err := r.DB.QueryRowContext(ctx, q, uid.Num).Scan(&verified)
	if err == sql.ErrNoRows {
		return false, ErrNotFound
	}
	return verified, err
}
