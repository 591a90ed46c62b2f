package repository

import (
	"context"
	"database/sql"
)

// ComplaintRepo stores complaints on the block rows. A block/room pair
// holds at most one open complaint; registering over an existing one
// replaces it.
type ComplaintRepo struct {
	DB *sql.DB
}

func NewComplaintRepo(db *sql.DB) *ComplaintRepo {
	return &ComplaintRepo{DB: db}
}

// Register files a complaint against a block/room pair, creating the
// block row when it does not exist yet.
func (r *ComplaintRepo) Register(ctx context.Context, complaint string, blockNo, roomNo int64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var n int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM block WHERE block_no=? AND room_no=?", blockNo, roomNo).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO block (block_no, room_no, complaints) VALUES (?, ?, ?)",
			blockNo, roomNo, complaint)
	} else {
		_, err = tx.ExecContext(ctx,
			"UPDATE block SET complaints=? WHERE block_no=? AND room_no=?",
			complaint, blockNo, roomNo)
	}
	if err != nil {
		return err
	}
	return tx.Commit()
}

// Complaint is one open or resolved complaint row.
type Complaint struct {
	BlockNo    int64   `json:"block_no"`
	BlockName  *string `json:"block_name"`
	RoomNo     int64   `json:"room_no"`
	Complaints *string `json:"complaints"`
	Resolved   *bool   `json:"resolved"`
}

// All lists every block row carrying an open complaint.
func (r *ComplaintRepo) All(ctx context.Context) ([]Complaint, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT block_no, block_name, room_no, complaints, resolved
		FROM block WHERE complaints IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Complaint
	for rows.Next() {
		var c Complaint
		if err := rows.Scan(&c.BlockNo, &c.BlockName, &c.RoomNo, &c.Complaints, &c.Resolved); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// OwnerComplaint is the owner-facing view of a complaint.
type OwnerComplaint struct {
	Complaints *string `json:"complaints"`
	RoomNo     int64   `json:"room_no"`
	Resolved   *bool   `json:"resolved"`
}

// ForOwner lists the complaints on the rooms held by an owner.
func (r *ComplaintRepo) ForOwner(ctx context.Context, ownerID int64) ([]OwnerComplaint, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT complaints, room_no, resolved
		FROM block
		WHERE room_no IN (SELECT room_no FROM owner WHERE owner_id=?)`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OwnerComplaint
	for rows.Next() {
		var c OwnerComplaint
		if err := rows.Scan(&c.Complaints, &c.RoomNo, &c.Resolved); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// CountOpen counts the complaints still waiting on a resolution.
func (r *ComplaintRepo) CountOpen(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(complaints) FROM block WHERE complaints IS NOT NULL").Scan(&n)
	return n, err
}

// Resolve clears the complaint on a room and marks it handled.
func (r *ComplaintRepo) Resolve(ctx context.Context, roomNo int64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE block SET complaints=NULL, resolved=TRUE WHERE room_no=?", roomNo)
	return err
}
