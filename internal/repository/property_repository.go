package repository

import (
	"context"
	"database/sql"
)

// PropertyRepo covers rooms, blocks and parking slots.
type PropertyRepo struct {
	DB *sql.DB
}

func NewPropertyRepo(db *sql.DB) *PropertyRepo {
	return &PropertyRepo{DB: db}
}

// BlockExists reports whether any block row carries the given number.
func (r *PropertyRepo) BlockExists(ctx context.Context, blockNo string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM block WHERE block_no=?", blockNo).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Block is the block summary attached to a room.
type Block struct {
	BlockNo   int64   `json:"block_no"`
	BlockName *string `json:"block_name"`
}

// BlockByRoom returns the block covering a room, ErrNotFound when the
// room belongs to no block.
func (r *PropertyRepo) BlockByRoom(ctx context.Context, roomNo int64) (*Block, error) {
	var b Block
	err := r.DB.QueryRowContext(ctx,
		"SELECT block_no, block_name FROM block WHERE room_no=?", roomNo).
		Scan(&b.BlockNo, &b.BlockName)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// BlockName returns the display name of a block, ErrNotFound when the
// block is unknown.
func (r *PropertyRepo) BlockName(ctx context.Context, blockNo int64) (*string, error) {
	var name *string
	err := r.DB.QueryRowContext(ctx,
		"SELECT block_name FROM block WHERE block_no=? LIMIT 1", blockNo).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return name, nil
}

// AvailableRooms lists rooms not yet held by any owner.
func (r *PropertyRepo) AvailableRooms(ctx context.Context) ([]int64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT room_no FROM room WHERE room_no NOT IN (SELECT room_no FROM owner)")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Blocks lists every block with its number and name.
func (r *PropertyRepo) Blocks(ctx context.Context) ([]Block, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT block_no, block_name FROM block")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Block
	for rows.Next() {
		var b Block
		if err := rows.Scan(&b.BlockNo, &b.BlockName); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// OccupiedRooms lists rooms held by an owner and rented by a tenant.
func (r *PropertyRepo) OccupiedRooms(ctx context.Context) ([]int64, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT DISTINCT o.room_no
		FROM owner o
		INNER JOIN tenant t ON o.room_no = t.room_no`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var n int64
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Room is one room row as served to the room-details views.
type Room struct {
	RoomNo      int64   `json:"room_no"`
	Type        *string `json:"type"`
	Floor       *int64  `json:"floor"`
	RegNo       *string `json:"reg_no"`
	BlockNo     *int64  `json:"block_no"`
	ParkingSlot *string `json:"parking_slot"`
}

// RoomsOfOwner lists the rooms held by the given owner.
func (r *PropertyRepo) RoomsOfOwner(ctx context.Context, ownerID int64) ([]Room, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT room_no, type, floor, reg_no, block_no, parking_slot
		FROM room WHERE room_no IN (SELECT room_no FROM owner WHERE owner_id=?)`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRooms(rows)
}

// ParkingSlotsOfTenant returns the parking slots of the rooms the
// tenant occupies. A NULL slot means the room has none assigned.
func (r *PropertyRepo) ParkingSlotsOfTenant(ctx context.Context, tenantID int64) ([]*string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT parking_slot FROM room
		WHERE room_no IN (SELECT room_no FROM tenant WHERE tenant_id=?)`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*string
	for rows.Next() {
		var slot *string
		if err := rows.Scan(&slot); err != nil {
			return nil, err
		}
		out = append(out, slot)
	}
	return out, rows.Err()
}

// AssignParking books a slot for a room. ErrNotFound when the room
// does not exist.
func (r *PropertyRepo) AssignParking(ctx context.Context, roomNo int64, slot string) error {
	var existing *string
	err := r.DB.QueryRowContext(ctx,
		"SELECT parking_slot FROM room WHERE room_no=?", roomNo).Scan(&existing)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, "UPDATE room SET parking_slot=? WHERE room_no=?", slot, roomNo)
	return err
}

// AvailableParkingSlots lists slots not assigned to any room.
func (r *PropertyRepo) AvailableParkingSlots(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT slot_number FROM parking_slots
		WHERE slot_number NOT IN (
			SELECT parking_slot FROM room WHERE parking_slot IS NOT NULL
		)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanRooms(rows *sql.Rows) ([]Room, error) {
	var out []Room
	for rows.Next() {
		var rm Room
		if err := rows.Scan(&rm.RoomNo, &rm.Type, &rm.Floor, &rm.RegNo, &rm.BlockNo, &rm.ParkingSlot); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}
