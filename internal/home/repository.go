package home

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Repository defines the interface for house, room and device persistence.
//
// Room and device operations take the full parent path. A child that exists
// under a different parent is reported as not found.
type Repository interface {
	ListHouses(ctx context.Context) ([]House, error)
	GetHouse(ctx context.Context, id int64) (*House, error)
	CreateHouse(ctx context.Context, name string) (*House, error)
	UpdateHouse(ctx context.Context, id int64, name string) (*House, error)
	DeleteHouse(ctx context.Context, id int64) (int64, error)
	DeleteAllHouses(ctx context.Context) (int64, error)

	ListRoomsByHouse(ctx context.Context, houseID int64) ([]Room, error)
	GetRoom(ctx context.Context, houseID, roomID int64) (*Room, error)
	CreateRoom(ctx context.Context, houseID int64, name string) (*Room, error)
	UpdateRoom(ctx context.Context, houseID, roomID int64, name string) (*Room, error)
	DeleteRoom(ctx context.Context, houseID, roomID int64) (int64, error)
	DeleteAllRooms(ctx context.Context) (int64, error)

	ListDevicesByRoom(ctx context.Context, houseID, roomID int64) ([]Device, error)
	GetDevice(ctx context.Context, houseID, roomID, deviceID int64) (*Device, error)
	CreateDevice(ctx context.Context, houseID, roomID int64, in DeviceInput) (*Device, error)
	UpdateDevice(ctx context.Context, houseID, roomID, deviceID int64, upd DeviceUpdate) (*Device, error)
	DeleteDevice(ctx context.Context, houseID, roomID, deviceID int64) (int64, error)
	DeleteAllDevices(ctx context.Context) (int64, error)
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository over the shared pool.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// roomInHouse selects a room id only when it belongs to the given house.
// Arguments: room id, house id.
const roomInHouse = `SELECT id FROM room WHERE id = ? AND house = ?`

// --- Houses ---

// ListHouses returns all houses ordered by id.
func (r *SQLiteRepository) ListHouses(ctx context.Context) ([]House, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM house ORDER BY id`)
	if err != nil {
		return nil, classify("listing houses", err)
	}
	defer rows.Close()

	houses := []House{}
	for rows.Next() {
		var h House
		if err := rows.Scan(&h.ID, &h.Name); err != nil {
			return nil, classify("scanning house row", err)
		}
		houses = append(houses, h)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterating house rows", err)
	}
	return houses, nil
}

// GetHouse returns a single house by ID.
func (r *SQLiteRepository) GetHouse(ctx context.Context, id int64) (*House, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name FROM house WHERE id = ?`, id)
	return scanHouse(row, fmt.Sprintf("getting house %d", id))
}

// CreateHouse inserts a house and returns it with its generated id.
func (r *SQLiteRepository) CreateHouse(ctx context.Context, name string) (*House, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO house (name) VALUES (?) RETURNING id, name`, name)
	return scanHouse(row, "inserting house")
}

// UpdateHouse renames a house.
func (r *SQLiteRepository) UpdateHouse(ctx context.Context, id int64, name string) (*House, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE house SET name = ? WHERE id = ? RETURNING id, name`, name, id)
	return scanHouse(row, fmt.Sprintf("updating house %d", id))
}

// DeleteHouse deletes a house together with its rooms and their devices.
// It returns the number of houses deleted, which is always 1 on success.
func (r *SQLiteRepository) DeleteHouse(ctx context.Context, id int64) (int64, error) {
	return r.deleteOne(ctx, fmt.Sprintf("deleting house %d", id), ErrHouseNotFound,
		`DELETE FROM house WHERE id = ?`, id)
}

// DeleteAllHouses empties the whole hierarchy in one transaction, children first.
// It returns the number of houses deleted.
func (r *SQLiteRepository) DeleteAllHouses(ctx context.Context) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, classify("starting delete-all transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM device`); err != nil {
		return 0, classify("deleting all devices", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM room`); err != nil {
		return 0, classify("deleting all rooms", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM house`)
	if err != nil {
		return 0, classify("deleting all houses", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, classify("counting deleted houses", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, classify("committing delete-all", err)
	}
	return n, nil
}

// --- Rooms ---

// ListRoomsByHouse returns the rooms of a house ordered by id.
func (r *SQLiteRepository) ListRoomsByHouse(ctx context.Context, houseID int64) ([]Room, error) {
	op := fmt.Sprintf("listing rooms of house %d", houseID)
	if err := r.requireExists(ctx, op, ErrHouseNotFound,
		`SELECT EXISTS (SELECT 1 FROM house WHERE id = ?)`, houseID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, house, name FROM room WHERE house = ? ORDER BY id`, houseID)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	rooms := []Room{}
	for rows.Next() {
		var rm Room
		if err := rows.Scan(&rm.ID, &rm.House, &rm.Name); err != nil {
			return nil, classify("scanning room row", err)
		}
		rooms = append(rooms, rm)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterating room rows", err)
	}
	return rooms, nil
}

// GetRoom returns a room of a house.
func (r *SQLiteRepository) GetRoom(ctx context.Context, houseID, roomID int64) (*Room, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, house, name FROM room WHERE id = ? AND house = ?`, roomID, houseID)
	return scanRoom(row, fmt.Sprintf("getting room %d of house %d", roomID, houseID), ErrRoomNotFound)
}

// CreateRoom inserts a room into an existing house.
// The existence check and the insert are one statement.
func (r *SQLiteRepository) CreateRoom(ctx context.Context, houseID int64, name string) (*Room, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO room (house, name)
		SELECT id, ? FROM house WHERE id = ?
		RETURNING id, house, name`, name, houseID)
	return scanRoom(row, fmt.Sprintf("inserting room into house %d", houseID), ErrHouseNotFound)
}

// UpdateRoom renames a room of a house.
func (r *SQLiteRepository) UpdateRoom(ctx context.Context, houseID, roomID int64, name string) (*Room, error) {
	row := r.db.QueryRowContext(ctx,
		`UPDATE room SET name = ? WHERE id = ? AND house = ? RETURNING id, house, name`,
		name, roomID, houseID)
	return scanRoom(row, fmt.Sprintf("updating room %d of house %d", roomID, houseID), ErrRoomNotFound)
}

// DeleteRoom deletes a room of a house together with its devices.
func (r *SQLiteRepository) DeleteRoom(ctx context.Context, houseID, roomID int64) (int64, error) {
	return r.deleteOne(ctx, fmt.Sprintf("deleting room %d of house %d", roomID, houseID), ErrRoomNotFound,
		`DELETE FROM room WHERE id = ? AND house = ?`, roomID, houseID)
}

// DeleteAllRooms deletes every room in every house. Devices go with them.
func (r *SQLiteRepository) DeleteAllRooms(ctx context.Context) (int64, error) {
	return r.deleteAll(ctx, "deleting all rooms", `DELETE FROM room`)
}

// --- Devices ---

// ListDevicesByRoom returns the devices of a room ordered by id.
func (r *SQLiteRepository) ListDevicesByRoom(ctx context.Context, houseID, roomID int64) ([]Device, error) {
	op := fmt.Sprintf("listing devices of room %d in house %d", roomID, houseID)
	if err := r.requireExists(ctx, op, ErrRoomNotFound,
		`SELECT EXISTS (`+roomInHouse+`)`, roomID, houseID); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, room, name, device_type, state FROM device WHERE room = ? ORDER BY id`, roomID)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	devices := []Device{}
	for rows.Next() {
		var d Device
		if err := rows.Scan(&d.ID, &d.Room, &d.Name, &d.DeviceType, &d.State); err != nil {
			return nil, classify("scanning device row", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("iterating device rows", err)
	}
	return devices, nil
}

// GetDevice returns a device of a room.
func (r *SQLiteRepository) GetDevice(ctx context.Context, houseID, roomID, deviceID int64) (*Device, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, room, name, device_type, state FROM device
		WHERE id = ? AND room = (`+roomInHouse+`)`,
		deviceID, roomID, houseID)
	return scanDevice(row, fmt.Sprintf("getting device %d", deviceID), ErrDeviceNotFound)
}

// CreateDevice inserts a device into a room of a house.
// The stored state is always false, whatever in.State says.
func (r *SQLiteRepository) CreateDevice(ctx context.Context, houseID, roomID int64, in DeviceInput) (*Device, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO device (room, name, device_type, state)
		SELECT id, ?, ?, 0 FROM room WHERE id = ? AND house = ?
		RETURNING id, room, name, device_type, state`,
		in.Name, in.DeviceType, roomID, houseID)
	return scanDevice(row, fmt.Sprintf("inserting device into room %d", roomID), ErrRoomNotFound)
}

// UpdateDevice replaces a device's name, and its type and state when set.
func (r *SQLiteRepository) UpdateDevice(ctx context.Context, houseID, roomID, deviceID int64, upd DeviceUpdate) (*Device, error) {
	var deviceType sql.NullString
	if upd.DeviceType != nil {
		deviceType = sql.NullString{String: *upd.DeviceType, Valid: true}
	}
	var state sql.NullBool
	if upd.State != nil {
		state = sql.NullBool{Bool: *upd.State, Valid: true}
	}

	row := r.db.QueryRowContext(ctx,
		`UPDATE device SET
			name = ?,
			device_type = COALESCE(?, device_type),
			state = COALESCE(?, state)
		WHERE id = ? AND room = (`+roomInHouse+`)
		RETURNING id, room, name, device_type, state`,
		upd.Name, deviceType, state, deviceID, roomID, houseID)
	return scanDevice(row, fmt.Sprintf("updating device %d", deviceID), ErrDeviceNotFound)
}

// DeleteDevice deletes a device of a room.
func (r *SQLiteRepository) DeleteDevice(ctx context.Context, houseID, roomID, deviceID int64) (int64, error) {
	return r.deleteOne(ctx, fmt.Sprintf("deleting device %d", deviceID), ErrDeviceNotFound,
		`DELETE FROM device WHERE id = ? AND room = (`+roomInHouse+`)`,
		deviceID, roomID, houseID)
}

// DeleteAllDevices deletes every device.
func (r *SQLiteRepository) DeleteAllDevices(ctx context.Context) (int64, error) {
	return r.deleteAll(ctx, "deleting all devices", `DELETE FROM device`)
}

// --- helpers ---

// deleteOne runs a single-row delete and maps zero affected rows to notFound.
func (r *SQLiteRepository) deleteOne(ctx context.Context, op string, notFound error, query string, args ...any) (int64, error) {
	n, err := r.deleteAll(ctx, op, query, args...)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%s: %w", op, notFound)
	}
	return n, nil
}

func (r *SQLiteRepository) deleteAll(ctx context.Context, op, query string, args ...any) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, classify(op, err)
	}
	return n, nil
}

// requireExists runs a SELECT EXISTS query and returns notFound when it is false.
func (r *SQLiteRepository) requireExists(ctx context.Context, op string, notFound error, query string, args ...any) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&exists); err != nil {
		return classify(op, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", op, notFound)
	}
	return nil
}

func scanHouse(row *sql.Row, op string) (*House, error) {
	var h House
	if err := row.Scan(&h.ID, &h.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrHouseNotFound)
		}
		return nil, classify(op, err)
	}
	return &h, nil
}

func scanRoom(row *sql.Row, op string, notFound error) (*Room, error) {
	var rm Room
	if err := row.Scan(&rm.ID, &rm.House, &rm.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, notFound)
		}
		return nil, classify(op, err)
	}
	return &rm, nil
}

func scanDevice(row *sql.Row, op string, notFound error) (*Device, error) {
	var d Device
	if err := row.Scan(&d.ID, &d.Room, &d.Name, &d.DeviceType, &d.State); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, notFound)
		}
		return nil, classify(op, err)
	}
	return &d, nil
}
