package home

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Kind classifies a repository failure.
type Kind int

// Error kinds, ordered from most to least specific.
const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindUnavailable
)

// String returns the kind's name.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

var (
	// ErrNotFound matches every missing-row error.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a statement violates a constraint.
	ErrConflict = errors.New("conflict")

	// ErrUnavailable is returned when no connection could be obtained or the
	// database stayed locked past the busy timeout.
	ErrUnavailable = errors.New("database unavailable")

	// ErrHouseNotFound is returned when a house ID does not exist.
	ErrHouseNotFound = fmt.Errorf("house %w", ErrNotFound)

	// ErrRoomNotFound is returned when a room ID does not exist in the given house.
	ErrRoomNotFound = fmt.Errorf("room %w", ErrNotFound)

	// ErrDeviceNotFound is returned when a device ID does not exist in the given room.
	ErrDeviceNotFound = fmt.Errorf("device %w", ErrNotFound)
)

// Error is a driver failure tagged with its Kind.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindNotFound:
		return target == ErrNotFound
	case KindConflict:
		return target == ErrConflict
	case KindUnavailable:
		return target == ErrUnavailable
	default:
		return false
	}
}

// KindOf reports the Kind of err. Unrecognised errors are KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrUnavailable):
		return KindUnavailable
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return KindUnavailable
	default:
		return KindInternal
	}
}

// classify wraps a driver error with op and the Kind it represents.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return &Error{Kind: driverKind(err), Op: op, Err: err}
}

// driverKind maps database/sql and go-sqlite3 failures onto a Kind.
func driverKind(err error) Kind {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return KindUnavailable
		case sqlite3.ErrConstraint:
			return KindConflict
		}
	}

	switch {
	case errors.Is(err, sql.ErrConnDone),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return KindUnavailable
	default:
		return KindInternal
	}
}
