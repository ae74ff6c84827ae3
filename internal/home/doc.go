// Package home provides the house, room and device hierarchy.
//
// Houses contain rooms, rooms contain devices. Each level is a table with a
// foreign key to its parent, and deleting a parent removes its children.
//
// The package provides a Repository interface with a SQLite implementation.
// Nested lookups are always scoped by the full parent path, so a room is only
// reachable through the house that owns it and a device only through its room.
//
// # Errors
//
// Every error returned by the repository carries a Kind (see KindOf) so the
// HTTP layer can tell a missing row from an exhausted pool without inspecting
// driver errors itself.
//
// # Thread Safety
//
// SQLiteRepository is safe for concurrent use from multiple goroutines
// (SQLite WAL mode + connection pooling).
package home
