package metaldb

import "errors"

// Sentinel error kinds. Callers compare with errors.Is; wrapping error
// values add context the same way pkg/storage wraps bbolt errors with
// fmt.Errorf("...: %w", err).
var (
	// ErrTypeMismatch is returned when an address is opened with a type
	// tag that conflicts with the type already recorded in the system
	// catalog for that address.
	ErrTypeMismatch = errors.New("metaldb: index type mismatch")

	// ErrOutOfRange is returned by random-access list writes past the
	// list's current length.
	ErrOutOfRange = errors.New("metaldb: index out of range")

	// ErrDecodeFailure is returned when key or value bytes fail to decode
	// through their codec.
	ErrDecodeFailure = errors.New("metaldb: decode failure")

	// ErrMigrationConflict is returned when a migration cannot be flushed;
	// migration.Flush returns it when nothing is staged under the root.
	ErrMigrationConflict = errors.New("metaldb: migration conflict")

	// ErrReadOnlyAccess is returned when a write operation (Put, Delete,
	// Clear) is attempted through an access token that does not support
	// writes, such as a Snapshot or ReadonlyFork.
	ErrReadOnlyAccess = errors.New("metaldb: access is read-only")
)
