package dumper

import "errors"

var (
	// ErrStoreUnopenable is returned when the database cannot be created,
	// opened or migrated.
	ErrStoreUnopenable = errors.New("store cannot be opened")

	// ErrConstraintViolation is returned when a write would create a second
	// record with the same (name, folder) pair.
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrRecordNotFound is returned when an update targets a missing record.
	ErrRecordNotFound = errors.New("record not found")

	// ErrSubprocessLaunch is returned when the dump tool cannot be started.
	ErrSubprocessLaunch = errors.New("subprocess launch failed")

	// ErrInvalidDatabase is returned when an imported database file does not
	// contain the file table.
	ErrInvalidDatabase = errors.New("not a classdumper database")
)
