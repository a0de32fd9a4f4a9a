package dumper

import "classdumper/internal/database/sqlc"

// FolderCount is the number of records stored under one folder.
type FolderCount struct {
	Folder string
	Count  int64
}

// Change identifies a committed state of the store. Seq increases on every
// committed write; Epoch increases whenever the underlying database file is
// replaced and the store reopened.
type Change struct {
	Seq   uint64
	Epoch uint64
}

// Repository is the single writer of file records.
// Every method is its own transaction; observers are notified after commit
// and before the method returns.
type Repository interface {
	// InsertOne inserts a record and returns it with its assigned ID.
	// A duplicate (name, folder) pair returns ErrConstraintViolation.
	InsertOne(file *sqlc.File) (*sqlc.File, error)

	// InsertBatch inserts all records in one transaction. Either every
	// record is persisted or none is.
	InsertBatch(files []*sqlc.File) error

	// Update overwrites the record with file.ID.
	// Returns ErrRecordNotFound if no such record exists.
	Update(file *sqlc.File) error

	// DeleteAllFiles removes every record.
	DeleteAllFiles() error

	// DeleteFolder removes every record in folder and returns how many were removed.
	DeleteFolder(folder string) (int64, error)

	// Reader returns a read-only handle for queries and observation.
	Reader() Reader
}

// Reader is the read-only view of the store used by queries and live views.
type Reader interface {
	Count() (int64, error)

	// FetchAll returns every record ordered by name ascending.
	FetchAll() ([]*sqlc.File, error)

	// FetchOne returns an arbitrary record, or nil when the store is empty.
	FetchOne() (*sqlc.File, error)

	// FetchByID returns the record with id, or nil if it does not exist.
	FetchByID(id int64) (*sqlc.File, error)

	// FetchByFolder returns the records in folder ordered by name ascending.
	FetchByFolder(folder string) ([]*sqlc.File, error)

	// FolderCounts returns one entry per folder in first-import order.
	FolderCounts() ([]FolderCount, error)

	// Watch returns a channel that is closed on the next committed change,
	// together with the state the channel was captured at.
	Watch() (<-chan struct{}, Change)
}

// Database is the persistent store: a Repository that can also be
// snapshotted to a file and replaced from one.
type Database interface {
	Repository

	// BackupTo writes a consistent copy of the database to destPath.
	BackupTo(destPath string) error

	// ReplaceWith validates srcPath, swaps it in as the live database and
	// reopens the store without migrating.
	ReplaceWith(srcPath string) error

	// Path returns the database file path (or ":memory:").
	Path() string

	Close() error
}
