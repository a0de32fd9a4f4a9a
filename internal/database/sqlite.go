package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"classdumper/internal/database/migrations"
	"classdumper/internal/database/sqlc"
	"classdumper/internal/dumper"
	"classdumper/internal/live"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DefaultSettleDelay is how long ReplaceWith waits after closing the live
// database before touching its files.
const DefaultSettleDelay = 100 * time.Millisecond

// sidecarSuffixes are the files SQLite keeps next to the main database file.
var sidecarSuffixes = []string{"-wal", "-shm", "-journal"}

// previousSuffix marks the live database while ReplaceWith swaps it out.
const previousSuffix = ".previous"

// SQLiteStore implements dumper.Database using SQLite.
// Writes are serialized; reads run against the last committed state.
// Every committed write notifies observers before the write call returns.
type SQLiteStore struct {
	// mu guards db and queries, which are swapped when the store is reopened.
	mu      sync.RWMutex
	writeMu sync.Mutex

	db       *sql.DB
	queries  *sqlc.Queries
	path     string
	notifier *live.Notifier
	logger   dumper.Logger

	// SettleDelay is waited between closing and replacing the database file.
	SettleDelay time.Duration
}

// NewSQLiteStore opens or creates the database at path and applies pending
// migrations. path can be a file path or ":memory:". Parent directories are
// created as needed. Any failure wraps dumper.ErrStoreUnopenable.
func NewSQLiteStore(path string, logger dumper.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = dumper.NewNopLogger()
	}

	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("%w: creating database directory: %v", dumper.ErrStoreUnopenable, err)
		}
	}

	db, err := OpenConnection(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dumper.ErrStoreUnopenable, err)
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", dumper.ErrStoreUnopenable, err)
	}

	logger.Info("database opened", "path", path)

	return &SQLiteStore{
		db:          db,
		queries:     sqlc.New(db),
		path:        path,
		notifier:    live.NewNotifier(),
		logger:      logger,
		SettleDelay: DefaultSettleDelay,
	}, nil
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// This is exported for use in tools and tests that need a properly configured SQLite connection.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if path == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if path != MemoryPath {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL: %w", err)
		}
	}

	return db, nil
}

// Writes

// InsertOne inserts file and returns it with its assigned ID.
// A duplicate (name, folder) pair wraps dumper.ErrConstraintViolation.
func (s *SQLiteStore) InsertOne(file *sqlc.File) (*sqlc.File, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.RLock()
	defer s.mu.RUnlock()

	created, err := s.queries.InsertFile(context.Background(), insertParams(file))
	if err != nil {
		return nil, fmt.Errorf("inserting file: %w", mapWriteError(err))
	}

	s.notifier.Notify()
	return &created, nil
}

// InsertBatch inserts files in one transaction. Any failure, including a
// duplicate (name, folder) pair, rolls back the whole batch.
func (s *SQLiteStore) InsertBatch(files []*sqlc.File) error {
	if len(files) == 0 {
		return nil
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	for _, f := range files {
		if _, err := qtx.InsertFile(ctx, insertParams(f)); err != nil {
			return fmt.Errorf("inserting %s/%s: %w", f.Folder, f.Name, mapWriteError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("batch inserted", "count", len(files))
	s.notifier.Notify()
	return nil
}

// Update overwrites the row with file.ID. A missing row wraps
// dumper.ErrRecordNotFound.
func (s *SQLiteStore) Update(file *sqlc.File) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, err := s.queries.UpdateFile(context.Background(), sqlc.UpdateFileParams{
		Name:     file.Name,
		Folder:   file.Folder,
		Contents: file.Contents,
		ID:       file.ID,
	})
	if err != nil {
		return fmt.Errorf("updating file: %w", mapWriteError(err))
	}
	if n == 0 {
		return fmt.Errorf("updating file %d: %w", file.ID, dumper.ErrRecordNotFound)
	}

	s.notifier.Notify()
	return nil
}

// DeleteAllFiles empties the file table.
func (s *SQLiteStore) DeleteAllFiles() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.queries.DeleteAllFiles(context.Background()); err != nil {
		return fmt.Errorf("deleting all files: %w", err)
	}

	s.notifier.Notify()
	return nil
}

// DeleteFolder deletes every file in folder and returns how many went.
func (s *SQLiteStore) DeleteFolder(folder string) (int64, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, err := s.queries.DeleteFilesByFolder(context.Background(), folder)
	if err != nil {
		return 0, fmt.Errorf("deleting folder: %w", err)
	}

	s.notifier.Notify()
	return n, nil
}

// Reader returns the store itself; it satisfies dumper.Reader.
func (s *SQLiteStore) Reader() dumper.Reader {
	return s
}

// Reads

// Count returns the number of stored files.
func (s *SQLiteStore) Count() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, err := s.queries.CountFiles(context.Background())
	if err != nil {
		return 0, fmt.Errorf("counting files: %w", err)
	}
	return n, nil
}

// FetchAll returns every file ordered by name.
func (s *SQLiteStore) FetchAll() ([]*sqlc.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.queries.ListFiles(context.Background())
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return toPointers(files), nil
}

// FetchOne returns the oldest file, or nil when the store is empty.
func (s *SQLiteStore) FetchOne() (*sqlc.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.queries.GetFirstFile(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Empty store
		}
		return nil, fmt.Errorf("fetching file: %w", err)
	}
	return &f, nil
}

// FetchByID returns the file with id, or nil when there is none.
func (s *SQLiteStore) FetchByID(id int64) (*sqlc.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, err := s.queries.GetFileByID(context.Background(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("fetching file by id: %w", err)
	}
	return &f, nil
}

// FetchByFolder returns the files in folder ordered by name.
func (s *SQLiteStore) FetchByFolder(folder string) ([]*sqlc.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := s.queries.ListFilesByFolder(context.Background(), folder)
	if err != nil {
		return nil, fmt.Errorf("listing files by folder: %w", err)
	}
	return toPointers(files), nil
}

// FolderCounts returns each folder with its file count, in the order the
// folders were first imported.
func (s *SQLiteStore) FolderCounts() ([]dumper.FolderCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.queries.ListFolderCounts(context.Background())
	if err != nil {
		return nil, fmt.Errorf("counting folders: %w", err)
	}

	counts := make([]dumper.FolderCount, len(rows))
	for i, row := range rows {
		counts[i] = dumper.FolderCount{Folder: row.Folder, Count: row.FileCount}
	}
	return counts, nil
}

// Watch returns a channel closed on the next committed change, and the
// change the caller is now current with.
func (s *SQLiteStore) Watch() (<-chan struct{}, dumper.Change) {
	return s.notifier.Watch()
}

// Lifecycle

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteStore) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteStore) CheckMigrations() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return migrations.CheckDBMigrationStatus(s.db)
}

// SchemaStatus reports the applied schema version against the latest one.
func (s *SQLiteStore) SchemaStatus() (migrations.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return migrations.GetStatus(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
// destPath must not exist or be an empty file.
func (s *SQLiteStore) BackupTo(destPath string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.path != MemoryPath {
		if _, err := s.db.Exec("PRAGMA wal_checkpoint(FULL)"); err != nil {
			return fmt.Errorf("checkpointing database: %w", err)
		}
	}

	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Reopen closes and reopens the on-disk database, migrating it unless
// skipMigration is set, and broadcasts a reload to observers.
func (s *SQLiteStore) Reopen(skipMigration bool) error {
	if s.path == MemoryPath {
		return fmt.Errorf("cannot reopen an in-memory database")
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		s.logger.Warn("closing database before reopen", "error", err)
	}

	if err := s.openLocked(skipMigration); err != nil {
		return err
	}

	s.logger.Info("database reopened", "path", s.path, "migrated", !skipMigration)
	s.notifier.Reload()
	return nil
}

// ReplaceWith validates the database at srcPath and swaps it in for the
// live one, then reopens the store without migrating and broadcasts a
// reload. The candidate is copied next to the live file before anything is
// closed; the live file is moved aside and only deleted once the new one
// opens, so a failure at any step leaves the old data in place. A candidate
// without the file table, or the live database itself, is rejected with
// dumper.ErrInvalidDatabase.
func (s *SQLiteStore) ReplaceWith(srcPath string) error {
	if s.path == MemoryPath {
		return fmt.Errorf("cannot replace an in-memory database")
	}

	if err := ValidateDatabaseFile(srcPath); err != nil {
		return err
	}
	if sameFile(srcPath, s.path) {
		return fmt.Errorf("%w: %s is the live database", dumper.ErrInvalidDatabase, srcPath)
	}

	staged, err := stageDatabaseFile(srcPath, filepath.Dir(s.path))
	if err != nil {
		return fmt.Errorf("staging database: %w", err)
	}
	defer os.Remove(staged)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	// Fold the WAL into the main file so the sidecars can be dropped.
	if _, err := s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("checkpointing database: %w", err)
	}
	if err := s.db.Close(); err != nil {
		s.logger.Warn("closing database before replace", "error", err)
	}

	time.Sleep(s.SettleDelay)

	previous := s.path + previousSuffix
	if err := os.Remove(previous); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("removing stale previous database", "path", previous, "error", err)
	}
	if err := os.Rename(s.path, previous); err != nil && !os.IsNotExist(err) {
		if oerr := s.openLocked(true); oerr != nil {
			return errors.Join(fmt.Errorf("moving live database aside: %w", err), oerr)
		}
		return fmt.Errorf("moving live database aside: %w", err)
	}
	for _, p := range sidecarPaths(s.path) {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("removing database file", "path", p, "error", err)
		}
	}

	if err := os.Rename(staged, s.path); err != nil {
		return s.restoreLocked(previous, fmt.Errorf("moving database into place: %w", err))
	}
	if err := s.openLocked(true); err != nil {
		return s.restoreLocked(previous, err)
	}

	if err := os.Remove(previous); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("removing previous database", "path", previous, "error", err)
	}
	s.notifier.Reload()

	s.logger.Info("database replaced", "source", srcPath, "path", s.path)
	return nil
}

// restoreLocked puts the database moved aside by ReplaceWith back in place
// and reopens it. cause is returned, joined with any reopen failure.
// s.mu must be held.
func (s *SQLiteStore) restoreLocked(previous string, cause error) error {
	s.logger.Error("replacing database failed, restoring previous", "error", cause)

	for _, p := range append([]string{s.path}, sidecarPaths(s.path)...) {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("removing database file", "path", p, "error", err)
		}
	}
	if err := os.Rename(previous, s.path); err != nil && !os.IsNotExist(err) {
		s.logger.Error("restoring previous database", "path", previous, "error", err)
	}
	if err := s.openLocked(false); err != nil {
		return errors.Join(cause, err)
	}
	return cause
}

// openLocked opens s.path and installs it as the live connection. s.mu must be held.
func (s *SQLiteStore) openLocked(skipMigration bool) error {
	db, err := OpenConnection(s.path)
	if err != nil {
		return fmt.Errorf("%w: %v", dumper.ErrStoreUnopenable, err)
	}

	if !skipMigration {
		if err := migrations.MigrateUp(db); err != nil {
			db.Close()
			return fmt.Errorf("%w: %v", dumper.ErrStoreUnopenable, err)
		}
	}

	s.db = db
	s.queries = sqlc.New(db)
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ValidateDatabaseFile checks that path is a SQLite database containing the
// file table. Returns an error wrapping dumper.ErrInvalidDatabase otherwise.
func ValidateDatabaseFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %v", dumper.ErrInvalidDatabase, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", dumper.ErrInvalidDatabase, path)
	}

	db, err := sql.Open("sqlite3", readOnlyURI(path))
	if err != nil {
		return fmt.Errorf("%w: %v", dumper.ErrInvalidDatabase, err)
	}
	defer db.Close()

	var name string
	err = db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'file'").Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s has no file table", dumper.ErrInvalidDatabase, path)
		}
		return fmt.Errorf("%w: %v", dumper.ErrInvalidDatabase, err)
	}
	return nil
}

// readOnlyURI returns a SQLite URI opening path read-only. The path is
// escaped so '?' and '#' in file names are not read as URI syntax.
func readOnlyURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path), RawQuery: "mode=ro"}
	return u.String()
}

// sameFile reports whether a and b name the same existing file.
func sameFile(a, b string) bool {
	ai, err := os.Stat(a)
	if err != nil {
		return false
	}
	bi, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(ai, bi)
}

// stageDatabaseFile copies src into a new temporary file in dir and
// returns its path.
func stageDatabaseFile(src, dir string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	out, err := os.CreateTemp(dir, "incoming-*.sqlite")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", err
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", err
	}
	return out.Name(), nil
}

func sidecarPaths(path string) []string {
	paths := make([]string, len(sidecarSuffixes))
	for i, suffix := range sidecarSuffixes {
		paths[i] = path + suffix
	}
	return paths
}

// mapWriteError turns SQLite constraint failures into dumper.ErrConstraintViolation.
func mapWriteError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return fmt.Errorf("%w: %v", dumper.ErrConstraintViolation, err)
	}
	return err
}

func insertParams(f *sqlc.File) sqlc.InsertFileParams {
	return sqlc.InsertFileParams{
		Name:     f.Name,
		Folder:   f.Folder,
		Contents: f.Contents,
	}
}

func toPointers(files []sqlc.File) []*sqlc.File {
	result := make([]*sqlc.File, len(files))
	for i := range files {
		result[i] = &files[i]
	}
	return result
}

// Compile-time check that SQLiteStore implements dumper.Database interface
var _ dumper.Database = (*SQLiteStore)(nil)
