package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"classdumper/internal/config"
	"classdumper/internal/database"
	"classdumper/internal/database/migrations"
	"classdumper/internal/database/sqlc"
	"classdumper/internal/dumper"
	"classdumper/internal/dumptool"
	"classdumper/internal/encryption"
	"classdumper/internal/fs"
	"classdumper/internal/live"
	"classdumper/internal/scratch"
	"classdumper/internal/server"
	"classdumper/internal/vault"
)

// Options identifies the CLI command being run.
type Options struct {
	// Operation names the command, e.g. "Import" or "ExportDatabase".
	Operation  string
	Parameters string
	// Verbose mirrors log output to stderr.
	Verbose bool
}

// ClassDumperApp is the application layer between the CLI and dumper.Service.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw strings, and releases the store and log file on Close.
type ClassDumperApp struct {
	cfg       *config.Config
	store     *database.SQLiteStore
	vault     dumper.Vault
	encryptor dumper.Encryptor
	service   *dumper.Service
	op        *Operation
	logger    dumper.Logger
	logFile   *os.File
}

// NewClassDumperApp creates a fully wired ClassDumperApp from the given config.
// The caller must call Close when done.
func NewClassDumperApp(ctx context.Context, cfg *config.Config, opts Options) (*ClassDumperApp, error) {
	op := NewOperation(opts.Operation, opts.Parameters, time.Now())

	slogger, logFile, err := newLogger(cfg.LogDir, op.ID, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	a, err := build(ctx, cfg, logger)
	if err != nil {
		logFile.Close()
		return nil, err
	}
	a.op = op
	a.logFile = logFile

	logger.Info("operation started", "operation", op.Name, "parameters", op.Parameters)
	return a, nil
}

// build wires every dependency of the service. The store is closed again if
// a later step fails.
func build(ctx context.Context, cfg *config.Config, logger dumper.Logger) (*ClassDumperApp, error) {
	patterns, err := fs.ParseIgnoreFile(filepath.Join(cfg.BaseDir, fs.IgnoreFileName))
	if err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	fsmgr := fs.NewOSFilesystemManager(append(patterns, cfg.Filesystem.Ignore...)...)

	sa, err := scratch.NewScratchAreaFromConfig(cfg.Scratch, logger)
	if err != nil {
		return nil, fmt.Errorf("creating scratch area: %w", err)
	}

	var v dumper.Vault
	if len(cfg.Vaults) > 0 {
		v, err = vault.NewVaultFromConfig(ctx, cfg.Vaults[0])
		if err != nil {
			return nil, fmt.Errorf("creating vault: %w", err)
		}
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	store, err := database.NewStoreFromConfig(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := store.CheckMigrations(); err != nil {
		store.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	toolPath := cfg.Tool.Path
	if toolPath == "" {
		toolPath = dumptool.DefaultExecutable
	}
	tool := dumptool.NewClassDump(toolPath, logger)

	svc := dumper.NewService(store, tool, sa, fsmgr, v, enc, logger, dumper.RealClock{}, dumper.UUIDRunIDs{})
	svc.SetAlertOptions(dumper.AlertOptions{
		DialogLength: cfg.Preferences.ImportErrorLength,
		Verbose:      cfg.Preferences.VerboseImportErrors,
	})

	return &ClassDumperApp{
		cfg:       cfg,
		store:     store,
		vault:     v,
		encryptor: enc,
		service:   svc,
		logger:    logger,
	}, nil
}

// Config returns the configuration the app was built from.
func (a *ClassDumperApp) Config() *config.Config {
	return a.cfg
}

// Reader returns the read-only store handle for live views.
func (a *ClassDumperApp) Reader() dumper.Reader {
	return a.service.Reader()
}

// Operation returns the operation this app runs for.
func (a *ClassDumperApp) Operation() *Operation {
	return a.op
}

// Import runs the import pipeline on rawPath. A failed import is recorded on
// the operation but still returns its result.
func (a *ClassDumperApp) Import(ctx context.Context, rawPath string) (*dumper.ImportResult, error) {
	result, err := a.service.Import(ctx, rawPath)
	if err != nil {
		return nil, a.op.Record(err)
	}
	if result.Failed() {
		a.op.Record(result.Err)
	}
	return result, nil
}

// Folders returns every folder with its record count.
func (a *ClassDumperApp) Folders() ([]dumper.FolderCount, error) {
	counts, err := a.service.Folders()
	return counts, a.op.Record(err)
}

// DefaultScope returns the search scope from the preferences.
func (a *ClassDumperApp) DefaultScope() (live.Scope, error) {
	return live.ParseScope(a.cfg.Preferences.SearchScope)
}

// ListFiles runs a listing over the committed records. An empty scope means
// the preferred scope when a folder is given and every folder otherwise.
func (a *ClassDumperApp) ListFiles(folder, query, scope string) ([]*sqlc.File, error) {
	search, err := a.Search(folder, query, scope)
	if err != nil {
		return nil, a.op.Record(err)
	}
	files, err := search.Run(a.Reader())
	return files, a.op.Record(err)
}

// Search builds the search used by ListFiles.
func (a *ClassDumperApp) Search(folder, query, scope string) (live.Search, error) {
	s := live.Search{Folder: folder, Query: query}

	switch {
	case scope != "":
		parsed, err := live.ParseScope(scope)
		if err != nil {
			return live.Search{}, err
		}
		s.Scope = parsed
	case folder == "":
		s.Scope = live.ScopeAll
	default:
		parsed, err := a.DefaultScope()
		if err != nil {
			return live.Search{}, fmt.Errorf("search_scope preference: %w", err)
		}
		s.Scope = parsed
	}
	return s, nil
}

// ShowFile returns the record with id.
func (a *ClassDumperApp) ShowFile(id int64) (*sqlc.File, error) {
	f, err := a.service.ShowFile(id)
	return f, a.op.Record(err)
}

// EditFile applies edit to the record with id.
func (a *ClassDumperApp) EditFile(id int64, edit dumper.FileEdit) (*sqlc.File, error) {
	f, err := a.service.EditFile(id, edit)
	return f, a.op.Record(err)
}

// DeleteFolder removes every record in folder.
func (a *ClassDumperApp) DeleteFolder(folder string) (int64, error) {
	n, err := a.service.DeleteFolder(folder)
	return n, a.op.Record(err)
}

// Reset removes every record.
func (a *ClassDumperApp) Reset() error {
	return a.op.Record(a.service.Reset())
}

// DatabaseStatus summarizes the live database.
type DatabaseStatus struct {
	Path    string
	Files   int64
	Folders int
	Schema  migrations.Status
}

// DatabaseStatus reports the database location, size and schema version.
func (a *ClassDumperApp) DatabaseStatus() (*DatabaseStatus, error) {
	n, err := a.Reader().Count()
	if err != nil {
		return nil, a.op.Record(fmt.Errorf("counting files: %w", err))
	}
	counts, err := a.Reader().FolderCounts()
	if err != nil {
		return nil, a.op.Record(fmt.Errorf("counting folders: %w", err))
	}
	schema, err := a.store.SchemaStatus()
	if err != nil {
		return nil, a.op.Record(fmt.Errorf("reading schema version: %w", err))
	}
	return &DatabaseStatus{
		Path:    a.store.Path(),
		Files:   n,
		Folders: len(counts),
		Schema:  schema,
	}, nil
}

// ExportDatabase writes a snapshot of the database and returns where it went.
func (a *ClassDumperApp) ExportDatabase(dest string, opts dumper.ExportOptions) (string, error) {
	where, err := a.service.ExportDatabase(dest, opts)
	return where, a.op.Record(err)
}

// ImportDatabase replaces the live database with src.
func (a *ClassDumperApp) ImportDatabase(src string, opts dumper.ImportDatabaseOptions) error {
	return a.op.Record(a.service.ImportDatabase(src, opts))
}

// ListSnapshots returns the snapshot names in the configured vault.
func (a *ClassDumperApp) ListSnapshots() ([]string, error) {
	names, err := a.service.ListSnapshots()
	return names, a.op.Record(err)
}

// Unlock unlocks the private key for decrypting snapshots.
func (a *ClassDumperApp) Unlock(passphrase string) (dumper.DecryptionContext, error) {
	dc, err := a.service.Unlock(passphrase)
	return dc, a.op.Record(err)
}

// SetupKeys generates the key pair used for encrypted exports.
func (a *ClassDumperApp) SetupKeys(passphrase string) error {
	if err := a.encryptor.Setup(passphrase); err != nil {
		return a.op.Record(fmt.Errorf("generating keys: %w", err))
	}
	a.logger.Info("encryption keys generated",
		"public_key", a.cfg.Encryption.PublicKeyPath,
		"private_key", a.cfg.Encryption.PrivateKeyPath)
	return nil
}

// ValidateVault checks that the configured vault is reachable.
func (a *ClassDumperApp) ValidateVault() error {
	if a.vault == nil {
		return a.op.Record(fmt.Errorf("no vault configured"))
	}
	return a.op.Record(a.vault.ValidateSetup())
}

// Serve runs the HTTP server until ctx is done.
func (a *ClassDumperApp) Serve(ctx context.Context) error {
	scope, err := a.DefaultScope()
	if err != nil {
		return a.op.Record(fmt.Errorf("search_scope preference: %w", err))
	}
	srv := server.New(a.service, a.cfg.Server, scope, a.logger)
	return a.op.Record(srv.Run(ctx))
}

// Close logs the end of the operation, closes the store and the log file.
func (a *ClassDumperApp) Close() error {
	var firstErr error

	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
		a.op.Record(firstErr)
	}

	a.logger.Info("operation finished",
		"operation", a.op.Name,
		"status", a.op.Status,
		"duration", time.Since(a.op.StartedAt).Truncate(time.Millisecond))

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
