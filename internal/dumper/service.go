package dumper

import (
	"database/sql"
	"fmt"

	"classdumper/internal/database/sqlc"
)

// Service is the orchestration layer that coordinates the store, the dump
// tool, the scratch area and the snapshot vault for the CLI and the server.
type Service struct {
	db        Database
	tool      DumpTool
	scratch   ScratchArea
	fsmgr     FilesystemManager
	vault     Vault
	encryptor Encryptor
	logger    Logger
	clock     Clock
	runIDs    RunIDSource
	alerts    AlertOptions
}

// NewService creates a new Service with the provided dependencies.
// vault and encryptor may be nil; exports that need them fail with an error.
func NewService(db Database, tool DumpTool, scratch ScratchArea, fsmgr FilesystemManager, vault Vault, encryptor Encryptor, logger Logger, clock Clock, runIDs RunIDSource) *Service {
	return &Service{
		db:        db,
		tool:      tool,
		scratch:   scratch,
		fsmgr:     fsmgr,
		vault:     vault,
		encryptor: encryptor,
		logger:    logger,
		clock:     clock,
		runIDs:    runIDs,
		alerts:    AlertOptions{DialogLength: DefaultDialogLength},
	}
}

// SetAlertOptions changes how tool errors are rendered for subsequent imports.
func (s *Service) SetAlertOptions(opts AlertOptions) {
	s.alerts = opts
}

// Reader returns the read-only handle used by queries and live views.
func (s *Service) Reader() Reader {
	return s.db.Reader()
}

// Folders returns every folder with its record count, in first-import order.
func (s *Service) Folders() ([]FolderCount, error) {
	counts, err := s.db.Reader().FolderCounts()
	if err != nil {
		return nil, fmt.Errorf("counting folders: %w", err)
	}
	return counts, nil
}

// ShowFile returns the record with id. Returns ErrRecordNotFound if it does not exist.
func (s *Service) ShowFile(id int64) (*sqlc.File, error) {
	f, err := s.db.Reader().FetchByID(id)
	if err != nil {
		return nil, fmt.Errorf("fetching file %d: %w", id, err)
	}
	if f == nil {
		return nil, fmt.Errorf("file %d: %w", id, ErrRecordNotFound)
	}
	return f, nil
}

// FileEdit lists the fields to change on a record. Nil fields are kept.
type FileEdit struct {
	Name     *string
	Folder   *string
	Contents *string
}

// EditFile applies edit to the record with id and returns the updated record.
// Returns ErrRecordNotFound if the record is gone, including when it was
// deleted between the read and the write.
func (s *Service) EditFile(id int64, edit FileEdit) (*sqlc.File, error) {
	f, err := s.ShowFile(id)
	if err != nil {
		return nil, err
	}

	if edit.Name != nil {
		f.Name = *edit.Name
	}
	if edit.Folder != nil {
		f.Folder = *edit.Folder
	}
	if edit.Contents != nil {
		f.Contents = sql.NullString{String: *edit.Contents, Valid: true}
	}

	if err := s.db.Update(f); err != nil {
		return nil, fmt.Errorf("updating file %d: %w", id, err)
	}

	s.logger.Info("file updated", "id", id, "name", f.Name, "folder", f.Folder)
	return f, nil
}

// DeleteFolder removes every record in folder and returns how many were removed.
func (s *Service) DeleteFolder(folder string) (int64, error) {
	n, err := s.db.DeleteFolder(folder)
	if err != nil {
		return 0, fmt.Errorf("deleting folder %q: %w", folder, err)
	}
	s.logger.Info("folder deleted", "folder", folder, "count", n)
	return n, nil
}

// Reset removes every record.
func (s *Service) Reset() error {
	if err := s.db.DeleteAllFiles(); err != nil {
		return fmt.Errorf("deleting all files: %w", err)
	}
	s.logger.Info("all files deleted")
	return nil
}
