package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"classdumper/internal/dumper"
)

// runDirPattern names the per-import directories under the root.
const runDirPattern = "run-*"

// FileSystemScratchArea hands out output directories under a root directory.
//
// Directory structure:
//
//	<root>/
//	  run-<random>/      (one per import)
//	    <input stem>/    (class-dump output)
//	      <Name>.h
//
// The stem directory keeps the harvested folder name equal to the stem.
type FileSystemScratchArea struct {
	root   string
	logger dumper.Logger
}

// NewFileSystemScratchArea creates a scratch area rooted at root.
// The root is created lazily by Prepare.
func NewFileSystemScratchArea(root string, logger dumper.Logger) *FileSystemScratchArea {
	if logger == nil {
		logger = dumper.NewNopLogger()
	}
	return &FileSystemScratchArea{root: root, logger: logger}
}

// Root returns the directory under which output directories are created.
func (s *FileSystemScratchArea) Root() string {
	return s.root
}

// Prepare creates <root>/run-<random>/<stem>. stem must be a single path
// element other than "." and "..".
func (s *FileSystemScratchArea) Prepare(stem string) (string, error) {
	if stem == "" || stem == "." || stem == ".." || strings.ContainsAny(stem, `/\`) {
		return "", fmt.Errorf("invalid scratch directory name %q", stem)
	}

	if err := os.MkdirAll(s.root, 0755); err != nil {
		return "", fmt.Errorf("creating scratch root: %w", err)
	}
	run, err := os.MkdirTemp(s.root, runDirPattern)
	if err != nil {
		return "", fmt.Errorf("creating scratch directory: %w", err)
	}

	dir := filepath.Join(run, stem)
	if err := os.Mkdir(dir, 0755); err != nil {
		os.RemoveAll(run)
		return "", fmt.Errorf("creating scratch directory: %w", err)
	}

	s.logger.Debug("scratch directory created", "dir", dir)
	return dir, nil
}

// Cleanup removes the run directory holding dir. Anything that is not a
// run directory directly below the root is left alone.
func (s *FileSystemScratchArea) Cleanup(dir string) {
	run, ok := s.runDir(dir)
	if !ok {
		s.logger.Warn("refusing to remove directory outside the scratch area", "dir", dir, "root", s.root)
		return
	}
	if err := os.RemoveAll(run); err != nil {
		s.logger.Warn("failed to remove scratch directory", "dir", run, "error", err)
		return
	}
	s.logger.Debug("scratch directory removed", "dir", run)
}

// runDir returns the parent of dir if it is a run directory directly below
// the root and dir is one element below it.
func (s *FileSystemScratchArea) runDir(dir string) (string, bool) {
	if dir == "" {
		return "", false
	}
	dir = filepath.Clean(dir)
	run := filepath.Dir(dir)
	if filepath.Clean(filepath.Dir(run)) != filepath.Clean(s.root) {
		return "", false
	}
	if ok, _ := filepath.Match(runDirPattern, filepath.Base(run)); !ok {
		return "", false
	}
	return run, true
}

// Compile-time check that FileSystemScratchArea implements dumper.ScratchArea interface
var _ dumper.ScratchArea = (*FileSystemScratchArea)(nil)
