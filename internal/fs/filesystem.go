package fs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"classdumper/internal/dumper"
)

// OSFilesystemManager is the real filesystem implementation of FilesystemManager.
type OSFilesystemManager struct {
	ignore *IgnoreMatcher
}

// NewOSFilesystemManager creates a filesystem manager that skips hidden
// entries plus anything matching extraIgnore.
func NewOSFilesystemManager(extraIgnore ...string) *OSFilesystemManager {
	patterns := append(append([]string{}, defaultIgnorePatterns...), extraIgnore...)
	return &OSFilesystemManager{ignore: NewIgnoreMatcher(patterns)}
}

// Resolve makes rawPath absolute, follows symlinks and stats the target.
func (m *OSFilesystemManager) Resolve(rawPath string) (*dumper.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, fmt.Errorf("resolving symlinks: %w", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}
	if err := checkMode(resolved, info.Mode()); err != nil {
		return nil, err
	}

	return dumper.NewPath(resolved, info.IsDir(), info), nil
}

func checkMode(path string, mode fs.FileMode) error {
	switch {
	case mode&os.ModeDevice != 0:
		return fmt.Errorf("device files not supported: %s", path)
	case mode&os.ModeNamedPipe != 0:
		return fmt.Errorf("named pipes not supported: %s", path)
	case mode&os.ModeSocket != 0:
		return fmt.Errorf("sockets not supported: %s", path)
	}
	return nil
}

// Open opens a file for reading.
func (m *OSFilesystemManager) Open(path *dumper.Path) (io.ReadCloser, error) {
	if path.IsDir() {
		return nil, fmt.Errorf("cannot open directory as file: %s", path.String())
	}
	return os.Open(path.String())
}

// Stat returns fresh file info for a path.
func (m *OSFilesystemManager) Stat(path *dumper.Path) (fs.FileInfo, error) {
	return os.Stat(path.String())
}

// FindFiles discovers regular files under the given directory path.
// Hidden and ignored entries are skipped, including whole directories.
// Symlinks to regular files are returned by their own location; reads go
// through to the target.
func (m *OSFilesystemManager) FindFiles(path *dumper.Path, recursive bool) ([]*dumper.Path, error) {
	if !path.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", path.String())
	}

	root := path.String()
	var paths []*dumper.Path

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !recursive || m.ignore.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if m.ignore.Match(rel) {
			return nil
		}

		found, err := m.regularFile(p, d)
		if err != nil {
			return err
		}
		if found != nil {
			paths = append(paths, found)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return paths, nil
}

// regularFile returns a Path for p if it is, or links to, a regular file.
func (m *OSFilesystemManager) regularFile(p string, d fs.DirEntry) (*dumper.Path, error) {
	if d.Type().IsRegular() {
		info, err := d.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		return dumper.NewPath(p, false, info), nil
	}

	if d.Type()&os.ModeSymlink == 0 {
		return nil, nil
	}

	// Stat follows the link; a dangling one is skipped.
	info, err := os.Stat(p)
	if err != nil || !info.Mode().IsRegular() {
		return nil, nil
	}
	return dumper.NewPath(p, false, info), nil
}

// ReadText reads a file and checks that it is valid UTF-8.
func (m *OSFilesystemManager) ReadText(path *dumper.Path) (string, error) {
	data, err := os.ReadFile(path.String())
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path.String(), err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s is not valid UTF-8", path.String())
	}
	return string(data), nil
}

// Compile-time check that OSFilesystemManager implements dumper.FilesystemManager interface
var _ dumper.FilesystemManager = (*OSFilesystemManager)(nil)
