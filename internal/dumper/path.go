package dumper

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Path represents a validated filesystem path with cached metadata.
// Path objects are created by FilesystemManager.Resolve(), which resolves
// symlinks, makes the path absolute and caches stat info.
type Path struct {
	absPath string
	isDir   bool
	info    fs.FileInfo
}

// NewPath creates a Path from its components.
// This is primarily for use by FilesystemManager implementations.
func NewPath(absPath string, isDir bool, info fs.FileInfo) *Path {
	return &Path{
		absPath: absPath,
		isDir:   isDir,
		info:    info,
	}
}

// String returns the absolute path as a string.
func (p *Path) String() string {
	return p.absPath
}

// IsDir returns true if this path points to a directory.
func (p *Path) IsDir() bool {
	return p.isDir
}

// Info returns the cached file info from when the path was resolved.
func (p *Path) Info() fs.FileInfo {
	return p.info
}

// Base returns the last element of the path.
func (p *Path) Base() string {
	return filepath.Base(p.absPath)
}

// Stem returns the last element of the path without its extension,
// e.g. "Foo" for "/Applications/Foo.app". Leading dots belong to the name,
// so ".Foo" and "..app" are returned whole.
func (p *Path) Stem() string {
	base := p.Base()
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.Trim(stem, ".") == "" {
		return base
	}
	return stem
}

// Parent returns the name of the directory that immediately contains the path.
func (p *Path) Parent() string {
	return filepath.Base(filepath.Dir(p.absPath))
}
