package dumper

import (
	"io"
	"io/fs"
)

// FilesystemManager provides an interface for filesystem operations.
// It abstracts file access to enable testing without touching the real filesystem.
type FilesystemManager interface {
	// Resolve validates a raw path and returns a Path object.
	// Symlinks are followed; devices, pipes and sockets are rejected.
	Resolve(rawPath string) (*Path, error)

	// Open opens a file for reading.
	Open(path *Path) (io.ReadCloser, error)

	// Stat returns fresh file info for a path.
	Stat(path *Path) (fs.FileInfo, error)

	// FindFiles discovers regular files under a directory, skipping hidden
	// and ignored entries. Symlinked files are returned by their target path.
	FindFiles(path *Path, recursive bool) ([]*Path, error)

	// ReadText reads a file as UTF-8 text.
	ReadText(path *Path) (string, error)
}
