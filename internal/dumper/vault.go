package dumper

import "io"

// Vault stores exported database snapshots outside the local machine.
type Vault interface {
	// PutSnapshot stores a snapshot under name.
	// size is the number of bytes that will be read from r.
	PutSnapshot(name string, r io.Reader, size int64) error

	// GetSnapshot retrieves the snapshot stored under name and writes it to w.
	GetSnapshot(name string, w io.Writer) error

	// ListSnapshots returns the stored snapshot names in lexical order.
	// Default export names embed a timestamp, so this is oldest first.
	ListSnapshots() ([]string, error)

	// ValidateSetup verifies that the vault is accessible and properly configured.
	ValidateSetup() error
}
