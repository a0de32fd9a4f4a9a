package vault

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSnapshotNotFound is returned when a named snapshot is not in the vault.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// validateName rejects snapshot names that could escape the vault's namespace.
func validateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("snapshot name cannot be empty")
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("snapshot name %q cannot contain path separators", name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("snapshot name %q cannot start with a dot", name)
	}
	return nil
}
