package testutil

import (
	"classdumper/internal/dumper"
	"classdumper/internal/vault"
)

// NewTestVault creates a new in-memory vault for testing.
func NewTestVault() dumper.Vault {
	return vault.NewMemoryVault("test-vault")
}
