package testutil

import (
	"classdumper/internal/dumper"
	"classdumper/internal/encryption"
)

// NewTestEncryptor creates a keyless encryptor that accepts any passphrase.
func NewTestEncryptor() dumper.Encryptor {
	return encryption.NewTestEncryptor()
}
