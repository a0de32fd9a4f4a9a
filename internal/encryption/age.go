package encryption

import (
	"fmt"
	"io"

	"filippo.io/age"

	"classdumper/internal/config"
	"classdumper/internal/dumper"
)

// AgeEncryptor encrypts database exports with an X25519 key pair.
// The public key is stored in plaintext so exports never need the
// passphrase; the private key is sealed with the passphrase.
type AgeEncryptor struct {
	publicKeyPath  string
	privateKeyPath string
}

var _ dumper.Encryptor = (*AgeEncryptor)(nil)

func NewAgeEncryptor(cfg config.EncryptionConfig) *AgeEncryptor {
	return &AgeEncryptor{
		publicKeyPath:  cfg.PublicKeyPath,
		privateKeyPath: cfg.PrivateKeyPath,
	}
}

// Setup generates and stores a new key pair. It refuses to overwrite an
// existing key, since exports sealed to it would become unreadable.
func (e *AgeEncryptor) Setup(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase cannot be empty")
	}
	if exists(e.publicKeyPath) || exists(e.privateKeyPath) {
		return ErrKeysExist
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	if err := writeSealedIdentity(e.privateKeyPath, identity, passphrase); err != nil {
		return err
	}
	return writePublicKey(e.publicKeyPath, identity.Recipient())
}

// Encrypt streams r to w encrypted to the stored public key.
func (e *AgeEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	recipient, err := readRecipient(e.publicKeyPath)
	if err != nil {
		return fmt.Errorf("loading public key: %w", err)
	}

	ew, err := age.Encrypt(w, recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.Copy(ew, r); err != nil {
		return fmt.Errorf("encrypting data: %w", err)
	}
	if err := ew.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	return nil
}

// Unlock opens the private key. A wrong passphrase is an error.
func (e *AgeEncryptor) Unlock(passphrase string) (dumper.DecryptionContext, error) {
	identity, err := openIdentity(e.privateKeyPath, passphrase)
	if err != nil {
		return nil, err
	}
	return &AgeDecryptionContext{identity: identity}, nil
}

func (e *AgeEncryptor) IsConfigured() bool {
	return exists(e.publicKeyPath) && exists(e.privateKeyPath)
}

// Recipient returns the public key string exports are encrypted to.
func (e *AgeEncryptor) Recipient() (string, error) {
	r, err := readRecipient(e.publicKeyPath)
	if err != nil {
		return "", err
	}
	x, ok := r.(*age.X25519Recipient)
	if !ok {
		return "", fmt.Errorf("unexpected recipient type %T", r)
	}
	return x.String(), nil
}

// AgeDecryptionContext holds an unlocked age identity.
type AgeDecryptionContext struct {
	identity age.Identity
}

var _ dumper.DecryptionContext = (*AgeDecryptionContext)(nil)

func (c *AgeDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	dr, err := age.Decrypt(r, c.identity)
	if err != nil {
		return fmt.Errorf("creating decrypted reader: %w", err)
	}
	if _, err := io.Copy(w, dr); err != nil {
		return fmt.Errorf("decrypting data: %w", err)
	}
	return nil
}
