package dumper

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const exportTimeLayout = "2006_01_02-15_04_05"

// DefaultExportName returns the file name used for a database export taken at t.
func DefaultExportName(t time.Time) string {
	return "ClassDumper-Database-Backup-" + t.Format(exportTimeLayout) + ".sqlite"
}

// ExportOptions controls where and how a database export is written.
type ExportOptions struct {
	// Encrypt encrypts the snapshot with the configured public key.
	Encrypt bool
	// ToVault uploads the snapshot to the configured vault instead of a local file.
	ToVault bool
}

// ExportDatabase writes a consistent snapshot of the database and returns
// where it was written. dest may be empty or an existing directory, in which
// case the default export name is used. With opts.ToVault the snapshot is
// uploaded under the default export name and dest is ignored.
func (s *Service) ExportDatabase(dest string, opts ExportOptions) (string, error) {
	name := DefaultExportName(s.clock.Now())
	if opts.Encrypt {
		name += ".age"
	}

	snapshot, err := s.snapshot()
	if err != nil {
		return "", err
	}
	defer os.Remove(snapshot)

	if opts.Encrypt {
		encrypted, err := s.encryptFile(snapshot)
		if err != nil {
			return "", err
		}
		defer os.Remove(encrypted)
		snapshot = encrypted
	}

	if opts.ToVault {
		if err := s.uploadSnapshot(snapshot, name); err != nil {
			return "", err
		}
		s.logger.Info("database exported to vault", "name", name)
		return name, nil
	}

	target := dest
	if target == "" {
		target = name
	} else if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, name)
	}

	if err := copyFile(snapshot, target); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}

	s.logger.Info("database exported", "path", target)
	return target, nil
}

// ImportDatabaseOptions controls where an imported database is read from.
type ImportDatabaseOptions struct {
	// FromVault treats the source as a snapshot name in the configured vault.
	FromVault bool
	// Decrypt, when set, decrypts the source before it is validated.
	Decrypt DecryptionContext
}

// ImportDatabase replaces the live database with the one at src. The
// candidate is validated before anything is replaced; live views receive a
// reload notification once the store has been reopened.
func (s *Service) ImportDatabase(src string, opts ImportDatabaseOptions) error {
	path := src

	if opts.FromVault {
		downloaded, err := s.downloadSnapshot(src)
		if err != nil {
			return err
		}
		defer os.Remove(downloaded)
		path = downloaded
	}

	if opts.Decrypt != nil {
		decrypted, err := decryptFile(opts.Decrypt, path)
		if err != nil {
			return err
		}
		defer os.Remove(decrypted)
		path = decrypted
	}

	if err := s.db.ReplaceWith(path); err != nil {
		return fmt.Errorf("replacing database: %w", err)
	}

	s.logger.Info("database imported", "source", src, "from_vault", opts.FromVault)
	return nil
}

// ListSnapshots returns the snapshot names stored in the vault.
func (s *Service) ListSnapshots() ([]string, error) {
	if s.vault == nil {
		return nil, fmt.Errorf("no vault configured")
	}
	names, err := s.vault.ListSnapshots()
	if err != nil {
		return nil, fmt.Errorf("listing snapshots: %w", err)
	}
	return names, nil
}

// Unlock unlocks the configured private key for decrypting snapshots.
func (s *Service) Unlock(passphrase string) (DecryptionContext, error) {
	if s.encryptor == nil || !s.encryptor.IsConfigured() {
		return nil, fmt.Errorf("encryption keys are not configured")
	}
	return s.encryptor.Unlock(passphrase)
}

// snapshot backs the database up to a new temp file and returns its path.
func (s *Service) snapshot() (string, error) {
	tmpPath, err := tempPath("classdumper-export-*.sqlite")
	if err != nil {
		return "", err
	}
	if err := s.db.BackupTo(tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("snapshotting database: %w", err)
	}
	return tmpPath, nil
}

func (s *Service) encryptFile(src string) (string, error) {
	if s.encryptor == nil || !s.encryptor.IsConfigured() {
		return "", fmt.Errorf("encryption keys are not configured")
	}

	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening snapshot: %w", err)
	}
	defer in.Close()

	out, err := os.CreateTemp("", "classdumper-export-*.age")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer out.Close()

	if err := s.encryptor.Encrypt(in, out); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("encrypting snapshot: %w", err)
	}
	return out.Name(), nil
}

func decryptFile(dc DecryptionContext, src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening encrypted database: %w", err)
	}
	defer in.Close()

	out, err := os.CreateTemp("", "classdumper-import-*.sqlite")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer out.Close()

	if err := dc.Decrypt(in, out); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("decrypting database: %w", err)
	}
	return out.Name(), nil
}

func (s *Service) uploadSnapshot(path, name string) error {
	if s.vault == nil {
		return fmt.Errorf("no vault configured")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening snapshot for upload: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat snapshot: %w", err)
	}

	if err := s.vault.PutSnapshot(name, f, info.Size()); err != nil {
		return fmt.Errorf("uploading snapshot to vault: %w", err)
	}
	return nil
}

func (s *Service) downloadSnapshot(name string) (string, error) {
	if s.vault == nil {
		return "", fmt.Errorf("no vault configured")
	}

	f, err := os.CreateTemp("", "classdumper-import-*.sqlite")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer f.Close()

	if err := s.vault.GetSnapshot(name, f); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("downloading snapshot %q: %w", name, err)
	}
	return f.Name(), nil
}

// tempPath reserves an empty temp file and returns its path.
func tempPath(pattern string) (string, error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	name := f.Name()
	f.Close()
	return name, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
