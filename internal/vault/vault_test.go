package vault

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"classdumper/internal/config"
	"classdumper/internal/dumper"
)

// vaultCase builds a fresh vault for the shared behaviour tests.
type vaultCase struct {
	name string
	new  func(t *testing.T) dumper.Vault
}

func vaultCases() []vaultCase {
	return []vaultCase{
		{
			name: "memory",
			new: func(t *testing.T) dumper.Vault {
				return NewMemoryVault("test")
			},
		},
		{
			name: "filesystem",
			new: func(t *testing.T) dumper.Vault {
				v, err := NewFileSystemVault("test", filepath.Join(t.TempDir(), "vault"))
				if err != nil {
					t.Fatalf("NewFileSystemVault() error = %v", err)
				}
				return v
			},
		},
	}
}

func put(t *testing.T, v dumper.Vault, name, data string) {
	t.Helper()
	if err := v.PutSnapshot(name, strings.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("PutSnapshot(%q) error = %v", name, err)
	}
}

func TestVault_PutGet(t *testing.T) {
	for _, vc := range vaultCases() {
		t.Run(vc.name, func(t *testing.T) {
			v := vc.new(t)
			put(t, v, "ClassDumper-Database-Backup-2024_01_02-03_04_05.sqlite", "SQLite format 3")

			var buf bytes.Buffer
			if err := v.GetSnapshot("ClassDumper-Database-Backup-2024_01_02-03_04_05.sqlite", &buf); err != nil {
				t.Fatalf("GetSnapshot() error = %v", err)
			}
			if buf.String() != "SQLite format 3" {
				t.Errorf("GetSnapshot() = %q, want %q", buf.String(), "SQLite format 3")
			}

			// Same name overwrites.
			put(t, v, "ClassDumper-Database-Backup-2024_01_02-03_04_05.sqlite", "v2")
			buf.Reset()
			if err := v.GetSnapshot("ClassDumper-Database-Backup-2024_01_02-03_04_05.sqlite", &buf); err != nil {
				t.Fatalf("GetSnapshot() error = %v", err)
			}
			if buf.String() != "v2" {
				t.Errorf("GetSnapshot() after overwrite = %q, want v2", buf.String())
			}
		})
	}
}

func TestVault_Errors(t *testing.T) {
	for _, vc := range vaultCases() {
		t.Run(vc.name, func(t *testing.T) {
			v := vc.new(t)

			var buf bytes.Buffer
			if err := v.GetSnapshot("missing.sqlite", &buf); !errors.Is(err, ErrSnapshotNotFound) {
				t.Errorf("GetSnapshot(missing) error = %v, want ErrSnapshotNotFound", err)
			}

			if err := v.PutSnapshot("short.sqlite", strings.NewReader("abc"), 10); err == nil {
				t.Error("PutSnapshot() with wrong size expected error")
			}
			names, err := v.ListSnapshots()
			if err != nil {
				t.Fatalf("ListSnapshots() error = %v", err)
			}
			if len(names) != 0 {
				t.Errorf("ListSnapshots() = %v after failed put, want empty", names)
			}

			for _, bad := range []string{"", "../escape.sqlite", "dir/name.sqlite", ".hidden"} {
				if err := v.PutSnapshot(bad, strings.NewReader("x"), 1); err == nil {
					t.Errorf("PutSnapshot(%q) expected error", bad)
				}
			}
		})
	}
}

func TestVault_ListSnapshots(t *testing.T) {
	for _, vc := range vaultCases() {
		t.Run(vc.name, func(t *testing.T) {
			v := vc.new(t)
			put(t, v, "ClassDumper-Database-Backup-2024_03_01-00_00_00.sqlite", "c")
			put(t, v, "ClassDumper-Database-Backup-2023_12_31-23_59_59.sqlite", "a")
			put(t, v, "ClassDumper-Database-Backup-2024_01_15-12_00_00.sqlite.age", "b")

			names, err := v.ListSnapshots()
			if err != nil {
				t.Fatalf("ListSnapshots() error = %v", err)
			}
			want := []string{
				"ClassDumper-Database-Backup-2023_12_31-23_59_59.sqlite",
				"ClassDumper-Database-Backup-2024_01_15-12_00_00.sqlite.age",
				"ClassDumper-Database-Backup-2024_03_01-00_00_00.sqlite",
			}
			if strings.Join(names, ",") != strings.Join(want, ",") {
				t.Errorf("ListSnapshots() = %v, want %v", names, want)
			}
		})
	}
}

func TestFileSystemVault_Layout(t *testing.T) {
	root := filepath.Join(t.TempDir(), "vault")
	v, err := NewFileSystemVault("local", root)
	if err != nil {
		t.Fatalf("NewFileSystemVault() error = %v", err)
	}
	put(t, v, "db.sqlite", "data")

	if _, err := os.Stat(filepath.Join(root, "snapshots", "db.sqlite")); err != nil {
		t.Errorf("snapshot not stored under snapshots/: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(root, "snapshots"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("snapshots/ has %d entries, want 1 (temp file left behind?)", len(entries))
	}

	if err := v.ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}
	if err := os.RemoveAll(root); err != nil {
		t.Fatalf("RemoveAll() error = %v", err)
	}
	if err := v.ValidateSetup(); err == nil {
		t.Error("ValidateSetup() after removing root expected error")
	}
}

func TestS3Vault_Keys(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "")
	t.Setenv("AWS_REGION", "")
	t.Setenv("AWS_DEFAULT_REGION", "")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "none"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "none"))

	tests := []struct {
		prefix string
		want   string
	}{
		{prefix: "", want: "snapshots/db.sqlite"},
		{prefix: "team", want: "team/snapshots/db.sqlite"},
		{prefix: "/team/classdumper/", want: "team/classdumper/snapshots/db.sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			v, err := NewS3Vault(context.Background(), config.VaultConfig{
				Type:           "s3",
				Name:           "minio",
				S3Bucket:       "dumps",
				S3Prefix:       tt.prefix,
				S3Endpoint:     "http://127.0.0.1:9000",
				S3UsePathStyle: true,
				S3AccessKey:    "key",
				S3SecretKey:    "secret",
			})
			if err != nil {
				t.Fatalf("NewS3Vault() error = %v", err)
			}
			if got := v.objectKey("db.sqlite"); got != tt.want {
				t.Errorf("objectKey() = %q, want %q", got, tt.want)
			}
			if v.client.Options().Region != defaultS3Region {
				t.Errorf("Region = %q, want %q", v.client.Options().Region, defaultS3Region)
			}
		})
	}
}

func TestNewVaultFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.VaultConfig
		wantErr bool
	}{
		{
			name: "memory vault",
			cfg:  config.VaultConfig{Type: "memory", Name: "test-memory"},
		},
		{
			name: "filesystem vault",
			cfg:  config.VaultConfig{Type: "filesystem", Name: "test-fs", FSVaultRoot: "ROOT"},
		},
		{
			name:    "filesystem vault without root",
			cfg:     config.VaultConfig{Type: "filesystem", Name: "test-fs"},
			wantErr: true,
		},
		{
			name:    "s3 vault without bucket",
			cfg:     config.VaultConfig{Type: "s3", Name: "test-s3"},
			wantErr: true,
		},
		{
			name:    "unknown vault type",
			cfg:     config.VaultConfig{Type: "unknown", Name: "test-unknown"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			if cfg.FSVaultRoot == "ROOT" {
				cfg.FSVaultRoot = t.TempDir()
			}

			got, err := NewVaultFromConfig(context.Background(), cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewVaultFromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if err := got.ValidateSetup(); err != nil {
				t.Errorf("ValidateSetup() error = %v", err)
			}
		})
	}
}
