package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for classdumper.
type Config struct {
	BaseDir     string           `toml:"base_dir"`
	LogDir      string           `toml:"log_dir"`
	Database    DatabaseConfig   `toml:"database"`
	Tool        ToolConfig       `toml:"tool"`
	Scratch     ScratchConfig    `toml:"scratch"`
	Filesystem  FilesystemConfig `toml:"filesystem"`
	Preferences Preferences      `toml:"preferences"`
	Vaults      []VaultConfig    `toml:"vaults"`
	Encryption  EncryptionConfig `toml:"encryption"`
	Server      ServerConfig     `toml:"server"`
}

// DatabaseConfig represents configuration for the header database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type string `toml:"type"`           // "sqlite" or "memory"
	Path string `toml:"path,omitempty"` // only used for type=sqlite
}

// ToolConfig locates the class-dump executable.
type ToolConfig struct {
	// Path is the executable path or a name looked up in PATH.
	Path string `toml:"path"`
}

// ScratchConfig represents configuration for the per-import output directories.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ScratchConfig struct {
	Type string `toml:"type"`           // "documents" or "temp"
	Root string `toml:"root,omitempty"` // only used for type=documents
}

// FilesystemConfig holds filesystem-related settings.
type FilesystemConfig struct {
	// Ignore lists extra patterns skipped when collecting generated headers.
	Ignore []string `toml:"ignore"`
}

// VaultConfig represents configuration for a snapshot vault backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "memory", "s3", or "filesystem"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket       string `toml:"s3_bucket,omitempty"`
	S3Prefix       string `toml:"s3_prefix,omitempty"`
	S3Region       string `toml:"s3_region,omitempty"`
	S3Endpoint     string `toml:"s3_endpoint,omitempty"`
	S3UsePathStyle bool   `toml:"s3_use_path_style,omitempty"`
	S3AccessKey    string `toml:"s3_access_key,omitempty"`
	S3SecretKey    string `toml:"s3_secret_key,omitempty"`

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used for encrypted exports.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// ServerConfig configures `classdumper serve`.
type ServerConfig struct {
	Addr                   string `toml:"addr"`
	ShutdownTimeoutSeconds int    `toml:"shutdown_timeout_seconds"`
	CacheSize              int    `toml:"cache_size"`
	CacheTTLSeconds        int    `toml:"cache_ttl_seconds"`
}

// Server defaults.
const (
	DefaultServerAddr      = "127.0.0.1:8420"
	DefaultShutdownTimeout = 10
	DefaultCacheSize       = 256
	DefaultCacheTTL        = 300
)

// NewConfig creates a new Config rooted at baseDir with default paths and preferences.
// scratchRoot is where per-import output directories are created.
func NewConfig(baseDir, scratchRoot string) *Config {
	return &Config{
		BaseDir: baseDir,
		LogDir:  filepath.Join(baseDir, "log"),
		Database: DatabaseConfig{
			Type: "sqlite",
			Path: filepath.Join(baseDir, "Database", "db.sqlite"),
		},
		Tool:        ToolConfig{Path: "class-dump"},
		Scratch:     ScratchConfig{Type: "documents", Root: scratchRoot},
		Preferences: DefaultPreferences(),
		Encryption: EncryptionConfig{
			Type:           "age",
			PublicKeyPath:  filepath.Join(baseDir, "keys", "classdumper.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "classdumper.key"),
		},
		Server: ServerConfig{
			Addr:                   DefaultServerAddr,
			ShutdownTimeoutSeconds: DefaultShutdownTimeout,
			CacheSize:              DefaultCacheSize,
			CacheTTLSeconds:        DefaultCacheTTL,
		},
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
// Preferences missing from the input keep their defaults.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	cfg := Config{Preferences: DefaultPreferences()}
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to path through a temp file in the same directory.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	tmp := f.Name()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing config file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing config file: %w", err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}

// Save overwrites the config file at path.
func Save(path string, cfg *Config) error {
	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}
