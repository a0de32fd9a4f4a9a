package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Environment variables that override the default locations.
const (
	EnvConfigPath = "CLASSDUMPER_CONFIG_PATH"
	EnvHome       = "CLASSDUMPER_HOME"
	EnvScratch    = "CLASSDUMPER_SCRATCH"
)

// Defaults holds the application default paths.
type Defaults struct {
	ConfigPath string
	BaseDir    string
	LogDir     string
	ScratchDir string
}

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - CLASSDUMPER_CONFIG_PATH: config file location (default: ~/.config/classdumper.toml)
//   - CLASSDUMPER_HOME: base directory for the database, keys and logs (default: <user config dir>/ClassDumper)
//   - CLASSDUMPER_SCRATCH: root of the per-import output directories (default: ~/Documents/ClassDumper)
func GetDefaults() (*Defaults, error) {
	configPath, err := fromEnvOrHome(EnvConfigPath, ".config", "classdumper.toml")
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	scratchDir, err := fromEnvOrHome(EnvScratch, "Documents", "ClassDumper")
	if err != nil {
		return nil, err
	}

	return &Defaults{
		ConfigPath: configPath,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
		ScratchDir: scratchDir,
	}, nil
}

// fromEnvOrHome returns the value of env if set, otherwise the path made of
// elem under the user's home directory.
func fromEnvOrHome(env string, elem ...string) (string, error) {
	if path := os.Getenv(env); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{homeDir}, elem...)...), nil
}

// getBaseDir returns the base directory for classdumper data, checking
// CLASSDUMPER_HOME first, then falling back to <user config dir>/ClassDumper.
func getBaseDir() (string, error) {
	if path := os.Getenv(EnvHome); path != "" {
		return path, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine user config directory: %w", err)
	}
	return filepath.Join(configDir, "ClassDumper"), nil
}
