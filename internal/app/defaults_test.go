package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv(EnvConfigPath, "/custom/config.toml")
		t.Setenv(EnvHome, "/custom/classdumper")
		t.Setenv(EnvScratch, "/custom/scratch")

		d, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if d.ConfigPath != "/custom/config.toml" {
			t.Errorf("ConfigPath = %q, want %q", d.ConfigPath, "/custom/config.toml")
		}
		if d.BaseDir != "/custom/classdumper" {
			t.Errorf("BaseDir = %q, want %q", d.BaseDir, "/custom/classdumper")
		}
		if d.LogDir != "/custom/classdumper/log" {
			t.Errorf("LogDir = %q, want %q", d.LogDir, "/custom/classdumper/log")
		}
		if d.ScratchDir != "/custom/scratch" {
			t.Errorf("ScratchDir = %q, want %q", d.ScratchDir, "/custom/scratch")
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv(EnvConfigPath, "")
		t.Setenv(EnvHome, "")
		t.Setenv(EnvScratch, "")

		d, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		wantConfig := filepath.Join(home, ".config", "classdumper.toml")
		if d.ConfigPath != wantConfig {
			t.Errorf("ConfigPath = %q, want %q", d.ConfigPath, wantConfig)
		}

		configDir, err := os.UserConfigDir()
		if err != nil {
			t.Fatalf("UserConfigDir() error = %v", err)
		}
		wantBase := filepath.Join(configDir, "ClassDumper")
		if d.BaseDir != wantBase {
			t.Errorf("BaseDir = %q, want %q", d.BaseDir, wantBase)
		}
		if d.LogDir != filepath.Join(wantBase, "log") {
			t.Errorf("LogDir = %q, want %q", d.LogDir, filepath.Join(wantBase, "log"))
		}

		wantScratch := filepath.Join(home, "Documents", "ClassDumper")
		if d.ScratchDir != wantScratch {
			t.Errorf("ScratchDir = %q, want %q", d.ScratchDir, wantScratch)
		}
	})
}
