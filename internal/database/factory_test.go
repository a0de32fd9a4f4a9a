package database

import (
	"path/filepath"
	"testing"

	"classdumper/internal/config"
)

func TestNewStoreFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     func(t *testing.T) config.DatabaseConfig
		wantErr bool
	}{
		{
			name: "memory database",
			cfg: func(t *testing.T) config.DatabaseConfig {
				return config.DatabaseConfig{Type: "memory"}
			},
		},
		{
			name: "sqlite database creates parent directory",
			cfg: func(t *testing.T) config.DatabaseConfig {
				return config.DatabaseConfig{
					Type: "sqlite",
					Path: filepath.Join(t.TempDir(), "Database", "db.sqlite"),
				}
			},
		},
		{
			name: "sqlite database without path",
			cfg: func(t *testing.T) config.DatabaseConfig {
				return config.DatabaseConfig{Type: "sqlite"}
			},
			wantErr: true,
		},
		{
			name: "unknown database type",
			cfg: func(t *testing.T) config.DatabaseConfig {
				return config.DatabaseConfig{Type: "unknown"}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewStoreFromConfig(tt.cfg(t), nil)
			if tt.wantErr {
				if err == nil {
					t.Error("NewStoreFromConfig() expected error, got nil")
				}
				if got != nil {
					t.Error("NewStoreFromConfig() should return nil on error")
					got.Close()
				}
				return
			}

			if err != nil {
				t.Fatalf("NewStoreFromConfig() unexpected error: %v", err)
			}
			defer got.Close()

			if err := got.CheckMigrations(); err != nil {
				t.Errorf("CheckMigrations() error = %v", err)
			}
		})
	}
}
