package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"classdumper/internal/database"
	"classdumper/internal/dumper"
	"classdumper/internal/fs"
	"classdumper/internal/scratch"
)

// ServiceEnv is a Service wired to test doubles, with handles on each part.
type ServiceEnv struct {
	Service     *dumper.Service
	Store       *database.SQLiteStore
	Tool        *FakeDumpTool
	Vault       dumper.Vault
	ScratchRoot string
	Clock       *StubClock
}

// NewServiceEnv builds a Service over a file-backed store, a real filesystem
// manager, a scratch area in a temp directory and the given fake tool.
func NewServiceEnv(t *testing.T, tool *FakeDumpTool) *ServiceEnv {
	t.Helper()

	if tool == nil {
		tool = &FakeDumpTool{}
	}
	store := NewFileStore(t)
	root := filepath.Join(t.TempDir(), "ClassDumper")
	v := NewTestVault()
	clock := FixedClock()

	svc := dumper.NewService(
		store,
		tool,
		scratch.NewFileSystemScratchArea(root, nil),
		fs.NewOSFilesystemManager(),
		v,
		NewTestEncryptor(),
		dumper.NewNopLogger(),
		clock,
		NewRunIDs(),
	)

	return &ServiceEnv{
		Service:     svc,
		Store:       store,
		Tool:        tool,
		Vault:       v,
		ScratchRoot: root,
		Clock:       clock,
	}
}

// MakeInput creates a directory named name (e.g. "Foo.app") to import.
func MakeInput(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("creating input %s: %v", name, err)
	}
	return path
}
