package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"classdumper/internal/dumper"
)

// FakeDumpTool stands in for class-dump. Each Run writes Headers into the
// output directory and returns Stderr, or fails with LaunchErr.
type FakeDumpTool struct {
	// Headers maps a path relative to the output directory to its contents.
	Headers map[string]string
	Stderr  string

	// LaunchErr, when set, is returned wrapped in dumper.ErrSubprocessLaunch.
	LaunchErr error

	// Started, when set, receives the output directory once the headers
	// are written. Run then blocks until Release is closed.
	Started chan<- string
	Release <-chan struct{}

	mu    sync.Mutex
	calls []FakeRun
}

// FakeRun records the arguments of one Run call.
type FakeRun struct {
	Input  string
	OutDir string
}

func (f *FakeDumpTool) Run(ctx context.Context, input, outDir string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, FakeRun{Input: input, OutDir: outDir})
	f.mu.Unlock()

	if f.LaunchErr != nil {
		return "", fmt.Errorf("running fake tool: %w: %v", dumper.ErrSubprocessLaunch, f.LaunchErr)
	}

	for rel, contents := range f.Headers {
		path := filepath.Join(outDir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", fmt.Errorf("fake tool: %w", err)
		}
		if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
			return "", fmt.Errorf("fake tool: %w", err)
		}
	}
	if f.Started != nil {
		f.Started <- outDir
		select {
		case <-f.Release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.Stderr, nil
}

// Calls returns the recorded Run calls.
func (f *FakeDumpTool) Calls() []FakeRun {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]FakeRun(nil), f.calls...)
}

var _ dumper.DumpTool = (*FakeDumpTool)(nil)
