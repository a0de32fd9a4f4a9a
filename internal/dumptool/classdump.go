package dumptool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"classdumper/internal/dumper"
)

// DefaultExecutable is the name looked up in PATH when no tool path is configured.
const DefaultExecutable = "class-dump"

// ClassDump runs the class-dump executable.
type ClassDump struct {
	path   string
	logger dumper.Logger
}

// NewClassDump returns a tool that runs the executable at path, or looks
// path up in PATH when it has no separator.
func NewClassDump(path string, logger dumper.Logger) *ClassDump {
	if path == "" {
		path = DefaultExecutable
	}
	if logger == nil {
		logger = dumper.NewNopLogger()
	}
	return &ClassDump{path: path, logger: logger}
}

// Args returns the class-dump arguments for dumping input into outDir:
// one header per class with the address and processor options hidden.
func Args(input, outDir string) []string {
	return []string{input, "-t", "-H", "-o", outDir}
}

// Run runs class-dump and returns its stderr. stdout is discarded.
// A non-zero exit is not an error; the caller classifies stderr.
func (c *ClassDump) Run(ctx context.Context, input, outDir string) (string, error) {
	exe, err := exec.LookPath(c.path)
	if err != nil {
		return "", fmt.Errorf("could not find class-dump executable %q: %w: %v", c.path, dumper.ErrSubprocessLaunch, err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, exe, Args(input, outDir)...)
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	c.logger.Debug("running class-dump", "exe", exe, "input", input, "out", outDir)

	err = cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr) && ctx.Err() == nil:
		c.logger.Warn("class-dump exited with error", "input", input, "code", exitErr.ExitCode())
	default:
		return "", fmt.Errorf("running %s: %w: %v", exe, dumper.ErrSubprocessLaunch, err)
	}

	return stderr.String(), nil
}

// Compile-time check that ClassDump implements dumper.DumpTool interface
var _ dumper.DumpTool = (*ClassDump)(nil)
