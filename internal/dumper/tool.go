package dumper

import "context"

// DumpTool runs the external header generator.
type DumpTool interface {
	// Run dumps the headers of input into outDir and returns whatever the
	// tool wrote to stderr. An error is returned only when the tool could
	// not be launched; it wraps ErrSubprocessLaunch.
	Run(ctx context.Context, input, outDir string) (stderr string, err error)
}
