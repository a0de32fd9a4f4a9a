package dumper

// ScratchArea hands out per-import output directories for the dump tool.
// Every Prepare returns a fresh directory, so concurrent imports of inputs
// with the same stem never share one.
type ScratchArea interface {
	// Prepare creates an empty directory named stem for one import and
	// returns its path.
	Prepare(stem string) (string, error)

	// Cleanup removes a directory returned by Prepare. Removal failures
	// are logged; removing a missing directory is a no-op.
	Cleanup(dir string)
}
