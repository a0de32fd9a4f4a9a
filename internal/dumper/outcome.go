package dumper

// ImportOutcome is the result of one import attempt: either the directory
// the stored headers were read from, or the raw error text.
type ImportOutcome struct {
	ok        bool
	outputDir string
	errText   string
}

// Success returns an outcome for a run whose headers in dir were stored.
func Success(dir string) ImportOutcome {
	return ImportOutcome{ok: true, outputDir: dir}
}

// Failure returns an outcome carrying the raw error text.
func Failure(raw string) ImportOutcome {
	return ImportOutcome{errText: raw}
}

func (o ImportOutcome) IsSuccess() bool { return o.ok }

// OutputDir returns the directory headers were written to. Empty on failure.
func (o ImportOutcome) OutputDir() string { return o.outputDir }

// ErrorText returns the raw error text. Empty on success.
func (o ImportOutcome) ErrorText() string { return o.errText }
