package dumper

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"classdumper/internal/database/sqlc"
)

// errToolReported marks imports the dump tool itself rejected.
var errToolReported = errors.New("dump tool reported an error")

// ImportResult describes one run of the import pipeline.
type ImportResult struct {
	ID       string
	Input    string
	Folder   string
	Outcome  ImportOutcome
	Alert    *Alert
	Imported int

	// Err is the cause behind a non-benign Alert.
	Err error
}

// Failed reports whether the import ended with an error alert.
// "Nothing to parse" is not a failure.
func (r *ImportResult) Failed() bool {
	return r.Alert != nil && !r.Alert.Benign()
}

// Import runs the dump tool on rawPath and stores one record per generated
// header. Every failure after the input has been resolved is reported through
// the result's Alert; the returned error is reserved for inputs that cannot
// be resolved. Each run gets its own scratch directory, removed before
// Import returns, so concurrent imports never see each other's output.
func (s *Service) Import(ctx context.Context, rawPath string) (*ImportResult, error) {
	input, err := s.fsmgr.Resolve(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving input: %w", err)
	}

	start := s.clock.Now()
	result := &ImportResult{
		ID:     s.runIDs.New(),
		Input:  input.String(),
		Folder: input.Stem(),
	}
	s.logger.Info("import started", "import_id", result.ID, "input", result.Input)

	defer func() { observeImport(result, s.clock.Now().Sub(start)) }()

	dir, err := s.scratch.Prepare(input.Stem())
	if err != nil {
		result.Outcome = Failure(err.Error())
		s.fail(result, err)
		return result, nil
	}
	defer s.scratch.Cleanup(dir)

	stderr, err := s.tool.Run(ctx, input.String(), dir)
	if err != nil {
		result.Outcome = Failure(err.Error())
		s.fail(result, err)
		return result, nil
	}

	if alert := ClassifyStderr(stderr, dir, s.alerts); alert != nil {
		result.Outcome = Failure(stderr)
		result.Alert = alert
		if !alert.Benign() {
			result.Err = errToolReported
		}
		s.logger.Warn("dump tool reported errors", "import_id", result.ID, "title", alert.Title)
		return result, nil
	}

	records, err := s.harvest(dir)
	if err != nil {
		err = fmt.Errorf("collecting headers: %w", err)
		result.Outcome = Failure(err.Error())
		s.fail(result, err)
		return result, nil
	}

	if err := s.db.InsertBatch(records); err != nil {
		err = fmt.Errorf("saving headers: %w", err)
		result.Outcome = Failure(err.Error())
		s.fail(result, err)
		return result, nil
	}

	result.Outcome = Success(dir)
	result.Imported = len(records)
	s.logger.Info("import complete", "import_id", result.ID, "folder", result.Folder, "count", result.Imported)
	return result, nil
}

// fail records err as the cause of an unexpected-error alert on result.
func (s *Service) fail(result *ImportResult, err error) {
	result.Err = err
	result.Alert = unexpectedAlert(err.Error(), s.alerts)
	s.logger.Error("import failed", "import_id", result.ID, "error", err)
}

// harvest turns every non-hidden file under dir into a record. The folder is
// the file's immediate parent directory name. Unreadable files are stored
// with empty contents.
func (s *Service) harvest(dir string) ([]*sqlc.File, error) {
	root, err := s.fsmgr.Resolve(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving output directory: %w", err)
	}

	paths, err := s.fsmgr.FindFiles(root, true)
	if err != nil {
		return nil, fmt.Errorf("finding headers: %w", err)
	}

	records := make([]*sqlc.File, 0, len(paths))
	for _, p := range paths {
		text, err := s.fsmgr.ReadText(p)
		if err != nil {
			s.logger.Warn("header not readable, storing empty contents", "path", p.String(), "error", err)
			text = ""
		}
		records = append(records, &sqlc.File{
			Name:     p.Base(),
			Folder:   p.Parent(),
			Contents: sql.NullString{String: text, Valid: true},
		})
	}

	s.logger.Debug("headers collected", "dir", dir, "count", len(records))
	return records, nil
}
