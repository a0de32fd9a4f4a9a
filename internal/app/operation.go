package app

import (
	"time"

	"github.com/google/uuid"
)

// Operation statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Operation tracks one CLI invocation. Its ID tags every log line written
// while it runs.
type Operation struct {
	ID         string
	Name       string
	Parameters string
	Status     string
	StartedAt  time.Time
}

// NewOperation creates an operation with a fresh ID and a success status.
func NewOperation(name, parameters string, startedAt time.Time) *Operation {
	return &Operation{
		ID:         uuid.New().String(),
		Name:       name,
		Parameters: parameters,
		Status:     StatusSuccess,
		StartedAt:  startedAt,
	}
}

// Record marks the operation failed if err is non-nil and returns err.
func (op *Operation) Record(err error) error {
	if err != nil {
		op.Status = StatusError
	}
	return err
}

// Failed reports whether any recorded step failed.
func (op *Operation) Failed() bool {
	return op.Status == StatusError
}
