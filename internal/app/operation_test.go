package app

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewOperation(t *testing.T) {
	start := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		operation  string
		parameters string
	}{
		{name: "with parameters", operation: "Import", parameters: "/Applications/Foo.app"},
		{name: "empty parameters", operation: "Folders", parameters: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperation(tt.operation, tt.parameters, start)

			if op.Name != tt.operation {
				t.Errorf("Name = %q, want %q", op.Name, tt.operation)
			}
			if op.Parameters != tt.parameters {
				t.Errorf("Parameters = %q, want %q", op.Parameters, tt.parameters)
			}
			if op.Status != StatusSuccess {
				t.Errorf("Status = %q, want %q", op.Status, StatusSuccess)
			}
			if !op.StartedAt.Equal(start) {
				t.Errorf("StartedAt = %v, want %v", op.StartedAt, start)
			}
			if _, err := uuid.Parse(op.ID); err != nil {
				t.Errorf("ID %q is not a UUID: %v", op.ID, err)
			}
		})
	}

	a := NewOperation("Import", "", start)
	b := NewOperation("Import", "", start)
	if a.ID == b.ID {
		t.Error("two operations share an ID")
	}
}

func TestOperation_Record(t *testing.T) {
	tests := []struct {
		name string
		errs []error
		want bool
	}{
		{name: "no errors", errs: []error{nil, nil}, want: false},
		{name: "one error", errs: []error{nil, errors.New("boom")}, want: true},
		{name: "error then success stays failed", errs: []error{errors.New("boom"), nil}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := NewOperation("Edit", "", time.Now())
			for _, err := range tt.errs {
				if got := op.Record(err); got != err {
					t.Errorf("Record() = %v, want %v", got, err)
				}
			}
			if op.Failed() != tt.want {
				t.Errorf("Failed() = %v, want %v", op.Failed(), tt.want)
			}
		})
	}
}
