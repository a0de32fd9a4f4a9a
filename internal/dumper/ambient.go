package dumper

import (
	"time"

	"github.com/google/uuid"
)

// Logger takes slog-style alternating key/value args.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// NopLogger drops everything.
type NopLogger struct{}

func NewNopLogger() *NopLogger { return &NopLogger{} }

func (*NopLogger) Debug(string, ...any) {}
func (*NopLogger) Info(string, ...any)  {}
func (*NopLogger) Warn(string, ...any)  {}
func (*NopLogger) Error(string, ...any) {}

// Clock stamps import durations and names default database exports.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// RunIDSource names each import run so its log lines can be correlated.
type RunIDSource interface {
	New() string
}

// UUIDRunIDs issues random UUIDs as run ids.
type UUIDRunIDs struct{}

func (UUIDRunIDs) New() string { return uuid.NewString() }
