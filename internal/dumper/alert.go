package dumper

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// NoRuntimeInfoWarning is the stderr fragment class-dump emits for
	// binaries without Objective-C metadata.
	NoRuntimeInfoWarning = "does not contain any Objective-C runtime information"

	// DefaultDialogLength is the default maximum length of an error message.
	DefaultDialogLength = 1000

	titleNothingToParse = "Nothing to parse"
	titleUnexpected     = "An unexpected error occurred"
	truncationTrailer   = "…"
)

// AlertKind classifies what went wrong during an import.
type AlertKind int

const (
	// AlertNothingToParse is the benign outcome for binaries without
	// Objective-C runtime information.
	AlertNothingToParse AlertKind = iota
	// AlertToolError covers every other failure.
	AlertToolError
)

// Alert is the user-facing summary of a failed import.
type Alert struct {
	Kind    AlertKind
	Title   string
	Message string
}

// Benign reports whether the alert is informational rather than an error.
func (a *Alert) Benign() bool {
	return a.Kind == AlertNothingToParse
}

// AlertOptions controls how tool errors are rendered.
type AlertOptions struct {
	// DialogLength is the maximum message length; non-positive means DefaultDialogLength.
	DialogLength int
	// Verbose keeps the raw stderr, skipping cleanup and truncation.
	Verbose bool
}

// ClassifyStderr turns the tool's stderr into an Alert.
// Returns nil when stderr is empty. outputDir names the scratch directory the
// tool wrote to; its base name identifies the input in the benign message.
func ClassifyStderr(stderr, outputDir string, opts AlertOptions) *Alert {
	if stderr == "" {
		return nil
	}
	if strings.Contains(stderr, NoRuntimeInfoWarning) {
		return &Alert{
			Kind:    AlertNothingToParse,
			Title:   titleNothingToParse,
			Message: filepath.Base(outputDir) + " " + NoRuntimeInfoWarning,
		}
	}
	return unexpectedAlert(stderr, opts)
}

func unexpectedAlert(message string, opts AlertOptions) *Alert {
	length := opts.DialogLength
	if length <= 0 {
		length = DefaultDialogLength
	}
	return &Alert{
		Kind:    AlertToolError,
		Title:   titleUnexpected,
		Message: FormatConsoleOutput(message, length, opts.Verbose),
	}
}

// consoleNoise matches the timestamp and process prefix class-dump puts in
// front of every log line, e.g. "2023-07-01 23:41:02.170 class-dump[26337:610266]".
var consoleNoise = regexp.MustCompile(`(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3})|(class-dump\[\d+:\d+\])`)

// FormatConsoleOutput strips timestamps and process prefixes from message and
// truncates it to length characters. When skip is true, message is returned unchanged.
func FormatConsoleOutput(message string, length int, skip bool) string {
	if skip {
		return message
	}
	return Truncate(consoleNoise.ReplaceAllString(message, ""), length)
}

// Truncate shortens s to length characters, the last of which is "…".
// Strings that already fit, and lengths too small to hold any text, are returned unchanged.
func Truncate(s string, length int) string {
	maxLength := length - utf8.RuneCountInString(truncationTrailer)
	if maxLength <= 0 || s == "" || utf8.RuneCountInString(s) <= length {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLength]) + truncationTrailer
}
