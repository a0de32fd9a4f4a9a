package live

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"classdumper/internal/database/sqlc"
	"classdumper/internal/dumper"
)

// Scope selects which records a search covers.
type Scope string

const (
	// ScopeSelected searches only the selected folder.
	ScopeSelected Scope = "selected"
	// ScopeAll searches every folder.
	ScopeAll Scope = "all"
)

// ParseScope parses a scope name. "default" is accepted as an alias for
// "selected"; the empty string means ScopeSelected.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "selected", "default":
		return ScopeSelected, nil
	case "all":
		return ScopeAll, nil
	default:
		return "", fmt.Errorf("unknown search scope: %q", s)
	}
}

// Search is a scoped, filtered listing of records.
type Search struct {
	Scope  Scope
	Folder string
	Query  string
}

// Run evaluates the search against the committed state of r.
// A selected-scope search without a folder matches nothing.
func (s Search) Run(r dumper.Reader) ([]*sqlc.File, error) {
	var (
		files []*sqlc.File
		err   error
	)

	switch s.Scope {
	case ScopeAll:
		files, err = r.FetchAll()
	default:
		if s.Folder == "" {
			return []*sqlc.File{}, nil
		}
		files, err = r.FetchByFolder(s.Folder)
	}
	if err != nil {
		return nil, err
	}

	return Filter(files, s.Query), nil
}

// Filter keeps the records whose name contains query, ignoring case and
// diacritics. An empty query keeps every record.
func Filter(files []*sqlc.File, query string) []*sqlc.File {
	if query == "" {
		return files
	}

	needle := Fold(query)
	matched := make([]*sqlc.File, 0, len(files))
	for _, f := range files {
		if strings.Contains(Fold(f.Name), needle) {
			matched = append(matched, f)
		}
	}
	return matched
}

// Fold maps s to its search key: diacritics removed and case folded,
// so "Café" and "CAFE" both fold to "cafe".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}
