package fs

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// IgnoreFileName is looked up in the ClassDumper base directory.
const IgnoreFileName = "ignore"

// class-dump never writes dotfiles, so hidden entries in its output are
// Finder or editor litter.
var defaultIgnorePatterns = []string{".*"}

type rule struct {
	glob     string
	negate   bool
	anchored bool
}

// IgnoreMatcher decides which entries of a class-dump output directory are
// left out of the harvest.
//
// Rules are evaluated in order and the last matching rule wins, so
// "*-Protocol.h" followed by "!NSCoding-Protocol.h" keeps only that protocol.
// Files under an ignored directory cannot be re-admitted.
// A rule containing '/' is matched against the slash-separated path relative
// to the output root, any other rule against the base name.
type IgnoreMatcher struct {
	rules []rule
}

// NewIgnoreMatcher parses rule lines. Blank lines and '#' comments are skipped.
func NewIgnoreMatcher(lines []string) *IgnoreMatcher {
	m := &IgnoreMatcher{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			continue
		}
		r := rule{}
		if line[0] == '!' {
			r.negate = true
			line = line[1:]
		}
		line = strings.TrimPrefix(line, "/")
		if line == "" {
			continue
		}
		r.anchored = strings.Contains(line, "/")
		r.glob = line
		m.rules = append(m.rules, r)
	}
	return m
}

// Match reports whether rel, a path relative to the output root, is ignored.
func (m *IgnoreMatcher) Match(rel string) bool {
	if rel == "" {
		return false
	}
	slashed := filepath.ToSlash(rel)
	base := path.Base(slashed)

	ignored := false
	for _, r := range m.rules {
		subject := base
		if r.anchored {
			subject = slashed
		}
		if ok, err := path.Match(r.glob, subject); err == nil && ok {
			ignored = !r.negate
		}
	}
	return ignored
}

// ParseIgnoreFile returns the lines of the ignore file at p, or nil when it
// does not exist.
func ParseIgnoreFile(p string) ([]string, error) {
	f, err := os.Open(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file %s: %w", p, err)
	}
	return lines, nil
}
