package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewIgnoreMatcher(t *testing.T) {
	m := NewIgnoreMatcher([]string{"", "  ", "# generated by hand", "*.tmp", "!Keep.tmp", "/Protocols/*.h", "!"})

	want := []rule{
		{glob: "*.tmp"},
		{glob: "Keep.tmp", negate: true},
		{glob: "Protocols/*.h", anchored: true},
	}
	if len(m.rules) != len(want) {
		t.Fatalf("rules = %+v, want %+v", m.rules, want)
	}
	for i := range want {
		if m.rules[i] != want[i] {
			t.Errorf("rules[%d] = %+v, want %+v", i, m.rules[i], want[i])
		}
	}
}

func TestIgnoreMatcher_Match(t *testing.T) {
	tests := []struct {
		name  string
		rules []string
		rel   string
		want  bool
	}{
		{"hidden file in root", defaultIgnorePatterns, ".DS_Store", true},
		{"hidden file in folder", defaultIgnorePatterns, filepath.Join("CDStructures", ".swp"), true},
		{"header kept", defaultIgnorePatterns, "NSObject.h", false},
		{"basename glob in subdirectory", []string{"*.tmp"}, filepath.Join("Frameworks", "x.tmp"), true},
		{"basename glob other extension", []string{"*.tmp"}, "CDStructures.h", false},
		{"anchored rule", []string{"Frameworks/*.h"}, filepath.Join("Frameworks", "UIKit.h"), true},
		{"anchored rule other directory", []string{"Frameworks/*.h"}, filepath.Join("Protocols", "UIKit.h"), false},
		{"anchored rule does not cross directories", []string{"Frameworks/*.h"}, filepath.Join("Frameworks", "Sub", "UIKit.h"), false},
		{"negation re-admits", []string{"*-Protocol.h", "!NSCoding-Protocol.h"}, "NSCoding-Protocol.h", false},
		{"negation leaves others ignored", []string{"*-Protocol.h", "!NSCoding-Protocol.h"}, "NSCopying-Protocol.h", true},
		{"last match wins", []string{"!A.h", "A.h"}, "A.h", true},
		{"negation alone ignores nothing", []string{"!A.h"}, "A.h", false},
		{"character class", []string{"*.[oa]"}, "libfoo.a", true},
		{"malformed glob is skipped", []string{"[", "*.tmp"}, "x.tmp", true},
		{"no rules", nil, "A.h", false},
		{"empty path", []string{"*"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NewIgnoreMatcher(tt.rules).Match(tt.rel); got != tt.want {
				t.Errorf("Match(%q) with %q = %v, want %v", tt.rel, tt.rules, got, tt.want)
			}
		})
	}
}

func TestParseIgnoreFile(t *testing.T) {
	t.Run("returns raw lines", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(t.TempDir(), IgnoreFileName)
		if err := os.WriteFile(p, []byte("*.tmp\n# comment\n\n!Keep.tmp\n"), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		lines, err := ParseIgnoreFile(p)
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		if len(lines) != 4 {
			t.Fatalf("ParseIgnoreFile() = %q, want 4 lines", lines)
		}
		if got := len(NewIgnoreMatcher(lines).rules); got != 2 {
			t.Errorf("parsed %d rules, want 2", got)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		lines, err := ParseIgnoreFile(filepath.Join(t.TempDir(), "absent"))
		if err != nil || lines != nil {
			t.Errorf("ParseIgnoreFile() = %q, %v, want nil, nil", lines, err)
		}
	})

	t.Run("directory is an error", func(t *testing.T) {
		t.Parallel()
		if _, err := ParseIgnoreFile(t.TempDir()); err == nil {
			t.Error("ParseIgnoreFile() on a directory expected error")
		}
	})
}
