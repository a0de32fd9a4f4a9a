package fs

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func names(t *testing.T, m *OSFilesystemManager, dir string, recursive bool) []string {
	t.Helper()
	root, err := m.Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	found, err := m.FindFiles(root, recursive)
	if err != nil {
		t.Fatalf("FindFiles() error = %v", err)
	}
	var out []string
	for _, p := range found {
		rel, err := filepath.Rel(root.String(), p.String())
		if err != nil {
			t.Fatalf("Rel() error = %v", err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestResolve(t *testing.T) {
	t.Run("follows symlinks", func(t *testing.T) {
		dir := t.TempDir()
		target := filepath.Join(dir, "Foo.app")
		if err := os.Mkdir(target, 0755); err != nil {
			t.Fatalf("Mkdir() error = %v", err)
		}
		link := filepath.Join(dir, "link.app")
		if err := os.Symlink(target, link); err != nil {
			t.Fatalf("Symlink() error = %v", err)
		}

		m := NewOSFilesystemManager()
		p, err := m.Resolve(link)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if p.Stem() != "Foo" {
			t.Errorf("Stem() = %q, want Foo", p.Stem())
		}
		if !p.IsDir() {
			t.Error("IsDir() = false, want true")
		}
	})

	t.Run("missing path", func(t *testing.T) {
		m := NewOSFilesystemManager()
		if _, err := m.Resolve(filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Error("Resolve() expected error for missing path")
		}
	})
}

func TestFindFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Foo", "A.h"), "a")
	writeFile(t, filepath.Join(dir, "Foo", "B.h"), "b")
	writeFile(t, filepath.Join(dir, "Foo", ".DS_Store"), "junk")
	writeFile(t, filepath.Join(dir, ".hidden", "C.h"), "c")
	writeFile(t, filepath.Join(dir, "Bar", "Protocols", "P.h"), "p")
	writeFile(t, filepath.Join(dir, "Top.h"), "t")

	tests := []struct {
		name      string
		ignore    []string
		recursive bool
		want      []string
	}{
		{
			name:      "recursive skips hidden",
			recursive: true,
			want:      []string{"Bar/Protocols/P.h", "Foo/A.h", "Foo/B.h", "Top.h"},
		},
		{
			name:      "non-recursive",
			recursive: false,
			want:      []string{"Top.h"},
		},
		{
			name:      "extra ignore patterns",
			ignore:    []string{"Bar", "B.h"},
			recursive: true,
			want:      []string{"Foo/A.h", "Top.h"},
		},
		{
			name:      "negated pattern keeps one header",
			ignore:    []string{"*.h", "!B.h"},
			recursive: true,
			want:      []string{"Foo/B.h"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewOSFilesystemManager(tt.ignore...)
			got := names(t, m, dir, tt.recursive)
			if !equal(got, tt.want) {
				t.Errorf("FindFiles() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindFiles_SymlinkedFile(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "Elsewhere", "Real.h"), "real")
	if err := os.MkdirAll(filepath.Join(dir, "Foo"), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.Symlink(filepath.Join(outside, "Elsewhere", "Real.h"), filepath.Join(dir, "Foo", "Link.h")); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}
	if err := os.Symlink(filepath.Join(outside, "missing.h"), filepath.Join(dir, "Dangling.h")); err != nil {
		t.Fatalf("Symlink() error = %v", err)
	}

	m := NewOSFilesystemManager()
	root, err := m.Resolve(dir)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	found, err := m.FindFiles(root, true)
	if err != nil {
		t.Fatalf("FindFiles() error = %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("FindFiles() returned %d paths, want 1", len(found))
	}
	if found[0].Base() != "Link.h" || found[0].Parent() != "Foo" {
		t.Errorf("found %s, want Foo/Link.h", found[0])
	}
	text, err := m.ReadText(found[0])
	if err != nil || text != "real" {
		t.Errorf("ReadText() = %q, %v, want target contents", text, err)
	}
}

func TestReadText(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.h")
	bad := filepath.Join(dir, "bad.h")
	writeFile(t, good, "@interface Café : NSObject\n@end\n")
	writeFile(t, bad, string([]byte{0xff, 0xfe, 0x00}))

	m := NewOSFilesystemManager()

	p, err := m.Resolve(good)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	text, err := m.ReadText(p)
	if err != nil {
		t.Fatalf("ReadText() error = %v", err)
	}
	if text != "@interface Café : NSObject\n@end\n" {
		t.Errorf("ReadText() = %q", text)
	}

	p, err = m.Resolve(bad)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if _, err := m.ReadText(p); err == nil {
		t.Error("ReadText() expected error for invalid UTF-8")
	}
}
