package database

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"classdumper/internal/database/sqlc"
	"classdumper/internal/dumper"
)

// newTestStore creates a new in-memory store with schema applied.
func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(MemoryPath, nil)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// newFileStore creates a store backed by a file in a temp directory.
func newFileStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "Database", "db.sqlite"), nil)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	s.SettleDelay = 0

	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func header(folder, name, contents string) *sqlc.File {
	return &sqlc.File{
		Name:     name,
		Folder:   folder,
		Contents: sql.NullString{String: contents, Valid: true},
	}
}

func mustCount(t *testing.T, s *SQLiteStore) int64 {
	t.Helper()
	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	return n
}

func TestSQLiteStore_InsertOne(t *testing.T) {
	t.Run("assigns id and round-trips", func(t *testing.T) {
		s := newTestStore(t)

		created, err := s.InsertOne(header("Foo", "A.h", "@interface A"))
		if err != nil {
			t.Fatalf("InsertOne() error = %v", err)
		}
		if created.ID == 0 {
			t.Error("ID was not assigned")
		}

		got, err := s.FetchByID(created.ID)
		if err != nil {
			t.Fatalf("FetchByID() error = %v", err)
		}
		if got == nil {
			t.Fatal("FetchByID() returned nil")
		}
		if got.Name != "A.h" || got.Folder != "Foo" || got.Contents.String != "@interface A" {
			t.Errorf("FetchByID() = %+v, want A.h in Foo", got)
		}
	})

	t.Run("rejects duplicate name in folder", func(t *testing.T) {
		s := newTestStore(t)

		if _, err := s.InsertOne(header("Foo", "A.h", "")); err != nil {
			t.Fatalf("first InsertOne() error = %v", err)
		}

		_, err := s.InsertOne(header("Foo", "A.h", "other"))
		if !errors.Is(err, dumper.ErrConstraintViolation) {
			t.Errorf("second InsertOne() error = %v, want ErrConstraintViolation", err)
		}
		if n := mustCount(t, s); n != 1 {
			t.Errorf("Count() = %d, want 1", n)
		}
	})

	t.Run("allows same name in another folder", func(t *testing.T) {
		s := newTestStore(t)

		if _, err := s.InsertOne(header("Foo", "A.h", "")); err != nil {
			t.Fatalf("InsertOne(Foo) error = %v", err)
		}
		if _, err := s.InsertOne(header("Bar", "A.h", "")); err != nil {
			t.Errorf("InsertOne(Bar) error = %v", err)
		}
	})

	t.Run("stores null contents", func(t *testing.T) {
		s := newTestStore(t)

		created, err := s.InsertOne(&sqlc.File{Name: "A.h", Folder: "Foo"})
		if err != nil {
			t.Fatalf("InsertOne() error = %v", err)
		}
		if created.Contents.Valid {
			t.Errorf("Contents = %+v, want null", created.Contents)
		}
	})
}

func TestSQLiteStore_InsertBatch(t *testing.T) {
	t.Run("inserts all records", func(t *testing.T) {
		s := newTestStore(t)

		err := s.InsertBatch([]*sqlc.File{
			header("Foo", "A.h", "a"),
			header("Foo", "B.h", "b"),
			header("Foo", "C.h", "c"),
		})
		if err != nil {
			t.Fatalf("InsertBatch() error = %v", err)
		}
		if n := mustCount(t, s); n != 3 {
			t.Errorf("Count() = %d, want 3", n)
		}
	})

	t.Run("duplicate inside batch persists nothing", func(t *testing.T) {
		s := newTestStore(t)

		err := s.InsertBatch([]*sqlc.File{
			header("Foo", "A.h", "a"),
			header("Foo", "B.h", "b"),
			header("Foo", "A.h", "again"),
		})
		if !errors.Is(err, dumper.ErrConstraintViolation) {
			t.Errorf("InsertBatch() error = %v, want ErrConstraintViolation", err)
		}
		if n := mustCount(t, s); n != 0 {
			t.Errorf("Count() = %d, want 0", n)
		}
	})

	t.Run("duplicate of existing record leaves count unchanged", func(t *testing.T) {
		s := newTestStore(t)

		if err := s.InsertBatch([]*sqlc.File{header("Foo", "A.h", ""), header("Foo", "B.h", "")}); err != nil {
			t.Fatalf("first InsertBatch() error = %v", err)
		}

		err := s.InsertBatch([]*sqlc.File{header("Foo", "C.h", ""), header("Foo", "A.h", "")})
		if !errors.Is(err, dumper.ErrConstraintViolation) {
			t.Errorf("second InsertBatch() error = %v, want ErrConstraintViolation", err)
		}
		if n := mustCount(t, s); n != 2 {
			t.Errorf("Count() = %d, want 2", n)
		}
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		s := newTestStore(t)

		_, before := s.Watch()
		if err := s.InsertBatch(nil); err != nil {
			t.Fatalf("InsertBatch(nil) error = %v", err)
		}
		_, after := s.Watch()
		if after != before {
			t.Errorf("Watch() state changed from %+v to %+v on empty batch", before, after)
		}
	})
}

func TestSQLiteStore_Update(t *testing.T) {
	t.Run("overwrites all fields", func(t *testing.T) {
		s := newTestStore(t)

		created, err := s.InsertOne(header("Foo", "A.h", "old"))
		if err != nil {
			t.Fatalf("InsertOne() error = %v", err)
		}

		created.Name = "Renamed.h"
		created.Folder = "Bar"
		created.Contents = sql.NullString{String: "new", Valid: true}
		if err := s.Update(created); err != nil {
			t.Fatalf("Update() error = %v", err)
		}

		got, err := s.FetchByID(created.ID)
		if err != nil {
			t.Fatalf("FetchByID() error = %v", err)
		}
		if got.Name != "Renamed.h" || got.Folder != "Bar" || got.Contents.String != "new" {
			t.Errorf("FetchByID() = %+v, want updated record", got)
		}
	})

	t.Run("missing record", func(t *testing.T) {
		s := newTestStore(t)

		err := s.Update(&sqlc.File{ID: 42, Name: "A.h", Folder: "Foo"})
		if !errors.Is(err, dumper.ErrRecordNotFound) {
			t.Errorf("Update() error = %v, want ErrRecordNotFound", err)
		}
	})

	t.Run("update into existing pair", func(t *testing.T) {
		s := newTestStore(t)

		if _, err := s.InsertOne(header("Foo", "A.h", "")); err != nil {
			t.Fatalf("InsertOne(A) error = %v", err)
		}
		b, err := s.InsertOne(header("Foo", "B.h", ""))
		if err != nil {
			t.Fatalf("InsertOne(B) error = %v", err)
		}

		b.Name = "A.h"
		if err := s.Update(b); !errors.Is(err, dumper.ErrConstraintViolation) {
			t.Errorf("Update() error = %v, want ErrConstraintViolation", err)
		}
	})
}

func TestSQLiteStore_Deletes(t *testing.T) {
	seed := func(t *testing.T) *SQLiteStore {
		t.Helper()
		s := newTestStore(t)
		err := s.InsertBatch([]*sqlc.File{
			header("Foo", "A.h", ""),
			header("Foo", "B.h", ""),
			header("Bar", "C.h", ""),
		})
		if err != nil {
			t.Fatalf("InsertBatch() error = %v", err)
		}
		return s
	}

	t.Run("delete folder", func(t *testing.T) {
		s := seed(t)

		n, err := s.DeleteFolder("Foo")
		if err != nil {
			t.Fatalf("DeleteFolder() error = %v", err)
		}
		if n != 2 {
			t.Errorf("DeleteFolder() = %d, want 2", n)
		}
		if c := mustCount(t, s); c != 1 {
			t.Errorf("Count() = %d, want 1", c)
		}
	})

	t.Run("delete unknown folder", func(t *testing.T) {
		s := seed(t)

		n, err := s.DeleteFolder("Nope")
		if err != nil {
			t.Fatalf("DeleteFolder() error = %v", err)
		}
		if n != 0 {
			t.Errorf("DeleteFolder() = %d, want 0", n)
		}
	})

	t.Run("delete all", func(t *testing.T) {
		s := seed(t)

		if err := s.DeleteAllFiles(); err != nil {
			t.Fatalf("DeleteAllFiles() error = %v", err)
		}
		if c := mustCount(t, s); c != 0 {
			t.Errorf("Count() = %d, want 0", c)
		}
		one, err := s.FetchOne()
		if err != nil {
			t.Fatalf("FetchOne() error = %v", err)
		}
		if one != nil {
			t.Errorf("FetchOne() = %+v, want nil", one)
		}
	})
}

func TestSQLiteStore_Queries(t *testing.T) {
	s := newTestStore(t)

	err := s.InsertBatch([]*sqlc.File{
		header("Zeta", "Z.h", ""),
		header("Alpha", "B.h", ""),
		header("Zeta", "A.h", ""),
		header("Alpha", "C.h", ""),
		header("Zeta", "M.h", ""),
	})
	if err != nil {
		t.Fatalf("InsertBatch() error = %v", err)
	}

	t.Run("fetch all ordered by name", func(t *testing.T) {
		files, err := s.FetchAll()
		if err != nil {
			t.Fatalf("FetchAll() error = %v", err)
		}
		want := []string{"A.h", "B.h", "C.h", "M.h", "Z.h"}
		if len(files) != len(want) {
			t.Fatalf("FetchAll() returned %d files, want %d", len(files), len(want))
		}
		for i, f := range files {
			if f.Name != want[i] {
				t.Errorf("FetchAll()[%d].Name = %q, want %q", i, f.Name, want[i])
			}
		}
	})

	t.Run("fetch by folder", func(t *testing.T) {
		files, err := s.FetchByFolder("Zeta")
		if err != nil {
			t.Fatalf("FetchByFolder() error = %v", err)
		}
		want := []string{"A.h", "M.h", "Z.h"}
		if len(files) != len(want) {
			t.Fatalf("FetchByFolder() returned %d files, want %d", len(files), len(want))
		}
		for i, f := range files {
			if f.Name != want[i] {
				t.Errorf("FetchByFolder()[%d].Name = %q, want %q", i, f.Name, want[i])
			}
		}
	})

	t.Run("folder counts in first-seen order", func(t *testing.T) {
		counts, err := s.FolderCounts()
		if err != nil {
			t.Fatalf("FolderCounts() error = %v", err)
		}
		want := []dumper.FolderCount{{Folder: "Zeta", Count: 3}, {Folder: "Alpha", Count: 2}}
		if len(counts) != len(want) {
			t.Fatalf("FolderCounts() = %+v, want %+v", counts, want)
		}
		for i := range want {
			if counts[i] != want[i] {
				t.Errorf("FolderCounts()[%d] = %+v, want %+v", i, counts[i], want[i])
			}
		}
	})

	t.Run("fetch by unknown id", func(t *testing.T) {
		f, err := s.FetchByID(9999)
		if err != nil {
			t.Fatalf("FetchByID() error = %v", err)
		}
		if f != nil {
			t.Errorf("FetchByID() = %+v, want nil", f)
		}
	})
}

func TestSQLiteStore_Watch(t *testing.T) {
	t.Run("committed write closes the channel", func(t *testing.T) {
		s := newTestStore(t)

		ch, before := s.Watch()
		if _, err := s.InsertOne(header("Foo", "A.h", "")); err != nil {
			t.Fatalf("InsertOne() error = %v", err)
		}

		select {
		case <-ch:
		default:
			t.Fatal("Watch() channel not closed after InsertOne returned")
		}

		_, after := s.Watch()
		if after.Seq != before.Seq+1 {
			t.Errorf("Seq = %d, want %d", after.Seq, before.Seq+1)
		}
	})

	t.Run("failed write does not notify", func(t *testing.T) {
		s := newTestStore(t)

		if _, err := s.InsertOne(header("Foo", "A.h", "")); err != nil {
			t.Fatalf("InsertOne() error = %v", err)
		}

		ch, _ := s.Watch()
		if err := s.InsertBatch([]*sqlc.File{header("Foo", "A.h", "")}); err == nil {
			t.Fatal("InsertBatch() expected error")
		}

		select {
		case <-ch:
			t.Error("Watch() channel closed after a rolled back write")
		default:
		}
	})
}

func TestSQLiteStore_BackupAndReplace(t *testing.T) {
	t.Run("restores exported contents", func(t *testing.T) {
		s := newFileStore(t)

		if err := s.InsertBatch([]*sqlc.File{header("Foo", "A.h", "a"), header("Foo", "B.h", "b")}); err != nil {
			t.Fatalf("InsertBatch() error = %v", err)
		}

		backup := filepath.Join(t.TempDir(), "backup.sqlite")
		if err := s.BackupTo(backup); err != nil {
			t.Fatalf("BackupTo() error = %v", err)
		}

		if err := s.DeleteAllFiles(); err != nil {
			t.Fatalf("DeleteAllFiles() error = %v", err)
		}

		_, before := s.Watch()
		if err := s.ReplaceWith(backup); err != nil {
			t.Fatalf("ReplaceWith() error = %v", err)
		}

		if n := mustCount(t, s); n != 2 {
			t.Errorf("Count() after ReplaceWith = %d, want 2", n)
		}

		_, after := s.Watch()
		if after.Epoch != before.Epoch+1 {
			t.Errorf("Epoch = %d, want %d", after.Epoch, before.Epoch+1)
		}
	})

	t.Run("rejects database without file table", func(t *testing.T) {
		s := newFileStore(t)

		if _, err := s.InsertOne(header("Foo", "A.h", "")); err != nil {
			t.Fatalf("InsertOne() error = %v", err)
		}

		other := filepath.Join(t.TempDir(), "other.sqlite")
		db, err := OpenConnection(other)
		if err != nil {
			t.Fatalf("OpenConnection() error = %v", err)
		}
		if _, err := db.Exec("CREATE TABLE notes (id INTEGER PRIMARY KEY)"); err != nil {
			t.Fatalf("creating table: %v", err)
		}
		db.Close()

		err = s.ReplaceWith(other)
		if !errors.Is(err, dumper.ErrInvalidDatabase) {
			t.Errorf("ReplaceWith() error = %v, want ErrInvalidDatabase", err)
		}
		if n := mustCount(t, s); n != 1 {
			t.Errorf("Count() = %d, want 1 (live database untouched)", n)
		}
	})

	t.Run("rejects file that is not a database", func(t *testing.T) {
		s := newFileStore(t)

		junk := filepath.Join(t.TempDir(), "junk.sqlite")
		if err := os.WriteFile(junk, []byte("definitely not sqlite, just some text padding it out"), 0644); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}

		if err := s.ReplaceWith(junk); !errors.Is(err, dumper.ErrInvalidDatabase) {
			t.Errorf("ReplaceWith() error = %v, want ErrInvalidDatabase", err)
		}
	})

	t.Run("rejects the live database", func(t *testing.T) {
		s := newFileStore(t)
		if err := s.InsertBatch([]*sqlc.File{header("Foo", "A.h", "a"), header("Foo", "B.h", "b")}); err != nil {
			t.Fatalf("InsertBatch() error = %v", err)
		}

		link := filepath.Join(t.TempDir(), "link.sqlite")
		if err := os.Symlink(s.Path(), link); err != nil {
			t.Fatalf("Symlink() error = %v", err)
		}

		for _, src := range []string{s.Path(), link} {
			if err := s.ReplaceWith(src); !errors.Is(err, dumper.ErrInvalidDatabase) {
				t.Errorf("ReplaceWith(%s) error = %v, want ErrInvalidDatabase", src, err)
			}
			if n := mustCount(t, s); n != 2 {
				t.Errorf("Count() = %d, want 2 (live database untouched)", n)
			}
		}
		if err := s.CheckMigrations(); err != nil {
			t.Errorf("CheckMigrations() = %v", err)
		}
	})

	t.Run("source path with URI characters", func(t *testing.T) {
		s := newFileStore(t)
		if _, err := s.InsertOne(header("Foo", "A.h", "a")); err != nil {
			t.Fatalf("InsertOne() error = %v", err)
		}

		backup := filepath.Join(t.TempDir(), "back?up#1 copy.sqlite")
		if err := s.BackupTo(backup); err != nil {
			t.Fatalf("BackupTo() error = %v", err)
		}
		if err := ValidateDatabaseFile(backup); err != nil {
			t.Fatalf("ValidateDatabaseFile() error = %v", err)
		}
		if err := s.ReplaceWith(backup); err != nil {
			t.Fatalf("ReplaceWith() error = %v", err)
		}
		if n := mustCount(t, s); n != 1 {
			t.Errorf("Count() = %d, want 1", n)
		}
	})

	t.Run("leaves only the database behind", func(t *testing.T) {
		s := newFileStore(t)
		if _, err := s.InsertOne(header("Foo", "A.h", "a")); err != nil {
			t.Fatalf("InsertOne() error = %v", err)
		}
		backup := filepath.Join(t.TempDir(), "backup.sqlite")
		if err := s.BackupTo(backup); err != nil {
			t.Fatalf("BackupTo() error = %v", err)
		}
		if err := s.ReplaceWith(backup); err != nil {
			t.Fatalf("ReplaceWith() error = %v", err)
		}

		entries, err := os.ReadDir(filepath.Dir(s.Path()))
		if err != nil {
			t.Fatalf("ReadDir() error = %v", err)
		}
		for _, e := range entries {
			switch e.Name() {
			case "db.sqlite", "db.sqlite-wal", "db.sqlite-shm":
			default:
				t.Errorf("unexpected file %s next to the database", e.Name())
			}
		}
		if _, err := os.Stat(backup); err != nil {
			t.Errorf("source removed by ReplaceWith: %v", err)
		}
	})

	t.Run("in-memory store cannot be replaced", func(t *testing.T) {
		s := newTestStore(t)

		if err := s.ReplaceWith("/does/not/matter"); err == nil {
			t.Error("ReplaceWith() on in-memory store expected error")
		}
	})
}

func TestSQLiteStore_Reopen(t *testing.T) {
	s := newFileStore(t)

	if _, err := s.InsertOne(header("Foo", "A.h", "")); err != nil {
		t.Fatalf("InsertOne() error = %v", err)
	}

	ch, before := s.Watch()
	if err := s.Reopen(false); err != nil {
		t.Fatalf("Reopen() error = %v", err)
	}

	select {
	case <-ch:
	default:
		t.Error("Watch() channel not closed after Reopen")
	}

	_, after := s.Watch()
	if after.Epoch != before.Epoch+1 {
		t.Errorf("Epoch = %d, want %d", after.Epoch, before.Epoch+1)
	}
	if n := mustCount(t, s); n != 1 {
		t.Errorf("Count() after Reopen = %d, want 1", n)
	}
}

func TestSQLiteStore_SchemaStatus(t *testing.T) {
	s := newTestStore(t)

	if err := s.CheckMigrations(); err != nil {
		t.Errorf("CheckMigrations() error = %v", err)
	}

	st, err := s.SchemaStatus()
	if err != nil {
		t.Fatalf("SchemaStatus() error = %v", err)
	}
	if !st.UpToDate() || st.Current == 0 {
		t.Errorf("SchemaStatus() = %+v, want current and up to date", st)
	}
}
