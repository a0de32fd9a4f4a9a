package live

import (
	"context"

	"classdumper/internal/database/sqlc"
	"classdumper/internal/dumper"
)

// AllFiles observes every record, ordered by name ascending.
func AllFiles(ctx context.Context, r dumper.Reader) <-chan Result[[]*sqlc.File] {
	return Observe(ctx, r, "all_files", func(r dumper.Reader) ([]*sqlc.File, error) {
		return r.FetchAll()
	})
}

// FolderCounts observes the number of records per folder, in first-import order.
func FolderCounts(ctx context.Context, r dumper.Reader) <-chan Result[[]dumper.FolderCount] {
	return Observe(ctx, r, "folder_counts", func(r dumper.Reader) ([]dumper.FolderCount, error) {
		return r.FolderCounts()
	})
}

// FilesInFolder observes the records of one folder, ordered by name ascending.
func FilesInFolder(ctx context.Context, r dumper.Reader, folder string) <-chan Result[[]*sqlc.File] {
	return Observe(ctx, r, "files_in_folder", func(r dumper.Reader) ([]*sqlc.File, error) {
		return r.FetchByFolder(folder)
	})
}

// SearchResults observes the records matched by s.
func SearchResults(ctx context.Context, r dumper.Reader, s Search) <-chan Result[[]*sqlc.File] {
	return Observe(ctx, r, "search", s.Run)
}

// FileExists observes whether the record with id exists.
func FileExists(ctx context.Context, r dumper.Reader, id int64) <-chan Result[Presence] {
	prev := Missing()
	return Observe(ctx, r, "file_exists", func(r dumper.Reader) (Presence, error) {
		f, err := r.FetchByID(id)
		if err != nil {
			return prev, err
		}
		prev = Reduce(prev, f)
		return prev, nil
	})
}

// Reloads delivers the store state each time the database is replaced.
func Reloads(ctx context.Context, r dumper.Reader) <-chan dumper.Change {
	out := make(chan dumper.Change)

	go func() {
		defer close(out)
		ch, last := r.Watch()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ch:
			}

			var change dumper.Change
			ch, change = r.Watch()
			if change.Epoch == last.Epoch {
				continue
			}
			last = change

			select {
			case <-ctx.Done():
				return
			case out <- change:
			}
		}
	}()

	return out
}
