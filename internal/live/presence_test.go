package live

import (
	"testing"

	"classdumper/internal/database/sqlc"
)

func TestReduce(t *testing.T) {
	a := &sqlc.File{ID: 1, Name: "A.h", Folder: "Foo"}
	renamed := &sqlc.File{ID: 1, Name: "Renamed.h", Folder: "Foo"}

	tests := []struct {
		name      string
		prev      Presence
		raw       *sqlc.File
		wantState PresenceState
		wantFile  *sqlc.File
	}{
		{name: "missing stays missing", prev: Missing(), raw: nil, wantState: PresenceMissing},
		{name: "missing to existing", prev: Missing(), raw: a, wantState: PresenceExisting, wantFile: a},
		{name: "existing picks up edits", prev: Existing(a), raw: renamed, wantState: PresenceExisting, wantFile: renamed},
		{name: "existing to gone keeps last value", prev: Existing(a), raw: nil, wantState: PresenceGone, wantFile: a},
		{name: "gone stays gone", prev: Gone(a), raw: nil, wantState: PresenceGone, wantFile: a},
		{name: "gone comes back", prev: Gone(a), raw: renamed, wantState: PresenceExisting, wantFile: renamed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reduce(tt.prev, tt.raw)
			if got.State != tt.wantState {
				t.Errorf("State = %v, want %v", got.State, tt.wantState)
			}
			if got.File != tt.wantFile {
				t.Errorf("File = %+v, want %+v", got.File, tt.wantFile)
			}
			if got.Exists() != (tt.wantState == PresenceExisting) {
				t.Errorf("Exists() = %v", got.Exists())
			}
		})
	}
}

func TestPresenceState_String(t *testing.T) {
	for state, want := range map[PresenceState]string{
		PresenceMissing:  "missing",
		PresenceExisting: "existing",
		PresenceGone:     "gone",
	} {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}
