package live

import "classdumper/internal/database/sqlc"

// PresenceState is the state of an observed record.
type PresenceState int

const (
	// PresenceMissing means the record was never seen.
	PresenceMissing PresenceState = iota
	// PresenceExisting means the record is in the store.
	PresenceExisting
	// PresenceGone means the record was seen and has since been deleted.
	PresenceGone
)

func (s PresenceState) String() string {
	switch s {
	case PresenceExisting:
		return "existing"
	case PresenceGone:
		return "gone"
	default:
		return "missing"
	}
}

// Presence tracks whether an observed record exists. A gone presence keeps
// the last value seen so consumers can still render it.
type Presence struct {
	State PresenceState
	File  *sqlc.File
}

func Existing(f *sqlc.File) Presence { return Presence{State: PresenceExisting, File: f} }
func Gone(last *sqlc.File) Presence  { return Presence{State: PresenceGone, File: last} }
func Missing() Presence              { return Presence{State: PresenceMissing} }

// Exists reports whether the record is currently in the store.
func (p Presence) Exists() bool {
	return p.State == PresenceExisting
}

// Reduce folds the latest lookup result into the previous presence.
// A record that disappears becomes Gone with its last value; a record that
// was never seen stays Missing.
func Reduce(prev Presence, raw *sqlc.File) Presence {
	if raw != nil {
		return Existing(raw)
	}
	if prev.File != nil {
		return Gone(prev.File)
	}
	return Missing()
}
