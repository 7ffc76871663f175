// Package store holds the client-side view of the library: the grouped media
// tree, expand state, and aggregate stats. It is the single owner of that
// state; everything else goes through its accessors and mutators.
package store

// Status is a file's position in the scan -> match -> link workflow.
type Status string

const (
	StatusPending Status = "pending"
	StatusMatched Status = "matched"
	StatusManual  Status = "manual"
	StatusLinked  Status = "linked"
	StatusFailed  Status = "failed"
	StatusIgnored Status = "ignored"
)

// AllStatuses lists every legal status value.
var AllStatuses = []Status{
	StatusPending, StatusMatched, StatusManual,
	StatusLinked, StatusFailed, StatusIgnored,
}

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusMatched, StatusManual, StatusLinked, StatusFailed, StatusIgnored:
		return true
	}
	return false
}

// Actions is the set of single-file actions exposed for a status.
type Actions struct {
	Correct   bool // open the manual match flow
	Reprocess bool
	Ignore    bool
}

// statusActions maps each status to the actions the user may take from it.
// Transitions themselves happen server-side; the client only decides what
// to expose. Unknown statuses get no actions.
var statusActions = map[Status]Actions{
	StatusPending: {Correct: true, Reprocess: false, Ignore: true},
	StatusMatched: {Correct: false, Reprocess: true, Ignore: true},
	StatusManual:  {Correct: true, Reprocess: true, Ignore: true},
	StatusLinked:  {},
	StatusFailed:  {Correct: true, Reprocess: true, Ignore: true},
	StatusIgnored: {},
}

// Actions returns the actions exposed for s. It depends on nothing but the
// status itself.
func (s Status) Actions() Actions {
	return statusActions[s]
}

// IsTerminal reports whether no single-file action can leave s.
func (s Status) IsTerminal() bool {
	return s == StatusLinked || s == StatusIgnored
}
