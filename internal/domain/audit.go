package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// AuditAction is the semantic label of an audited operation. The set of
// actions is a stable external contract; new operations must map to one
// of these or extend the enumeration explicitly.
type AuditAction string

const (
	ActionCreated  AuditAction = "created"
	ActionUpdated  AuditAction = "updated"
	ActionWentLive AuditAction = "went_live"
	ActionPaused   AuditAction = "paused"
	ActionResumed  AuditAction = "resumed"
	ActionEnded    AuditAction = "ended"
	ActionDeleted  AuditAction = "deleted"
)

// AuditEntry is an immutable record of one state-changing action against
// an experiment. Entries are append-only: never updated, never deleted.
type AuditEntry struct {
	ID           string
	ExperimentID string
	ActorID      string
	Action       AuditAction
	Changes      ChangeSet
	CreatedAt    time.Time
}

// Change records a single field's before/after values. To is omitted from
// the serialized form when the field was removed.
type Change struct {
	From any `json:"from"`
	To   any `json:"to,omitempty"`
}

// ChangeSet maps field names to their recorded changes.
type ChangeSet map[string]Change

// Diff computes the field-level difference between two flat snapshots.
// A key present in both with unequal values yields {from, to}; a key
// removed in after yields {from} only. Keys added in after are not
// reported: the audit trail tracks changes and shrinkage, not additions.
func Diff(before, after map[string]any) ChangeSet {
	diff := ChangeSet{}

	for key, oldValue := range before {
		newValue, ok := after[key]
		if !ok {
			diff[key] = Change{From: oldValue}
			continue
		}
		if !jsonEqual(oldValue, newValue) {
			diff[key] = Change{From: oldValue, To: newValue}
		}
	}

	return diff
}

// jsonEqual compares two values by their serialized form, mirroring the
// audit contract's structural equality.
func jsonEqual(a, b any) bool {
	ab, aerr := json.Marshal(a)
	bb, berr := json.Marshal(b)
	if aerr != nil || berr != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

// StatusChange builds the change payload for a lifecycle transition.
func StatusChange(from, to Status) ChangeSet {
	return ChangeSet{
		"status": {From: string(from), To: string(to)},
	}
}
