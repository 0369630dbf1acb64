// Package reconcile reads back mutation responses and settles the local
// note collection against them. A schema surprise from the backend must
// never block the UI, so an unparseable response silently degrades to a
// locally-computed optimistic mutation.
package reconcile

import (
	"vitae-backend/domain/note"
	"vitae-backend/domain/normalize"
)

// Provenance records which branch produced a reconciled collection.
type Provenance string

const (
	// ProvenanceReconciled means the server payload's note collection was
	// located and is authoritative.
	ProvenanceReconciled Provenance = "reconciled"
	// ProvenanceOptimistic means no recognized shape was found and a local
	// mutation was applied instead.
	ProvenanceOptimistic Provenance = "optimistic"
)

// Op identifies the mutation being reconciled.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Result is the outcome of reconciling one mutation response. Consumers
// render both variants identically; Provenance exists for logging and
// telemetry only.
type Result struct {
	Provenance Provenance  `json:"provenance"`
	Records    []note.Note `json:"records"`
}

// Reconcile locates the updated note collection inside a mutation
// response. When found, every element is normalized and the server
// collection wins. When not found, or when the located collection does not
// reflect the mutation we just issued, fallback() supplies the optimistic
// local mutation. The fallback closure is evaluated only on that path, so
// callers thread their latest known collection at call time.
//
// Invariant, on either branch: the mutated record is present (create,
// update) or absent (delete) in Records.
func Reconcile(payload interface{}, expectedID string, op Op, fallback func() []note.Note) Result {
	if list, ok := normalize.ExtractNoteCollection(payload); ok {
		records := make([]note.Note, 0, len(list))
		for _, item := range list {
			records = append(records, normalize.NormalizeNote(item))
		}
		if satisfiesMutation(records, expectedID, op) {
			return Result{Provenance: ProvenanceReconciled, Records: records}
		}
		// A collection that does not contain the record we just wrote (or
		// still contains the one we deleted) is the wrong collection.
	}

	records := fallback()
	if records == nil {
		records = []note.Note{}
	}
	return Result{Provenance: ProvenanceOptimistic, Records: records}
}

func satisfiesMutation(records []note.Note, expectedID string, op Op) bool {
	if expectedID == "" {
		return true
	}
	found := containsID(records, expectedID)
	if op == OpDelete {
		return !found
	}
	return found
}

func containsID(records []note.Note, id string) bool {
	for _, r := range records {
		if r.ID == id {
			return true
		}
	}
	return false
}

// ApplyCreate inserts a freshly-created note into the known collection.
// Idempotent when the note is already present.
func ApplyCreate(known []note.Note, created note.Note) []note.Note {
	out := make([]note.Note, 0, len(known)+1)
	for _, n := range known {
		if n.ID == created.ID {
			continue
		}
		out = append(out, n)
	}
	return append(out, created)
}

// ApplyUpdate replaces the note with the matching ID. A missing note is
// appended, keeping the reconciliation invariant intact.
func ApplyUpdate(known []note.Note, updated note.Note) []note.Note {
	out := make([]note.Note, 0, len(known)+1)
	replaced := false
	for _, n := range known {
		if n.ID == updated.ID {
			out = append(out, updated)
			replaced = true
			continue
		}
		out = append(out, n)
	}
	if !replaced {
		out = append(out, updated)
	}
	return out
}

// ApplyDelete removes the note with the matching ID.
func ApplyDelete(known []note.Note, deletedID string) []note.Note {
	out := make([]note.Note, 0, len(known))
	for _, n := range known {
		if n.ID == deletedID {
			continue
		}
		out = append(out, n)
	}
	return out
}
