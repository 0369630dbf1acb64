package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitae-backend/domain/note"
)

func knownNotes() []note.Note {
	return []note.Note{
		{ID: "n-1", Title: "uno", Kind: note.KindNote},
		{ID: "n-2", Title: "dos", Kind: note.KindQuote},
	}
}

func idsOf(records []note.Note) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestReconcileCreateRecognizedShape(t *testing.T) {
	response := map[string]interface{}{
		"notas": []interface{}{
			map[string]interface{}{"id": "n-1", "title": "uno"},
			map[string]interface{}{"id": "n-2", "title": "dos"},
			map[string]interface{}{"id": "n-3", "title": "tres", "tipo": float64(1)},
		},
	}

	fallbackCalled := false
	result := Reconcile(response, "n-3", OpCreate, func() []note.Note {
		fallbackCalled = true
		return nil
	})

	assert.Equal(t, ProvenanceReconciled, result.Provenance)
	assert.False(t, fallbackCalled, "fallback must not run when the shape is recognized")
	assert.Contains(t, idsOf(result.Records), "n-3")
	assert.Equal(t, note.KindQuote, result.Records[2].Kind)
}

func TestReconcileCreateUnrecognizedShape(t *testing.T) {
	response := map[string]interface{}{"status": "ok", "affected": float64(1)}
	created := note.Note{ID: "n-3", Title: "tres"}

	result := Reconcile(response, "n-3", OpCreate, func() []note.Note {
		return ApplyCreate(knownNotes(), created)
	})

	assert.Equal(t, ProvenanceOptimistic, result.Provenance)
	assert.Contains(t, idsOf(result.Records), "n-3")
	assert.Len(t, result.Records, 3)
}

// The property that matters: after a create, exactly one record with the
// new id exists, whichever branch fired.
func TestReconcileCreateInvariantBothBranches(t *testing.T) {
	created := note.Note{ID: "n-new", Title: "nueva"}
	responses := map[string]interface{}{
		"recognized": map[string]interface{}{
			"notes": []interface{}{
				map[string]interface{}{"id": "n-1"},
				map[string]interface{}{"id": "n-new"},
			},
		},
		"unrecognized": map[string]interface{}{"ok": true},
	}

	for name, response := range responses {
		t.Run(name, func(t *testing.T) {
			result := Reconcile(response, "n-new", OpCreate, func() []note.Note {
				return ApplyCreate(knownNotes(), created)
			})

			count := 0
			for _, r := range result.Records {
				if r.ID == "n-new" {
					count++
				}
			}
			assert.Equal(t, 1, count)
		})
	}
}

func TestReconcileDeleteInvariantBothBranches(t *testing.T) {
	responses := map[string]interface{}{
		"recognized": map[string]interface{}{
			"notes": []interface{}{map[string]interface{}{"id": "n-1"}},
		},
		"unrecognized": "deleted",
	}

	for name, response := range responses {
		t.Run(name, func(t *testing.T) {
			result := Reconcile(response, "n-2", OpDelete, func() []note.Note {
				return ApplyDelete(knownNotes(), "n-2")
			})
			assert.NotContains(t, idsOf(result.Records), "n-2")
		})
	}
}

// A recognized collection that does not reflect the mutation is the wrong
// collection; the engine must fall back rather than lose the mutation.
func TestReconcileDistrustsStaleCollection(t *testing.T) {
	stale := map[string]interface{}{
		"notes": []interface{}{map[string]interface{}{"id": "n-1"}},
	}
	created := note.Note{ID: "n-9", Title: "nueva"}

	result := Reconcile(stale, "n-9", OpCreate, func() []note.Note {
		return ApplyCreate(knownNotes(), created)
	})

	assert.Equal(t, ProvenanceOptimistic, result.Provenance)
	assert.Contains(t, idsOf(result.Records), "n-9")
}

// The fallback closure must see the collection as of call time, not a
// snapshot from subscription time.
func TestReconcileFallbackUsesCurrentCollection(t *testing.T) {
	current := knownNotes()
	// A prior mutation landed between subscription and this call.
	current = ApplyCreate(current, note.Note{ID: "n-8", Title: "ocho"})

	updated := note.Note{ID: "n-2", Title: "dos v2"}
	result := Reconcile(map[string]interface{}{"ok": true}, "n-2", OpUpdate, func() []note.Note {
		return ApplyUpdate(current, updated)
	})

	require.Equal(t, ProvenanceOptimistic, result.Provenance)
	assert.Contains(t, idsOf(result.Records), "n-8")
	for _, r := range result.Records {
		if r.ID == "n-2" {
			assert.Equal(t, "dos v2", r.Title)
		}
	}
}

func TestApplyHelpers(t *testing.T) {
	base := knownNotes()

	created := ApplyCreate(base, note.Note{ID: "n-3"})
	assert.Len(t, created, 3)

	// creating an already-present id replaces rather than duplicates
	again := ApplyCreate(created, note.Note{ID: "n-3", Title: "v2"})
	assert.Len(t, again, 3)

	updated := ApplyUpdate(base, note.Note{ID: "n-1", Title: "uno v2"})
	assert.Equal(t, "uno v2", updated[0].Title)
	assert.Len(t, updated, 2)

	// updating a missing note appends it, keeping the invariant
	appended := ApplyUpdate(base, note.Note{ID: "n-7"})
	assert.Len(t, appended, 3)

	deleted := ApplyDelete(base, "n-2")
	assert.Len(t, deleted, 1)
	assert.NotContains(t, idsOf(deleted), "n-2")
}

func TestReconcileNilFallbackResult(t *testing.T) {
	result := Reconcile(nil, "n-1", OpDelete, func() []note.Note { return nil })
	assert.Equal(t, ProvenanceOptimistic, result.Provenance)
	assert.NotNil(t, result.Records)
	assert.Empty(t, result.Records)
}
