package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vitae-backend/domain/note"
	"vitae-backend/pkg/utils"
)

func TestNormalizeNoteNumericKind(t *testing.T) {
	raw := map[string]interface{}{
		"id":     "n-1",
		"bookId": "b-9",
		"tipo":   float64(2), // JSON numbers decode as float64
		"titulo": "Sobre el capítulo 3",
		"texto":  "Una reflexión",
	}

	n := NormalizeNote(raw)

	assert.Equal(t, note.KindReflection, n.Kind)
	assert.Equal(t, "n-1", n.ID)
	assert.Equal(t, "b-9", n.OwnerRecordID)
	assert.Equal(t, "Sobre el capítulo 3", n.Title)
	assert.Equal(t, "Una reflexión", n.Body)
}

func TestNormalizeNoteKindTable(t *testing.T) {
	tests := []struct {
		raw  interface{}
		want note.Kind
	}{
		{float64(0), note.KindNote},
		{float64(1), note.KindQuote},
		{float64(2), note.KindReflection},
		{float64(3), note.KindSummary},
		{float64(4), note.KindQuestion},
		{float64(5), note.KindConnection},
		{"quote", note.KindQuote},
		{"Summary", note.KindSummary},
		{float64(6), note.KindNote},
		{float64(-1), note.KindNote},
		{float64(2.5), note.KindNote},
		{"whatever", note.KindNote},
		{nil, note.KindNote},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, note.KindFromRaw(tt.raw), "raw=%v", tt.raw)
	}
}

func TestNormalizeNoteDefaults(t *testing.T) {
	n := NormalizeNote(map[string]interface{}{"id": "n-2"})

	assert.Equal(t, note.KindNote, n.Kind)
	assert.Equal(t, "", n.ChapterRef)
	assert.Equal(t, 0, n.PageRef)
	assert.Equal(t, []string{}, n.Tags)
	assert.False(t, n.Highlighted)
	assert.Equal(t, note.DefaultColor, n.Color)
	assert.Equal(t, utils.Today(), n.Date)
}

func TestNormalizeNoteDateTruncation(t *testing.T) {
	n := NormalizeNote(map[string]interface{}{
		"id":    "n-3",
		"fecha": "2024-05-01T10:23:45Z",
	})
	assert.Equal(t, "2024-05-01", n.Date)
}

func TestNormalizeNotePageRefRejectsNonPositive(t *testing.T) {
	n := NormalizeNote(map[string]interface{}{"id": "n-4", "page": float64(0)})
	assert.Equal(t, 0, n.PageRef)

	n = NormalizeNote(map[string]interface{}{"id": "n-4", "page": float64(-3)})
	assert.Equal(t, 0, n.PageRef)

	n = NormalizeNote(map[string]interface{}{"id": "n-4", "page": float64(17)})
	assert.Equal(t, 17, n.PageRef)
}

func TestNormalizeNoteIdempotent(t *testing.T) {
	first := NormalizeNote(map[string]interface{}{
		"id":          "n-5",
		"recordId":    "b-1",
		"kind":        float64(4),
		"title":       "¿Por qué?",
		"body":        "Pregunta abierta",
		"chapter":     "cap-2",
		"page":        float64(12),
		"tags":        []interface{}{"duda", "repaso"},
		"highlighted": true,
		"fecha":       "2024-03-09T08:00:00Z",
	})

	// Round-trip through JSON the way a cached canonical record would
	// come back, then normalize again.
	encoded, err := json.Marshal(first)
	require.NoError(t, err)
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(encoded, &raw))

	second := NormalizeNote(raw)
	assert.Equal(t, first, second)
}

func TestExtractNoteCollectionVariants(t *testing.T) {
	notes := []interface{}{
		map[string]interface{}{"id": "n-1", "title": "uno"},
	}

	variants := []interface{}{
		map[string]interface{}{"notes": notes},
		map[string]interface{}{"Notas": notes},
		map[string]interface{}{"data": map[string]interface{}{"notas": notes}},
		map[string]interface{}{"libro": map[string]interface{}{"notes": notes}},
		map[string]interface{}{"updatedRecord": map[string]interface{}{"comments": notes}},
		notes,
	}

	for i, payload := range variants {
		list, ok := ExtractNoteCollection(payload)
		require.True(t, ok, "variant %d", i)
		assert.Len(t, list, 1, "variant %d", i)
	}
}

func TestExtractNoteCollectionMisses(t *testing.T) {
	_, ok := ExtractNoteCollection(nil)
	assert.False(t, ok)

	_, ok = ExtractNoteCollection(map[string]interface{}{"ok": true})
	assert.False(t, ok)

	_, ok = ExtractNoteCollection("plain text response")
	assert.False(t, ok)
}
