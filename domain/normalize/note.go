package normalize

import (
	"vitae-backend/domain/note"
	"vitae-backend/pkg/utils"
)

// NormalizeNote canonicalizes a note record arriving in any of the
// backend's shapes. Total and side-effect free; normalizing an already
// canonical record is a fixpoint.
func NormalizeNote(raw interface{}) note.Note {
	m, ok := asMap(raw)
	if !ok {
		m = map[string]interface{}{}
	}

	n := note.Note{
		ID:            stringField(m, "id", "_id", "noteId", "nota_id"),
		OwnerRecordID: stringField(m, "ownerRecordId", "owner_record_id", "recordId", "bookId", "libro_id"),
		Title:         stringField(m, "title", "titulo"),
		Body:          stringField(m, "body", "content", "texto", "contenido"),
		ChapterRef:    stringField(m, "chapterRef", "chapter", "capitulo"),
		Tags:          stringsField(m, "tags", "etiquetas"),
		Highlighted:   boolField(m, "highlighted", "destacado", "favorito"),
		Color:         stringField(m, "color"),
	}

	if kindRaw, ok := rawField(m, "kind", "type", "tipo"); ok {
		n.Kind = note.KindFromRaw(kindRaw)
	} else {
		n.Kind = note.KindNote
	}

	if page, ok := intField(m, "pageRef", "page", "pagina"); ok && page > 0 {
		n.PageRef = page
	}

	if n.Color == "" {
		n.Color = note.DefaultColor
	}

	if date := stringField(m, "date", "fecha", "createdAt", "created_at"); date != "" {
		n.Date = utils.TruncateToDate(date)
	} else {
		n.Date = utils.Today()
	}

	return n
}

// noteCollectionExtractor locates the note collection inside one
// structural variant of a mutation response.
type noteCollectionExtractor func(payload interface{}) ([]interface{}, bool)

// noteCollectionKeys are the casing conventions the backend uses for the
// note collection itself.
var noteCollectionKeys = []string{"notes", "notas", "Notes", "Notas", "comments", "comentarios"}

// recordWrapperKeys are the wrappers the collection has been observed
// nested under.
var recordWrapperKeys = []string{"record", "registro", "book", "libro", "data", "updatedRecord", "updated_record"}

var noteCollectionExtractors = []noteCollectionExtractor{
	// Collection at the top level of the response object.
	func(payload interface{}) ([]interface{}, bool) {
		m, ok := asMap(payload)
		if !ok {
			return nil, false
		}
		return listField(m, noteCollectionKeys...)
	},
	// Collection nested one level down inside a record wrapper.
	func(payload interface{}) ([]interface{}, bool) {
		m, ok := asMap(payload)
		if !ok {
			return nil, false
		}
		for _, wrapper := range recordWrapperKeys {
			if inner, ok := asMap(m[wrapper]); ok {
				if list, ok := listField(inner, noteCollectionKeys...); ok {
					return list, true
				}
			}
		}
		return nil, false
	},
	// The response is the collection itself.
	func(payload interface{}) ([]interface{}, bool) {
		return asList(payload)
	},
}

// ExtractNoteCollection walks the ordered structural-variant chain looking
// for the note collection inside a mutation response.
func ExtractNoteCollection(payload interface{}) ([]interface{}, bool) {
	if payload == nil {
		return nil, false
	}
	for _, extract := range noteCollectionExtractors {
		if list, ok := extract(payload); ok {
			return list, true
		}
	}
	return nil, false
}
