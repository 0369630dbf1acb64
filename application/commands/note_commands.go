package commands

import (
	"vitae-backend/domain/note"
)

// CreateNoteCommand represents the command to create a note record
type CreateNoteCommand struct {
	UserID        string      `json:"user_id" validate:"required"`
	OwnerRecordID string      `json:"owner_record_id" validate:"required"`
	Kind          interface{} `json:"kind"`
	Title         string      `json:"title" validate:"required,min=1,max=200"`
	Body          string      `json:"body" validate:"max=50000"`
	ChapterRef    string      `json:"chapter_ref"`
	PageRef       int         `json:"page_ref" validate:"omitempty,gt=0"`
	Tags          []string    `json:"tags" validate:"max=20,dive,min=1,max=50"`
	Highlighted   bool        `json:"highlighted"`
	Color         string      `json:"color"`
	Date          string      `json:"date"`

	// Known is the caller's current note collection for the owning
	// record, threaded in at call time so the optimistic fallback never
	// works from a stale snapshot.
	Known []note.Note `json:"known"`
}

// UpdateNoteCommand represents the command to update a note record
type UpdateNoteCommand struct {
	UserID        string      `json:"user_id" validate:"required"`
	OwnerRecordID string      `json:"owner_record_id" validate:"required"`
	NoteID        string      `json:"note_id" validate:"required"`
	Kind          interface{} `json:"kind"`
	Title         string      `json:"title" validate:"required,min=1,max=200"`
	Body          string      `json:"body" validate:"max=50000"`
	ChapterRef    string      `json:"chapter_ref"`
	PageRef       int         `json:"page_ref" validate:"omitempty,gt=0"`
	Tags          []string    `json:"tags" validate:"max=20,dive,min=1,max=50"`
	Highlighted   bool        `json:"highlighted"`
	Color         string      `json:"color"`
	Date          string      `json:"date"`

	Known []note.Note `json:"known"`
}

// DeleteNoteCommand represents the command to delete a note record
type DeleteNoteCommand struct {
	UserID        string `json:"user_id" validate:"required"`
	OwnerRecordID string `json:"owner_record_id" validate:"required"`
	NoteID        string `json:"note_id" validate:"required"`

	Known []note.Note `json:"known"`
}
