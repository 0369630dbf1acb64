package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vitae-backend/application/commands"
	cmdhandlers "vitae-backend/application/commands/handlers"
	"vitae-backend/domain/note"
	"vitae-backend/domain/reconcile"
	"vitae-backend/pkg/auth"
	"vitae-backend/pkg/common"
	pkgerrors "vitae-backend/pkg/errors"
)

// NoteHandler handles note mutation HTTP requests. Every response carries
// the full note collection for the owning record plus the provenance of
// that collection, so the client can render immediately and flag
// optimistic state.
type NoteHandler struct {
	notes        *cmdhandlers.NoteMutationHandler
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewNoteHandler creates a new note handler
func NewNoteHandler(notes *cmdhandlers.NoteMutationHandler, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{
		notes:        notes,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// NoteRequest represents the request body for creating or updating a note.
// Known carries the client's current collection for the record; the
// optimistic fallback mutates it locally when the server response cannot
// be interpreted.
type NoteRequest struct {
	Kind        interface{} `json:"kind"`
	Title       string      `json:"title" validate:"required,min=1,max=200"`
	Body        string      `json:"body"`
	ChapterRef  string      `json:"chapterRef"`
	PageRef     int         `json:"pageRef"`
	Tags        []string    `json:"tags"`
	Highlighted bool        `json:"highlighted"`
	Color       string      `json:"color"`
	Date        string      `json:"date"`
	Known       []note.Note `json:"known"`
}

// DeleteNoteRequest represents the request body for deleting a note
type DeleteNoteRequest struct {
	Known []note.Note `json:"known"`
}

// NoteCollectionResponse is the note collection returned by every mutation
type NoteCollectionResponse struct {
	Records []note.Note `json:"records"`
}

// CreateNote handles POST /records/{recordID}/notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	user, req, ok := h.decodeNoteRequest(w, r)
	if !ok {
		return
	}

	result, err := h.notes.HandleCreate(r.Context(), commands.CreateNoteCommand{
		UserID:        user.UserID,
		OwnerRecordID: chi.URLParam(r, "recordID"),
		Kind:          req.Kind,
		Title:         req.Title,
		Body:          req.Body,
		ChapterRef:    req.ChapterRef,
		PageRef:       req.PageRef,
		Tags:          req.Tags,
		Highlighted:   req.Highlighted,
		Color:         req.Color,
		Date:          req.Date,
		Known:         req.Known,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.respondCollection(w, http.StatusCreated, result)
}

// UpdateNote handles PUT /records/{recordID}/notes/{noteID}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	user, req, ok := h.decodeNoteRequest(w, r)
	if !ok {
		return
	}

	result, err := h.notes.HandleUpdate(r.Context(), commands.UpdateNoteCommand{
		UserID:        user.UserID,
		OwnerRecordID: chi.URLParam(r, "recordID"),
		NoteID:        chi.URLParam(r, "noteID"),
		Kind:          req.Kind,
		Title:         req.Title,
		Body:          req.Body,
		ChapterRef:    req.ChapterRef,
		PageRef:       req.PageRef,
		Tags:          req.Tags,
		Highlighted:   req.Highlighted,
		Color:         req.Color,
		Date:          req.Date,
		Known:         req.Known,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.respondCollection(w, http.StatusOK, result)
}

// DeleteNote handles DELETE /records/{recordID}/notes/{noteID}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	// The body is optional: deleting with no known collection still works,
	// the fallback then returns an empty collection.
	var req DeleteNoteRequest
	if r.ContentLength > 0 {
		if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
			h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
			return
		}
	}

	result, err := h.notes.HandleDelete(r.Context(), commands.DeleteNoteCommand{
		UserID:        user.UserID,
		OwnerRecordID: chi.URLParam(r, "recordID"),
		NoteID:        chi.URLParam(r, "noteID"),
		Known:         req.Known,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.respondCollection(w, http.StatusOK, result)
}

func (h *NoteHandler) decodeNoteRequest(w http.ResponseWriter, r *http.Request) (*auth.UserContext, NoteRequest, bool) {
	var req NoteRequest

	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return nil, req, false
	}

	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
		return nil, req, false
	}
	return user, req, true
}

func (h *NoteHandler) respondCollection(w http.ResponseWriter, status int, result reconcile.Result) {
	common.RespondWithMeta(w, status,
		NoteCollectionResponse{Records: result.Records},
		&common.MetaInfo{Provenance: string(result.Provenance)},
	)
}
