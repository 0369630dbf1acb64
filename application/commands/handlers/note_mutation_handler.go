package handlers

import (
	"context"

	"go.uber.org/zap"

	"vitae-backend/application/commands"
	"vitae-backend/application/ports"
	"vitae-backend/domain/note"
	"vitae-backend/domain/reconcile"
	"vitae-backend/pkg/observability"
	"vitae-backend/pkg/utils"
)

// NoteMutationHandler forwards note mutations to the remote service and
// reconciles whatever shape comes back. The UI never waits on an
// unparseable response: the optimistic branch keeps the collection
// consistent locally.
type NoteMutationHandler struct {
	gateway ports.RemoteGateway
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewNoteMutationHandler creates a new note mutation handler
func NewNoteMutationHandler(
	gateway ports.RemoteGateway,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *NoteMutationHandler {
	return &NoteMutationHandler{
		gateway: gateway,
		metrics: metrics,
		logger:  logger,
	}
}

// HandleCreate executes a create-note mutation
func (h *NoteMutationHandler) HandleCreate(ctx context.Context, cmd commands.CreateNoteCommand) (reconcile.Result, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return reconcile.Result{}, err
	}

	created := h.canonicalNote(note.NewID(), cmd.OwnerRecordID, cmd.Kind, cmd.Title, cmd.Body,
		cmd.ChapterRef, cmd.PageRef, cmd.Tags, cmd.Highlighted, cmd.Color, cmd.Date)

	payload, err := h.gateway.CreateNote(ctx, cmd.OwnerRecordID, noteWireBody(created))
	if err != nil {
		return reconcile.Result{}, err
	}

	result := reconcile.Reconcile(payload, created.ID, reconcile.OpCreate, func() []note.Note {
		return reconcile.ApplyCreate(cmd.Known, created)
	})
	h.observe(ctx, result, reconcile.OpCreate, created.ID)
	return result, nil
}

// HandleUpdate executes an update-note mutation
func (h *NoteMutationHandler) HandleUpdate(ctx context.Context, cmd commands.UpdateNoteCommand) (reconcile.Result, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return reconcile.Result{}, err
	}

	updated := h.canonicalNote(cmd.NoteID, cmd.OwnerRecordID, cmd.Kind, cmd.Title, cmd.Body,
		cmd.ChapterRef, cmd.PageRef, cmd.Tags, cmd.Highlighted, cmd.Color, cmd.Date)

	payload, err := h.gateway.UpdateNote(ctx, cmd.OwnerRecordID, cmd.NoteID, noteWireBody(updated))
	if err != nil {
		return reconcile.Result{}, err
	}

	result := reconcile.Reconcile(payload, updated.ID, reconcile.OpUpdate, func() []note.Note {
		return reconcile.ApplyUpdate(cmd.Known, updated)
	})
	h.observe(ctx, result, reconcile.OpUpdate, updated.ID)
	return result, nil
}

// HandleDelete executes a delete-note mutation
func (h *NoteMutationHandler) HandleDelete(ctx context.Context, cmd commands.DeleteNoteCommand) (reconcile.Result, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return reconcile.Result{}, err
	}

	payload, err := h.gateway.DeleteNote(ctx, cmd.OwnerRecordID, cmd.NoteID)
	if err != nil {
		return reconcile.Result{}, err
	}

	result := reconcile.Reconcile(payload, cmd.NoteID, reconcile.OpDelete, func() []note.Note {
		return reconcile.ApplyDelete(cmd.Known, cmd.NoteID)
	})
	h.observe(ctx, result, reconcile.OpDelete, cmd.NoteID)
	return result, nil
}

// canonicalNote builds the canonical record the mutation is about. The
// same defaulting rules apply as when a record arrives from the wire.
func (h *NoteMutationHandler) canonicalNote(
	id, ownerRecordID string,
	kind interface{},
	title, body, chapterRef string,
	pageRef int,
	tags []string,
	highlighted bool,
	color, date string,
) note.Note {
	n := note.Note{
		ID:            id,
		OwnerRecordID: ownerRecordID,
		Kind:          note.KindFromRaw(kind),
		Title:         title,
		Body:          body,
		ChapterRef:    chapterRef,
		Tags:          tags,
		Highlighted:   highlighted,
		Color:         color,
		Date:          date,
	}
	if pageRef > 0 {
		n.PageRef = pageRef
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	if n.Color == "" {
		n.Color = note.DefaultColor
	}
	if n.Date == "" {
		n.Date = utils.Today()
	} else {
		n.Date = utils.TruncateToDate(n.Date)
	}
	return n
}

func noteWireBody(n note.Note) map[string]interface{} {
	body := map[string]interface{}{
		"id":          n.ID,
		"kind":        string(n.Kind),
		"title":       n.Title,
		"body":        n.Body,
		"chapterRef":  n.ChapterRef,
		"tags":        n.Tags,
		"highlighted": n.Highlighted,
		"color":       n.Color,
		"date":        n.Date,
	}
	if n.PageRef > 0 {
		body["pageRef"] = n.PageRef
	}
	return body
}

func (h *NoteMutationHandler) observe(ctx context.Context, result reconcile.Result, op reconcile.Op, noteID string) {
	h.metrics.CountReconciliation(ctx, string(result.Provenance), string(op))
	if result.Provenance == reconcile.ProvenanceOptimistic {
		h.logger.Warn("mutation response had no recognizable note collection, applied optimistic mutation",
			zap.String("op", string(op)),
			zap.String("noteID", noteID),
		)
		return
	}
	h.logger.Debug("reconciled note collection from server response",
		zap.String("op", string(op)),
		zap.String("noteID", noteID),
		zap.Int("records", len(result.Records)),
	)
}
