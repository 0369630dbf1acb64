package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vitae-backend/application/commands"
	"vitae-backend/domain/note"
	"vitae-backend/domain/reconcile"
	pkgerrors "vitae-backend/pkg/errors"
	"vitae-backend/pkg/observability"
)

// fakeGateway scripts the remote service's next response.
type fakeGateway struct {
	response   interface{}
	err        error
	lastBody   map[string]interface{}
	lastNoteID string
}

func (f *fakeGateway) SearchCourses(ctx context.Context, query string) (interface{}, error) {
	return f.response, f.err
}

func (f *fakeGateway) CreateNote(ctx context.Context, ownerRecordID string, body map[string]interface{}) (interface{}, error) {
	f.lastBody = body
	return f.response, f.err
}

func (f *fakeGateway) UpdateNote(ctx context.Context, ownerRecordID, noteID string, body map[string]interface{}) (interface{}, error) {
	f.lastBody = body
	f.lastNoteID = noteID
	return f.response, f.err
}

func (f *fakeGateway) DeleteNote(ctx context.Context, ownerRecordID, noteID string) (interface{}, error) {
	f.lastNoteID = noteID
	return f.response, f.err
}

func (f *fakeGateway) CreateCourse(ctx context.Context, body map[string]interface{}) (interface{}, error) {
	f.lastBody = body
	return f.response, f.err
}

func newTestNoteHandler(gw *fakeGateway) *NoteMutationHandler {
	logger := zap.NewNop()
	metrics := observability.NewMetrics(nil, "test", logger, false)
	return NewNoteMutationHandler(gw, metrics, logger)
}

func TestHandleCreateOptimisticFallback(t *testing.T) {
	gw := &fakeGateway{}
	h := newTestNoteHandler(gw)

	cmd := commands.CreateNoteCommand{
		UserID:        "u-1",
		OwnerRecordID: "b-1",
		Title:         "Nueva nota",
		Kind:          float64(1),
		Known:         []note.Note{{ID: "n-1", Title: "vieja"}},
	}

	// nil response payload forces the optimistic branch
	result, err := h.HandleCreate(context.Background(), cmd)
	require.NoError(t, err)

	assert.Equal(t, reconcile.ProvenanceOptimistic, result.Provenance)
	require.Len(t, result.Records, 2)
	created := result.Records[1]
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, note.KindQuote, created.Kind)
	assert.Equal(t, note.DefaultColor, created.Color)
	assert.NotEmpty(t, created.Date)

	// wire body mirrors the canonical record
	assert.Equal(t, "Nueva nota", gw.lastBody["title"])
	assert.Equal(t, "quote", gw.lastBody["kind"])
}

func TestHandleUpdateReconciledResponse(t *testing.T) {
	gw := &fakeGateway{
		response: map[string]interface{}{
			"notas": []interface{}{
				map[string]interface{}{"id": "n-1", "title": "uno v2"},
				map[string]interface{}{"id": "n-2", "title": "dos"},
			},
		},
	}
	h := newTestNoteHandler(gw)

	result, err := h.HandleUpdate(context.Background(), commands.UpdateNoteCommand{
		UserID:        "u-1",
		OwnerRecordID: "b-1",
		NoteID:        "n-1",
		Title:         "uno v2",
		Known:         []note.Note{{ID: "n-1", Title: "uno"}, {ID: "n-2", Title: "dos"}},
	})
	require.NoError(t, err)

	assert.Equal(t, reconcile.ProvenanceReconciled, result.Provenance)
	assert.Equal(t, "uno v2", result.Records[0].Title)
	assert.Equal(t, "n-1", gw.lastNoteID)
}

func TestHandleDeleteBothShapes(t *testing.T) {
	known := []note.Note{{ID: "n-1"}, {ID: "n-2"}}

	responses := map[string]interface{}{
		"recognized": map[string]interface{}{
			"notes": []interface{}{map[string]interface{}{"id": "n-1"}},
		},
		"unrecognized": map[string]interface{}{"deleted": true},
	}

	for name, resp := range responses {
		t.Run(name, func(t *testing.T) {
			gw := &fakeGateway{response: resp}
			h := newTestNoteHandler(gw)

			result, err := h.HandleDelete(context.Background(), commands.DeleteNoteCommand{
				UserID:        "u-1",
				OwnerRecordID: "b-1",
				NoteID:        "n-2",
				Known:         known,
			})
			require.NoError(t, err)

			for _, r := range result.Records {
				assert.NotEqual(t, "n-2", r.ID)
			}
		})
	}
}

func TestHandleCreateTransportErrorPassesThrough(t *testing.T) {
	gw := &fakeGateway{err: pkgerrors.NewNetworkError("backend unreachable", nil)}
	h := newTestNoteHandler(gw)

	_, err := h.HandleCreate(context.Background(), commands.CreateNoteCommand{
		UserID:        "u-1",
		OwnerRecordID: "b-1",
		Title:         "x",
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeNetwork))
	assert.True(t, pkgerrors.IsRetryable(err))
}

func TestHandleCreateValidatesCommand(t *testing.T) {
	h := newTestNoteHandler(&fakeGateway{})

	_, err := h.HandleCreate(context.Background(), commands.CreateNoteCommand{
		UserID: "u-1",
		// missing owner record and title
	})
	assert.Error(t, err)
}
