package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vitae-backend/application/commands"
	"vitae-backend/infrastructure/persistence/memory"
	"vitae-backend/pkg/observability"
)

type fakeEventBus struct {
	published []int
	err       error
}

func (f *fakeEventBus) PublishChapterCompleted(ctx context.Context, userID, courseID string, chapterIndex, percent int) error {
	f.published = append(f.published, chapterIndex)
	return f.err
}

func newTestProgressHandler(bus *fakeEventBus) (*ProgressHandler, *memory.ProgressRepository) {
	logger := zap.NewNop()
	repo := memory.NewProgressRepository()
	return NewProgressHandler(repo, bus, observability.NewMetrics(nil, "test", logger, false), logger), repo
}

func TestMarkCompletePersistsAndPublishes(t *testing.T) {
	bus := &fakeEventBus{}
	h, repo := newTestProgressHandler(bus)
	ctx := context.Background()

	result, err := h.HandleMarkComplete(ctx, commands.MarkChapterCompleteCommand{
		UserID:        "u-1",
		CourseID:      "c-1",
		ChapterIndex:  1,
		TotalChapters: 4,
	})
	require.NoError(t, err)

	assert.True(t, result.Changed)
	assert.Equal(t, []int{1}, result.CompletedChapters)
	assert.Equal(t, 25, result.Percent)
	assert.Equal(t, []int{1}, bus.published)

	// survives a fresh read
	state, err := repo.Get(ctx, "u-1", "c-1")
	require.NoError(t, err)
	assert.True(t, state.IsComplete(1))
}

func TestMarkCompleteIsIdempotent(t *testing.T) {
	bus := &fakeEventBus{}
	h, _ := newTestProgressHandler(bus)
	ctx := context.Background()

	cmd := commands.MarkChapterCompleteCommand{
		UserID: "u-1", CourseID: "c-1", ChapterIndex: 0, TotalChapters: 2,
	}

	first, err := h.HandleMarkComplete(ctx, cmd)
	require.NoError(t, err)
	assert.True(t, first.Changed)

	second, err := h.HandleMarkComplete(ctx, cmd)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.Equal(t, first.CompletedChapters, second.CompletedChapters)

	// only the first completion publishes an event
	assert.Len(t, bus.published, 1)
}

func TestMarkCompleteEventFailureDoesNotFailCommand(t *testing.T) {
	bus := &fakeEventBus{err: errors.New("bus down")}
	h, _ := newTestProgressHandler(bus)

	result, err := h.HandleMarkComplete(context.Background(), commands.MarkChapterCompleteCommand{
		UserID: "u-1", CourseID: "c-1", ChapterIndex: 0, TotalChapters: 1,
	})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, 100, result.Percent)
}

func TestResetClearsDurableState(t *testing.T) {
	bus := &fakeEventBus{}
	h, repo := newTestProgressHandler(bus)
	ctx := context.Background()

	_, err := h.HandleMarkComplete(ctx, commands.MarkChapterCompleteCommand{
		UserID: "u-1", CourseID: "c-1", ChapterIndex: 0, TotalChapters: 3,
	})
	require.NoError(t, err)

	require.NoError(t, h.HandleReset(ctx, commands.ResetProgressCommand{UserID: "u-1", CourseID: "c-1"}))

	state, err := repo.GetOrCreate(ctx, "u-1", "c-1")
	require.NoError(t, err)
	assert.Empty(t, state.CompletedIndices())
}

func TestMarkCompleteRejectsNegativeIndex(t *testing.T) {
	h, _ := newTestProgressHandler(&fakeEventBus{})

	_, err := h.HandleMarkComplete(context.Background(), commands.MarkChapterCompleteCommand{
		UserID: "u-1", CourseID: "c-1", ChapterIndex: -1, TotalChapters: 3,
	})
	assert.Error(t, err)
}
