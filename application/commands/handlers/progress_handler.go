package handlers

import (
	"context"

	"go.uber.org/zap"

	"vitae-backend/application/commands"
	"vitae-backend/application/ports"
	"vitae-backend/pkg/observability"
	"vitae-backend/pkg/utils"
)

// ProgressResult reports the durable progress after a mutation
type ProgressResult struct {
	CourseID          string `json:"courseId"`
	CompletedChapters []int  `json:"completedChapters"`
	Percent           int    `json:"percent"`
	Changed           bool   `json:"changed"`
}

// ProgressHandler owns the durable chapter-completion state. Completion is
// monotonic: it only ever grows until an explicit reset.
type ProgressHandler struct {
	repo     ports.ProgressRepository
	eventBus ports.EventBus
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewProgressHandler creates a new progress handler
func NewProgressHandler(
	repo ports.ProgressRepository,
	eventBus ports.EventBus,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ProgressHandler {
	return &ProgressHandler{
		repo:     repo,
		eventBus: eventBus,
		metrics:  metrics,
		logger:   logger,
	}
}

// HandleMarkComplete executes the mark-chapter-complete command
func (h *ProgressHandler) HandleMarkComplete(ctx context.Context, cmd commands.MarkChapterCompleteCommand) (ProgressResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return ProgressResult{}, err
	}

	state, err := h.repo.GetOrCreate(ctx, cmd.UserID, cmd.CourseID)
	if err != nil {
		return ProgressResult{}, err
	}

	changed := state.MarkComplete(cmd.ChapterIndex)
	if changed {
		if err := h.repo.Save(ctx, cmd.UserID, state); err != nil {
			return ProgressResult{}, err
		}
	}

	percent := state.Percent(cmd.TotalChapters)

	if changed {
		h.metrics.CountChapterCompleted(ctx)
		// Fire-and-forget: a missed event must not fail the completion.
		if err := h.eventBus.PublishChapterCompleted(ctx, cmd.UserID, cmd.CourseID, cmd.ChapterIndex, percent); err != nil {
			h.logger.Warn("failed to publish chapter completed event",
				zap.String("courseID", cmd.CourseID),
				zap.Int("chapterIndex", cmd.ChapterIndex),
				zap.Error(err),
			)
		}
	}

	return ProgressResult{
		CourseID:          cmd.CourseID,
		CompletedChapters: state.CompletedIndices(),
		Percent:           percent,
		Changed:           changed,
	}, nil
}

// HandleReset executes the reset-progress command
func (h *ProgressHandler) HandleReset(ctx context.Context, cmd commands.ResetProgressCommand) error {
	if err := utils.ValidateStruct(cmd); err != nil {
		return err
	}

	if err := h.repo.Delete(ctx, cmd.UserID, cmd.CourseID); err != nil {
		return err
	}

	h.logger.Info("course progress reset",
		zap.String("userID", cmd.UserID),
		zap.String("courseID", cmd.CourseID),
	)
	return nil
}
