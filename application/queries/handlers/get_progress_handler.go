package handlers

import (
	"context"

	"go.uber.org/zap"

	"vitae-backend/application/ports"
	"vitae-backend/application/queries"
	"vitae-backend/pkg/utils"
)

// GetProgressHandler serves the durable progress read models
type GetProgressHandler struct {
	repo   ports.ProgressRepository
	logger *zap.Logger
}

// NewGetProgressHandler creates a new progress query handler
func NewGetProgressHandler(repo ports.ProgressRepository, logger *zap.Logger) *GetProgressHandler {
	return &GetProgressHandler{repo: repo, logger: logger}
}

// Handle returns a course's progress, creating empty state on first access
func (h *GetProgressHandler) Handle(ctx context.Context, q queries.GetProgressQuery) (queries.GetProgressResult, error) {
	if err := utils.ValidateStruct(q); err != nil {
		return queries.GetProgressResult{}, err
	}

	state, err := h.repo.GetOrCreate(ctx, q.UserID, q.CourseID)
	if err != nil {
		return queries.GetProgressResult{}, err
	}

	return queries.GetProgressResult{
		CourseID:          q.CourseID,
		CompletedChapters: state.CompletedIndices(),
		Percent:           state.Percent(q.TotalChapters),
	}, nil
}

// HandleList returns progress for every course the user has touched
func (h *GetProgressHandler) HandleList(ctx context.Context, q queries.ListProgressQuery) ([]queries.GetProgressResult, error) {
	if err := utils.ValidateStruct(q); err != nil {
		return nil, err
	}

	states, err := h.repo.ListByUser(ctx, q.UserID)
	if err != nil {
		return nil, err
	}

	results := make([]queries.GetProgressResult, 0, len(states))
	for _, s := range states {
		results = append(results, queries.GetProgressResult{
			CourseID:          s.CourseID,
			CompletedChapters: s.CompletedIndices(),
		})
	}
	return results, nil
}
