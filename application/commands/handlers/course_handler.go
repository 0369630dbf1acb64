package handlers

import (
	"context"

	"go.uber.org/zap"

	"vitae-backend/application/commands"
	"vitae-backend/application/ports"
	"vitae-backend/domain/normalize"
	pkgerrors "vitae-backend/pkg/errors"
	"vitae-backend/pkg/utils"
)

// CreateCourseResult reports the persisted course
type CreateCourseResult struct {
	CourseID string `json:"courseId,omitempty"`
	Title    string `json:"title"`
}

// CourseHandler persists a selected search candidate as a course on the
// remote service.
type CourseHandler struct {
	gateway ports.RemoteGateway
	logger  *zap.Logger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(gateway ports.RemoteGateway, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{gateway: gateway, logger: logger}
}

// HandleCreate persists the candidate. The create response is as
// schema-unstable as everything else from this backend, so the course ID
// is extracted on a best-effort basis and may be empty.
func (h *CourseHandler) HandleCreate(ctx context.Context, cmd commands.CreateCourseCommand) (CreateCourseResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return CreateCourseResult{}, err
	}
	if normalize.IsBlank(cmd.Candidate.Title) {
		return CreateCourseResult{}, pkgerrors.NewValidationError("candidate title is required")
	}

	body := map[string]interface{}{
		"title":         cmd.Candidate.Title,
		"institution":   cmd.Candidate.Institution,
		"platform":      cmd.Candidate.Platform,
		"category":      cmd.Candidate.Category,
		"durationHours": cmd.Candidate.DurationHours,
		"priceAmount":   cmd.Candidate.PriceAmount,
		"language":      cmd.Candidate.Language,
		"description":   cmd.Candidate.Description,
		"links":         cmd.Candidate.Links,
	}

	payload, err := h.gateway.CreateCourse(ctx, body)
	if err != nil {
		return CreateCourseResult{}, err
	}

	courseID := normalize.ExtractRecordID(payload)
	if courseID == "" {
		h.logger.Warn("course create response carried no recognizable id",
			zap.String("title", cmd.Candidate.Title),
		)
	}

	return CreateCourseResult{CourseID: courseID, Title: cmd.Candidate.Title}, nil
}
