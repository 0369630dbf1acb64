package handlers

import (
	"context"

	"go.uber.org/zap"

	"vitae-backend/application/ports"
	"vitae-backend/application/queries"
	"vitae-backend/domain/normalize"
	pkgerrors "vitae-backend/pkg/errors"
	"vitae-backend/pkg/observability"
	"vitae-backend/pkg/utils"
)

// SearchCoursesHandler sends the query to the search/AI backend and
// normalizes whatever comes back. Transport failures surface as retryable
// errors; an unusable payload surfaces as a specific empty-result error,
// never as a crash.
type SearchCoursesHandler struct {
	gateway ports.RemoteGateway
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewSearchCoursesHandler creates a new search handler
func NewSearchCoursesHandler(
	gateway ports.RemoteGateway,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *SearchCoursesHandler {
	return &SearchCoursesHandler{
		gateway: gateway,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle executes the search query
func (h *SearchCoursesHandler) Handle(ctx context.Context, q queries.SearchCoursesQuery) (queries.SearchCoursesResult, error) {
	if err := utils.ValidateStruct(q); err != nil {
		return queries.SearchCoursesResult{}, err
	}

	payload, err := h.gateway.SearchCourses(ctx, q.Query)
	if err != nil {
		// Transport errors are the gateway's to classify; pass through.
		return queries.SearchCoursesResult{}, err
	}

	normalized := normalize.NormalizeSearch(payload)
	h.metrics.CountSearchOutcome(ctx, string(normalized.Outcome))

	result := queries.SearchCoursesResult{
		Candidates: normalized.Candidates,
		Outcome:    normalized.Outcome,
	}

	switch normalized.Outcome {
	case normalize.OutcomeCandidates, normalize.OutcomeAggregate:
		return result, nil
	case normalize.OutcomeNoPayload:
		return result, pkgerrors.NewEmptyResultError("the search service returned an empty response")
	case normalize.OutcomeUnrecognized:
		h.logger.Warn("search payload had unrecognized structure",
			zap.String("query", q.Query),
		)
		return result, pkgerrors.NewUnrecognizedShapeError("search response")
	default: // OutcomeEmpty
		return result, pkgerrors.NewEmptyResultError("no courses matched the search")
	}
}
