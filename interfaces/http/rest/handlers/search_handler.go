package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"vitae-backend/application/commands"
	cmdhandlers "vitae-backend/application/commands/handlers"
	"vitae-backend/application/queries"
	queryhandlers "vitae-backend/application/queries/handlers"
	"vitae-backend/domain/course"
	"vitae-backend/pkg/auth"
	"vitae-backend/pkg/common"
	pkgerrors "vitae-backend/pkg/errors"
)

// SearchHandler handles course search and candidate persistence requests
type SearchHandler struct {
	search       *queryhandlers.SearchCoursesHandler
	courses      *cmdhandlers.CourseHandler
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(
	search *queryhandlers.SearchCoursesHandler,
	courses *cmdhandlers.CourseHandler,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *SearchHandler {
	return &SearchHandler{
		search:       search,
		courses:      courses,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// Search handles GET /search?q=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	result, err := h.search.Handle(r.Context(), queries.SearchCoursesQuery{
		UserID: user.UserID,
		Query:  r.URL.Query().Get("q"),
	})
	if err != nil {
		// "No results" and "shape we could not read" are valid answers, not
		// failures. Surface the user-facing message alongside the (empty)
		// candidate list.
		if appErr := pkgerrors.GetAppError(err); appErr != nil &&
			(appErr.Type == pkgerrors.ErrorTypeEmptyResult || appErr.Type == pkgerrors.ErrorTypeUnrecognizedShape) {
			common.RespondWithMeta(w, http.StatusOK, result, &common.MetaInfo{Message: appErr.Message})
			return
		}
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// CreateCourseRequest represents the request body for persisting a candidate
type CreateCourseRequest struct {
	Candidate course.Candidate `json:"candidate"`
}

// CreateCourse handles POST /courses
func (h *SearchHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	var req CreateCourseRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	result, err := h.courses.HandleCreate(r.Context(), commands.CreateCourseCommand{
		UserID:    user.UserID,
		Candidate: req.Candidate,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusCreated, result)
}
