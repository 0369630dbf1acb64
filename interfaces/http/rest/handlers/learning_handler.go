package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"vitae-backend/application/commands"
	cmdhandlers "vitae-backend/application/commands/handlers"
	"vitae-backend/application/queries"
	queryhandlers "vitae-backend/application/queries/handlers"
	"vitae-backend/application/services"
	"vitae-backend/domain/course"
	"vitae-backend/pkg/auth"
	"vitae-backend/pkg/common"
	pkgerrors "vitae-backend/pkg/errors"
)

// LearningHandler handles durable progress and transient quiz requests
type LearningHandler struct {
	progress     *cmdhandlers.ProgressHandler
	getProgress  *queryhandlers.GetProgressHandler
	quiz         *services.QuizService
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewLearningHandler creates a new learning handler
func NewLearningHandler(
	progress *cmdhandlers.ProgressHandler,
	getProgress *queryhandlers.GetProgressHandler,
	quiz *services.QuizService,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *LearningHandler {
	return &LearningHandler{
		progress:     progress,
		getProgress:  getProgress,
		quiz:         quiz,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// MarkCompleteRequest represents the request body for completing a chapter
type MarkCompleteRequest struct {
	TotalChapters int `json:"totalChapters" validate:"gte=0"`
}

// MarkChapterComplete handles POST /courses/{courseID}/chapters/{chapterIndex}/complete
func (h *LearningHandler) MarkChapterComplete(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	chapterIndex, err := h.chapterIndex(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	var req MarkCompleteRequest
	if r.ContentLength > 0 {
		if err := common.ParseJSONBody(r, &req, 1<<16); err != nil {
			h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
			return
		}
	}

	result, err := h.progress.HandleMarkComplete(r.Context(), commands.MarkChapterCompleteCommand{
		UserID:        user.UserID,
		CourseID:      chi.URLParam(r, "courseID"),
		ChapterIndex:  chapterIndex,
		TotalChapters: req.TotalChapters,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// GetProgress handles GET /courses/{courseID}/progress
func (h *LearningHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	totalChapters := 0
	if raw := r.URL.Query().Get("totalChapters"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			totalChapters = parsed
		}
	}

	result, err := h.getProgress.Handle(r.Context(), queries.GetProgressQuery{
		UserID:        user.UserID,
		CourseID:      chi.URLParam(r, "courseID"),
		TotalChapters: totalChapters,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}

// ListProgress handles GET /progress
func (h *LearningHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	results, err := h.getProgress.HandleList(r.Context(), queries.ListProgressQuery{UserID: user.UserID})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, results)
}

// ResetProgress handles DELETE /courses/{courseID}/progress
func (h *LearningHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	courseID := chi.URLParam(r, "courseID")
	if err := h.progress.HandleReset(r.Context(), commands.ResetProgressCommand{
		UserID:   user.UserID,
		CourseID: courseID,
	}); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"courseId": courseID, "status": "reset"})
}

// OpenQuizRequest represents the request body for opening a chapter quiz
type OpenQuizRequest struct {
	Chapter course.Chapter `json:"chapter"`
}

// OpenQuiz handles POST /courses/{courseID}/chapters/{chapterIndex}/quiz
func (h *LearningHandler) OpenQuiz(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	chapterIndex, err := h.chapterIndex(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	var req OpenQuizRequest
	if err := common.ParseJSONBody(r, &req, 1<<20); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	req.Chapter.Index = chapterIndex

	h.quiz.OpenChapter(user.UserID, chi.URLParam(r, "courseID"), req.Chapter)
	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"questions": len(req.Chapter.Quiz),
	})
}

// SelectAnswerRequest represents the request body for answering a question
type SelectAnswerRequest struct {
	QuestionIndex int    `json:"questionIndex" validate:"gte=0"`
	Option        string `json:"option" validate:"required"`
}

// SelectAnswer handles POST /courses/{courseID}/chapters/{chapterIndex}/quiz/select
func (h *LearningHandler) SelectAnswer(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	chapterIndex, err := h.chapterIndex(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	var req SelectAnswerRequest
	if err := common.ParseJSONBody(r, &req, 1<<16); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	if err := h.quiz.Select(user.UserID, chi.URLParam(r, "courseID"), chapterIndex, req.QuestionIndex, req.Option); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "selected"})
}

// RevealRequest represents the request body for revealing a question
type RevealRequest struct {
	QuestionIndex int `json:"questionIndex" validate:"gte=0"`
}

// RevealAnswer handles POST /courses/{courseID}/chapters/{chapterIndex}/quiz/reveal
func (h *LearningHandler) RevealAnswer(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	chapterIndex, err := h.chapterIndex(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	var req RevealRequest
	if err := common.ParseJSONBody(r, &req, 1<<16); err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	correct, err := h.quiz.Reveal(user.UserID, chi.URLParam(r, "courseID"), chapterIndex, req.QuestionIndex)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]bool{"correct": correct})
}

// ResetQuiz handles POST /courses/{courseID}/chapters/{chapterIndex}/quiz/reset
func (h *LearningHandler) ResetQuiz(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	chapterIndex, err := h.chapterIndex(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.quiz.ResetChapter(user.UserID, chi.URLParam(r, "courseID"), chapterIndex); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// QuizScore handles GET /courses/{courseID}/chapters/{chapterIndex}/quiz/score
func (h *LearningHandler) QuizScore(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	chapterIndex, err := h.chapterIndex(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	score, err := h.quiz.Score(user.UserID, chi.URLParam(r, "courseID"), chapterIndex)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, score)
}

// QuizAttempts handles GET /courses/{courseID}/chapters/{chapterIndex}/quiz
func (h *LearningHandler) QuizAttempts(w http.ResponseWriter, r *http.Request) {
	user, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	chapterIndex, err := h.chapterIndex(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	attempts, err := h.quiz.Attempts(user.UserID, chi.URLParam(r, "courseID"), chapterIndex)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, attempts)
}

func (h *LearningHandler) chapterIndex(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "chapterIndex")
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 {
		return 0, pkgerrors.NewValidationError("chapter index must be a non-negative integer")
	}
	return idx, nil
}
