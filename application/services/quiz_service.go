package services

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"vitae-backend/domain/course"
	"vitae-backend/domain/learning"
	pkgerrors "vitae-backend/pkg/errors"
)

// QuizService holds the transient quiz attempt state for chapters the
// user currently has open. This state is deliberately kept out of the
// durable progress store: re-opening a chapter rebuilds it from scratch.
type QuizService struct {
	mu       sync.RWMutex
	sessions map[string]*learning.ChapterQuiz
	logger   *zap.Logger
}

// NewQuizService creates a new quiz session service
func NewQuizService(logger *zap.Logger) *QuizService {
	return &QuizService{
		sessions: make(map[string]*learning.ChapterQuiz),
		logger:   logger,
	}
}

// QuizScore is the aggregate outcome surfaced to the API. RecommendComplete
// mirrors the passing policy; the caller decides whether to act on it.
type QuizScore struct {
	learning.ScoreResult
	RecommendComplete bool `json:"recommendComplete"`
}

func sessionKey(userID, courseID string, chapterIndex int) string {
	return fmt.Sprintf("%s#%s#%d", userID, courseID, chapterIndex)
}

// OpenChapter starts (or restarts) the quiz session for a chapter. Any
// previous attempt state for that chapter is discarded.
func (s *QuizService) OpenChapter(userID, courseID string, chapter course.Chapter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionKey(userID, courseID, chapter.Index)] = learning.NewChapterQuiz(chapter.Quiz)

	s.logger.Debug("chapter quiz opened",
		zap.String("courseID", courseID),
		zap.Int("chapterIndex", chapter.Index),
		zap.Int("questions", len(chapter.Quiz)),
	)
}

// Select records an answer for a question in an open chapter
func (s *QuizService) Select(userID, courseID string, chapterIndex, questionIndex int, optionLetter string) error {
	quiz, err := s.session(userID, courseID, chapterIndex)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	quiz.Select(questionIndex, optionLetter)
	return nil
}

// Reveal marks a question revealed and reports correctness
func (s *QuizService) Reveal(userID, courseID string, chapterIndex, questionIndex int) (bool, error) {
	quiz, err := s.session(userID, courseID, chapterIndex)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return quiz.Reveal(questionIndex)
}

// ResetChapter clears all attempt state for a chapter
func (s *QuizService) ResetChapter(userID, courseID string, chapterIndex int) error {
	quiz, err := s.session(userID, courseID, chapterIndex)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	quiz.Reset()
	return nil
}

// Score returns the chapter score once every question has been revealed
func (s *QuizService) Score(userID, courseID string, chapterIndex int) (QuizScore, error) {
	quiz, err := s.session(userID, courseID, chapterIndex)
	if err != nil {
		return QuizScore{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	result, err := quiz.Score()
	if err != nil {
		return QuizScore{}, err
	}
	return QuizScore{ScoreResult: result, RecommendComplete: result.Passed}, nil
}

// Attempts returns the current attempt state for an open chapter
func (s *QuizService) Attempts(userID, courseID string, chapterIndex int) ([]learning.Attempt, error) {
	quiz, err := s.session(userID, courseID, chapterIndex)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return quiz.Attempts(), nil
}

func (s *QuizService) session(userID, courseID string, chapterIndex int) (*learning.ChapterQuiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quiz, ok := s.sessions[sessionKey(userID, courseID, chapterIndex)]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("open chapter quiz")
	}
	return quiz, nil
}
