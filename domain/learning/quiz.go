package learning

import (
	"math"
	"strings"

	"vitae-backend/domain/course"
	pkgerrors "vitae-backend/pkg/errors"
)

// PassingScorePercent is the score at or above which completing the
// chapter is recommended to the caller. The quiz engine itself never marks
// a chapter complete; completion is always an explicit user action.
const PassingScorePercent = 70

// Attempt is the transient per-question state within an open chapter.
type Attempt struct {
	Selected string `json:"selected,omitempty"`
	Revealed bool   `json:"revealed"`
}

// ScoreResult is the aggregate outcome of a fully revealed chapter quiz.
type ScoreResult struct {
	Percent int  `json:"percent"`
	Correct int  `json:"correct"`
	Total   int  `json:"total"`
	Passed  bool `json:"passed"`
}

// ChapterQuiz tracks answer capture and reveal state for one chapter's
// questions. State lives only as long as the chapter stays open.
type ChapterQuiz struct {
	questions []course.QuizQuestion
	attempts  []Attempt
}

// NewChapterQuiz builds fresh attempt state for a chapter's questions
func NewChapterQuiz(questions []course.QuizQuestion) *ChapterQuiz {
	return &ChapterQuiz{
		questions: questions,
		attempts:  make([]Attempt, len(questions)),
	}
}

// Select records an answer for a question. No-op once the question has
// been revealed, until Reset.
func (q *ChapterQuiz) Select(questionIndex int, optionLetter string) bool {
	if questionIndex < 0 || questionIndex >= len(q.attempts) {
		return false
	}
	if q.attempts[questionIndex].Revealed {
		return false
	}
	q.attempts[questionIndex].Selected = normalizeLetter(optionLetter)
	return true
}

// Reveal marks a question revealed and reports whether the selected
// answer was correct.
func (q *ChapterQuiz) Reveal(questionIndex int) (bool, error) {
	if questionIndex < 0 || questionIndex >= len(q.attempts) {
		return false, pkgerrors.NewValidationError("question index out of range")
	}
	q.attempts[questionIndex].Revealed = true
	return q.isCorrect(questionIndex), nil
}

// Reset clears all attempt state, used when the learner re-opens or
// retries the chapter.
func (q *ChapterQuiz) Reset() {
	q.attempts = make([]Attempt, len(q.questions))
}

// AllRevealed reports whether every question has been revealed
func (q *ChapterQuiz) AllRevealed() bool {
	for _, a := range q.attempts {
		if !a.Revealed {
			return false
		}
	}
	return true
}

// Score aggregates correctness over the chapter. Defined only once every
// question has been revealed.
func (q *ChapterQuiz) Score() (ScoreResult, error) {
	if len(q.questions) == 0 {
		return ScoreResult{}, pkgerrors.NewValidationError("chapter has no quiz questions")
	}
	if !q.AllRevealed() {
		return ScoreResult{}, pkgerrors.NewValidationError("score is undefined until every question is revealed")
	}

	correct := 0
	for i := range q.questions {
		if q.isCorrect(i) {
			correct++
		}
	}
	percent := int(math.Round(100 * float64(correct) / float64(len(q.questions))))
	return ScoreResult{
		Percent: percent,
		Correct: correct,
		Total:   len(q.questions),
		Passed:  percent >= PassingScorePercent,
	}, nil
}

// Attempts returns a copy of the per-question attempt state
func (q *ChapterQuiz) Attempts() []Attempt {
	out := make([]Attempt, len(q.attempts))
	copy(out, q.attempts)
	return out
}

func (q *ChapterQuiz) isCorrect(questionIndex int) bool {
	sel := q.attempts[questionIndex].Selected
	if sel == "" {
		return false
	}
	return sel == normalizeLetter(q.questions[questionIndex].CorrectOption)
}

func normalizeLetter(letter string) string {
	return strings.ToUpper(strings.TrimSpace(letter))
}
