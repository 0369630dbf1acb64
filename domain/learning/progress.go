// Package learning holds the durable chapter-progress state and the
// transient quiz session state. The two deliberately live in separate
// types with separate lifetimes: progress survives across sessions, quiz
// attempts are rebuilt every time a chapter is opened.
package learning

import (
	"math"
	"sort"
)

// ProgressState is the durable per-course completion record. Chapter
// completion is binary: a chapter is either not started or completed.
// "In progress" is purely a UI notion of the currently open chapter and is
// never persisted.
type ProgressState struct {
	CourseID  string
	Completed map[int]struct{}
}

// NewProgressState creates an empty progress record for a course
func NewProgressState(courseID string) *ProgressState {
	return &ProgressState{
		CourseID:  courseID,
		Completed: make(map[int]struct{}),
	}
}

// MarkComplete adds a chapter index to the completed set. Idempotent:
// returns false when the chapter was already complete. Progress never
// regresses here; Reset is the only way back.
func (p *ProgressState) MarkComplete(chapterIndex int) bool {
	if chapterIndex < 0 {
		return false
	}
	if _, done := p.Completed[chapterIndex]; done {
		return false
	}
	p.Completed[chapterIndex] = struct{}{}
	return true
}

// IsComplete reports whether a chapter has been completed
func (p *ProgressState) IsComplete(chapterIndex int) bool {
	_, done := p.Completed[chapterIndex]
	return done
}

// Reset clears the whole completed set
func (p *ProgressState) Reset() {
	p.Completed = make(map[int]struct{})
}

// Percent returns the rounded completion percentage for a course with the
// given chapter count. A course with no chapters is 0% complete, not a
// division error.
func (p *ProgressState) Percent(totalChapters int) int {
	if totalChapters <= 0 {
		return 0
	}
	count := 0
	for idx := range p.Completed {
		if idx < totalChapters {
			count++
		}
	}
	return int(math.Round(100 * float64(count) / float64(totalChapters)))
}

// CompletedIndices returns the completed chapter indices in ascending
// order.
func (p *ProgressState) CompletedIndices() []int {
	out := make([]int, 0, len(p.Completed))
	for idx := range p.Completed {
		out = append(out, idx)
	}
	sort.Ints(out)
	return out
}
