package commands

import "vitae-backend/domain/course"

// MarkChapterCompleteCommand marks one chapter of a course as completed.
// Always an explicit user action; nothing in the engine issues it
// automatically.
type MarkChapterCompleteCommand struct {
	UserID        string `json:"user_id" validate:"required"`
	CourseID      string `json:"course_id" validate:"required"`
	ChapterIndex  int    `json:"chapter_index" validate:"gte=0"`
	TotalChapters int    `json:"total_chapters" validate:"gte=0"`
}

// ResetProgressCommand clears the whole completed set for a course
type ResetProgressCommand struct {
	UserID   string `json:"user_id" validate:"required"`
	CourseID string `json:"course_id" validate:"required"`
}

// CreateCourseCommand persists a selected search candidate as a course
type CreateCourseCommand struct {
	UserID    string           `json:"user_id" validate:"required"`
	Candidate course.Candidate `json:"candidate"`
}
