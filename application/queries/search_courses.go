package queries

import (
	"vitae-backend/domain/course"
	"vitae-backend/domain/normalize"
)

// SearchCoursesQuery represents a free-text course search
type SearchCoursesQuery struct {
	UserID string `validate:"required"`
	Query  string `validate:"required,min=2,max=500"`
}

// SearchCoursesResult carries the normalized candidates plus the outcome
// classification used for caller messaging and telemetry.
type SearchCoursesResult struct {
	Candidates []course.Candidate `json:"candidates"`
	Outcome    normalize.Outcome  `json:"outcome"`
}
