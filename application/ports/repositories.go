package ports

import (
	"context"

	"vitae-backend/domain/learning"
)

// ProgressRepository defines the interface for durable progress
// persistence. This is a port in hexagonal architecture - the domain
// doesn't know about the implementation.
type ProgressRepository interface {
	// Save persists a course's progress state (create or update)
	Save(ctx context.Context, userID string, state *learning.ProgressState) error

	// Get retrieves the progress state for a course; implementations
	// return a NOT_FOUND AppError when none exists yet
	Get(ctx context.Context, userID, courseID string) (*learning.ProgressState, error)

	// GetOrCreate retrieves the progress state for a course, creating an
	// empty one on first access
	GetOrCreate(ctx context.Context, userID, courseID string) (*learning.ProgressState, error)

	// ListByUser retrieves all progress states for a user
	ListByUser(ctx context.Context, userID string) ([]*learning.ProgressState, error)

	// Delete removes the progress state for a course
	Delete(ctx context.Context, userID, courseID string) error
}

// RemoteGateway defines the interface to the remote personal-data
// service. Responses are raw decoded JSON of unknown shape; the caller is
// responsible for normalization.
type RemoteGateway interface {
	// SearchCourses sends a free-text query to the search/AI endpoint
	SearchCourses(ctx context.Context, query string) (interface{}, error)

	// CreateNote issues a create mutation for a note record
	CreateNote(ctx context.Context, ownerRecordID string, body map[string]interface{}) (interface{}, error)

	// UpdateNote issues an update mutation for a note record
	UpdateNote(ctx context.Context, ownerRecordID, noteID string, body map[string]interface{}) (interface{}, error)

	// DeleteNote issues a delete mutation for a note record
	DeleteNote(ctx context.Context, ownerRecordID, noteID string) (interface{}, error)

	// CreateCourse persists a selected course candidate
	CreateCourse(ctx context.Context, body map[string]interface{}) (interface{}, error)
}

// EventBus defines the interface for publishing domain events
type EventBus interface {
	// PublishChapterCompleted announces a durable chapter completion
	PublishChapterCompleted(ctx context.Context, userID, courseID string, chapterIndex, percent int) error
}
