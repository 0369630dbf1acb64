// Package memory provides in-memory persistence used by local development
// and tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"vitae-backend/application/ports"
	"vitae-backend/domain/learning"
	pkgerrors "vitae-backend/pkg/errors"
)

// ProgressRepository is an in-memory ports.ProgressRepository. It stores
// copies, never the caller's pointers, so it behaves like a real store.
type ProgressRepository struct {
	mu     sync.RWMutex
	states map[string]*learning.ProgressState
}

// NewProgressRepository creates an empty in-memory progress store
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{
		states: make(map[string]*learning.ProgressState),
	}
}

func storeKey(userID, courseID string) string {
	return fmt.Sprintf("%s#%s", userID, courseID)
}

// Save persists a copy of the progress state
func (r *ProgressRepository) Save(ctx context.Context, userID string, state *learning.ProgressState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[storeKey(userID, state.CourseID)] = cloneState(state)
	return nil
}

// Get retrieves the progress state for a course
func (r *ProgressRepository) Get(ctx context.Context, userID, courseID string) (*learning.ProgressState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[storeKey(userID, courseID)]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("course progress")
	}
	return cloneState(state), nil
}

// GetOrCreate retrieves the progress state, starting empty on first access
func (r *ProgressRepository) GetOrCreate(ctx context.Context, userID, courseID string) (*learning.ProgressState, error) {
	state, err := r.Get(ctx, userID, courseID)
	if err == nil {
		return state, nil
	}
	if pkgerrors.IsType(err, pkgerrors.ErrorTypeNotFound) {
		return learning.NewProgressState(courseID), nil
	}
	return nil, err
}

// ListByUser retrieves all progress states for a user
func (r *ProgressRepository) ListByUser(ctx context.Context, userID string) ([]*learning.ProgressState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefix := userID + "#"
	var states []*learning.ProgressState
	for key, state := range r.states {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			states = append(states, cloneState(state))
		}
	}
	return states, nil
}

// Delete removes the progress state for a course
func (r *ProgressRepository) Delete(ctx context.Context, userID, courseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, storeKey(userID, courseID))
	return nil
}

func cloneState(state *learning.ProgressState) *learning.ProgressState {
	out := learning.NewProgressState(state.CourseID)
	for idx := range state.Completed {
		out.Completed[idx] = struct{}{}
	}
	return out
}

var _ ports.ProgressRepository = (*ProgressRepository)(nil)
