package storage

import (
	"context"

	"github.com/poiesic/newsprep/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close releases resources held by the repository.
	// It does not close the underlying backend.
	Close() error
}

// RunRepository records the history of pipeline runs.
type RunRepository interface {
	Repository

	// AddRun stores a new run and assigns its ID.
	// Any ID already set on the run is overwritten.
	AddRun(ctx context.Context, run *core.Run) (*core.Run, error)

	// UpdateRun replaces a stored run.
	// Returns ErrNotFound if no run with the same ID exists.
	UpdateRun(ctx context.Context, run *core.Run) (*core.Run, error)

	// GetRun retrieves a single run by ID.
	// Returns ErrNotFound if the run doesn't exist.
	GetRun(ctx context.Context, id core.ID) (*core.Run, error)

	// ListRuns returns up to limit runs, newest first.
	// A limit of zero returns every run.
	ListRuns(ctx context.Context, limit int) ([]*core.Run, error)
}
