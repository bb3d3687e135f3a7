// file: internals/features/workflow/errors.go
package workflow

import "errors"

// Shared workflow error taxonomy. Controllers map these to HTTP statuses;
// services wrap them with context via fmt.Errorf("...: %w", err).
var (
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidTransition = errors.New("transition not in state table")
	ErrForbidden         = errors.New("role may not perform this transition")
	// ErrConflict signals an optimistic-concurrency collision. The caller
	// may retry after re-reading the entity.
	ErrConflict = errors.New("state changed concurrently")
)
