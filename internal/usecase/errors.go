package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrUnresolvedTeams aborts a group sync whose fixtures reference team
	// labels that could not be mapped to canonical teams.
	ErrUnresolvedTeams = errors.New("unresolved team labels")

	// ErrCategoryMismatch aborts a write that would link a team into a group
	// of a different age category.
	ErrCategoryMismatch = errors.New("category mismatch")
)
