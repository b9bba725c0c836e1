// Package apperr holds the error taxonomy shared by the stores, the calendar aggregator and the
// HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input rejected before any query is issued.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a single addressed record (assignment, template) that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUpstream marks a failed source query.
	ErrUpstream = errors.New("upstream fetch failed")
)

// Validation returns an error wrapping ErrValidation with a formatted detail.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound returns an error wrapping ErrNotFound for the named entity.
func NotFound(entity string, id int64) error {
	return fmt.Errorf("%s %d: %w", entity, id, ErrNotFound)
}

// UpstreamFetchError reports which source collection failed to load.
type UpstreamFetchError struct {
	Source string
	Err    error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrUpstream) match any UpstreamFetchError.
func (e *UpstreamFetchError) Is(target error) bool { return target == ErrUpstream }
