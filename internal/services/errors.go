package services

import (
	"errors"
	"fmt"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

var (
	// ErrEmptyMessage rejects blank submissions before any provider call.
	ErrEmptyMessage = errors.New("message is empty")

	ErrEmptyOutput     = errors.New("model returned no text")
	ErrMalformedOutput = errors.New("model returned malformed JSON")
)

// Pipeline failure reasons.
const (
	ReasonTimeout         = "timeout"
	ReasonUpstream        = "upstream"
	ReasonEmptyOutput     = "empty_output"
	ReasonMalformedOutput = "malformed_output"
	ReasonSchemaViolation = "schema_violation"
)

// PipelineError reports a failed assistant call. Callers replace it with
// Fallback output and never show it to end users.
type PipelineError struct {
	Kind   models.Kind
	Reason string
	Err    error
}

func (e *PipelineError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s pipeline: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("%s pipeline: %s: %v", e.Kind, e.Reason, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// Custom errors
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "Validation error" }

type ConflictError struct{ Message string }

func (e *ConflictError) Error() string { return e.Message }

type NotFoundError struct{ Message string }

func (e *NotFoundError) Error() string { return e.Message }

type UnauthorizedError struct{ Message string }

func (e *UnauthorizedError) Error() string { return e.Message }

type ForbiddenError struct{ Message string }

func (e *ForbiddenError) Error() string { return e.Message }

type RateLimitError struct{ Message string }

func (e *RateLimitError) Error() string { return e.Message }
