package entity

import "errors"

// Domain errors
var (
	// Intake session errors
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrSessionCompleted   = errors.New("session is already completed")
	ErrUnexpectedQuestion = errors.New("answer does not match the current question")
	ErrInvalidAnswer      = errors.New("invalid answer")

	// Completion errors
	ErrMalformedResponse = errors.New("malformed completion response")
	ErrUpstreamFailure   = errors.New("completion service failure")

	// Action step errors
	ErrActionStepNotFound = errors.New("action step not found")
	ErrUnknownFocusArea   = errors.New("unknown focus area")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidParameter = errors.New("invalid parameter")
)
