// Package common defines shared constants and sentinel errors used across the
// CLI layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Store-level errors.
	ErrNotFound = errors.New("not found")

	// Selection errors: required state missing from the local store.
	ErrNoCurrentTerm       = errors.New("no current term selected")
	ErrNoCurrentCourse     = errors.New("no current course selected")
	ErrNoCurrentAssignment = errors.New("no current assignment selected")

	// API errors.
	ErrUnexpectedStatus = errors.New("unexpected http status")

	// Grading errors.
	ErrInvalidScore  = errors.New("invalid score")
	ErrUnknownScheme = errors.New("unknown grading scheme")
)
