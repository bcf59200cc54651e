// Package errs carries the error taxonomy the HTTP boundary maps onto status
// codes: not-found (404), validation failures (400) and data-integrity
// violations (500, logged loudly).
package errs

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrSessionNotFound = errors.New("movie session not found")

var ErrOrderNotFound = errors.New("order not found")

// MissingHallError means a session references a cinema hall that no longer
// exists. Capacity is never silently treated as zero; this is a corrupted
// relationship and must surface.
type MissingHallError struct {
	SessionID int64
	HallID    int64
}

func (e *MissingHallError) Error() string {
	return fmt.Sprintf("movie session %d references missing cinema hall %d", e.SessionID, e.HallID)
}

// ValidationError collects field-level messages for a malformed request.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
