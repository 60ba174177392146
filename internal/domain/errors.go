package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidState = errors.New("invalid state")
)

// Parse failure reasons surfaced by ParseError.
const (
	ParseReasonNoJSON         = "no-json-found"
	ParseReasonSchemaMismatch = "schema-mismatch"
	ParseReasonEmptyReply     = "empty-reply"
)

// TransportError reports a failed exchange with the generative AI provider:
// a network error, a non-2xx status, or a response with no usable text.
// The transport never retries; callers decide whether a retry makes sense.
type TransportError struct {
	Category string
	Status   int
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport: %s (status %d)", e.Category, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("transport: %s: %v", e.Category, e.Err)
	}
	return fmt.Sprintf("transport: %s", e.Category)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError reports provider output that did not match the expected shape.
type ParseError struct {
	Reason string
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("parse: %s: %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("parse: %s", e.Reason)
}
