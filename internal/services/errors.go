package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed or missing request data, such
	// as an upload without a file name.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyExtraction means the file parsed cleanly but yielded no
	// usable text.
	ErrEmptyExtraction = errors.New("no text extracted from file")

	// ErrNoDocument means a follow-up question arrived before any
	// document was uploaded for the session.
	ErrNoDocument = errors.New("no document found, please upload a file first")

	// ErrMissingAPIKey is a server-side configuration failure; it is
	// raised before any provider call is attempted.
	ErrMissingAPIKey = errors.New("server configuration error: missing API key")
)

// UnsupportedTypeError rejects a file whose extension is not in the
// allowed set. It carries the offending extension for the caller.
type UnsupportedTypeError struct {
	Extension string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.Extension)
}

// ExtractionError wraps an underlying parser failure for one FileKind.
type ExtractionError struct {
	Kind FileKind
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// UpstreamError wraps a failure from the completion provider.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("completion provider error: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
