// Package parsererror defines the typed errors produced by the I/O-bound
// stages of the pipeline. Extraction and suggestion heuristics never fail;
// only decoding, recognition, parsing and persistence do.
package parsererror

import "fmt"

// DecodeError represents a failure to decode an uploaded receipt image or
// document. It is fatal to the scan attempt only.
type DecodeError struct {
	ContentType string
	Err         error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode image (content type %q): %v", e.ContentType, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// RecognitionError represents a failure of the OCR collaborator.
type RecognitionError struct {
	Recognizer string
	Err        error
}

func (e *RecognitionError) Error() string {
	return fmt.Sprintf("%s: text recognition failed: %v", e.Recognizer, e.Err)
}

func (e *RecognitionError) Unwrap() error {
	return e.Err
}

// ParseError represents an error while parsing a field of an input row.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError represents a record that violates a bookkeeping invariant.
type ValidationError struct {
	Record string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Record, e.Reason)
}

// PersistenceError wraps a failure of the storage collaborator. Session state
// is kept by callers so the commit can be retried without re-parsing.
type PersistenceError struct {
	Operation string
	Err       error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Operation, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
