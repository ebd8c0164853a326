package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := &DecodeError{ContentType: "image/heic", Err: cause}

	assert.Contains(t, err.Error(), "image/heic")
	assert.Contains(t, err.Error(), "unexpected EOF")
	assert.ErrorIs(t, err, cause)
}

func TestRecognitionError(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := &RecognitionError{Recognizer: "gemini", Err: cause}

	assert.Contains(t, err.Error(), "gemini")
	assert.ErrorIs(t, err, cause)
}

func TestParseError(t *testing.T) {
	cause := errors.New("invalid syntax")
	err := &ParseError{Parser: "csvimport", Field: "amount", Value: "abc", Err: cause}

	assert.Contains(t, err.Error(), "csvimport")
	assert.Contains(t, err.Error(), "amount")
	assert.Contains(t, err.Error(), "abc")
	assert.ErrorIs(t, err, cause)
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Record: "transaction 3", Reason: "negative amount"}

	assert.Contains(t, err.Error(), "transaction 3")
	assert.Contains(t, err.Error(), "negative amount")
}

func TestPersistenceError(t *testing.T) {
	cause := errors.New("database locked")
	err := &PersistenceError{Operation: "batch import", Err: cause}

	assert.Contains(t, err.Error(), "batch import")
	assert.ErrorIs(t, err, cause)
}

func TestErrorsAs(t *testing.T) {
	wrapped := fmt.Errorf("scan failed: %w", &DecodeError{ContentType: "application/pdf", Err: errors.New("bad xref")})

	var decodeErr *DecodeError
	assert.ErrorAs(t, wrapped, &decodeErr)
	assert.Equal(t, "application/pdf", decodeErr.ContentType)
}
