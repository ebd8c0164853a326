// Package ocr defines the text-recognition port consumed by the scan
// pipeline, plus the Gemini-backed implementation. The core never interprets
// images itself; it hands a preprocessed PNG to a Recognizer and works with
// the raw text lines that come back.
package ocr

import "context"

// ProgressFunc receives fractional completion in [0,1] during recognition.
// Implementations must tolerate a nil callback.
type ProgressFunc func(fraction float64)

// Recognizer converts a PNG bitmap into raw text. Implementations must honor
// context cancellation: a superseded scan attempt cancels its context and any
// late result is discarded by the caller.
type Recognizer interface {
	Recognize(ctx context.Context, png []byte, languageHints []string, onProgress ProgressFunc) (string, error)
}

// Static is a Recognizer returning fixed text. It backs tests and the
// text-input path of the CLI, where OCR has already happened elsewhere.
type Static struct {
	Text string
	Err  error
}

// Recognize returns the fixed text after reporting full progress.
func (s *Static) Recognize(ctx context.Context, _ []byte, _ []string, onProgress ProgressFunc) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Err != nil {
		return "", s.Err
	}
	if onProgress != nil {
		onProgress(1)
	}
	return s.Text, nil
}
