package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"harufuji/kakeibo/internal/logging"
	"harufuji/kakeibo/internal/parsererror"
)

// recognizePrompt asks for a plain transcription. Field extraction is done
// locally by the heuristic, not by the model.
const recognizePrompt = `Transcribe every line of text visible in this receipt image.
Preserve the original line order, one line of output per line of the receipt.
Keep numbers, currency symbols and Japanese text exactly as printed.
Output only the transcription, with no commentary and no markdown.`

// Gemini implements Recognizer using the Gemini API. Streaming generation is
// used so callers get incremental progress during the visible latency of
// recognition.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger logging.Logger
}

// NewGemini creates a Gemini recognizer.
func NewGemini(ctx context.Context, apiKey, modelName string, logger logging.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	if logger == nil {
		logger = logging.GetLogger()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
		logger: logger,
	}, nil
}

// Recognize streams a transcription of the PNG. Progress advances with each
// received chunk; exact fractions are unknowable, so completion is approached
// asymptotically until the stream ends.
func (g *Gemini) Recognize(ctx context.Context, png []byte, languageHints []string, onProgress ProgressFunc) (string, error) {
	prompt := recognizePrompt
	if len(languageHints) > 0 {
		prompt += "\nThe receipt language is likely: " + strings.Join(languageHints, ", ") + "."
	}

	parts := []genai.Part{
		genai.ImageData("png", png),
		genai.Text(prompt),
	}

	report := func(f float64) {
		if onProgress != nil {
			onProgress(f)
		}
	}
	report(0)

	iter := g.model.GenerateContentStream(ctx, parts...)

	var sb strings.Builder
	progress := 0.0
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return "", &parsererror.RecognitionError{Recognizer: "gemini", Err: err}
		}

		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if text, ok := part.(genai.Text); ok {
					sb.WriteString(string(text))
				}
			}
		}

		// Halve the remaining distance to 1 on every chunk
		progress += (1 - progress) / 2
		report(progress)
	}
	report(1)

	text := sb.String()
	g.logger.WithField(logging.FieldCount, len(text)).Debug("Recognition complete")
	return text, nil
}

// Close releases the underlying API client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
