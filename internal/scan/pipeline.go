// Package scan orchestrates one receipt capture end to end: decode the
// uploaded bytes, preprocess, hand the bitmap to the recognizer, run the
// field extraction heuristic and suggest a category. Each attempt runs as a
// cancellable task reporting 0-100 progress; a session keeps only the most
// recent task and cancels any prior in-flight one.
package scan

import (
	"context"
	"sync"

	"harufuji/kakeibo/internal/categorizer"
	"harufuji/kakeibo/internal/extractor"
	"harufuji/kakeibo/internal/imaging"
	"harufuji/kakeibo/internal/logging"
	"harufuji/kakeibo/internal/models"
	"harufuji/kakeibo/internal/ocr"
)

// Progress is one step of a scan attempt, Percent in [0,100].
type Progress struct {
	Stage   string
	Percent int
}

// Result is the outcome of a successful scan attempt. The receipt fields are
// heuristic defaults when extraction missed; the caller must present them
// for user confirmation, never auto-commit.
type Result struct {
	Receipt  models.ExtractedReceipt
	Category string
	RawText  string
}

// Pipeline wires the scan collaborators together.
type Pipeline struct {
	pre       *imaging.Preprocessor
	rec       ocr.Recognizer
	extractor *extractor.Extractor
	suggester *categorizer.Suggester
	hints     []string
	logger    logging.Logger
}

// NewPipeline creates a Pipeline. Nil collaborators fall back to defaults;
// the recognizer is required.
func NewPipeline(pre *imaging.Preprocessor, rec ocr.Recognizer, ext *extractor.Extractor, sug *categorizer.Suggester, hints []string, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if pre == nil {
		pre = imaging.NewPreprocessor(0, 0, 0)
	}
	if ext == nil {
		ext = extractor.New(logger)
	}
	if sug == nil {
		sug = categorizer.NewSuggester(nil, logger)
	}
	return &Pipeline{
		pre:       pre,
		rec:       rec,
		extractor: ext,
		suggester: sug,
		hints:     hints,
		logger:    logger,
	}
}

// Task is one in-flight scan attempt.
type Task struct {
	progress chan Progress
	done     chan struct{}
	cancel   context.CancelFunc

	result Result
	err    error
}

// Progress returns the progress stream. The channel is closed when the
// attempt finishes or is cancelled.
func (t *Task) Progress() <-chan Progress {
	return t.progress
}

// Result blocks until the attempt finishes and returns its outcome.
func (t *Task) Result() (Result, error) {
	<-t.done
	return t.result, t.err
}

// Cancel abandons the attempt. Safe to call more than once.
func (t *Task) Cancel() {
	t.cancel()
}

// Start launches a scan attempt over raw uploaded bytes.
func (p *Pipeline) Start(ctx context.Context, data []byte, contentType string) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		progress: make(chan Progress, 8),
		done:     make(chan struct{}),
		cancel:   cancel,
	}

	go p.run(ctx, data, contentType, t)
	return t
}

func (p *Pipeline) run(ctx context.Context, data []byte, contentType string, t *Task) {
	defer close(t.done)
	defer close(t.progress)
	defer t.cancel()

	report := func(stage string, percent int) {
		select {
		case t.progress <- Progress{Stage: stage, Percent: percent}:
		default:
			// An abandoned task must not block on its own progress
		}
	}

	fail := func(err error) {
		t.err = err
		p.logger.WithError(err).Warn("Scan attempt failed")
	}

	if err := ctx.Err(); err != nil {
		fail(err)
		return
	}

	img, err := imaging.Decode(data, contentType)
	if err != nil {
		fail(err)
		return
	}
	report("decode", 10)

	if err := ctx.Err(); err != nil {
		fail(err)
		return
	}

	processed := p.pre.Process(img)
	report("preprocess", 25)

	png, err := imaging.EncodePNG(processed)
	if err != nil {
		fail(err)
		return
	}

	text, err := p.rec.Recognize(ctx, png, p.hints, func(fraction float64) {
		// Recognition owns the 25-90 band of overall progress
		report("recognize", 25+int(fraction*65))
	})
	if err != nil {
		fail(err)
		return
	}

	if err := ctx.Err(); err != nil {
		fail(err)
		return
	}

	t.result = p.FromText(text)
	report("extract", 100)
}

// FromText runs extraction and category suggestion over text that was
// recognized elsewhere. Heuristics never fail, so neither does this.
func (p *Pipeline) FromText(text string) Result {
	receipt := p.extractor.Extract(text)
	return Result{
		Receipt:  receipt,
		Category: p.suggester.Suggest(receipt.Description),
		RawText:  text,
	}
}

// Session serializes scan attempts for one client: a new capture supersedes
// and cancels any prior in-flight attempt. Last write wins; no state is
// shared across attempts beyond the current task pointer.
type Session struct {
	mu       sync.Mutex
	pipeline *Pipeline
	current  *Task
}

// NewSession creates a scan session over a pipeline.
func NewSession(pipeline *Pipeline) *Session {
	return &Session{pipeline: pipeline}
}

// Start begins a new attempt, cancelling the previous one if still running.
func (s *Session) Start(ctx context.Context, data []byte, contentType string) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.Cancel()
	}
	s.current = s.pipeline.Start(ctx, data, contentType)
	return s.current
}

// Close cancels any in-flight attempt.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.Cancel()
		s.current = nil
	}
}
