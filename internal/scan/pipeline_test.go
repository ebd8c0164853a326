package scan

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harufuji/kakeibo/internal/logging"
	"harufuji/kakeibo/internal/models"
	"harufuji/kakeibo/internal/ocr"
)

const receiptText = `スーパーマート渋谷店
2024/03/15
合計 ¥1,280
`

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// blockingRecognizer parks until its context is cancelled, so tests can hold
// an attempt in flight.
type blockingRecognizer struct {
	started chan struct{}
}

func (b *blockingRecognizer) Recognize(ctx context.Context, _ []byte, _ []string, _ ocr.ProgressFunc) (string, error) {
	close(b.started)
	<-ctx.Done()
	return "", ctx.Err()
}

func TestPipeline_FromText(t *testing.T) {
	p := NewPipeline(nil, &ocr.Static{}, nil, nil, nil, &logging.MockLogger{})

	result := p.FromText(receiptText)
	assert.Equal(t, int64(1280), result.Receipt.Amount)
	assert.Equal(t, "2024-03-15", result.Receipt.Date)
	assert.Equal(t, "スーパーマート渋谷店", result.Receipt.Description)
	assert.Equal(t, models.CategoryMisc, result.Category)
	assert.Equal(t, receiptText, result.RawText)
}

func TestPipeline_StartFullRun(t *testing.T) {
	rec := &ocr.Static{Text: receiptText}
	p := NewPipeline(nil, rec, nil, nil, nil, &logging.MockLogger{})

	task := p.Start(context.Background(), testPNG(t), "image/png")

	var last Progress
	for prog := range task.Progress() {
		assert.GreaterOrEqual(t, prog.Percent, last.Percent, "progress never goes backwards")
		last = prog
	}
	assert.Equal(t, 100, last.Percent)
	assert.Equal(t, "extract", last.Stage)

	result, err := task.Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1280), result.Receipt.Amount)
	assert.Equal(t, "2024-03-15", result.Receipt.Date)
}

func TestPipeline_DecodeFailure(t *testing.T) {
	p := NewPipeline(nil, &ocr.Static{}, nil, nil, nil, &logging.MockLogger{})

	task := p.Start(context.Background(), []byte("not an image"), "image/png")
	_, err := task.Result()
	assert.Error(t, err)
}

func TestPipeline_RecognizerFailure(t *testing.T) {
	rec := &ocr.Static{Err: errors.New("quota exceeded")}
	p := NewPipeline(nil, rec, nil, nil, nil, &logging.MockLogger{})

	task := p.Start(context.Background(), testPNG(t), "image/png")
	_, err := task.Result()
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestPipeline_Cancel(t *testing.T) {
	rec := &blockingRecognizer{started: make(chan struct{})}
	p := NewPipeline(nil, rec, nil, nil, nil, &logging.MockLogger{})

	task := p.Start(context.Background(), testPNG(t), "image/png")
	<-rec.started
	task.Cancel()

	_, err := task.Result()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSession_NewAttemptSupersedesPrevious(t *testing.T) {
	first := &blockingRecognizer{started: make(chan struct{})}
	session := NewSession(NewPipeline(nil, first, nil, nil, nil, &logging.MockLogger{}))
	defer session.Close()

	firstTask := session.Start(context.Background(), testPNG(t), "image/png")
	<-first.started

	// Swapping the pipeline keeps the test honest about which attempt runs
	session.pipeline = NewPipeline(nil, &ocr.Static{Text: receiptText}, nil, nil, nil, &logging.MockLogger{})
	secondTask := session.Start(context.Background(), testPNG(t), "image/png")

	_, err := firstTask.Result()
	assert.ErrorIs(t, err, context.Canceled, "prior attempt is cancelled")

	result, err := secondTask.Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1280), result.Receipt.Amount)
}

func TestSession_Close(t *testing.T) {
	rec := &blockingRecognizer{started: make(chan struct{})}
	session := NewSession(NewPipeline(nil, rec, nil, nil, nil, &logging.MockLogger{}))

	task := session.Start(context.Background(), testPNG(t), "image/png")
	<-rec.started
	session.Close()

	_, err := task.Result()
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTask_AbandonedProgressDoesNotBlock(t *testing.T) {
	rec := &ocr.Static{Text: receiptText}
	p := NewPipeline(nil, rec, nil, nil, nil, &logging.MockLogger{})

	// Never drain the progress channel; the attempt must still finish.
	task := p.Start(context.Background(), testPNG(t), "image/png")

	done := make(chan struct{})
	go func() {
		_, _ = task.Result()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scan attempt blocked on an undrained progress channel")
	}
}
