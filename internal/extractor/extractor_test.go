package extractor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"harufuji/kakeibo/internal/logging"
)

func fixedClock() time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestExtractor() *Extractor {
	return NewWithClock(&logging.MockLogger{}, fixedClock)
}

func TestExtract_Amount(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int64
	}{
		{
			name:     "total keyword line wins over other numbers",
			text:     "合計 ¥1,200\n小計 500",
			expected: 1200,
		},
		{
			name:     "largest value across multiple total lines",
			text:     "合計 980\n税込 1,080",
			expected: 1080,
		},
		{
			name:     "largest group within one total line",
			text:     "お預り 2,000 合計 1,500",
			expected: 2000,
		},
		{
			name:     "currency fallback takes the maximum marked token",
			text:     "コーヒー ¥500\nケーキ 300円",
			expected: 500,
		},
		{
			name:     "full-width digits are normalized",
			text:     "合計 ￥１，２００",
			expected: 1200,
		},
		{
			name:     "no signal defaults to zero",
			text:     "ただの文章です\n数字なし",
			expected: 0,
		},
		{
			name:     "bare numbers without markers are ignored",
			text:     "1234\n5678",
			expected: 0,
		},
		{
			name:     "case-insensitive total keyword",
			text:     "TOTAL 2,480",
			expected: 2480,
		},
	}

	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			receipt := e.Extract(tt.text)
			assert.Equal(t, tt.expected, receipt.Amount)
		})
	}
}

func TestExtract_Date(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "slash date",
			text:     "2024/03/15",
			expected: "2024-03-15",
		},
		{
			name:     "first matching line wins over pattern priority",
			text:     "2024/03/15\n令和6.3.20",
			expected: "2024-03-15",
		},
		{
			name:     "era line first wins",
			text:     "令和6.3.20\n2024/03/15",
			expected: "2024-03-20",
		},
		{
			name:     "era shorthand converts via 2018 offset",
			text:     "R5.4.1",
			expected: "2023-04-01",
		},
		{
			name:     "kanji calendar date",
			text:     "2024年3月15日",
			expected: "2024-03-15",
		},
		{
			name:     "dot separated date",
			text:     "2024.12.31 のレシート",
			expected: "2024-12-31",
		},
		{
			name:     "year outside 2000-2099 is ignored",
			text:     "1999/03/15",
			expected: "2024-06-01",
		},
		{
			name:     "no date defaults to today",
			text:     "合計 1,200",
			expected: "2024-06-01",
		},
	}

	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			receipt := e.Extract(tt.text)
			assert.Equal(t, tt.expected, receipt.Date)
		})
	}
}

func TestExtract_Vendor(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "store marker line wins",
			text:     "2024/03/15\n株式会社ヤマダ\n合計 1,200",
			expected: "株式会社ヤマダ",
		},
		{
			name:     "marker found past a plain text line",
			text:     "領収書\nサンプルスーパー 渋谷店\n合計 500",
			expected: "サンプルスーパー 渋谷店",
		},
		{
			name:     "fallback skips leading date lines",
			text:     "2024/03/15\nヤマダコーポレーション\n1,200",
			expected: "ヤマダコーポレーション",
		},
		{
			name:     "numeric-only lines are never vendors",
			text:     "12345\n¥1,200\n---",
			expected: "",
		},
		{
			name:     "whitespace runs collapse",
			text:     "サンプル    ストア",
			expected: "サンプル ストア",
		},
		{
			name:     "empty text yields empty description",
			text:     "",
			expected: "",
		},
	}

	e := newTestExtractor()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			receipt := e.Extract(tt.text)
			assert.Equal(t, tt.expected, receipt.Description)
		})
	}
}

func TestExtract_DescriptionTruncation(t *testing.T) {
	long := "ながいなまえ"
	for len([]rune(long)) < 60 {
		long += "や"
	}
	e := newTestExtractor()

	receipt := e.Extract(long + "店")
	assert.LessOrEqual(t, len([]rune(receipt.Description)), 50)
}

func TestExtract_Idempotent(t *testing.T) {
	text := "株式会社ヤマダ\n2024/03/15\n合計 ¥1,200"
	e := newTestExtractor()

	first := e.Extract(text)
	second := e.Extract(text)
	assert.Equal(t, first, second)
}
