package categorizer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"harufuji/kakeibo/internal/logging"
	"harufuji/kakeibo/internal/models"
)

func newTestSuggester() *Suggester {
	return NewSuggester(nil, &logging.MockLogger{})
}

func TestSuggest(t *testing.T) {
	tests := []struct {
		name        string
		description string
		expected    string
	}{
		{
			name:        "supplies keyword",
			description: "Amazonでコピー用紙購入",
			expected:    models.CategorySupplies,
		},
		{
			name:        "travel keyword",
			description: "JR東日本 乗車券",
			expected:    models.CategoryTravel,
		},
		{
			name:        "case-insensitive latin keyword",
			description: "AMAZON.CO.JP",
			expected:    models.CategorySupplies,
		},
		{
			name:        "communication keyword",
			description: "切手 84円 x 10",
			expected:    models.CategoryCommunication,
		},
		{
			name:        "meeting keyword",
			description: "スターバックス 打合せ",
			expected:    models.CategoryMeeting,
		},
		{
			name:        "no keyword falls back to misc",
			description: "なんだかわからない買い物",
			expected:    models.CategoryMisc,
		},
		{
			name:        "empty input falls back to misc",
			description: "",
			expected:    models.CategoryMisc,
		},
		{
			name:        "whitespace only falls back to misc",
			description: "   ",
			expected:    models.CategoryMisc,
		},
	}

	s := newTestSuggester()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, s.Suggest(tt.description))
		})
	}
}

func TestSuggest_DeclaredOrderWins(t *testing.T) {
	// Both categories match; the earlier-declared one must win regardless of
	// keyword position within the input.
	categories := []models.Category{
		{ID: "first", Keywords: []string{"beta"}},
		{ID: "second", Keywords: []string{"alpha", "beta"}},
		{ID: models.CategoryMisc},
	}
	s := NewSuggester(categories, &logging.MockLogger{})

	assert.Equal(t, "first", s.Suggest("alpha beta"))
}

func TestSuggest_Deterministic(t *testing.T) {
	s := newTestSuggester()
	first := s.Suggest("スターバックス 打合せ コーヒー")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, s.Suggest("スターバックス 打合せ コーヒー"))
	}
}

func TestIsValid(t *testing.T) {
	s := newTestSuggester()
	assert.True(t, s.IsValid(models.CategoryMisc))
	assert.True(t, s.IsValid(models.CategoryTravel))
	assert.False(t, s.IsValid("groceries"))
	assert.False(t, s.IsValid(""))
}

func TestCategories_CopyIsOrdered(t *testing.T) {
	s := newTestSuggester()
	categories := s.Categories()

	assert.Len(t, categories, 10)
	assert.Equal(t, models.CategoryTravel, categories[0].ID)
	assert.Equal(t, models.CategoryMisc, categories[len(categories)-1].ID)
}
