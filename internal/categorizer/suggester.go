// Package categorizer suggests a bookkeeping category for free-text vendor
// names and memos using keyword pattern matching against the fixed taxonomy.
package categorizer

import (
	"strings"

	"harufuji/kakeibo/internal/catstore"
	"harufuji/kakeibo/internal/logging"
	"harufuji/kakeibo/internal/models"
)

// Suggester matches descriptions against the ordered category taxonomy.
// Matching is deterministic: categories are tried in declared order and
// keywords in declared order, and the first substring hit wins. There is no
// "best match" scoring.
type Suggester struct {
	categories []models.Category
	valid      map[string]bool
	logger     logging.Logger
}

// NewSuggester creates a Suggester over the given ordered taxonomy. A nil or
// empty taxonomy falls back to the built-in defaults.
func NewSuggester(categories []models.Category, logger logging.Logger) *Suggester {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if len(categories) == 0 {
		categories = catstore.DefaultCategories()
	}
	valid := make(map[string]bool, len(categories))
	for _, c := range categories {
		valid[c.ID] = true
	}
	return &Suggester{
		categories: categories,
		valid:      valid,
		logger:     logger,
	}
}

// Suggest returns the taxonomy id for a description. Empty input and inputs
// with no keyword hit return the misc fallback.
func (s *Suggester) Suggest(description string) string {
	if strings.TrimSpace(description) == "" {
		return models.CategoryMisc
	}

	lowered := strings.ToLower(description)

	for _, category := range s.categories {
		for _, keyword := range category.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(lowered, strings.ToLower(keyword)) {
				s.logger.WithFields(
					logging.Field{Key: logging.FieldKeyword, Value: keyword},
					logging.Field{Key: logging.FieldCategory, Value: category.ID},
				).Debug("Description categorized by keyword match")
				return category.ID
			}
		}
	}

	return models.CategoryMisc
}

// IsValid reports whether id names a category of this taxonomy.
func (s *Suggester) IsValid(id string) bool {
	return s.valid[id]
}

// Categories returns the taxonomy in declared order.
func (s *Suggester) Categories() []models.Category {
	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	return out
}
