// Package catstore loads the category taxonomy, either from a YAML file or
// from the compiled-in defaults. The taxonomy is immutable after load; its
// declared order carries meaning for suggestion tie-breaks.
package catstore

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"harufuji/kakeibo/internal/logging"
	"harufuji/kakeibo/internal/models"
)

// Store loads category data from a YAML file with fallback to the defaults.
type Store struct {
	// Path is an explicit categories file. When empty, standard locations
	// are searched and the embedded defaults are used as a last resort.
	Path   string
	logger logging.Logger
}

// New creates a store for category data.
func New(path string, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Store{Path: path, logger: logger}
}

// Load returns the ordered category taxonomy. A missing file is not an
// error: the embedded defaults are returned instead. A malformed file is.
func (s *Store) Load() ([]models.Category, error) {
	path := s.Path
	if path == "" {
		found, err := findConfigFile("categories.yaml")
		if err != nil {
			s.logger.Debug("No categories file found, using built-in taxonomy")
			return DefaultCategories(), nil
		}
		path = found
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file %s: %w", path, err)
	}

	var config models.CategoriesConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing categories file %s: %w", path, err)
	}

	categories, err := validate(config.Categories)
	if err != nil {
		return nil, fmt.Errorf("invalid categories file %s: %w", path, err)
	}

	s.logger.WithField(logging.FieldFile, path).
		WithField(logging.FieldCount, len(categories)).
		Debug("Loaded categories")
	return categories, nil
}

// findConfigFile looks for a configuration file in standard locations.
func findConfigFile(filename string) (string, error) {
	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".kakeibo", filename))
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc, nil
		}
	}
	return "", os.ErrNotExist
}

// validate checks ids are unique and guarantees the misc fallback is present
// as the final entry.
func validate(categories []models.Category) ([]models.Category, error) {
	seen := make(map[string]bool, len(categories))
	hasMisc := false
	for _, c := range categories {
		if c.ID == "" {
			return nil, fmt.Errorf("category with empty id")
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("duplicate category id %q", c.ID)
		}
		seen[c.ID] = true
		if c.ID == models.CategoryMisc {
			hasMisc = true
		}
	}
	if !hasMisc {
		categories = append(categories, miscCategory())
	}
	return categories, nil
}
