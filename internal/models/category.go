// Package models provides the data structures used throughout the application.
package models

// Category ids for the fixed bookkeeping taxonomy. CategoryMisc is the
// fallback used whenever no keyword matches.
const (
	CategoryTravel        = "travel"
	CategoryCommunication = "communication"
	CategorySupplies      = "supplies"
	CategoryEntertainment = "entertainment"
	CategoryMeeting       = "meeting"
	CategoryUtilities     = "utilities"
	CategoryBooks         = "books"
	CategoryAdvertising   = "advertising"
	CategoryOutsourcing   = "outsourcing"
	CategoryMisc          = "misc"
)

// Category represents one entry of the expense taxonomy. The taxonomy is an
// ordered list: suggestion ties are broken by declared category order, then by
// declared keyword order, so Keywords must stay a slice rather than a set.
type Category struct {
	ID          string   `yaml:"id"`
	DisplayName string   `yaml:"display_name"`
	Icon        string   `yaml:"icon"`
	Keywords    []string `yaml:"keywords"`
}

// CategoriesConfig represents the structure of the categories YAML file.
type CategoriesConfig struct {
	Categories []Category `yaml:"categories"`
}
