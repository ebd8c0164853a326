// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	OCR struct {
		Model          string   `mapstructure:"model" yaml:"model"`
		APIKey         string   `mapstructure:"api_key" yaml:"-"` // Never serialize API key
		TimeoutSeconds int      `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		LanguageHints  []string `mapstructure:"language_hints" yaml:"language_hints"`
	} `mapstructure:"ocr" yaml:"ocr"`

	Image struct {
		MaxWidth       int     `mapstructure:"max_width" yaml:"max_width"`
		ContrastFactor float64 `mapstructure:"contrast_factor" yaml:"contrast_factor"`
		Threshold      int     `mapstructure:"threshold" yaml:"threshold"`
	} `mapstructure:"image" yaml:"image"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
		Dialect   string `mapstructure:"dialect" yaml:"dialect"`
	} `mapstructure:"csv" yaml:"csv"`

	Data struct {
		Directory      string `mapstructure:"directory" yaml:"directory"`
		CategoriesFile string `mapstructure:"categories_file" yaml:"categories_file"`
		BookID         string `mapstructure:"book_id" yaml:"book_id"`
	} `mapstructure:"data" yaml:"data"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then KAKEIBO_* environment
// variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.kakeibo")
	v.AddConfigPath(".kakeibo")
	v.AddConfigPath(".")

	v.SetEnvPrefix("KAKEIBO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file present but unreadable: continue with defaults and env
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// The Gemini key is always read from the unprefixed variable the SDK docs use
	if err := v.BindEnv("ocr.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ocr.model", "gemini-2.0-flash")
	v.SetDefault("ocr.timeout_seconds", 60)
	v.SetDefault("ocr.language_hints", []string{"ja", "en"})

	v.SetDefault("image.max_width", 1280)
	v.SetDefault("image.contrast_factor", 1.6)
	v.SetDefault("image.threshold", 140)

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.dialect", "generic")

	v.SetDefault("data.directory", ".kakeibo")
	v.SetDefault("data.categories_file", "")
	v.SetDefault("data.book_id", "default")
}

// validateConfig checks configuration values for consistency.
func validateConfig(c *Config) error {
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be 'text' or 'json', got %q", c.Log.Format)
	}
	if c.Image.MaxWidth <= 0 {
		return fmt.Errorf("image.max_width must be positive, got %d", c.Image.MaxWidth)
	}
	if c.Image.Threshold < 0 || c.Image.Threshold > 255 {
		return fmt.Errorf("image.threshold must be in [0,255], got %d", c.Image.Threshold)
	}
	if c.Image.ContrastFactor <= 0 {
		return fmt.Errorf("image.contrast_factor must be positive, got %f", c.Image.ContrastFactor)
	}
	if len(c.CSV.Delimiter) != 1 {
		return fmt.Errorf("csv.delimiter must be a single character, got %q", c.CSV.Delimiter)
	}
	if c.OCR.TimeoutSeconds <= 0 {
		return fmt.Errorf("ocr.timeout_seconds must be positive, got %d", c.OCR.TimeoutSeconds)
	}
	return nil
}
