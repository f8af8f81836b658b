// Package config provides configuration loading for edgarsift.
package config

import (
	"fmt"
	"time"
)

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the root configuration.
type Config struct {
	Logging    LoggingConfig    `koanf:"logging"`
	EDGAR      EDGARConfig      `koanf:"edgar"`
	Extraction ExtractionConfig `koanf:"extraction"`
	Refine     RefineConfig     `koanf:"refine"`
	Report     ReportConfig     `koanf:"report"`
	LLM        LLMConfig        `koanf:"llm"`
	Serve      ServeConfig      `koanf:"serve"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// EDGARConfig controls the SEC EDGAR client.
//
// SEC fair-access policy requires a descriptive User-Agent with a contact
// address and caps automated traffic at 10 requests per second.
type EDGARConfig struct {
	UserAgent         string   `koanf:"user_agent"`
	RequestsPerSecond float64  `koanf:"requests_per_second"`
	Burst             int      `koanf:"burst"`
	Timeout           Duration `koanf:"timeout"`
	MaxRetries        int      `koanf:"max_retries"`
}

// ExtractionConfig controls schema inference and pattern filtering.
type ExtractionConfig struct {
	ConfidenceThreshold float64 `koanf:"confidence_threshold"`
	MaxSampleValues     int     `koanf:"max_sample_values"`
}

// RefineConfig controls the failure analyzer thresholds.
type RefineConfig struct {
	MinPatternFrequency float64 `koanf:"min_pattern_frequency"`
	MinFieldFailures    int     `koanf:"min_field_failures"`
}

// ReportConfig controls report generation.
type ReportConfig struct {
	OutputDir string `koanf:"output_dir"`
	Format    string `koanf:"format"`
}

// LLMConfig controls the completion client used by chat and prompt
// rendering. The API key is read from the named environment variable and
// never stored in the file.
type LLMConfig struct {
	Model     string   `koanf:"model"`
	BaseURL   string   `koanf:"base_url"`
	APIKeyEnv string   `koanf:"api_key_env"`
	MaxTokens int      `koanf:"max_tokens"`
	Timeout   Duration `koanf:"timeout"`
}

// ServeConfig controls the HTTP API server.
type ServeConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// NewDefaultConfig returns the hardcoded defaults, the lowest layer of the
// precedence stack.
func NewDefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		EDGAR: EDGARConfig{
			UserAgent:         "",
			RequestsPerSecond: 10,
			Burst:             1,
			Timeout:           Duration(30 * time.Second),
			MaxRetries:        3,
		},
		Extraction: ExtractionConfig{
			ConfidenceThreshold: 0.7,
			MaxSampleValues:     5,
		},
		Refine: RefineConfig{
			MinPatternFrequency: 0.3,
			MinFieldFailures:    2,
		},
		Report: ReportConfig{
			OutputDir: ".",
			Format:    "markdown",
		},
		LLM: LLMConfig{
			Model:     "claude-sonnet-4-20250514",
			BaseURL:   "https://api.anthropic.com",
			APIKeyEnv: "ANTHROPIC_API_KEY",
			MaxTokens: 4096,
			Timeout:   Duration(60 * time.Second),
		},
		Serve: ServeConfig{
			Host: "localhost",
			Port: 8750,
		},
	}
}

// Validate checks cross-field constraints that koanf cannot express.
func (c *Config) Validate() error {
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", c.Logging.Format)
	}
	if c.EDGAR.RequestsPerSecond <= 0 || c.EDGAR.RequestsPerSecond > 10 {
		return fmt.Errorf("edgar.requests_per_second must be in (0, 10], got %v", c.EDGAR.RequestsPerSecond)
	}
	if c.Extraction.ConfidenceThreshold < 0 || c.Extraction.ConfidenceThreshold > 1 {
		return fmt.Errorf("extraction.confidence_threshold must be in [0, 1], got %v", c.Extraction.ConfidenceThreshold)
	}
	if c.Refine.MinPatternFrequency <= 0 || c.Refine.MinPatternFrequency > 1 {
		return fmt.Errorf("refine.min_pattern_frequency must be in (0, 1], got %v", c.Refine.MinPatternFrequency)
	}
	if c.Refine.MinFieldFailures < 1 {
		return fmt.Errorf("refine.min_field_failures must be >= 1, got %d", c.Refine.MinFieldFailures)
	}
	if c.Serve.Port < 1 || c.Serve.Port > 65535 {
		return fmt.Errorf("serve.port must be in [1, 65535], got %d", c.Serve.Port)
	}
	return nil
}
