package model

import "time"

// Config is the full runtime configuration
type Config struct {
	AI          AIConfig          `yaml:"ai" json:"ai"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Output      OutputConfig      `yaml:"output" json:"output"`
	Layout      LayoutConfig      `yaml:"layout" json:"layout"`
}

// AIConfig holds LLM backend configuration
type AIConfig struct {
	Provider  string        `yaml:"provider" json:"provider"`     // openai, qwen, ollama
	Model     string        `yaml:"model" json:"model"`           // Provider-specific model name
	APIKey    string        `yaml:"-" json:"-"`                   // Never persisted
	BaseURL   string        `yaml:"base_url" json:"base_url"`     // Custom endpoint (Qwen/Ollama)
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`       // Per-request timeout
	MaxTokens int           `yaml:"max_tokens" json:"max_tokens"` // Response length cap
	UseVision bool          `yaml:"use_vision" json:"use_vision"` // Send page images instead of extracted text
}

// CacheConfig controls the LLM response cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Dir     string        `yaml:"dir" json:"dir"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// ConcurrencyConfig controls cross-document parallelism.
// Pages within one document are always processed sequentially.
type ConcurrencyConfig struct {
	DocumentWorkers   int     `yaml:"document_workers" json:"document_workers"`
	RequestsPerSecond float64 `yaml:"requests_per_second" json:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" json:"burst_size"`
}

// OutputConfig controls artifact placement and logging
type OutputConfig struct {
	Folder             string `yaml:"folder" json:"folder"`
	Verbose            bool   `yaml:"verbose" json:"verbose"`
	CheckpointInterval int    `yaml:"checkpoint_interval" json:"checkpoint_interval"` // Save intermediate JSON every N pages
}

// Margins are section margins in inches
type Margins struct {
	Left   float64 `yaml:"left" json:"left"`
	Right  float64 `yaml:"right" json:"right"`
	Top    float64 `yaml:"top" json:"top"`
	Bottom float64 `yaml:"bottom" json:"bottom"`
}

// LayoutConfig controls the rendered evidence report
type LayoutConfig struct {
	MultiLineText bool    `yaml:"multi_line_text" json:"multi_line_text"` // One row per field vs single pseudo-JSON cell
	ShowBorders   bool    `yaml:"show_borders" json:"show_borders"`
	Orientation   string  `yaml:"orientation" json:"orientation"` // portrait or landscape
	Margins       Margins `yaml:"margins" json:"margins"`

	// Column fractions of total table width. Zero means the
	// orientation-dependent default (image column dominant).
	TextColumnFraction  float64 `yaml:"text_column_fraction" json:"text_column_fraction"`
	ImageColumnFraction float64 `yaml:"image_column_fraction" json:"image_column_fraction"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:  "openai",
			Timeout:   60 * time.Second,
			MaxTokens: 2000,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			DocumentWorkers:   2,
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Output: OutputConfig{
			Folder:             "./output",
			CheckpointInterval: 5,
		},
		Layout: DefaultLayoutConfig(),
	}
}

// DefaultLayoutConfig returns the canonical report layout settings
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		MultiLineText: true,
		ShowBorders:   true,
		Orientation:   "landscape",
		Margins:       Margins{Left: 0.75, Right: 0.75, Top: 0.75, Bottom: 0.75},
	}
}
