// Package config provides unified configuration loading for the extraction
// pipeline. Supports YAML files, a .env file and environment overrides.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the extractor.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline"`
	Batch    BatchConfig    `yaml:"batch"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PipelineConfig holds per-document extraction settings.
type PipelineConfig struct {
	// Normalize copies inputs into a content-addressed cache before reading.
	Normalize bool   `yaml:"normalize"`
	CacheDir  string `yaml:"cache_dir"`

	// GroupBullets keeps bullet lists attached to their introducing sentence.
	GroupBullets bool `yaml:"group_bullets"`

	// Tables enables column-gap table detection.
	Tables bool `yaml:"tables"`

	// OCR runs tesseract over image-only pages.
	OCR         bool   `yaml:"ocr"`
	OCRLanguage string `yaml:"ocr_language"`

	// RenderImages saves image-only pages as JPEG files.
	RenderImages bool   `yaml:"render_images"`
	ImageQuality int    `yaml:"image_quality"`
	ImageDir     string `yaml:"image_dir"`
}

// BatchConfig holds worker pool settings for batch runs.
type BatchConfig struct {
	// Concurrency caps parallel documents. Zero means one worker per CPU.
	Concurrency int `yaml:"concurrency"`

	// Timeout bounds a single document's processing. Zero disables it.
	Timeout time.Duration `yaml:"timeout"`
}

// OutputConfig holds serialization settings.
type OutputConfig struct {
	Format string `yaml:"format"` // html or json
	Dir    string `yaml:"dir"`
	Pretty bool   `yaml:"pretty"`

	// SQLitePath, when set, also persists every record into a database.
	SQLitePath string `yaml:"sqlite_path"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// Load reads configuration from a YAML file and applies environment
// overrides. A .env file in the working directory is honored when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Normalize:    false,
			GroupBullets: true,
			Tables:       true,
			OCR:          false,
			OCRLanguage:  "eng",
			RenderImages: false,
			ImageQuality: 80,
		},
		Batch: BatchConfig{
			Concurrency: runtime.GOMAXPROCS(0),
			Timeout:     2 * time.Minute,
		},
		Output: OutputConfig{
			Format: "json",
			Dir:    ".",
			Pretty: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PROSPECTOR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("PROSPECTOR_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("PROSPECTOR_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Batch.Concurrency = n
		}
	}
	if v := os.Getenv("PROSPECTOR_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Batch.Timeout = d
		}
	}
	if v := os.Getenv("PROSPECTOR_CACHE_DIR"); v != "" {
		cfg.Pipeline.CacheDir = v
	}
	if v := os.Getenv("PROSPECTOR_OCR_LANGUAGE"); v != "" {
		cfg.Pipeline.OCRLanguage = v
	}
	if v := os.Getenv("PROSPECTOR_OUTPUT_FORMAT"); v != "" {
		cfg.Output.Format = v
	}
	if v := os.Getenv("PROSPECTOR_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("PROSPECTOR_SQLITE_PATH"); v != "" {
		cfg.Output.SQLitePath = v
	}
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Batch.Concurrency < 0 {
		return fmt.Errorf("batch.concurrency must not be negative, got %d", c.Batch.Concurrency)
	}
	if c.Batch.Timeout < 0 {
		return fmt.Errorf("batch.timeout must not be negative, got %s", c.Batch.Timeout)
	}
	switch c.Output.Format {
	case "html", "json":
	default:
		return fmt.Errorf("output.format must be html or json, got %q", c.Output.Format)
	}
	if c.Pipeline.ImageQuality < 1 || c.Pipeline.ImageQuality > 100 {
		return fmt.Errorf("pipeline.image_quality must be between 1 and 100, got %d", c.Pipeline.ImageQuality)
	}
	if c.Pipeline.OCR && c.Pipeline.OCRLanguage == "" {
		return fmt.Errorf("pipeline.ocr_language is required when ocr is enabled")
	}
	return nil
}
