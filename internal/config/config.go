// Package config loads runtime settings from the environment, with an
// optional .env file, and validates them before anything else starts.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application settings.
type Config struct {
	// PrimaryColumn is the key column of the primary (existing inventory) table.
	PrimaryColumn string
	// ReferenceColumn is the key column of the reference (new inventory) table.
	ReferenceColumn string

	PrimaryLabel   string
	ReferenceLabel string

	// OutputName is the filename stem for exports.
	OutputName string

	// ProgressDelay pauses between progress steps. Zero disables it.
	ProgressDelay time.Duration

	// MaxFileSize caps each input in bytes.
	MaxFileSize int64

	Addr      string
	LogLevel  string
	LogFormat string
	LogFile   string
}

// Default returns the settings used when no environment overrides are present.
func Default() Config {
	return Config{
		PrimaryColumn:   "Handle",
		ReferenceColumn: "Body/Fabric",
		PrimaryLabel:    "Existing Inventory",
		ReferenceLabel:  "New Inventory",
		OutputName:      "matching_styles",
		ProgressDelay:   0,
		MaxFileSize:     50 << 20,
		Addr:            ":8080",
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load reads a .env file if present, then overlays environment variables on Default.
func Load() (*Config, error) {
	// A missing .env is normal; real environment variables still apply.
	_ = godotenv.Load()

	cfg := Default()
	var errs []error

	cfg.PrimaryColumn = envString("STYLEMATCH_PRIMARY_COLUMN", cfg.PrimaryColumn)
	cfg.ReferenceColumn = envString("STYLEMATCH_REFERENCE_COLUMN", cfg.ReferenceColumn)
	cfg.PrimaryLabel = envString("STYLEMATCH_PRIMARY_LABEL", cfg.PrimaryLabel)
	cfg.ReferenceLabel = envString("STYLEMATCH_REFERENCE_LABEL", cfg.ReferenceLabel)
	cfg.OutputName = envString("STYLEMATCH_OUTPUT_NAME", cfg.OutputName)
	cfg.Addr = envString("STYLEMATCH_ADDR", cfg.Addr)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envString("LOG_FORMAT", cfg.LogFormat)
	cfg.LogFile = envString("STYLEMATCH_LOG_FILE", cfg.LogFile)

	if v, ok := os.LookupEnv("STYLEMATCH_PROGRESS_DELAY"); ok {
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("STYLEMATCH_PROGRESS_DELAY: %w", err))
		} else {
			cfg.ProgressDelay = d
		}
	}

	if v, ok := os.LookupEnv("STYLEMATCH_MAX_FILE_SIZE"); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("STYLEMATCH_MAX_FILE_SIZE: %w", err))
		} else {
			cfg.MaxFileSize = n
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	var errs []error

	if c.PrimaryColumn == "" {
		errs = append(errs, errors.New("primary column name is required"))
	}
	if c.ReferenceColumn == "" {
		errs = append(errs, errors.New("reference column name is required"))
	}
	if c.OutputName == "" {
		errs = append(errs, errors.New("output name is required"))
	}
	if strings.ContainsAny(c.OutputName, `/\`) {
		errs = append(errs, fmt.Errorf("output name %q must not contain path separators", c.OutputName))
	}
	if c.ProgressDelay < 0 {
		errs = append(errs, fmt.Errorf("progress delay must not be negative, got %s", c.ProgressDelay))
	}
	if c.MaxFileSize <= 0 {
		errs = append(errs, fmt.Errorf("max file size must be positive, got %d", c.MaxFileSize))
	}

	return errors.Join(errs...)
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}
