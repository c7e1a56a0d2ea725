package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Handle", cfg.PrimaryColumn)
	assert.Equal(t, "Body/Fabric", cfg.ReferenceColumn)
	assert.Equal(t, "Existing Inventory", cfg.PrimaryLabel)
	assert.Equal(t, "New Inventory", cfg.ReferenceLabel)
	assert.Equal(t, "matching_styles", cfg.OutputName)
	assert.Zero(t, cfg.ProgressDelay)
	assert.Equal(t, int64(50<<20), cfg.MaxFileSize)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("STYLEMATCH_PRIMARY_COLUMN", "SKU")
	t.Setenv("STYLEMATCH_REFERENCE_COLUMN", " Style ")
	t.Setenv("STYLEMATCH_OUTPUT_NAME", "report")
	t.Setenv("STYLEMATCH_PROGRESS_DELAY", "250ms")
	t.Setenv("STYLEMATCH_MAX_FILE_SIZE", "1024")
	t.Setenv("STYLEMATCH_ADDR", "127.0.0.1:9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "SKU", cfg.PrimaryColumn)
	assert.Equal(t, "Style", cfg.ReferenceColumn)
	assert.Equal(t, "report", cfg.OutputName)
	assert.Equal(t, 250*time.Millisecond, cfg.ProgressDelay)
	assert.Equal(t, int64(1024), cfg.MaxFileSize)
	assert.Equal(t, "127.0.0.1:9000", cfg.Addr)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"Bad duration", "STYLEMATCH_PROGRESS_DELAY", "soon"},
		{"Negative duration", "STYLEMATCH_PROGRESS_DELAY", "-1s"},
		{"Bad size", "STYLEMATCH_MAX_FILE_SIZE", "big"},
		{"Zero size", "STYLEMATCH_MAX_FILE_SIZE", "0"},
		{"Path in output name", "STYLEMATCH_OUTPUT_NAME", "../out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.PrimaryColumn = ""
	cfg.ReferenceColumn = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary column")
	assert.Contains(t, err.Error(), "reference column")
}
