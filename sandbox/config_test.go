package sandbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandbox.toml")
	content := `
backend = "vulkan"
log_level = "warn"
frame_count = 3

[validation]
driver = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "vulkan", cfg.Backend)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 3, cfg.FrameCount)
	assert.False(t, cfg.Validation.Driver)
	// Untouched keys keep their defaults.
	assert.Equal(t, "Lumen Sandbox", cfg.ApplicationName)
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandbox.toml")
	require.NoError(t, os.WriteFile(path, []byte("backend = [broken"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
