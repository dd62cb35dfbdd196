package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".layerforge.yml")
	data := []byte(`
runtime_version: "3.11"
roots: [layers, src/layers]
output_dir: python
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "3.11", cfg.RuntimeVersion)
	assert.Equal(t, []string{"layers", "src/layers"}, cfg.Roots)
	// Untouched fields keep their defaults.
	assert.Equal(t, "requirements.txt", cfg.Manifest)
	assert.Equal(t, "public.ecr.aws/sam/build-python", cfg.Image)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".layerforge.yml")
	require.NoError(t, os.WriteFile(path, []byte(`runtime_version: "snake"`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "runtime_version")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"partial version ok", func(c *Config) { c.RuntimeVersion = "3.13" }, ""},
		{"empty runtime version", func(c *Config) { c.RuntimeVersion = "" }, "runtime_version"},
		{"garbage runtime version", func(c *Config) { c.RuntimeVersion = "not-a-version" }, "runtime_version"},
		{"empty image", func(c *Config) { c.Image = "" }, "image"},
		{"no roots", func(c *Config) { c.Roots = nil }, "root"},
		{"manifest with path", func(c *Config) { c.Manifest = "sub/requirements.txt" }, "manifest"},
		{"output dir with path", func(c *Config) { c.OutputDir = "../python" }, "output_dir"},
		{"empty output dir", func(c *Config) { c.OutputDir = "" }, "output_dir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestImageRef(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "public.ecr.aws/sam/build-python3.12", cfg.ImageRef())

	cfg.RuntimeVersion = "3.9"
	assert.Equal(t, "public.ecr.aws/sam/build-python3.9", cfg.ImageRef())
}
