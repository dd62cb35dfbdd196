package config

import (
	"errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const defaultConfigFile = ".layerforge.yml"

// Config is the top-level layerforge configuration.
type Config struct {
	// RuntimeVersion is the python runtime the layers target, e.g. "3.12".
	// It selects the tag of the build image.
	RuntimeVersion string `yaml:"runtime_version"`

	// Image is the build image repository prefix. The runtime version is
	// appended to form the full reference, matching the upstream image
	// naming scheme (e.g. public.ecr.aws/sam/build-python3.12).
	Image string `yaml:"image"`

	// Roots are the directories scanned for layer subdirectories,
	// in priority order.
	Roots []string `yaml:"roots"`

	// Manifest is the dependency manifest filename looked up in each
	// layer directory.
	Manifest string `yaml:"manifest"`

	// OutputDir is the per-layer output subdirectory the installer
	// populates.
	OutputDir string `yaml:"output_dir"`
}

// Load reads configuration from a YAML file.
// If path is empty, it tries the default file.
// Returns sensible defaults if the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Defaults(), nil
		}
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		RuntimeVersion: "3.12",
		Image:          "public.ecr.aws/sam/build-python",
		Roots:          []string{"layers"},
		Manifest:       "requirements.txt",
		OutputDir:      "python",
	}
}

// ImageRef returns the full build image reference including the runtime tag.
func (c *Config) ImageRef() string {
	return c.Image + c.RuntimeVersion
}
