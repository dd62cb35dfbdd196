package config

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Validate checks the configuration for values that would make a run
// misbehave in ways only visible mid-build. Called after load and before
// any discovery.
func (c *Config) Validate() error {
	if c.RuntimeVersion == "" {
		return fmt.Errorf("config: runtime_version must be set")
	}
	if _, err := semver.NewVersion(c.RuntimeVersion); err != nil {
		return fmt.Errorf("config: runtime_version %q is not a valid version: %w", c.RuntimeVersion, err)
	}

	if c.Image == "" {
		return fmt.Errorf("config: image must be set")
	}

	if len(c.Roots) == 0 {
		return fmt.Errorf("config: at least one root directory must be configured")
	}

	if c.Manifest == "" || strings.ContainsAny(c.Manifest, `/\`) {
		return fmt.Errorf("config: manifest must be a bare filename, got %q", c.Manifest)
	}

	// The output dir is deleted before every build; a path component would
	// let a config typo wipe something outside the layer directory.
	if c.OutputDir == "" || strings.ContainsAny(c.OutputDir, `/\`) {
		return fmt.Errorf("config: output_dir must be a bare directory name, got %q", c.OutputDir)
	}

	return nil
}
