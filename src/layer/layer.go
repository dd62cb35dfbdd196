// Package layer locates layer directories under the configured roots and
// parses their dependency manifests.
package layer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/plinthworks/layerforge/src/config"
)

// Layer is a single discovered layer directory.
type Layer struct {
	Name         string
	Dir          string
	ManifestPath string // empty when the layer has no manifest
	OutputDir    string
}

// HasManifest reports whether the layer can be built.
func (l Layer) HasManifest() bool {
	return l.ManifestPath != ""
}

// ErrNotFound is returned by Find when no root contains the named layer.
var ErrNotFound = errors.New("layer not found")

// Discover enumerates every immediate subdirectory of every configured
// root, in root order. Missing roots are treated as empty, not as errors.
// Layers without a manifest are still returned so callers can classify
// them as skipped.
func Discover(cfg *config.Config) ([]Layer, error) {
	var layers []Layer
	for _, root := range cfg.Roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("scanning %s: %w", root, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			layers = append(layers, describe(cfg, filepath.Join(root, e.Name()), e.Name()))
		}
	}
	return layers, nil
}

// Find searches the roots in order for the named layer. The first root
// containing a matching subdirectory wins.
func Find(cfg *config.Config, name string) (Layer, error) {
	for _, root := range cfg.Roots {
		dir := filepath.Join(root, name)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		return describe(cfg, dir, name), nil
	}
	return Layer{}, fmt.Errorf("%w: %s (searched %v)", ErrNotFound, name, cfg.Roots)
}

// describe fills in manifest and output paths for a layer directory.
// The configured manifest name takes precedence; pyproject.toml is
// recognized as a fallback for layers that have migrated off
// requirements files.
func describe(cfg *config.Config, dir, name string) Layer {
	l := Layer{
		Name:      name,
		Dir:       dir,
		OutputDir: filepath.Join(dir, cfg.OutputDir),
	}
	for _, candidate := range []string{cfg.Manifest, pyProjectFile} {
		p := filepath.Join(dir, candidate)
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			l.ManifestPath = p
			break
		}
	}
	return l
}
