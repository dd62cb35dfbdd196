// Package build executes per-layer installs and reduces their results
// into a run summary.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/plinthworks/layerforge/src/config"
	"github.com/plinthworks/layerforge/src/container"
	"github.com/plinthworks/layerforge/src/layer"
)

// Builder runs the install step for layers, one at a time.
type Builder struct {
	Runner container.Runner
	Config *config.Config

	// Log receives progress lines (dependency listing, wipe notices).
	// Nil means silent.
	Log func(format string, args ...any)
}

func (b *Builder) logf(format string, args ...any) {
	if b.Log != nil {
		b.Log(format, args...)
	}
}

// Build runs the full install step for one layer: list its declared
// dependencies, wipe prior output, run the containerized installer, and
// verify the output directory is non-empty. The verification is the sole
// correctness check — an installer that exits zero but produces nothing
// still counts as a failure.
func (b *Builder) Build(ctx context.Context, l layer.Layer) LayerResult {
	start := time.Now()

	if !l.HasManifest() {
		return LayerResult{
			Name:     l.Name,
			Outcome:  OutcomeSkipped,
			Message:  fmt.Sprintf("no %s", b.Config.Manifest),
			Duration: time.Since(start),
		}
	}

	deps, err := l.Dependencies()
	if err != nil {
		return b.failed(l, start, fmt.Errorf("reading manifest: %w", err))
	}
	for _, dep := range deps {
		b.logf("dep     %s", dep)
	}

	// Wipe prior output so stale packages never survive into a new bundle.
	if err := os.RemoveAll(l.OutputDir); err != nil {
		return b.failed(l, start, fmt.Errorf("removing previous output: %w", err))
	}

	spec, err := b.installSpec(l, deps)
	if err != nil {
		return b.failed(l, start, err)
	}

	if err := b.Runner.RunInstall(ctx, spec); err != nil {
		return b.failed(l, start, err)
	}

	if err := verifyOutput(l.OutputDir); err != nil {
		return b.failed(l, start, err)
	}

	return LayerResult{
		Name:     l.Name,
		Outcome:  OutcomeBuilt,
		Duration: time.Since(start),
	}
}

// BuildAll runs every layer in order. Failures are recorded and the run
// continues; the caller decides the exit code from the summary.
func (b *Builder) BuildAll(ctx context.Context, layers []layer.Layer) []LayerResult {
	results := make([]LayerResult, 0, len(layers))
	for _, l := range layers {
		results = append(results, b.Build(ctx, l))
	}
	return results
}

// installSpec maps a layer onto the container invocation. pyproject
// layers hand pip the parsed specs directly since it cannot consume the
// file as a requirements list.
func (b *Builder) installSpec(l layer.Layer, deps []string) (container.InstallSpec, error) {
	absDir, err := filepath.Abs(l.Dir)
	if err != nil {
		return container.InstallSpec{}, fmt.Errorf("resolving layer dir: %w", err)
	}

	spec := container.InstallSpec{
		Image:     b.Config.ImageRef(),
		LayerDir:  absDir,
		TargetDir: b.Config.OutputDir,
	}
	if l.IsPyProject() {
		if len(deps) == 0 {
			return container.InstallSpec{}, fmt.Errorf("pyproject.toml declares no dependencies")
		}
		spec.Packages = deps
	} else {
		spec.Manifest = filepath.Base(l.ManifestPath)
	}
	return spec, nil
}

func (b *Builder) failed(l layer.Layer, start time.Time, err error) LayerResult {
	return LayerResult{
		Name:     l.Name,
		Outcome:  OutcomeFailed,
		Message:  err.Error(),
		Duration: time.Since(start),
	}
}

// verifyOutput checks the output directory exists and is non-empty.
func verifyOutput(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("install produced no output directory: %w", err)
	}
	if len(entries) == 0 {
		return fmt.Errorf("install succeeded but %s is empty", filepath.Base(dir))
	}
	return nil
}
