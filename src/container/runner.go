// Package container drives the container runtime that hosts the package
// installer. The Runner interface exists so build logic can be exercised
// against an in-memory fake.
package container

import "context"

// InstallSpec describes one containerized dependency install.
type InstallSpec struct {
	// Image is the full build image reference, tag included.
	Image string

	// LayerDir is the absolute host path of the layer directory,
	// bind-mounted read/write into the container.
	LayerDir string

	// Manifest is the requirements file name relative to LayerDir.
	// Ignored when Packages is set.
	Manifest string

	// Packages are explicit dependency specs to install, used for
	// manifests the installer cannot consume directly (pyproject.toml).
	Packages []string

	// TargetDir is the output directory name relative to LayerDir.
	TargetDir string
}

// Runner abstracts the container runtime.
type Runner interface {
	// CheckAvailable probes the runtime daemon. A non-nil error means the
	// whole run must abort before any discovery happens.
	CheckAvailable(ctx context.Context) error

	// RunInstall executes the containerized installer for one layer,
	// blocking until it exits.
	RunInstall(ctx context.Context, spec InstallSpec) error
}
