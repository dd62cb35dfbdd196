package container

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// containerWorkdir is where the layer directory is mounted inside the
// build container.
const containerWorkdir = "/var/task"

// DockerRunner runs installs through the docker CLI.
type DockerRunner struct {
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewDockerRunner creates a DockerRunner with default output writers.
func NewDockerRunner(verbose bool) *DockerRunner {
	return &DockerRunner{
		Verbose: verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// CheckAvailable probes the docker daemon once. No retry — an unreachable
// daemon is a fatal precondition for the whole run.
func (d *DockerRunner) CheckAvailable(ctx context.Context) error {
	if _, err := exec.LookPath("docker"); err != nil {
		return fmt.Errorf("docker not found in PATH: %w", err)
	}
	cmd := exec.CommandContext(ctx, "docker", "version", "--format", "{{.Server.Version}}")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker daemon unreachable: %w", err)
	}
	return nil
}

// RunInstall executes the containerized pip install for one layer,
// blocking until the container exits.
func (d *DockerRunner) RunInstall(ctx context.Context, spec InstallSpec) error {
	args := installArgs(spec)

	if d.Verbose {
		fmt.Fprintf(d.Stderr, "exec: docker %s\n", strings.Join(args, " "))
	}

	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Stdout = d.Stdout
	cmd.Stderr = d.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker run failed: %w", err)
	}
	return nil
}

// installArgs constructs the docker run argument list for an install.
// Cache is disabled and upgrade forced so every build resolves the latest
// versions the manifest allows.
func installArgs(spec InstallSpec) []string {
	args := []string{
		"run", "--rm",
		"--volume", spec.LayerDir + ":" + containerWorkdir,
		"--workdir", containerWorkdir,
		"--entrypoint", "pip",
		spec.Image,
		"install",
	}

	if len(spec.Packages) > 0 {
		args = append(args, spec.Packages...)
	} else {
		args = append(args, "--requirement", spec.Manifest)
	}

	args = append(args,
		"--target", spec.TargetDir,
		"--no-cache-dir",
		"--upgrade",
	)

	return args
}
