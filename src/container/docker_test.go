package container

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstallArgsRequirements(t *testing.T) {
	args := installArgs(InstallSpec{
		Image:     "public.ecr.aws/sam/build-python3.12",
		LayerDir:  "/work/layers/requests",
		Manifest:  "requirements.txt",
		TargetDir: "python",
	})

	assert.Equal(t, []string{
		"run", "--rm",
		"--volume", "/work/layers/requests:/var/task",
		"--workdir", "/var/task",
		"--entrypoint", "pip",
		"public.ecr.aws/sam/build-python3.12",
		"install",
		"--requirement", "requirements.txt",
		"--target", "python",
		"--no-cache-dir",
		"--upgrade",
	}, args)
}

func TestInstallArgsPackagesOverrideManifest(t *testing.T) {
	args := installArgs(InstallSpec{
		Image:     "public.ecr.aws/sam/build-python3.12",
		LayerDir:  "/work/layers/toml",
		Manifest:  "pyproject.toml",
		Packages:  []string{"requests>=2.31", "pydantic==2.7.0"},
		TargetDir: "python",
	})

	assert.NotContains(t, args, "--requirement")
	assert.Contains(t, args, "requests>=2.31")
	assert.Contains(t, args, "pydantic==2.7.0")
	// Packages come between install and the pip flags.
	assert.Equal(t, "install", args[9])
	assert.Equal(t, []string{"--target", "python", "--no-cache-dir", "--upgrade"}, args[len(args)-4:])
}
