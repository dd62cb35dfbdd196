package layer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const pyProjectFile = "pyproject.toml"

// Dependencies returns the declared dependency specs from the layer's
// manifest, one per entry, with comments and environment markers stripped.
// The entries are what gets handed to the installer for pyproject layers
// and what gets printed for visibility in both formats.
func (l Layer) Dependencies() ([]string, error) {
	if l.ManifestPath == "" {
		return nil, fmt.Errorf("layer %s has no manifest", l.Name)
	}

	f, err := os.Open(l.ManifestPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if filepath.Base(l.ManifestPath) == pyProjectFile {
		return parsePyProject(f)
	}
	return parseRequirements(f)
}

// IsPyProject reports whether the layer declares its dependencies in
// pyproject.toml rather than a requirements file.
func (l Layer) IsPyProject() bool {
	return filepath.Base(l.ManifestPath) == pyProjectFile
}

// parseRequirements handles the requirements.txt format: one spec per
// line, '#' comments, '-' option lines, and ';' environment markers.
func parseRequirements(r io.Reader) ([]string, error) {
	var deps []string
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip comments, empty lines, and pip option lines
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
			continue
		}

		// Remove inline comments
		if idx := strings.Index(line, " #"); idx >= 0 {
			line = line[:idx]
		}

		// Remove environment markers (e.g. ; python_version >= "3.6")
		if idx := strings.Index(line, ";"); idx >= 0 {
			line = line[:idx]
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		deps = append(deps, line)
	}

	return deps, scanner.Err()
}

// pyProject matches the subset of pyproject.toml we consume.
type pyProject struct {
	Project struct {
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
}

// parsePyProject reads [project].dependencies from a pyproject.toml.
func parsePyProject(r io.Reader) ([]string, error) {
	var pp pyProject
	if err := toml.NewDecoder(r).Decode(&pp); err != nil {
		return nil, fmt.Errorf("parsing pyproject.toml: %w", err)
	}

	var deps []string
	for _, d := range pp.Project.Dependencies {
		d = strings.TrimSpace(d)
		if idx := strings.Index(d, ";"); idx >= 0 {
			d = strings.TrimSpace(d[:idx])
		}
		if d != "" {
			deps = append(deps, d)
		}
	}
	return deps, nil
}
