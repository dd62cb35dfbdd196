package layer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plinthworks/layerforge/src/config"
)

// writeLayer creates a layer directory under root, optionally with a
// manifest file.
func writeLayer(t *testing.T, root, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for fname, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fname), []byte(content), 0o644))
	}
}

func testConfig(roots ...string) *config.Config {
	cfg := config.Defaults()
	cfg.Roots = roots
	return cfg
}

func TestDiscoverClassifiesLayers(t *testing.T) {
	root := t.TempDir()
	writeLayer(t, root, "requests", map[string]string{"requirements.txt": "requests==2.32.0\n"})
	writeLayer(t, root, "empty", nil)
	writeLayer(t, root, "tomlish", map[string]string{"pyproject.toml": "[project]\ndependencies = [\"boto3\"]\n"})
	// A stray file at root level is not a layer.
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("x"), 0o644))

	layers, err := Discover(testConfig(root))
	require.NoError(t, err)
	require.Len(t, layers, 3)

	byName := map[string]Layer{}
	for _, l := range layers {
		byName[l.Name] = l
	}

	assert.True(t, byName["requests"].HasManifest())
	assert.False(t, byName["empty"].HasManifest())
	assert.True(t, byName["tomlish"].HasManifest())
	assert.True(t, byName["tomlish"].IsPyProject())
	assert.Equal(t, filepath.Join(root, "requests", "python"), byName["requests"].OutputDir)
}

func TestDiscoverMissingRootIsEmpty(t *testing.T) {
	layers, err := Discover(testConfig(filepath.Join(t.TempDir(), "does-not-exist")))
	require.NoError(t, err)
	assert.Empty(t, layers)
}

func TestDiscoverScansRootsInOrder(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeLayer(t, rootA, "alpha", map[string]string{"requirements.txt": "a\n"})
	writeLayer(t, rootB, "beta", map[string]string{"requirements.txt": "b\n"})

	layers, err := Discover(testConfig(rootA, rootB))
	require.NoError(t, err)
	require.Len(t, layers, 2)
	assert.Equal(t, "alpha", layers[0].Name)
	assert.Equal(t, "beta", layers[1].Name)
}

func TestFindFirstMatchWins(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeLayer(t, rootB, "shared", map[string]string{"requirements.txt": "later\n"})

	// Absent from rootA, present in rootB: the later root's match is
	// returned.
	l, err := Find(testConfig(rootA, rootB), "shared")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(rootB, "shared"), l.Dir)

	// Present in both: the earlier root wins.
	writeLayer(t, rootA, "shared", map[string]string{"requirements.txt": "earlier\n"})
	l, err = Find(testConfig(rootA, rootB), "shared")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(rootA, "shared"), l.Dir)
}

func TestFindNotFound(t *testing.T) {
	_, err := Find(testConfig(t.TempDir(), t.TempDir()), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindIgnoresPlainFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "notadir"), []byte("x"), 0o644))

	_, err := Find(testConfig(root), "notadir")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfiguredManifestTakesPrecedence(t *testing.T) {
	root := t.TempDir()
	writeLayer(t, root, "both", map[string]string{
		"requirements.txt": "requests\n",
		"pyproject.toml":   "[project]\ndependencies = [\"boto3\"]\n",
	})

	l, err := Find(testConfig(root), "both")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "both", "requirements.txt"), l.ManifestPath)
	assert.False(t, l.IsPyProject())
}
