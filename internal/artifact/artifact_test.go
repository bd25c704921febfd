package artifact

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAsset(t *testing.T, dir string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "lib"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "handler.py"),
		[]byte("def lambda_handler(event, context):\n    pass\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib", "util.py"),
		[]byte("REGION = 'us-east-1'\n"), 0644))
}

func TestPackage(t *testing.T) {
	assetDir := t.TempDir()
	writeAsset(t, assetDir)

	out := filepath.Join(t.TempDir(), "shutdown.zip")
	require.NoError(t, Package(assetDir, out))

	r, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer r.Close()

	var names []string
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"handler.py", "lib/util.py"}, names)
}

func TestPackage_Deterministic(t *testing.T) {
	assetDir := t.TempDir()
	writeAsset(t, assetDir)

	outDir := t.TempDir()
	first := filepath.Join(outDir, "a.zip")
	second := filepath.Join(outDir, "b.zip")

	require.NoError(t, Package(assetDir, first))
	require.NoError(t, Package(assetDir, second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestPackage_EmptyDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "empty.zip")
	err := Package(t.TempDir(), out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestPackage_MissingDirectory(t *testing.T) {
	err := Package(filepath.Join(t.TempDir(), "nope"), "out.zip")
	require.Error(t, err)
}

func TestDefaultArtifactPath(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"ec2-auto-shutdown.zip", "ec2-auto-shutdown.zip"},
		{"artifacts/v1/shutdown.zip", "shutdown.zip"},
		{"", "artifact.zip"},
		{"prefix/", "artifact.zip"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DefaultArtifactPath(tt.key), tt.key)
	}
}
