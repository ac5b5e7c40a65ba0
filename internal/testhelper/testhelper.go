// Package testhelper contains helpers to simplify tests
package testhelper

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// TempDir creates a temp dir and returns a cleanup method
func TempDir(t *testing.T) (out string, cleanup func()) {
	t.Helper()

	out, err := os.MkdirTemp("", strings.ReplaceAll(t.Name(), "/", "_")+"_")
	require.NoError(t, err)

	cleanup = func() {
		require.NoError(t, os.RemoveAll(out))
	}
	return out, cleanup
}

// TempFile creates a temp file and returns a cleanup method
func TempFile(t *testing.T) (out *os.File, cleanup func()) {
	t.Helper()

	out, err := os.CreateTemp("", strings.ReplaceAll(t.Name(), "/", "_")+"_")
	require.NoError(t, err)

	cleanup = func() {
		require.NoError(t, out.Close())
		require.NoError(t, os.RemoveAll(out.Name()))
	}
	return out, cleanup
}

// WriteFiles writes the given files relative to root. The parent
// directories are created when needed
func WriteFiles(t *testing.T, fs afero.Fs, root string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, fs.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, afero.WriteFile(fs, p, []byte(content), 0o644))
	}
}

// ReadFile returns the content of the file located at root/name
func ReadFile(t *testing.T, fs afero.Fs, root, name string) string {
	t.Helper()

	data, err := afero.ReadFile(fs, filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}
