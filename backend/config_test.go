package backend_test

import (
	"path/filepath"
	"testing"

	"github.com/Nivl/git-lite/backend"
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/internal/testhelper/confutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Parallel()

	t.Run("should create the layout of a repository", func(t *testing.T) {
		t.Parallel()

		b := newTestBackend(t)
		cfg := b.Config()
		for _, d := range []string{
			ginternals.ObjectsPath(cfg),
			ginternals.LocalBranchesPath(cfg),
			ginternals.TagsPath(cfg),
		} {
			info, err := b.FS().Stat(d)
			require.NoError(t, err, d)
			assert.True(t, info.IsDir(), d)
		}

		head, err := b.RawReference(ginternals.Head)
		require.NoError(t, err)
		assert.True(t, head.IsSymbolic())
		assert.Equal(t, "refs/heads/master", head.SymbolicTarget())

		version, ok := cfg.FromFiles().RepoFormatVersion()
		require.True(t, ok)
		assert.Equal(t, 0, version)
	})

	t.Run("should use the provided branch", func(t *testing.T) {
		t.Parallel()

		cfg := confutil.NewMemConfig(t)
		b, err := backend.NewFS(cfg)
		require.NoError(t, err)
		require.NoError(t, b.Init("main"))

		name, err := b.PhysicalReferenceName(ginternals.Head)
		require.NoError(t, err)
		assert.Equal(t, "refs/heads/main", name)
	})

	t.Run("should fail if HEAD already exists", func(t *testing.T) {
		t.Parallel()

		b := newTestBackend(t)
		err := b.Init(ginternals.Master)
		require.ErrorIs(t, err, ginternals.ErrRefExists)
	})
}

func TestSetRemote(t *testing.T) {
	t.Parallel()

	b := newTestBackend(t)
	require.NoError(t, b.SetRemote(ginternals.Origin, "/tmp/a"))
	require.NoError(t, b.SetRemote("upstream", "/tmp/b"))
	require.NoError(t, b.SetRemote(ginternals.Origin, "/tmp/c"))

	cfg := b.Config().FromFiles()
	url, ok := cfg.RemoteURL(ginternals.Origin)
	require.True(t, ok)
	assert.Equal(t, "/tmp/c", url)
	assert.Equal(t, []string{"origin", "upstream"}, cfg.Remotes())

	// the previous values must have been kept
	version, ok := cfg.RepoFormatVersion()
	require.True(t, ok)
	assert.Equal(t, 0, version)

	data, err := afero.ReadFile(b.FS(), filepath.Join(b.Path(), "config"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `[remote "origin"]`)
}
