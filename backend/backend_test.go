package backend_test

import (
	"testing"

	"github.com/Nivl/git-lite/backend"
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/internal/testhelper/confutil"
	"github.com/stretchr/testify/require"
)

// newTestBackend returns an initialized backend stored in memory
func newTestBackend(t *testing.T) *backend.Backend {
	t.Helper()

	cfg := confutil.NewMemConfig(t)
	b, err := backend.NewFS(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, b.Close())
	})
	require.NoError(t, b.Init(ginternals.Master))
	return b
}

// reopen returns a new backend using the same config and filesystem
// as b
func reopen(t *testing.T, b *backend.Backend) *backend.Backend {
	t.Helper()

	b2, err := backend.NewFS(b.Config())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, b2.Close())
	})
	return b2
}
