// Package confutil contains helpers and function to generate basic
// configuration
package confutil

import (
	"path/filepath"
	"testing"

	"github.com/Nivl/git-lite/ginternals/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// NewCommonConfig returns a config for a repository located at
// workingTreePath, on the given filesystem. The repository doesn't
// need to exist
func NewCommonConfig(t *testing.T, fs afero.Fs, workingTreePath string) *config.Config {
	t.Helper()

	cfg, err := config.LoadConfigSkipEnv(config.LoadConfigOptions{
		FS:               fs,
		WorkingDirectory: workingTreePath,
		WorkTreePath:     workingTreePath,
		GitDirPath:       filepath.Join(workingTreePath, config.DefaultDotGitDirName),
		SkipGitDirLookUp: true,
	})
	require.NoError(t, err)
	return cfg
}

// NewMemConfig returns a config for a repository located at /repo
// on a new in-memory filesystem
func NewMemConfig(t *testing.T) *config.Config {
	t.Helper()
	return NewCommonConfig(t, afero.NewMemMapFs(), filepath.Join(string(filepath.Separator), "repo"))
}
