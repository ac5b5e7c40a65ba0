package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Nivl/git-lite/env"
	"github.com/Nivl/git-lite/internal/pathutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	cwd, err := os.Getwd()
	require.NoError(t, err)

	root := filepath.Join(string(filepath.Separator), "repo")
	// newFs returns a filesystem containing a repository at /repo
	// with a few nested directories
	newFs := func(t *testing.T) afero.Fs {
		t.Helper()
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll(filepath.Join(root, DefaultDotGitDirName), 0o755))
		require.NoError(t, fs.MkdirAll(filepath.Join(root, "a", "b"), 0o755))
		return fs
	}

	testCases := []struct {
		desc           string
		cfg            LoadConfigOptions
		e              *env.Env
		expectedParams *Config
		expectedError  error
	}{
		{
			desc: "repository should be found from a sub directory",
			cfg: LoadConfigOptions{
				WorkingDirectory: filepath.Join(root, "a", "b"),
			},
			e: env.NewFromKVList([]string{}),
			expectedParams: &Config{
				WorkTreePath:  root,
				GitDirPath:    filepath.Join(root, DefaultDotGitDirName),
				LocalConfig:   filepath.Join(root, DefaultDotGitDirName, defaultConfigDirName),
				ObjectDirPath: filepath.Join(root, DefaultDotGitDirName, defaultObjectsDirName),
			},
		},
		{
			desc: "should fail outside of a repository",
			cfg: LoadConfigOptions{
				WorkingDirectory: filepath.Join(string(filepath.Separator), "nope"),
			},
			e:             env.NewFromKVList([]string{}),
			expectedError: pathutil.ErrNoRepo,
		},
		{
			desc: "lookup can be skipped",
			cfg: LoadConfigOptions{
				WorkingDirectory: filepath.Join(string(filepath.Separator), "new"),
				SkipGitDirLookUp: true,
			},
			e: env.NewFromKVList([]string{}),
			expectedParams: &Config{
				WorkTreePath:  filepath.Join(string(filepath.Separator), "new"),
				GitDirPath:    filepath.Join(string(filepath.Separator), "new", DefaultDotGitDirName),
				LocalConfig:   filepath.Join(string(filepath.Separator), "new", DefaultDotGitDirName, defaultConfigDirName),
				ObjectDirPath: filepath.Join(string(filepath.Separator), "new", DefaultDotGitDirName, defaultObjectsDirName),
			},
		},
		{
			desc:          "Should fail specifying a work tree (env) without a repository path",
			cfg:           LoadConfigOptions{},
			e:             env.NewFromKVList([]string{env.WorkTreeKey + "=" + cwd}),
			expectedError: ErrNoWorkTreeAlone,
		},
		{
			desc: "Should fail specifying a work tree (override) without a repository path",
			cfg: LoadConfigOptions{
				WorkTreePath: cwd,
			},
			e:             env.NewFromKVList([]string{}),
			expectedError: ErrNoWorkTreeAlone,
		},
		{
			desc: "Env should be used when available",
			cfg:  LoadConfigOptions{},
			e: env.NewFromKVList([]string{
				env.WorkTreeKey + "=" + filepath.Join(root, "wt"),
				env.DirKey + "=" + filepath.Join(root, "ctl"),
				env.ObjectDirKey + "=" + filepath.Join(root, "objects"),
				env.ConfigKey + "=" + filepath.Join(root, "liteconfig"),
			}),
			expectedParams: &Config{
				WorkTreePath:  filepath.Join(root, "wt"),
				GitDirPath:    filepath.Join(root, "ctl"),
				LocalConfig:   filepath.Join(root, "liteconfig"),
				ObjectDirPath: filepath.Join(root, "objects"),
			},
		},
		{
			desc: "options should override the env",
			cfg: LoadConfigOptions{
				WorkTreePath: filepath.Join(root, "custom", "wt"),
				GitDirPath:   filepath.Join(root, "custom", "ctl"),
			},
			e: env.NewFromKVList([]string{
				env.WorkTreeKey + "=" + filepath.Join(root, "wt"),
				env.DirKey + "=" + filepath.Join(root, "ctl"),
			}),
			expectedParams: &Config{
				WorkTreePath:  filepath.Join(root, "custom", "wt"),
				GitDirPath:    filepath.Join(root, "custom", "ctl"),
				LocalConfig:   filepath.Join(root, "custom", "ctl", defaultConfigDirName),
				ObjectDirPath: filepath.Join(root, "custom", "ctl", defaultObjectsDirName),
			},
		},
		{
			desc: "relative paths should be made absolute based on the working directory",
			cfg: LoadConfigOptions{
				WorkingDirectory: root,
			},
			e: env.NewFromKVList([]string{
				env.WorkTreeKey + "=wt",
				env.DirKey + "=ctl",
				env.ObjectDirKey + "=objects",
				env.ConfigKey + "=liteconfig",
			}),
			expectedParams: &Config{
				WorkTreePath:  filepath.Join(root, "wt"),
				GitDirPath:    filepath.Join(root, "ctl"),
				LocalConfig:   filepath.Join(root, "liteconfig"),
				ObjectDirPath: filepath.Join(root, "objects"),
			},
		},
		{
			desc: "the working tree should default to the parent of the repository dir",
			cfg: LoadConfigOptions{
				GitDirPath: filepath.Join(root, "a", DefaultDotGitDirName),
			},
			e: env.NewFromKVList([]string{}),
			expectedParams: &Config{
				WorkTreePath:  filepath.Join(root, "a"),
				GitDirPath:    filepath.Join(root, "a", DefaultDotGitDirName),
				LocalConfig:   filepath.Join(root, "a", DefaultDotGitDirName, defaultConfigDirName),
				ObjectDirPath: filepath.Join(root, "a", DefaultDotGitDirName, defaultObjectsDirName),
			},
		},
	}
	for i, tc := range testCases {
		tc := tc
		i := i
		t.Run(fmt.Sprintf("%d/%s", i, tc.desc), func(t *testing.T) {
			t.Parallel()

			tc.cfg.FS = newFs(t)
			out, err := LoadConfig(tc.e, tc.cfg)
			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, out.FromFiles())

			// We don't want to check for files, env, or FS
			out.fromFiles = nil
			out.FS = nil
			out.env = nil

			assert.Equal(t, tc.expectedParams, out)
		})
	}
}

func TestReload(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	root := filepath.Join(string(filepath.Separator), "repo")
	require.NoError(t, fs.MkdirAll(filepath.Join(root, DefaultDotGitDirName), 0o755))

	cfg, err := LoadConfigSkipEnv(LoadConfigOptions{
		FS:               fs,
		WorkingDirectory: root,
	})
	require.NoError(t, err)
	_, ok := cfg.FromFiles().DefaultBranch()
	require.False(t, ok, "no config file should exist yet")

	err = afero.WriteFile(fs, cfg.LocalConfig, []byte("[init]\n\tdefaultBranch = trunk\n"), 0o644)
	require.NoError(t, err)
	require.NoError(t, cfg.Reload())

	branch, ok := cfg.FromFiles().DefaultBranch()
	require.True(t, ok, "the new config file should have been loaded")
	assert.Equal(t, "trunk", branch)
}
