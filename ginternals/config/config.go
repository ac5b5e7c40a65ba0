// Package config contains structs to interact with the repository
// configuration as well as to configure the library
package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/Nivl/git-lite/env"
	"github.com/Nivl/git-lite/internal/pathutil"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// Names of the files and directories that are part of the default
// layout of a repository
const (
	// DefaultDotGitDirName corresponds to the default name of the
	// control directory
	DefaultDotGitDirName  = ".gitlite"
	defaultConfigDirName  = "config"
	defaultObjectsDirName = "objects"
)

// ErrNoWorkTreeAlone is thrown when a work tree path is given without
// a control directory path
var ErrNoWorkTreeAlone = errors.New("cannot specify a work tree without also specifying a repository dir")

// Config represents the config of a repository, whether it's from
// the config files or from the options that can be set using
// the env.
//
// If you decide to create a Config by yourself, make sure to set correct
// values everywhere
type Config struct {
	// FS represents the file system implementation to use to look for
	// files and directories.
	// Defaults to the regular filesystem.
	FS afero.Fs

	// fromFiles contains a reference to the config values held in
	// files
	fromFiles *FileAggregate
	// env is kept so the config files can be reloaded
	env *env.Env

	// GitDirPath represents the path to the .gitlite directory
	// Maps to $GITLITE_DIR if set
	// Defaults to finding a ".gitlite" folder in the current directory,
	// going up in the tree until reaching /
	GitDirPath string
	// WorkTreePath represents the path to the directory holding the
	// checked out files
	// Maps to $GITLITE_WORK_TREE
	// Defaults to $(GitDirPath)/.. or $(current-dir) depending on if
	// GitDirPath was set or not.
	WorkTreePath string
	// ObjectDirPath represents the path to the .gitlite/objects directory
	// Maps to $GITLITE_OBJECT_DIRECTORY
	// Defaults to $(GitDirPath)/objects
	ObjectDirPath string
	// LocalConfig represents the config file to load
	// Maps to $GITLITE_CONFIG
	// Defaults to $(GitDirPath)/config if not sets
	LocalConfig string
}

// LoadConfigOptions represents all the params used to set the default
// values of a Config object
type LoadConfigOptions struct {
	// FS represents the file system implementation to use to look for
	// files and directories.
	// Defaults to the regular filesystem.
	FS afero.Fs
	// WorkingDirectory represents the current working directory
	// Defaults to the current working directory
	WorkingDirectory string
	// WorkTreePath corresponds to the directory that should contain
	// the .gitlite.
	// Set this value to change the default behavior and overwrite
	// $GITLITE_WORK_TREE.
	WorkTreePath string
	// GitDirPath corresponds to the .gitlite directory
	// Set this value to change the default behavior and overwrite
	// $GITLITE_DIR.
	GitDirPath string
	// SkipGitDirLookUp will disable automatic lookup of the .gitlite
	// directory.
	// Defaults to false which means that if no path is provided
	// to $GitDirPath or $GITLITE_DIR, the method will look for a .gitlite
	// dir in $WorkingDirectory and will go up the tree until it finds one.
	//
	// You should only set this value to true if you want to initialize a
	// new repository.
	SkipGitDirLookUp bool
}

// LoadConfig returns a new Config that fetches the data from the
// env
// This is what you want to use to give your users some control over
// the repository.
// If you want something more direct without control, use
// LoadConfigSkipEnv()
func LoadConfig(e *env.Env, opts LoadConfigOptions) (*Config, error) {
	cfg := &Config{
		env:           e,
		GitDirPath:    e.Get(env.DirKey),
		WorkTreePath:  e.Get(env.WorkTreeKey),
		ObjectDirPath: e.Get(env.ObjectDirKey),
		LocalConfig:   e.Get(env.ConfigKey),
	}

	if err := setConfig(cfg, opts); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigSkipEnv returns a new Config that skips the env
// and uses the default values
func LoadConfigSkipEnv(opts LoadConfigOptions) (*Config, error) {
	return LoadConfig(env.NewFromKVList([]string{}), opts)
}

// FromFiles returns the values stored in the config files
func (cfg *Config) FromFiles() *FileAggregate {
	return cfg.fromFiles
}

// Reload reloads the values of the config files. This is needed
// after the config file got updated on disk
func (cfg *Config) Reload() (err error) {
	e := cfg.env
	if e == nil {
		e = env.NewFromKVList([]string{})
	}
	cfg.fromFiles, err = NewFileAggregate(e, cfg)
	if err != nil {
		return xerrors.Errorf("could not load config files: %w", err)
	}
	return nil
}

func setConfig(p *Config, opts LoadConfigOptions) (err error) {
	if opts.FS == nil {
		opts.FS = afero.NewOsFs()
	}
	p.FS = opts.FS

	wd, err := os.Getwd()
	if err != nil {
		return xerrors.Errorf("could not get the current directory: %w", err)
	}
	if opts.WorkingDirectory == "" {
		opts.WorkingDirectory = wd
	}
	if !filepath.IsAbs(opts.WorkingDirectory) {
		opts.WorkingDirectory = filepath.Join(wd, opts.WorkingDirectory)
	}

	// $GITLITE_WORK_TREE cannot be set if $GITLITE_DIR isn't set
	if opts.GitDirPath == "" && p.GitDirPath == "" && (opts.WorkTreePath != "" || p.WorkTreePath != "") {
		return ErrNoWorkTreeAlone
	}

	// GitDir rules:
	// - p.GitDirPath contains either nothing or $GITLITE_DIR
	// - opts.GitDirPath contains either nothing or a value used to override
	//   p.GitDirPath.
	// - If nothing set, a .gitlite directory will looked for by walking up
	//   the current directory.
	// - If relative, the path will be appended to the current working
	//   directory.
	if opts.GitDirPath != "" {
		p.GitDirPath = opts.GitDirPath
	}
	guessedWorkingTree := opts.WorkingDirectory
	switch p.GitDirPath {
	default:
		if !filepath.IsAbs(p.GitDirPath) {
			p.GitDirPath = filepath.Join(opts.WorkingDirectory, p.GitDirPath)
		}
		guessedWorkingTree = filepath.Dir(p.GitDirPath)
	case "":
		if !opts.SkipGitDirLookUp {
			guessedWorkingTree, err = pathutil.WorkingTreeFromPath(p.FS, opts.WorkingDirectory, DefaultDotGitDirName)
			if err != nil {
				return xerrors.Errorf("could not find working tree: %w", err)
			}
		}
		p.GitDirPath = filepath.Join(guessedWorkingTree, DefaultDotGitDirName)
	}

	// LocalConfig rules:
	// - p.LocalConfig contains either nothing or $GITLITE_CONFIG
	// - Fallback to $(GitDirPath)/config
	//
	// If relative, the path will be appended to the current working
	// directory.
	if p.LocalConfig == "" {
		p.LocalConfig = filepath.Join(p.GitDirPath, defaultConfigDirName)
	}
	if !filepath.IsAbs(p.LocalConfig) {
		p.LocalConfig = filepath.Join(opts.WorkingDirectory, p.LocalConfig)
	}

	// ObjectDirPath rules:
	// - p.ObjectDirPath contains either nothing or $GITLITE_OBJECT_DIRECTORY
	// - Fallback to $(GitDirPath)/objects
	//
	// If relative, the path will be appended to the current working
	// directory.
	if p.ObjectDirPath == "" {
		p.ObjectDirPath = filepath.Join(p.GitDirPath, defaultObjectsDirName)
	}
	if !filepath.IsAbs(p.ObjectDirPath) {
		p.ObjectDirPath = filepath.Join(opts.WorkingDirectory, p.ObjectDirPath)
	}

	if err = p.Reload(); err != nil {
		return err
	}

	// Worktree rules:
	//
	// - p.WorkTreePath contains either nothing, $GITLITE_WORK_TREE.
	// - opts.WorkTreePath contains either nothing or a path to the
	//   working tree.
	//   It overrides p.WorkTreePath
	// - guessedWorkingTree contains the path containing the .gitlite
	//   directory.
	//   It's use as fallback
	//
	// If any path are relative, they will be relative to the current
	// working directory
	if opts.WorkTreePath != "" {
		p.WorkTreePath = opts.WorkTreePath
	}
	if p.WorkTreePath == "" {
		p.WorkTreePath = guessedWorkingTree
	}
	if !filepath.IsAbs(p.WorkTreePath) {
		p.WorkTreePath = filepath.Join(opts.WorkingDirectory, p.WorkTreePath)
	}

	return nil
}
