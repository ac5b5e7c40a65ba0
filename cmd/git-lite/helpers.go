package main

import (
	"errors"
	"path/filepath"

	git "github.com/Nivl/git-lite"
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/config"
	"github.com/Nivl/git-lite/internal/pathutil"
	"golang.org/x/xerrors"
)

// ignoreFiles returns the extra ignore files set by the user
func (cfg *globalFlags) ignoreFiles() []string {
	if cfg.IgnoreFile == nil || cfg.IgnoreFile.String() == "" {
		return nil
	}
	return []string{cfg.IgnoreFile.String()}
}

// loadRepository opens the repository containing the directory set
// by -C
func loadRepository(cfg *globalFlags) (*git.Repository, error) {
	p, err := config.LoadConfig(cfg.env, config.LoadConfigOptions{
		WorkingDirectory: cfg.C.String(),
	})
	if err != nil {
		if errors.Is(err, pathutil.ErrNoRepo) {
			return nil, xerrors.Errorf("%s: %w", cfg.C.String(), git.ErrRepositoryNotExist)
		}
		return nil, xerrors.Errorf("could not create param: %w", err)
	}
	return git.OpenRepositoryWithParams(p, git.OpenOptions{
		IgnoreFiles: cfg.ignoreFiles(),
	})
}

// absPath returns the absolute version of a path provided by the user.
// Relative paths are relative to the directory set by -C
func absPath(cfg *globalFlags, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(cfg.C.String(), p)
}

// shortID returns the abbreviated version of an oid
func shortID(oid ginternals.Oid) string {
	return oid.String()[:10]
}

// commitFiles returns the files of the commit targeted by name.
// An empty name targets HEAD, which may not have any commits
func commitFiles(r *git.Repository, name string) (map[string]ginternals.Oid, error) {
	if name == "" {
		oid, err := r.Head()
		if err != nil {
			if errors.Is(err, ginternals.ErrRefNotFound) {
				return r.CommitFiles(ginternals.NullOid)
			}
			return nil, err
		}
		return r.CommitFiles(oid)
	}
	oid, err := r.ResolveName(name)
	if err != nil {
		return nil, err
	}
	return r.CommitFiles(oid)
}
