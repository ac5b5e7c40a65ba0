package remote

import (
	"path/filepath"

	git "github.com/Nivl/git-lite"
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/config"
	"golang.org/x/xerrors"
)

// Clone creates a new repository at targetPath containing all the
// history of the repository located at remotePath.
// git.ErrRepositoryExists is returned if targetPath already contains
// a repository
func Clone(remotePath, targetPath string) (*git.Repository, error) {
	remote, err := Open(remotePath)
	if err != nil {
		return nil, err
	}
	defer remote.Close() //nolint:errcheck // read-only

	cfg, err := config.LoadConfigSkipEnv(config.LoadConfigOptions{
		WorkingDirectory: targetPath,
		SkipGitDirLookUp: true,
	})
	if err != nil {
		return nil, xerrors.Errorf("could not create param: %w", err)
	}
	return CloneRepository(remote, remote.WorkTreePath(), cfg)
}

// CloneRepository creates a new repository using the provided config,
// and fills it with all the history of remote.
// url is the location of the remote that is saved in the config of
// the new repository, as "origin"
func CloneRepository(remote *git.Repository, url string, cfg *config.Config) (_ *git.Repository, err error) {
	branch, hasBranch, err := remote.CurrentBranch()
	if err != nil {
		return nil, xerrors.Errorf("could not get the current branch of the remote: %w", err)
	}

	r, err := git.InitRepositoryWithParams(cfg, git.InitOptions{
		InitialBranchName: branch,
	})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			r.Close() //nolint:errcheck // it already failed
		}
	}()

	if err = r.Backend().SetRemote(ginternals.Origin, url); err != nil {
		return nil, xerrors.Errorf("could not save the remote: %w", err)
	}

	refs, err := ListRefs(remote)
	if err != nil {
		return nil, err
	}
	if _, err = copyObjects(r, remote, values(refs), nil); err != nil {
		return nil, err
	}

	for name, oid := range refs {
		if name == ginternals.Head {
			continue
		}
		if err = r.Backend().WriteReference(ginternals.NewReference(name, oid)); err != nil {
			return nil, xerrors.Errorf("could not write %s: %w", name, err)
		}
		if ginternals.IsLocalBranch(name) {
			tracking := ginternals.RemoteBranchFullName(ginternals.Origin, ginternals.LocalBranchShortName(name))
			if err = r.Backend().WriteReference(ginternals.NewReference(tracking, oid)); err != nil {
				return nil, xerrors.Errorf("could not write %s: %w", tracking, err)
			}
		}
	}

	head, ok := refs[ginternals.Head]
	if !ok {
		// the remote is empty
		return r, nil
	}
	if !hasBranch {
		if err = r.Backend().WriteReference(ginternals.NewReference(ginternals.Head, head)); err != nil {
			return nil, xerrors.Errorf("could not update HEAD: %w", err)
		}
	}
	c, err := r.Commit(head)
	if err != nil {
		return nil, xerrors.Errorf("could not get commit %s: %w", head, err)
	}
	if err = r.CheckoutTree(c.TreeID(), true); err != nil {
		return nil, xerrors.Errorf("could not check out %s: %w", head, err)
	}
	return r, nil
}

// Open opens the repository located at path, to be used as a remote.
// Unlike git.OpenRepository, the parent directories of path are not
// looked into
func Open(path string) (*git.Repository, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, xerrors.Errorf("could not get the absolute path of %s: %w", path, err)
	}
	r, err := git.OpenRepositoryWithOptions(path, git.OpenOptions{
		SkipGitDirLookUp: true,
	})
	if err != nil {
		return nil, xerrors.Errorf("could not open %s: %w", path, err)
	}
	return r, nil
}
