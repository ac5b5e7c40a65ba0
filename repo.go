// Package git contains the methods to interact with a git-lite
// repository: the snapshot model, the history, and the working tree
package git

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/Nivl/git-lite/backend"
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/config"
	"github.com/Nivl/git-lite/ginternals/object"
	"github.com/Nivl/git-lite/internal/ignore"
	"github.com/Nivl/git-lite/internal/pathutil"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// List of errors returned by the Repository struct
var (
	ErrRepositoryNotExist           = errors.New("repository does not exist")
	ErrRepositoryUnsupportedVersion = errors.New("repository not supported")
	ErrRepositoryExists             = errors.New("repository already exists")
)

// WalkStop is a fake error used to tell the Walk* methods to stop
var WalkStop = backend.WalkStop //nolint // the linter expects all errors to start with Err, but since here we're faking an error we don't want that

// Repository represent a repository
// A repository is the .gitlite/ folder inside a project, and the
// working tree that contains the files of the project
type Repository struct {
	Config *config.Config

	dotGit *backend.Backend
	wt     afero.Fs
	ignore *ignore.Matcher
}

// InitOptions contains all the optional data used to initialized a
// repository
type InitOptions struct {
	// InitialBranchName represents the name of the branch HEAD
	// will point to.
	// Defaults to init.defaultBranch, or master
	InitialBranchName string
	// IgnoreFiles contains extra files holding patterns of files
	// to ignore
	IgnoreFiles []string
}

// InitRepository initialize a new repository by creating the .gitlite
// directory in the given path
func InitRepository(repoPath string) (*Repository, error) {
	return InitRepositoryWithOptions(repoPath, InitOptions{})
}

// InitRepositoryWithOptions initialize a new repository by creating
// the .gitlite directory in the given path
func InitRepositoryWithOptions(repoPath string, opts InitOptions) (*Repository, error) {
	cfg, err := config.LoadConfigSkipEnv(config.LoadConfigOptions{
		WorkingDirectory: repoPath,
		SkipGitDirLookUp: true,
	})
	if err != nil {
		return nil, xerrors.Errorf("could not create param: %w", err)
	}
	return InitRepositoryWithParams(cfg, opts)
}

// InitRepositoryWithParams initialize a new repository using the
// provided config
func InitRepositoryWithParams(cfg *config.Config, opts InitOptions) (_ *Repository, err error) {
	fs := cfg.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}
	_, err = fs.Stat(filepath.Join(cfg.GitDirPath, ginternals.Head))
	if err == nil {
		return nil, xerrors.Errorf("%s: %w", cfg.GitDirPath, ErrRepositoryExists)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, xerrors.Errorf("could not check if the repository exists: %w", err)
	}

	if err = fs.MkdirAll(cfg.WorkTreePath, 0o755); err != nil {
		return nil, xerrors.Errorf("could not create the working tree: %w", err)
	}

	repo, err := newRepository(cfg, fs, opts.IgnoreFiles)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			repo.Close() //nolint:errcheck // it already failed
		}
	}()

	branch := opts.InitialBranchName
	if branch == "" {
		if b, ok := cfg.FromFiles().DefaultBranch(); ok {
			branch = b
		}
	}
	if branch == "" {
		branch = ginternals.Master
	}
	if !ginternals.IsRefNameValid(ginternals.LocalBranchFullName(branch)) {
		return nil, xerrors.Errorf("invalid branch name %s: %w", branch, ginternals.ErrRefNameInvalid)
	}

	if err = repo.dotGit.Init(branch); err != nil {
		return nil, xerrors.Errorf("could not initialize the repository: %w", err)
	}
	return repo, nil
}

// OpenOptions contains all the optional data used to open a
// repository
type OpenOptions struct {
	// IgnoreFiles contains extra files holding patterns of files
	// to ignore
	IgnoreFiles []string
	// SkipGitDirLookUp makes the repository to be looked for in
	// repoPath only, instead of repoPath and its parents
	SkipGitDirLookUp bool
}

// OpenRepository loads an existing repository. The repository is
// looked for in repoPath and its parents
func OpenRepository(repoPath string) (*Repository, error) {
	return OpenRepositoryWithOptions(repoPath, OpenOptions{})
}

// OpenRepositoryWithOptions loads an existing repository. The
// repository is looked for in repoPath and its parents
func OpenRepositoryWithOptions(repoPath string, opts OpenOptions) (*Repository, error) {
	cfg, err := config.LoadConfigSkipEnv(config.LoadConfigOptions{
		WorkingDirectory: repoPath,
		SkipGitDirLookUp: opts.SkipGitDirLookUp,
	})
	if err != nil {
		if errors.Is(err, pathutil.ErrNoRepo) {
			return nil, xerrors.Errorf("%s: %w", repoPath, ErrRepositoryNotExist)
		}
		return nil, xerrors.Errorf("could not create param: %w", err)
	}
	return OpenRepositoryWithParams(cfg, opts)
}

// OpenRepositoryWithParams loads an existing repository using the
// provided config
func OpenRepositoryWithParams(cfg *config.Config, opts OpenOptions) (_ *Repository, err error) {
	fs := cfg.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	if version, ok := cfg.FromFiles().RepoFormatVersion(); ok && version != 0 {
		return nil, xerrors.Errorf("version %d: %w", version, ErrRepositoryUnsupportedVersion)
	}

	repo, err := newRepository(cfg, fs, opts.IgnoreFiles)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			repo.Close() //nolint:errcheck // it already failed
		}
	}()

	// HEAD should always be there, even if it targets nothing yet
	if _, err = repo.dotGit.RawReference(ginternals.Head); err != nil {
		if errors.Is(err, ginternals.ErrRefNotFound) {
			return nil, xerrors.Errorf("%s: %w", cfg.GitDirPath, ErrRepositoryNotExist)
		}
		return nil, xerrors.Errorf("could not read HEAD: %w", err)
	}
	return repo, nil
}

func newRepository(cfg *config.Config, fs afero.Fs, ignoreFiles []string) (*Repository, error) {
	matcher, err := ignore.Load(fs, cfg.WorkTreePath, ignoreFiles...)
	if err != nil {
		return nil, xerrors.Errorf("could not load the ignore patterns: %w", err)
	}
	b, err := backend.NewFS(cfg)
	if err != nil {
		return nil, xerrors.Errorf("could not create the backend: %w", err)
	}
	return &Repository{
		Config: cfg,
		dotGit: b,
		wt:     fs,
		ignore: matcher,
	}, nil
}

// Close frees the resources used by the repository
func (r *Repository) Close() error {
	return r.dotGit.Close()
}

// Backend returns the object and reference store of the repository
func (r *Repository) Backend() *backend.Backend {
	return r.dotGit
}

// WorkTreePath returns the path of the working tree
func (r *Repository) WorkTreePath() string {
	return r.Config.WorkTreePath
}

// IsIgnored returns whether a slash path relative to the working tree
// is ignored
func (r *Repository) IsIgnored(path string, isDir bool) bool {
	return r.ignore.Match(path, isDir)
}

// Object returns the object matching the given ID
func (r *Repository) Object(oid ginternals.Oid) (*object.Object, error) {
	return r.dotGit.Object(oid)
}

// NewBlob creates, stores, and returns a new Blob object
func (r *Repository) NewBlob(data []byte) (*object.Blob, error) {
	blob := object.NewBlobFromBytes(data)
	if _, err := r.dotGit.WriteObject(blob.ToObject()); err != nil {
		return nil, xerrors.Errorf("could not write the object to the odb: %w", err)
	}
	return blob, nil
}

// Blob returns the blob matching the given ID
func (r *Repository) Blob(oid ginternals.Oid) (*object.Blob, error) {
	o, err := r.dotGit.ObjectOfType(oid, object.TypeBlob)
	if err != nil {
		return nil, err
	}
	return o.AsBlob()
}

// Tree returns the tree matching the given ID
func (r *Repository) Tree(oid ginternals.Oid) (*object.Tree, error) {
	o, err := r.dotGit.ObjectOfType(oid, object.TypeTree)
	if err != nil {
		return nil, err
	}
	return o.AsTree()
}

// Reference returns the reference matching the given name, with its
// symbolic targets resolved
func (r *Repository) Reference(name string) (*ginternals.Reference, error) {
	return r.dotGit.Reference(name)
}

// Head returns the id of the commit targeted by HEAD.
// ginternals.ErrRefNotFound is returned if HEAD targets an unborn
// branch
func (r *Repository) Head() (ginternals.Oid, error) {
	ref, err := r.dotGit.Reference(ginternals.Head)
	if err != nil {
		return ginternals.NullOid, err
	}
	return ref.Target(), nil
}

// optionalRef returns the id targeted by a reference, or
// ginternals.NullOid if the reference doesn't resolve
func (r *Repository) optionalRef(name string) (ginternals.Oid, error) {
	ref, err := r.dotGit.Reference(name)
	if err != nil {
		if errors.Is(err, ginternals.ErrRefNotFound) {
			return ginternals.NullOid, nil
		}
		return ginternals.NullOid, xerrors.Errorf("could not read %s: %w", name, err)
	}
	return ref.Target(), nil
}
