// Package backend contains the persistence layer of a repository:
// the object store, the reference store, and the index
package backend

import (
	"errors"

	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/config"
	"github.com/Nivl/git-lite/internal/cache"
	"github.com/Nivl/git-lite/internal/syncutil"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

const (
	// objectCacheSize is the number of decoded objects kept in memory
	objectCacheSize = 1000
	// objectMutexCount is the number of mutexes shared by all the
	// objects. It's a prime number to reduce the collisions
	objectMutexCount = 101
)

// RefWalkFunc represents a function that will be applied on all references
// found by WalkReferences()
type RefWalkFunc = func(ref *ginternals.Reference) error

// WalkStop is a fake error used to tell Walk() to stop
var WalkStop = errors.New("stop walking") //nolint // the linter expects all errors to start with Err, but since here we're faking an error we don't want that

// Backend stores and retrieves the data of a repository from a
// filesystem
type Backend struct {
	config *config.Config
	fs     afero.Fs

	cache    *cache.ObjectCache
	objectMu *syncutil.NamedMutex
}

// NewFS returns a new Backend that uses the filesystem of the config
func NewFS(cfg *config.Config) (*Backend, error) {
	fs := cfg.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}
	c, err := cache.NewObjectCache(objectCacheSize)
	if err != nil {
		return nil, xerrors.Errorf("could not create the object cache: %w", err)
	}
	return &Backend{
		config:   cfg,
		fs:       fs,
		cache:    c,
		objectMu: syncutil.NewNamedMutex(objectMutexCount),
	}, nil
}

// Path returns the path of the control directory
func (b *Backend) Path() string {
	return ginternals.DotGitPath(b.config)
}

// Config returns the config used by the backend
func (b *Backend) Config() *config.Config {
	return b.config
}

// FS returns the filesystem used by the backend
func (b *Backend) FS() afero.Fs {
	return b.fs
}

// Close frees the resources used by the Backend
// This method cannot be called concurrently with other methods
func (b *Backend) Close() error {
	b.cache.Clear()
	return nil
}
