// Package pathutil contains methods to find repositories on disk and
// to parse paths given by the user
package pathutil

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// ErrNoRepo is an error returned when no repo are found
var ErrNoRepo = errors.New("not a repository (or any of the parent directories)")

// WorkingTree returns the absolute path to the working tree containing
// the current working directory
func WorkingTree(fs afero.Fs, dotDirName string) (path string, err error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", xerrors.Errorf("could not get current working directory: %w", err)
	}
	return WorkingTreeFromPath(fs, wd, dotDirName)
}

// WorkingTreeFromPath returns the absolute path to the root of a repo
// containing the provided directory. The lookup goes up the tree until
// a directory named dotDirName is found
func WorkingTreeFromPath(fs afero.Fs, p, dotDirName string) (path string, err error) {
	prev := ""
	for p != prev {
		info, err := fs.Stat(filepath.Join(p, dotDirName))
		if err == nil && info.IsDir() {
			return p, nil
		}

		prev = p
		p = filepath.Dir(p)
	}
	return "", ErrNoRepo
}
