package ginternals

import (
	"path/filepath"

	"github.com/Nivl/git-lite/ginternals/config"
)

// Files and directories of the control directory.
// The refs paths are kept in UNIX format since they must be stored
// this way. The backend is in charge to convert this to the current
// system when needed
const (
	refsDirName   = "refs"
	indexFileName = "index"
)

// DotGitPath returns the path to the control directory
func DotGitPath(cfg *config.Config) string {
	return cfg.GitDirPath
}

// RefsPath return the path to the directory that contains all the refs
func RefsPath(cfg *config.Config) string {
	return filepath.Join(cfg.GitDirPath, refsDirName)
}

// RefPath return the path of a reference on the current system
// Ex.: On windows refs/heads/master would return .gitlite\refs\heads\master
func RefPath(cfg *config.Config, name string) string {
	return filepath.Join(cfg.GitDirPath, filepath.FromSlash(name))
}

// TagsPath returns the path to the directory that contains the tags
func TagsPath(cfg *config.Config) string {
	return filepath.Join(RefsPath(cfg), "tags")
}

// LocalBranchesPath returns the path to the directory containing the
// local branches
func LocalBranchesPath(cfg *config.Config) string {
	return filepath.Join(RefsPath(cfg), "heads")
}

// ObjectsPath returns the path to the directory that contains
// the objects
func ObjectsPath(cfg *config.Config) string {
	return cfg.ObjectDirPath
}

// ConfigPath returns the path to the local config file
func ConfigPath(cfg *config.Config) string {
	return cfg.LocalConfig
}

// IndexPath returns the path to the index file
func IndexPath(cfg *config.Config) string {
	return filepath.Join(cfg.GitDirPath, indexFileName)
}

// LooseObjectPath returns the path of an object.
// Objects are not fanned out in sub-directories.
//
// Ex. path of fcfe68a0e44e04bd7fd564fc0b75f1ae457e18b3 is:
// .gitlite/objects/fcfe68a0e44e04bd7fd564fc0b75f1ae457e18b3
func LooseObjectPath(cfg *config.Config, sha string) string {
	return filepath.Join(ObjectsPath(cfg), sha)
}
