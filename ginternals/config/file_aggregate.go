package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Nivl/git-lite/env"
	"golang.org/x/xerrors"
	"gopkg.in/ini.v1"
)

// Sections and keys of the config file
const (
	SectionCore                = "core"
	KeyCoreRepoFormatVersion   = "repositoryformatversion"
	SectionInit                = "init"
	KeyInitDefaultBranch       = "defaultBranch"
	SectionRemote              = "remote"
	KeyRemoteURL               = "url"
	globalConfigFileName       = ".gitliteconfig"
	remoteSectionNameSeparator = " "
)

// DefaultLoadOption contains the params used to load the config files
//
//nolint:gochecknoglobals // It's a global because we
// don't want to have to redefine it all the time.
// Treat this as a const, don't ever change it from a method, even for
// testing.
var DefaultLoadOption = ini.LoadOptions{
	SkipUnrecognizableLines: true,
}

// FileAggregate represents the aggregate of all the config files
// impacting a repository
type FileAggregate struct {
	cfg *Config
	agg *ini.File
}

// RepoFormatVersion returns the version of the format of the repo
func (cfg *FileAggregate) RepoFormatVersion() (version int, ok bool) {
	v, err := cfg.agg.Section(SectionCore).Key(KeyCoreRepoFormatVersion).Int()
	if err != nil {
		return 0, false
	}
	return v, true
}

// DefaultBranch returns the branch name to use when creating a new
// repository.
// The branch name isn't checked and may be an invalid value
func (cfg *FileAggregate) DefaultBranch() (name string, ok bool) {
	v := cfg.agg.Section(SectionInit).Key(KeyInitDefaultBranch).String()
	if v == "" {
		return "", false
	}
	return v, true
}

// RemoteURL returns the location of the given remote
func (cfg *FileAggregate) RemoteURL(name string) (url string, ok bool) {
	sec, err := cfg.agg.GetSection(RemoteSectionName(name))
	if err != nil {
		return "", false
	}
	v := sec.Key(KeyRemoteURL).String()
	return v, v != ""
}

// Remotes returns the sorted names of all the remotes that have a
// location
func (cfg *FileAggregate) Remotes() []string {
	prefix := SectionRemote + remoteSectionNameSeparator
	names := []string{}
	for _, sec := range cfg.agg.Sections() {
		if !strings.HasPrefix(sec.Name(), prefix) {
			continue
		}
		if sec.Key(KeyRemoteURL).String() == "" {
			continue
		}
		name := strings.Trim(strings.TrimPrefix(sec.Name(), prefix), `"`)
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RemoteSectionName returns the name of the section holding the data
// of a remote.
// ex. for `origin` returns `remote "origin"`
func RemoteSectionName(remote string) string {
	return SectionRemote + remoteSectionNameSeparator + `"` + remote + `"`
}

// NewFileAggregate loads all the available config files and returns an object
// with accessor
func NewFileAggregate(e *env.Env, cfg *Config) (confFile *FileAggregate, err error) {
	confFile = &FileAggregate{
		cfg: cfg,
	}
	configPaths := getPaths(e, cfg)

	// Because we want to use afero instead of the file system, we cannot
	// just provide the the file paths to ini.Load. Instead we need to open
	// all the files ourselves, provide the files to ini, and close everything.
	// We use []interface{} because "ini.Load" wants a slice of interfaces
	files := make([]interface{}, 0, len(configPaths))
	for _, p := range configPaths {
		_, sErr := cfg.FS.Stat(p)
		if sErr != nil {
			// not every config files are expected to exists on disk
			// so we skip all the one that doesn't
			if errors.Is(sErr, os.ErrNotExist) {
				continue
			}
			err = xerrors.Errorf("could not check file %s: %w", p, sErr)
			break
		}

		f, fErr := cfg.FS.Open(p)
		if fErr != nil {
			err = xerrors.Errorf("could not open file %s: %w", p, fErr)
			break
		}
		files = append(files, f)
	}
	defer func() {
		// we need to cleanup the file descriptors to avoid a leak
		for _, f := range files {
			//nolint:errcheck // it's expected to fail as the files are already closed.
			// go-ini already closes the files for us. This code is
			// only here to prevent a FD leak in case go-ini updates the
			// behavior and we don't see it / remember about it
			f.(io.ReadCloser).Close()
		}
	}()
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		confFile.agg = ini.Empty(DefaultLoadOption)
		return confFile, nil
	}

	// ini.Load wants the config file separated over 2 args, the second args
	// being a spreadable.
	src := files[0]
	others := files[1:]
	confFile.agg, err = ini.LoadSources(DefaultLoadOption, src, others...)
	if err != nil {
		return nil, xerrors.Errorf("could not load config file: %w", err)
	}
	return confFile, nil
}

// getPaths returns the config files to load, from the least specific
// to the most specific
func getPaths(e *env.Env, cfg *Config) []string {
	configPaths := []string{}
	// global
	if home := e.Get(env.HomeKey); home != "" {
		configPaths = append(configPaths, filepath.Join(home, globalConfigFileName))
	}
	// local
	configPaths = append(configPaths, cfg.LocalConfig)
	return configPaths
}
