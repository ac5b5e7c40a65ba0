package backend

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/config"
	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
	"gopkg.in/ini.v1"
)

// Init initializes a repository: creates the directories, the default
// config, and a HEAD pointing to the given branch
// This method cannot be called concurrently with other methods
func (b *Backend) Init(branchName string) error {
	// Create the directories
	dirs := []string{
		b.Path(),
		ginternals.TagsPath(b.config),
		ginternals.LocalBranchesPath(b.config),
		ginternals.ObjectsPath(b.config),
	}
	for _, d := range dirs {
		if err := b.fs.MkdirAll(d, 0o755); err != nil {
			return xerrors.Errorf("could not create directory %s: %w", d, err)
		}
	}

	if err := b.setDefaultCfg(); err != nil {
		return xerrors.Errorf("could not set the default config: %w", err)
	}

	ref := ginternals.NewSymbolicReference(ginternals.Head, ginternals.LocalBranchFullName(branchName))
	if err := b.WriteReferenceSafe(ref); err != nil {
		return xerrors.Errorf("could not write HEAD: %w", err)
	}
	return nil
}

// setDefaultCfg set and persists the default configuration for
// the repository
func (b *Backend) setDefaultCfg() error {
	return b.updateLocalConfig(func(cfg *ini.File) error {
		core, err := cfg.NewSection(config.SectionCore)
		if err != nil {
			return xerrors.Errorf("could not create core section: %w", err)
		}
		if _, err := core.NewKey(config.KeyCoreRepoFormatVersion, "0"); err != nil {
			return xerrors.Errorf("could not set %s: %w", config.KeyCoreRepoFormatVersion, err)
		}
		return nil
	})
}

// SetRemote persists the location of a remote in the local config
// file. An existing remote with the same name is updated
func (b *Backend) SetRemote(name, url string) error {
	return b.updateLocalConfig(func(cfg *ini.File) error {
		sec, err := cfg.NewSection(config.RemoteSectionName(name))
		if err != nil {
			return xerrors.Errorf("could not create remote section: %w", err)
		}
		sec.Key(config.KeyRemoteURL).SetValue(url)
		return nil
	})
}

// updateLocalConfig loads the local config file, applies the changes,
// persists the file, then reloads the config
func (b *Backend) updateLocalConfig(update func(cfg *ini.File) error) (err error) {
	p := ginternals.ConfigPath(b.config)
	cfg := ini.Empty(config.DefaultLoadOption)
	data, err := afero.ReadFile(b.fs, p)
	switch {
	case err == nil:
		cfg, err = ini.LoadSources(config.DefaultLoadOption, data)
		if err != nil {
			return xerrors.Errorf("could not parse %s: %w", p, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return xerrors.Errorf("could not read %s: %w", p, err)
	}

	if err = update(cfg); err != nil {
		return err
	}

	buf := new(bytes.Buffer)
	if _, err = cfg.WriteTo(buf); err != nil {
		return xerrors.Errorf("could not encode the config: %w", err)
	}
	if err = b.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return xerrors.Errorf("could not create the directory of %s: %w", p, err)
	}
	if err = b.writeFile(p, buf.Bytes()); err != nil {
		return err
	}

	if err = b.config.Reload(); err != nil {
		return xerrors.Errorf("could not reload the config: %w", err)
	}
	return nil
}

// writeFile creates or truncates the file at p and writes data in it
func (b *Backend) writeFile(p string, data []byte) (err error) {
	f, err := b.fs.Create(p)
	if err != nil {
		return xerrors.Errorf("could not create %s: %w", p, err)
	}
	defer errutil.Close(f, &err)
	if _, err = f.Write(data); err != nil {
		return xerrors.Errorf("could not write %s: %w", p, err)
	}
	return nil
}
