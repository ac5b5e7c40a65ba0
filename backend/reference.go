package backend

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Nivl/git-lite/ginternals"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// refContent returns the raw content of a reference file.
// ginternals.ErrRefNotFound is returned if the file doesn't exist
func (b *Backend) refContent(name string) ([]byte, error) {
	if !ginternals.IsRefNameValid(name) {
		return nil, xerrors.Errorf(`ref "%s": %w`, name, ginternals.ErrRefNameInvalid)
	}
	p := ginternals.RefPath(b.config, name)
	info, err := b.fs.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, xerrors.Errorf(`ref "%s": %w`, name, ginternals.ErrRefNotFound)
		}
		return nil, xerrors.Errorf(`could not stat ref "%s": %w`, name, err)
	}
	// refs/heads/ml is a directory if refs/heads/ml/foo exists
	if info.IsDir() {
		return nil, xerrors.Errorf(`ref "%s": %w`, name, ginternals.ErrRefNotFound)
	}
	data, err := afero.ReadFile(b.fs, p)
	if err != nil {
		return nil, xerrors.Errorf(`could not read ref "%s": %w`, name, err)
	}
	return data, nil
}

// Reference returns a stored reference from its name. Symbolic
// references are followed until an Oid is found.
// ginternals.ErrRefNotFound is returned if the reference, or any
// reference of the chain, doesn't exist
// This method can be called concurrently
func (b *Backend) Reference(name string) (*ginternals.Reference, error) {
	return ginternals.ResolveReference(name, b.refContent)
}

// RawReference returns a stored reference from its name, without
// following symbolic references
// This method can be called concurrently
func (b *Backend) RawReference(name string) (*ginternals.Reference, error) {
	data, err := b.refContent(name)
	if err != nil {
		return nil, err
	}
	return ginternals.ParseReference(name, data)
}

// PhysicalReferenceName returns the name of the reference that is at
// the end of a chain of symbolic references. The reference doesn't
// need to exist
func (b *Backend) PhysicalReferenceName(name string) (string, error) {
	return ginternals.ResolvePhysicalName(name, b.refContent)
}

// WriteReference writes the given reference on disk. If the
// reference already exists it will be overwritten
func (b *Backend) WriteReference(ref *ginternals.Reference) error {
	if err := ref.Validate(); err != nil {
		return err
	}

	refPath := ginternals.RefPath(b.config, ref.Name())
	// Since we can have `/` in the ref name, we need to create
	// the path on the FS
	if err := b.fs.MkdirAll(filepath.Dir(refPath), 0o755); err != nil {
		return xerrors.Errorf("could not persist reference %s to disk: %w", ref.Name(), err)
	}
	if err := afero.WriteFile(b.fs, refPath, ref.Bytes(), 0o644); err != nil {
		return xerrors.Errorf("could not persist reference %s to disk: %w", ref.Name(), err)
	}
	return nil
}

// WriteReferenceSafe writes the given reference on disk.
// ginternals.ErrRefExists is returned if the reference already exists
func (b *Backend) WriteReferenceSafe(ref *ginternals.Reference) error {
	_, err := b.refContent(ref.Name())
	if err == nil {
		return xerrors.Errorf(`ref "%s": %w`, ref.Name(), ginternals.ErrRefExists)
	}
	if !errors.Is(err, ginternals.ErrRefNotFound) {
		return err
	}
	return b.WriteReference(ref)
}

// UpdateReference makes the reference at the end of the symbolic
// chain starting at name point to the given oid.
// Ex: if HEAD targets refs/heads/master, UpdateReference("HEAD", id)
// moves master
func (b *Backend) UpdateReference(name string, oid ginternals.Oid) error {
	target, err := b.PhysicalReferenceName(name)
	if err != nil {
		return xerrors.Errorf("could not resolve %s: %w", name, err)
	}
	return b.WriteReference(ginternals.NewReference(target, oid))
}

// DeleteReference removes a reference from the disk.
// If deref is true, the reference at the end of the symbolic chain
// is removed instead.
// Removing a reference that doesn't exist is a no-op
func (b *Backend) DeleteReference(name string, deref bool) error {
	if deref {
		target, err := b.PhysicalReferenceName(name)
		if err != nil {
			return xerrors.Errorf("could not resolve %s: %w", name, err)
		}
		name = target
	}
	if !ginternals.IsRefNameValid(name) {
		return xerrors.Errorf(`ref "%s": %w`, name, ginternals.ErrRefNameInvalid)
	}
	p := ginternals.RefPath(b.config, name)
	info, err := b.fs.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return xerrors.Errorf(`could not stat ref "%s": %w`, name, err)
	}
	if info.IsDir() {
		return nil
	}
	if err = b.fs.Remove(p); err != nil {
		return xerrors.Errorf(`could not remove ref "%s": %w`, name, err)
	}
	return nil
}

// referenceNames returns the sorted names of all the references
// stored on disk
func (b *Backend) referenceNames() ([]string, error) {
	names := []string{}
	for _, n := range []string{ginternals.Head, ginternals.MergeHead} {
		info, err := b.fs.Stat(ginternals.RefPath(b.config, n))
		if err == nil && !info.IsDir() {
			names = append(names, n)
		}
	}

	refsPath := ginternals.RefsPath(b.config)
	err := afero.Walk(b.fs, refsPath, func(path string, info fs.FileInfo, e error) error {
		if e != nil {
			// The refs directory may not exist yet
			if path == refsPath && errors.Is(e, os.ErrNotExist) {
				return nil
			}
			return xerrors.Errorf("could not walk %s: %w", path, e)
		}
		if info.IsDir() {
			return nil
		}
		relpath, e := filepath.Rel(b.Path(), path)
		if e != nil {
			return xerrors.Errorf("could not get the name of %s: %w", path, e)
		}
		// the name of the ref is its UNIX path
		names = append(names, filepath.ToSlash(relpath))
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("could not browse the refs directory: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// WalkReferences runs the provided method on all the references whose
// name starts with prefix, in lexicographic order.
// If deref is true, the references are resolved and the ones that
// cannot be resolved are skipped.
// Return WalkStop from f to stop walking without error
func (b *Backend) WalkReferences(prefix string, deref bool, f RefWalkFunc) error {
	names, err := b.referenceNames()
	if err != nil {
		return err
	}
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		var ref *ginternals.Reference
		if deref {
			ref, err = b.Reference(name)
		} else {
			ref, err = b.RawReference(name)
		}
		if err != nil {
			// Refs pointing to nothing, such as the HEAD of an empty
			// repository, are skipped
			if errors.Is(err, ginternals.ErrRefNotFound) ||
				errors.Is(err, ginternals.ErrRefInvalid) ||
				errors.Is(err, ginternals.ErrRefNameInvalid) ||
				errors.Is(err, ginternals.ErrRefCycle) {
				continue
			}
			return xerrors.Errorf("could not resolve reference %s: %w", name, err)
		}

		if err = f(ref); err != nil {
			if err == WalkStop { //nolint:errorlint,goerr113 // it's a fake error so no need to use Error.Is()
				return nil
			}
			return err
		}
	}
	return nil
}
