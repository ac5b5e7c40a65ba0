package git

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/internal/errutil"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// List of errors returned when working with the working tree
var (
	ErrPathNotFound        = errors.New("path not found")
	ErrPathOutsideWorkTree = errors.New("path is outside of the working tree")
)

// relativePath returns the slash path of p relative to the working
// tree. p can be absolute, or relative to the working tree.
// An empty string is returned for the root of the working tree
func (r *Repository) relativePath(p string) (string, error) {
	if !filepath.IsAbs(p) {
		p = filepath.Join(r.Config.WorkTreePath, p)
	}
	rel, err := filepath.Rel(r.Config.WorkTreePath, p)
	if err != nil {
		return "", xerrors.Errorf("%s: %w", p, ErrPathOutsideWorkTree)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", xerrors.Errorf("%s: %w", p, ErrPathOutsideWorkTree)
	}
	if rel == "." {
		return "", nil
	}
	return rel, nil
}

// walkWorkingTree calls f on every regular file under the given
// directory of the working tree that is not ignored.
// dir is a slash path relative to the working tree
func (r *Repository) walkWorkingTree(dir string, f func(path string) error) error {
	root := filepath.Join(r.Config.WorkTreePath, filepath.FromSlash(dir))
	return afero.Walk(r.wt, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return xerrors.Errorf("could not walk %s: %w", p, err)
		}
		if info.IsDir() && p == r.Config.GitDirPath {
			return filepath.SkipDir
		}
		rel, err := r.relativePath(p)
		if err != nil {
			return err
		}
		if rel == "" {
			return nil
		}
		if r.IsIgnored(rel, info.IsDir()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		return f(rel)
	})
}

// storeFile writes the content of a file of the working tree to the
// odb and returns the id of the blob
func (r *Repository) storeFile(path string) (ginternals.Oid, error) {
	data, err := afero.ReadFile(r.wt, filepath.Join(r.Config.WorkTreePath, filepath.FromSlash(path)))
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not read %s: %w", path, err)
	}
	blob, err := r.NewBlob(data)
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not store %s: %w", path, err)
	}
	return blob.ID(), nil
}

// CaptureWorkingTree returns every file of the working tree that
// isn't ignored, indexed by their slash path.
// The content of the files is stored in the odb
func (r *Repository) CaptureWorkingTree() (map[string]ginternals.Oid, error) {
	out := map[string]ginternals.Oid{}
	err := r.walkWorkingTree("", func(path string) error {
		oid, err := r.storeFile(path)
		if err != nil {
			return err
		}
		out[path] = oid
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Add stores the given files and records them in the index.
// Directories are added recursively, skipping ignored files, and the
// files that don't exist anymore are removed from the index.
// A path can be absolute, or relative to the working tree.
// A path that is neither on disk nor in the index fails with
// ErrPathNotFound
func (r *Repository) Add(paths ...string) (err error) {
	tx, err := r.dotGit.LoadIndex()
	if err != nil {
		return xerrors.Errorf("could not load the index: %w", err)
	}
	defer errutil.Close(tx, &err)

	for _, p := range paths {
		rel, err := r.relativePath(p)
		if err != nil {
			return err
		}
		if err = r.add(tx.Index, rel); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) add(idx *ginternals.Index, path string) error {
	// files of the index that are part of path
	tracked := []string{}
	for _, p := range idx.Paths() {
		if path == "" || p == path || strings.HasPrefix(p, path+"/") {
			tracked = append(tracked, p)
		}
	}

	info, err := r.wt.Stat(filepath.Join(r.Config.WorkTreePath, filepath.FromSlash(path)))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return xerrors.Errorf("could not stat %s: %w", path, err)
		}
		if len(tracked) == 0 {
			return xerrors.Errorf("%s: %w", path, ErrPathNotFound)
		}
		for _, p := range tracked {
			idx.Delete(p)
		}
		return nil
	}

	if !info.IsDir() {
		// a file that is explicitly named is added even if ignored
		oid, err := r.storeFile(path)
		if err != nil {
			return err
		}
		idx.Set(path, oid)
		return nil
	}

	found := map[string]struct{}{}
	err = r.walkWorkingTree(path, func(p string) error {
		oid, err := r.storeFile(p)
		if err != nil {
			return err
		}
		idx.Set(p, oid)
		found[p] = struct{}{}
		return nil
	})
	if err != nil {
		return err
	}
	for _, p := range tracked {
		if _, ok := found[p]; !ok {
			idx.Delete(p)
		}
	}
	return nil
}

// CheckoutTree replaces the content of the index by the files of
// the given tree. If updateWorking is set, the working tree is
// updated as well: the files tracked by the previous index are
// removed, then the files of the tree are written.
// This operation is not atomic
func (r *Repository) CheckoutTree(treeID ginternals.Oid, updateWorking bool) (err error) {
	entries, err := r.ReadTree(treeID)
	if err != nil {
		return xerrors.Errorf("could not read tree %s: %w", treeID, err)
	}

	tx, err := r.dotGit.LoadIndex()
	if err != nil {
		return xerrors.Errorf("could not load the index: %w", err)
	}
	defer errutil.Close(tx, &err)

	previous := tx.Entries()
	tx.Replace(entries)
	if !updateWorking {
		return nil
	}
	return r.checkoutEntries(previous, entries)
}

// checkoutEntries removes the files of previous from the working
// tree and writes the ones of next
func (r *Repository) checkoutEntries(previous, next map[string]ginternals.Oid) error {
	dirs := map[string]struct{}{}
	for p := range previous {
		if r.IsIgnored(p, false) {
			continue
		}
		fullPath := filepath.Join(r.Config.WorkTreePath, filepath.FromSlash(p))
		if err := r.wt.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return xerrors.Errorf("could not remove %s: %w", p, err)
		}
		for dir := filepath.Dir(fullPath); dir != r.Config.WorkTreePath && dir != "." && dir != string(filepath.Separator); dir = filepath.Dir(dir) {
			dirs[dir] = struct{}{}
		}
	}
	r.pruneDirs(dirs)

	for p, oid := range next {
		blob, err := r.Blob(oid)
		if err != nil {
			return xerrors.Errorf("could not get the content of %s: %w", p, err)
		}
		fullPath := filepath.Join(r.Config.WorkTreePath, filepath.FromSlash(p))
		if err = r.wt.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			return xerrors.Errorf("could not create the parent directories of %s: %w", p, err)
		}
		if err = afero.WriteFile(r.wt, fullPath, blob.Bytes(), 0o644); err != nil {
			return xerrors.Errorf("could not write %s: %w", p, err)
		}
	}
	return nil
}

// pruneDirs removes the given directories if they are empty, deepest
// first. Errors are ignored since a directory may be removed or
// filled by someone else in the meantime
func (r *Repository) pruneDirs(dirs map[string]struct{}) {
	sorted := make([]string, 0, len(dirs))
	for d := range dirs {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	for _, d := range sorted {
		if empty, err := afero.IsEmpty(r.wt, d); err == nil && empty {
			r.wt.Remove(d) //nolint:errcheck // races are ignored
		}
	}
}

// IsBranch returns whether the given short name is a local branch
func (r *Repository) IsBranch(name string) (bool, error) {
	fullName := ginternals.LocalBranchFullName(name)
	if !ginternals.IsRefNameValid(fullName) {
		return false, nil
	}
	_, err := r.dotGit.RawReference(fullName)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ginternals.ErrRefNotFound) {
		return false, nil
	}
	return false, xerrors.Errorf("could not read %s: %w", fullName, err)
}

// Checkout updates the index and the working tree to the commit
// targeted by name, then moves HEAD.
// HEAD targets the branch if name is a local branch, otherwise HEAD
// is detached on the commit
func (r *Repository) Checkout(name string) error {
	oid, err := r.ResolveName(name)
	if err != nil {
		return err
	}
	c, err := r.Commit(oid)
	if err != nil {
		return xerrors.Errorf("could not get commit %s: %w", oid, err)
	}
	if err = r.CheckoutTree(c.TreeID(), true); err != nil {
		return err
	}

	isBranch, err := r.IsBranch(name)
	if err != nil {
		return err
	}
	head := ginternals.NewReference(ginternals.Head, oid)
	if isBranch {
		head = ginternals.NewSymbolicReference(ginternals.Head, ginternals.LocalBranchFullName(name))
	}
	if err = r.dotGit.WriteReference(head); err != nil {
		return xerrors.Errorf("could not update HEAD: %w", err)
	}
	return nil
}

// Reset moves the reference targeted by HEAD to the given commit.
// The index and the working tree are left untouched
func (r *Repository) Reset(oid ginternals.Oid) error {
	if err := r.dotGit.UpdateReference(ginternals.Head, oid); err != nil {
		return xerrors.Errorf("could not update HEAD: %w", err)
	}
	return nil
}
