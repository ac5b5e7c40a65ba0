package git

import (
	"sort"

	"github.com/Nivl/git-lite/diff"
	"github.com/Nivl/git-lite/ginternals"
	"golang.org/x/xerrors"
)

// Status represents the state of the working tree compared to the
// index and HEAD
type Status struct {
	// Branch is the short name of the current branch. Empty if HEAD
	// is detached
	Branch string
	// Head is the commit targeted by HEAD. NullOid if the current
	// branch has no commits
	Head ginternals.Oid
	// MergeHead is the commit being merged. NullOid outside a merge
	MergeHead ginternals.Oid

	// Staged contains the changes between HEAD and the index
	Staged []diff.Change
	// Unstaged contains the changes between the index and the files
	// of the working tree that are tracked
	Unstaged []diff.Change
	// Untracked contains the files of the working tree that are
	// neither in the index nor ignored
	Untracked []string
}

// CommitFiles returns the files of the tree of a commit, indexed by
// their slash path.
// An empty map is returned for ginternals.NullOid
func (r *Repository) CommitFiles(oid ginternals.Oid) (map[string]ginternals.Oid, error) {
	if oid.IsZero() {
		return map[string]ginternals.Oid{}, nil
	}
	c, err := r.Commit(oid)
	if err != nil {
		return nil, xerrors.Errorf("could not get commit %s: %w", oid, err)
	}
	return r.ReadTree(c.TreeID())
}

// Status returns the status of the repository
func (r *Repository) Status() (*Status, error) {
	s := &Status{
		Untracked: []string{},
	}

	var err error
	if s.Branch, _, err = r.CurrentBranch(); err != nil {
		return nil, err
	}
	if s.Head, err = r.optionalRef(ginternals.Head); err != nil {
		return nil, err
	}
	if s.MergeHead, err = r.optionalRef(ginternals.MergeHead); err != nil {
		return nil, err
	}

	headFiles, err := r.CommitFiles(s.Head)
	if err != nil {
		return nil, err
	}
	idx, err := r.dotGit.ReadIndex()
	if err != nil {
		return nil, xerrors.Errorf("could not load the index: %w", err)
	}
	indexFiles := idx.Entries()
	s.Staged = diff.ClassifyChanges(headFiles, indexFiles)

	workingFiles, err := r.CaptureWorkingTree()
	if err != nil {
		return nil, xerrors.Errorf("could not read the working tree: %w", err)
	}
	tracked := make(map[string]ginternals.Oid, len(workingFiles))
	for p, oid := range workingFiles {
		if _, ok := indexFiles[p]; ok {
			tracked[p] = oid
			continue
		}
		s.Untracked = append(s.Untracked, p)
	}
	sort.Strings(s.Untracked)
	s.Unstaged = diff.ClassifyChanges(indexFiles, tracked)
	return s, nil
}
