package git

import (
	"errors"

	"github.com/Nivl/git-lite/diff"
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/internal/errutil"
	"golang.org/x/xerrors"
)

// ErrNothingToMerge is returned when trying to merge into a branch
// that has no commits
var ErrNothingToMerge = errors.New("no commit to merge into")

// MergeResult contains the outcome of a merge
type MergeResult struct {
	// UpToDate is set when the commit is already part of the history
	// of HEAD. Nothing has been changed
	UpToDate bool
	// FastForward is set when HEAD has been moved to the merged commit
	FastForward bool
	// Base is the common ancestor of HEAD and the merged commit
	Base ginternals.Oid
	// Conflicts contains the paths containing conflict markers.
	// Only set for a true merge
	Conflicts []string
}

// Merge merges the given commit into HEAD.
//   - If the commit is an ancestor of HEAD, nothing happens
//   - If HEAD is an ancestor of the commit, HEAD is fast-forwarded
//     and the commit is checked out
//   - Otherwise MERGE_HEAD is set and the merged files are written
//     to the index and the working tree. The merge is concluded by
//     committing
func (r *Repository) Merge(other ginternals.Oid) (*MergeResult, error) {
	head, err := r.optionalRef(ginternals.Head)
	if err != nil {
		return nil, err
	}
	if head.IsZero() {
		return nil, ErrNothingToMerge
	}
	otherCommit, err := r.Commit(other)
	if err != nil {
		return nil, xerrors.Errorf("could not get commit %s: %w", other, err)
	}

	base, err := r.MergeBase(other, head)
	if err != nil {
		return nil, xerrors.Errorf("could not find the merge base: %w", err)
	}
	res := &MergeResult{Base: base}

	switch base {
	case other:
		res.UpToDate = true
		return res, nil
	case head:
		if err = r.CheckoutTree(otherCommit.TreeID(), true); err != nil {
			return nil, err
		}
		if err = r.Reset(other); err != nil {
			return nil, err
		}
		res.FastForward = true
		return res, nil
	}

	if err = r.dotGit.WriteReference(ginternals.NewReference(ginternals.MergeHead, other)); err != nil {
		return nil, xerrors.Errorf("could not write %s: %w", ginternals.MergeHead, err)
	}
	res.Conflicts, err = r.mergeTrees(base, head, other)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// mergeTrees writes the three-way merge of the trees of the given
// commits to the index and to the working tree
func (r *Repository) mergeTrees(base, head, other ginternals.Oid) (conflicts []string, err error) {
	trees := make([]map[string]ginternals.Oid, 3)
	for i, oid := range []ginternals.Oid{base, head, other} {
		trees[i] = map[string]ginternals.Oid{}
		// disjoint histories have no base
		if oid.IsZero() {
			continue
		}
		c, err := r.Commit(oid)
		if err != nil {
			return nil, xerrors.Errorf("could not get commit %s: %w", oid, err)
		}
		if trees[i], err = r.ReadTree(c.TreeID()); err != nil {
			return nil, xerrors.Errorf("could not read the tree of %s: %w", oid, err)
		}
	}

	merged, conflicts, err := diff.MergeTrees(r.dotGit, trees[0], trees[1], trees[2])
	if err != nil {
		return nil, xerrors.Errorf("could not merge the trees: %w", err)
	}

	tx, err := r.dotGit.LoadIndex()
	if err != nil {
		return nil, xerrors.Errorf("could not load the index: %w", err)
	}
	defer errutil.Close(tx, &err)

	previous := tx.Entries()
	tx.Replace(merged)
	if err = r.checkoutEntries(previous, merged); err != nil {
		return nil, err
	}
	return conflicts, nil
}
