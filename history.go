package git

import (
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/object"
	"golang.org/x/xerrors"
)

// CommitWalkFunc represents a function that will be applied on every
// commit visited by WalkHistory()
type CommitWalkFunc = func(oid ginternals.Oid, c *object.Commit) error

// ObjectWalkFunc represents a function that will be applied on every
// object visited by WalkReachableObjects()
type ObjectWalkFunc = func(oid ginternals.Oid, typ object.Type) error

// WalkHistory runs the provided method on every commit reachable from
// the given commits, each commit being visited once.
// The first parent of a commit is visited right after it, the other
// parents are visited last, so the main line comes first.
// Null oids are skipped.
// Return WalkStop from f to stop walking without error
func (r *Repository) WalkHistory(roots []ginternals.Oid, f CommitWalkFunc) error {
	queue := make([]ginternals.Oid, len(roots))
	copy(queue, roots)
	visited := map[ginternals.Oid]struct{}{}

	for len(queue) > 0 {
		oid := queue[0]
		queue = queue[1:]
		if oid.IsZero() {
			continue
		}
		if _, ok := visited[oid]; ok {
			continue
		}
		visited[oid] = struct{}{}

		c, err := r.Commit(oid)
		if err != nil {
			return xerrors.Errorf("could not get commit %s: %w", oid, err)
		}
		if err = f(oid, c); err != nil {
			if err == WalkStop { //nolint:errorlint,goerr113 // it's a fake error so no need to use Error.Is()
				return nil
			}
			return err
		}

		parents := c.ParentIDs()
		if len(parents) > 0 {
			queue = append([]ginternals.Oid{parents[0]}, queue...)
			queue = append(queue, parents[1:]...)
		}
	}
	return nil
}

// History returns the commits reachable from the given commits, in
// the order of WalkHistory()
func (r *Repository) History(roots ...ginternals.Oid) ([]ginternals.Oid, error) {
	out := []ginternals.Oid{}
	err := r.WalkHistory(roots, func(oid ginternals.Oid, _ *object.Commit) error {
		out = append(out, oid)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MergeBase returns the closest common ancestor of two commits.
// The returned commit is the first commit of b's history that is
// also part of a's history.
// ginternals.NullOid is returned if the histories are disjoint
func (r *Repository) MergeBase(a, b ginternals.Oid) (ginternals.Oid, error) {
	ancestors := map[ginternals.Oid]struct{}{}
	err := r.WalkHistory([]ginternals.Oid{a}, func(oid ginternals.Oid, _ *object.Commit) error {
		ancestors[oid] = struct{}{}
		return nil
	})
	if err != nil {
		return ginternals.NullOid, err
	}

	base := ginternals.NullOid
	err = r.WalkHistory([]ginternals.Oid{b}, func(oid ginternals.Oid, _ *object.Commit) error {
		if _, ok := ancestors[oid]; ok {
			base = oid
			return WalkStop
		}
		return nil
	})
	if err != nil {
		return ginternals.NullOid, err
	}
	return base, nil
}

// IsAncestor returns whether candidate is part of the history of
// commit. A commit is its own ancestor
func (r *Repository) IsAncestor(commit, candidate ginternals.Oid) (bool, error) {
	found := false
	err := r.WalkHistory([]ginternals.Oid{commit}, func(oid ginternals.Oid, _ *object.Commit) error {
		if oid == candidate {
			found = true
			return WalkStop
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

// WalkReachableObjects runs the provided method on every commit
// reachable from the given commits, and on every tree and blob
// reachable from those commits. Each object is visited once.
// Return WalkStop from f to stop walking without error
func (r *Repository) WalkReachableObjects(roots []ginternals.Oid, f ObjectWalkFunc) error {
	visited := map[ginternals.Oid]struct{}{}

	var walkTree func(oid ginternals.Oid) error
	walkTree = func(oid ginternals.Oid) error {
		visited[oid] = struct{}{}
		if err := f(oid, object.TypeTree); err != nil {
			return err
		}
		t, err := r.Tree(oid)
		if err != nil {
			return xerrors.Errorf("could not get tree %s: %w", oid, err)
		}
		for _, e := range t.Entries() {
			if _, ok := visited[e.ID]; ok {
				continue
			}
			switch e.Kind {
			case object.TypeTree:
				if err = walkTree(e.ID); err != nil {
					return err
				}
			case object.TypeBlob:
				visited[e.ID] = struct{}{}
				if err = f(e.ID, object.TypeBlob); err != nil {
					return err
				}
			default:
				return xerrors.Errorf("entry %s of tree %s: %w", e.Name, oid, object.ErrEntryKindUnknown)
			}
		}
		return nil
	}

	return r.WalkHistory(roots, func(oid ginternals.Oid, c *object.Commit) error {
		if err := f(oid, object.TypeCommit); err != nil {
			return err
		}
		if _, ok := visited[c.TreeID()]; ok {
			return nil
		}
		return walkTree(c.TreeID())
	})
}

// ReachableObjects returns the set of objects reachable from the
// given commits
func (r *Repository) ReachableObjects(roots ...ginternals.Oid) (map[ginternals.Oid]object.Type, error) {
	out := map[ginternals.Oid]object.Type{}
	err := r.WalkReachableObjects(roots, func(oid ginternals.Oid, typ object.Type) error {
		out[oid] = typ
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
