package git

import (
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/object"
	"golang.org/x/xerrors"
)

// Commit returns the commit matching the given ID
func (r *Repository) Commit(oid ginternals.Oid) (*object.Commit, error) {
	o, err := r.dotGit.ObjectOfType(oid, object.TypeCommit)
	if err != nil {
		return nil, err
	}
	return o.AsCommit()
}

// NewCommit creates a new commit from the current index, and moves
// HEAD to it.
// The parents of the commit are HEAD then MERGE_HEAD, when they exist.
// MERGE_HEAD is removed once the commit is created
func (r *Repository) NewCommit(message string) (ginternals.Oid, error) {
	treeID, err := r.WriteTree()
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not write the tree: %w", err)
	}

	parents := make([]ginternals.Oid, 0, 2)
	for _, name := range []string{ginternals.Head, ginternals.MergeHead} {
		oid, err := r.optionalRef(name)
		if err != nil {
			return ginternals.NullOid, err
		}
		if !oid.IsZero() {
			parents = append(parents, oid)
		}
	}

	oid, err := r.NewCommitFromTree(treeID, parents, message)
	if err != nil {
		return ginternals.NullOid, err
	}
	if err = r.dotGit.UpdateReference(ginternals.Head, oid); err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not update HEAD: %w", err)
	}
	if err = r.dotGit.DeleteReference(ginternals.MergeHead, false); err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not remove %s: %w", ginternals.MergeHead, err)
	}
	return oid, nil
}

// NewCommitFromTree creates and stores a new commit. No references
// are updated
func (r *Repository) NewCommitFromTree(treeID ginternals.Oid, parents []ginternals.Oid, message string) (ginternals.Oid, error) {
	c := object.NewCommit(treeID, parents, message)
	oid, err := r.dotGit.WriteObject(c.ToObject())
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not write the commit to the odb: %w", err)
	}
	return oid, nil
}
