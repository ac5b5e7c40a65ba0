// Package remote contains the methods used to synchronize two
// repositories reachable through the filesystem
package remote

import (
	"errors"
	"strings"

	git "github.com/Nivl/git-lite"
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/object"
	"golang.org/x/xerrors"
)

// ErrNonFastForward is returned when a push would drop commits from
// the remote
var ErrNonFastForward = errors.New("non fast-forward update")

// ListRefs returns HEAD and every reference under refs/ that targets
// a commit, indexed by their full name
func ListRefs(r *git.Repository) (map[string]ginternals.Oid, error) {
	refs := map[string]ginternals.Oid{}
	err := r.Backend().WalkReferences("", true, func(ref *ginternals.Reference) error {
		if ref.Name() == ginternals.Head || strings.HasPrefix(ref.Name(), ginternals.RefsPrefix) {
			refs[ref.Name()] = ref.Target()
		}
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("could not list the references: %w", err)
	}
	return refs, nil
}

// copyObjects copies every object reachable from roots in src that dst
// is missing, and returns the number of objects copied.
// Objects reachable from skip in src are expected to already be in
// dst and are not copied
func copyObjects(dst, src *git.Repository, roots, skip []ginternals.Oid) (int, error) {
	known := map[ginternals.Oid]object.Type{}
	if len(skip) > 0 {
		var err error
		if known, err = src.ReachableObjects(skip...); err != nil {
			return 0, xerrors.Errorf("could not list the objects to skip: %w", err)
		}
	}

	copied := 0
	err := src.WalkReachableObjects(roots, func(oid ginternals.Oid, _ object.Type) error {
		if _, ok := known[oid]; ok {
			return nil
		}
		found, err := dst.Backend().HasObject(oid)
		if err != nil {
			return xerrors.Errorf("could not check object %s: %w", oid, err)
		}
		if found {
			return nil
		}
		if err = dst.Backend().CopyObject(oid, src.Backend()); err != nil {
			return xerrors.Errorf("could not copy object %s: %w", oid, err)
		}
		copied++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return copied, nil
}

// branchRefs returns the refs/heads/ references of refs
func branchRefs(refs map[string]ginternals.Oid) map[string]ginternals.Oid {
	out := map[string]ginternals.Oid{}
	for name, oid := range refs {
		if ginternals.IsLocalBranch(name) {
			out[name] = oid
		}
	}
	return out
}

// values returns the oids of refs
func values(refs map[string]ginternals.Oid) []ginternals.Oid {
	out := make([]ginternals.Oid, 0, len(refs))
	for _, oid := range refs {
		out = append(out, oid)
	}
	return out
}

// Fetch copies the objects of remote that are missing from local, and
// stores every branch of remote as a remote-tracking branch of local,
// under refs/remotes/<remoteName>/.
// If the current branch of local is an ancestor of its counterpart on
// the remote, the branch is fast-forwarded along with the index and
// the working tree.
// The number of objects fetched is returned
func Fetch(local, remote *git.Repository, remoteName string) (int, error) {
	refs, err := ListRefs(remote)
	if err != nil {
		return 0, err
	}
	copied, err := copyObjects(local, remote, values(refs), nil)
	if err != nil {
		return 0, err
	}

	branches := branchRefs(refs)
	for name, oid := range branches {
		tracking := ginternals.RemoteBranchFullName(remoteName, ginternals.LocalBranchShortName(name))
		if err = local.Backend().WriteReference(ginternals.NewReference(tracking, oid)); err != nil {
			return 0, xerrors.Errorf("could not write %s: %w", tracking, err)
		}
	}

	branch, ok, err := local.CurrentBranch()
	if err != nil {
		return 0, err
	}
	if !ok {
		return copied, nil
	}
	fetched, ok := branches[ginternals.LocalBranchFullName(branch)]
	if !ok {
		return copied, nil
	}
	if err = fastForward(local, fetched); err != nil {
		return 0, err
	}
	return copied, nil
}

// fastForward moves the current branch of r to target if target
// descends from it (or if the branch has no commits yet), and checks
// target out
func fastForward(r *git.Repository, target ginternals.Oid) error {
	current, err := r.Head()
	switch {
	case err == nil:
		if current == target {
			return nil
		}
		ok, err := r.IsAncestor(target, current)
		if err != nil {
			return xerrors.Errorf("could not check the ancestry of %s: %w", target, err)
		}
		if !ok {
			return nil
		}
	case errors.Is(err, ginternals.ErrRefNotFound):
	default:
		return xerrors.Errorf("could not resolve HEAD: %w", err)
	}

	c, err := r.Commit(target)
	if err != nil {
		return xerrors.Errorf("could not get commit %s: %w", target, err)
	}
	if err = r.CheckoutTree(c.TreeID(), true); err != nil {
		return xerrors.Errorf("could not check out %s: %w", target, err)
	}
	return r.Reset(target)
}

// Push sends the commit targeted by refName in local to the remote
// and updates the same reference on the remote. refName can be the
// short name of a branch.
// ErrNonFastForward is returned if the remote reference targets a
// commit that is not part of the local history.
// If the remote has the reference checked out, or has no commits
// checked out, its index and working tree are updated.
// The number of objects pushed is returned
func Push(local, remote *git.Repository, refName string) (int, error) {
	if !strings.HasPrefix(refName, ginternals.RefsPrefix) {
		refName = ginternals.LocalBranchFullName(refName)
	}
	ref, err := local.Reference(refName)
	if err != nil {
		return 0, xerrors.Errorf("could not resolve %s: %w", refName, err)
	}
	target := ref.Target()

	remoteTarget := ginternals.NullOid
	remoteRef, err := remote.Reference(refName)
	switch {
	case err == nil:
		remoteTarget = remoteRef.Target()
	case errors.Is(err, ginternals.ErrRefNotFound):
	default:
		return 0, xerrors.Errorf("could not resolve %s on the remote: %w", refName, err)
	}

	skip := []ginternals.Oid{}
	if !remoteTarget.IsZero() {
		ok, err := local.IsAncestor(target, remoteTarget)
		if err != nil {
			return 0, xerrors.Errorf("could not check the ancestry of %s: %w", remoteTarget, err)
		}
		if !ok {
			return 0, xerrors.Errorf("%s: %w", refName, ErrNonFastForward)
		}
		skip = append(skip, remoteTarget)
	}

	pushed, err := copyObjects(remote, local, []ginternals.Oid{target}, skip)
	if err != nil {
		return 0, err
	}
	if err = remote.Backend().WriteReference(ginternals.NewReference(refName, target)); err != nil {
		return 0, xerrors.Errorf("could not update %s on the remote: %w", refName, err)
	}

	if err = syncCheckout(remote, refName, target); err != nil {
		return 0, err
	}
	return pushed, nil
}

// syncCheckout updates the index and the working tree of r to target
// if r has refName checked out, or has no commits checked out
func syncCheckout(r *git.Repository, refName string, target ginternals.Oid) error {
	physical, err := r.Backend().PhysicalReferenceName(ginternals.Head)
	if err != nil {
		return xerrors.Errorf("could not resolve HEAD on the remote: %w", err)
	}
	if physical != refName {
		_, err = r.Head()
		if err == nil {
			return nil
		}
		if !errors.Is(err, ginternals.ErrRefNotFound) {
			return xerrors.Errorf("could not resolve HEAD on the remote: %w", err)
		}
	}

	c, err := r.Commit(target)
	if err != nil {
		return xerrors.Errorf("could not get commit %s: %w", target, err)
	}
	if err = r.CheckoutTree(c.TreeID(), true); err != nil {
		return xerrors.Errorf("could not update the working tree of the remote: %w", err)
	}
	return nil
}
