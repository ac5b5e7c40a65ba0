package git

import (
	"errors"
	"strings"

	"github.com/Nivl/git-lite/ginternals"
	"golang.org/x/xerrors"
)

// CreateBranch creates a new local branch targeting the given commit.
// ginternals.ErrRefExists is returned if the branch already exists
func (r *Repository) CreateBranch(name string, target ginternals.Oid) (*ginternals.Reference, error) {
	return r.createRef(ginternals.LocalBranchFullName(name), target)
}

// CreateTag creates a new tag targeting the given object.
// ginternals.ErrRefExists is returned if the tag already exists
func (r *Repository) CreateTag(name string, target ginternals.Oid) (*ginternals.Reference, error) {
	return r.createRef(ginternals.LocalTagFullName(name), target)
}

func (r *Repository) createRef(fullName string, target ginternals.Oid) (*ginternals.Reference, error) {
	if _, err := r.dotGit.Object(target); err != nil {
		return nil, xerrors.Errorf("could not get object %s: %w", target, err)
	}
	ref := ginternals.NewReference(fullName, target)
	if err := r.dotGit.WriteReferenceSafe(ref); err != nil {
		return nil, err
	}
	return ref, nil
}

// BranchNames returns the short names of all the local branches,
// sorted
func (r *Repository) BranchNames() ([]string, error) {
	return r.shortRefNames(ginternals.RefsHeadsPrefix)
}

// TagNames returns the short names of all the tags, sorted
func (r *Repository) TagNames() ([]string, error) {
	return r.shortRefNames(ginternals.RefsTagsPrefix)
}

func (r *Repository) shortRefNames(prefix string) ([]string, error) {
	names := []string{}
	err := r.dotGit.WalkReferences(prefix, false, func(ref *ginternals.Reference) error {
		names = append(names, strings.TrimPrefix(ref.Name(), prefix))
		return nil
	})
	if err != nil {
		return nil, xerrors.Errorf("could not list the references: %w", err)
	}
	return names, nil
}

// CurrentBranch returns the short name of the branch targeted by HEAD.
// ok is false if HEAD is detached.
// The branch may not exist yet if no commits have been made on it
func (r *Repository) CurrentBranch() (name string, ok bool, err error) {
	head, err := r.dotGit.RawReference(ginternals.Head)
	if err != nil {
		if errors.Is(err, ginternals.ErrRefNotFound) {
			return "", false, nil
		}
		return "", false, xerrors.Errorf("could not read HEAD: %w", err)
	}
	if !head.IsSymbolic() || !ginternals.IsLocalBranch(head.SymbolicTarget()) {
		return "", false, nil
	}
	return ginternals.LocalBranchShortName(head.SymbolicTarget()), true, nil
}
