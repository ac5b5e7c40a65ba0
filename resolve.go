package git

import (
	"errors"

	"github.com/Nivl/git-lite/ginternals"
	"golang.org/x/xerrors"
)

// ErrUnknownName is returned when a name cannot be resolved to an
// object
var ErrUnknownName = errors.New("unknown name")

// ResolveName returns the object id targeted by a name. The name is
// looked for, in order:
//   - as a reference ("@" being an alias of HEAD)
//   - under refs/
//   - as a tag
//   - as a branch
//   - as a raw object id
func (r *Repository) ResolveName(name string) (ginternals.Oid, error) {
	if name == "@" {
		name = ginternals.Head
	}

	candidates := []string{
		name,
		ginternals.RefFullName(name),
		ginternals.LocalTagFullName(name),
		ginternals.LocalBranchFullName(name),
	}
	for _, refName := range candidates {
		if !ginternals.IsRefNameValid(refName) {
			continue
		}
		ref, err := r.dotGit.Reference(refName)
		if err == nil {
			return ref.Target(), nil
		}
		// if the ref doesn't exist we test the the next one
		if !errors.Is(err, ginternals.ErrRefNotFound) {
			return ginternals.NullOid, xerrors.Errorf("could not check if ref %s exists: %w", refName, err)
		}
	}

	if ginternals.IsOidString(name) {
		return ginternals.NewOidFromStr(name)
	}
	return ginternals.NullOid, xerrors.Errorf("%s: %w", name, ErrUnknownName)
}
