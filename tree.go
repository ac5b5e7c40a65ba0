package git

import (
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/object"
	"golang.org/x/xerrors"
)

// WriteTree writes the tree of the current index and returns its id
func (r *Repository) WriteTree() (ginternals.Oid, error) {
	idx, err := r.dotGit.ReadIndex()
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not load the index: %w", err)
	}
	return r.WriteTreeFromEntries(idx.Entries())
}

// WriteTreeFromEntries writes the hierarchy of trees containing the
// given files and returns the id of the root tree.
// The id doesn't depend on the order of the entries
func (r *Repository) WriteTreeFromEntries(entries map[string]ginternals.Oid) (ginternals.Oid, error) {
	tb := r.NewTreeBuilder()
	for p, oid := range entries {
		if err := tb.Insert(p, oid); err != nil {
			return ginternals.NullOid, err
		}
	}
	return tb.Write()
}

// ReadTree returns all the files of a tree and its sub-trees, indexed
// by their slash path.
// An empty map is returned for ginternals.NullOid
func (r *Repository) ReadTree(oid ginternals.Oid) (map[string]ginternals.Oid, error) {
	out := map[string]ginternals.Oid{}
	if oid.IsZero() {
		return out, nil
	}
	if err := r.readTree(oid, "", out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) readTree(oid ginternals.Oid, base string, out map[string]ginternals.Oid) error {
	t, err := r.Tree(oid)
	if err != nil {
		return xerrors.Errorf("could not get tree %s: %w", oid, err)
	}
	for _, e := range t.Entries() {
		p := base + e.Name
		switch e.Kind {
		case object.TypeBlob:
			out[p] = e.ID
		case object.TypeTree:
			if err = r.readTree(e.ID, p+"/", out); err != nil {
				return err
			}
		default:
			return xerrors.Errorf("entry %s of tree %s: %w", p, oid, object.ErrEntryKindUnknown)
		}
	}
	return nil
}
