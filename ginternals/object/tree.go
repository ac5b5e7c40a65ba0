package object

import (
	"bytes"
	"sort"
	"strings"

	"github.com/Nivl/git-lite/ginternals"
	"golang.org/x/xerrors"
)

// Tree represents a tree object: the content of a directory
//
// A tree has following format, one line per entry:
//
//	{kind} {sha} {name}\n
//
// Lines are sorted by their text, which makes the encoding canonical
type Tree struct {
	rawObject *Object
	// we don't use pointers to make sure entries are immutable
	entries []TreeEntry
}

// TreeEntry represents an entry inside a tree
type TreeEntry struct {
	Name string
	ID   ginternals.Oid
	// Kind is either TypeBlob or TypeTree
	Kind Type
}

// line returns the encoded version of the entry
func (e TreeEntry) line() string {
	return e.Kind.String() + " " + e.ID.String() + " " + e.Name + "\n"
}

// ValidateEntryName checks that a name can be used as a single path
// segment
func ValidateEntryName(name string) error {
	switch name {
	case "", ".", "..":
		return xerrors.Errorf("%q: %w", name, ErrPathSegmentInvalid)
	}
	if strings.ContainsAny(name, "/\n\x00") {
		return xerrors.Errorf("%q: %w", name, ErrPathSegmentInvalid)
	}
	return nil
}

// validateEntryKind checks that the kind of an entry is allowed in a
// tree
func validateEntryKind(name string, kind Type) error {
	if kind != TypeBlob && kind != TypeTree {
		return xerrors.Errorf("entry %q has kind %s: %w", name, kind, ErrEntryKindUnknown)
	}
	return nil
}

// NewTree returns a new tree with the given entries.
// The entries are sorted to get a canonical representation
func NewTree(entries []TreeEntry) (*Tree, error) {
	names := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if err := ValidateEntryName(e.Name); err != nil {
			return nil, err
		}
		if err := validateEntryKind(e.Name, e.Kind); err != nil {
			return nil, err
		}
		if _, ok := names[e.Name]; ok {
			return nil, xerrors.Errorf("duplicate entry %q: %w", e.Name, ErrTreeInvalid)
		}
		names[e.Name] = struct{}{}
	}

	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].line() < sorted[j].line()
	})

	t := &Tree{
		entries: sorted,
	}
	t.rawObject = t.ToObject()
	return t, nil
}

// NewTreeFromObject returns a new tree from an object
func NewTreeFromObject(o *Object) (*Tree, error) {
	if o.Type() != TypeTree {
		return nil, xerrors.Errorf("object %s is a %s, expected a tree: %w", o.ID(), o.Type(), ErrTypeMismatch)
	}

	entries := []TreeEntry{}
	objData := o.Bytes()
	// the variable i is only use for error messages, not for
	// actual processing
	for i := 1; len(objData) > 0; i++ {
		end := bytes.IndexByte(objData, '\n')
		if end < 0 {
			return nil, xerrors.Errorf("entry %d is not terminated: %w", i, ErrTreeInvalid)
		}
		line := string(objData[:end])
		objData = objData[end+1:]

		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 {
			return nil, xerrors.Errorf("entry %d has %d fields: %w", i, len(parts), ErrTreeInvalid)
		}
		kind, err := NewTypeFromString(parts[0])
		if err != nil {
			return nil, xerrors.Errorf("entry %d has kind %q: %w", i, parts[0], ErrEntryKindUnknown)
		}
		if err = validateEntryKind(parts[2], kind); err != nil {
			return nil, err
		}
		id, err := ginternals.NewOidFromStr(parts[1])
		if err != nil {
			return nil, xerrors.Errorf("invalid SHA for entry %d (%s): %w", i, err.Error(), ErrTreeInvalid)
		}
		if err = ValidateEntryName(parts[2]); err != nil {
			return nil, xerrors.Errorf("entry %d: %w", i, err)
		}
		entries = append(entries, TreeEntry{
			Name: parts[2],
			ID:   id,
			Kind: kind,
		})
	}

	return &Tree{
		rawObject: o,
		entries:   entries,
	}, nil
}

// Entries returns a copy of tree entries
func (t *Tree) Entries() []TreeEntry {
	out := make([]TreeEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// ID returns the object's ID
func (t *Tree) ID() ginternals.Oid {
	return t.rawObject.ID()
}

// ToObject returns an Object representing the tree
func (t *Tree) ToObject() *Object {
	if t.rawObject != nil {
		return t.rawObject
	}

	// Quick reminder that the Write* methods on bytes.Buffer never fails,
	// the error returned is always nil
	buf := new(bytes.Buffer)
	for _, e := range t.entries {
		buf.WriteString(e.line())
	}
	return New(TypeTree, buf.Bytes())
}
