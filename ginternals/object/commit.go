package object

import (
	"bytes"
	"strings"

	"github.com/Nivl/git-lite/ginternals"
	"golang.org/x/xerrors"
)

// Commit represents a commit object
type Commit struct {
	rawObject *Object

	message   string
	parentIDs []ginternals.Oid
	treeID    ginternals.Oid
}

// NewCommit creates a new Commit object
// Any provided Oids won't be check.
// The first parent is the primary parent of the commit
func NewCommit(treeID ginternals.Oid, parentIDs []ginternals.Oid, message string) *Commit {
	parents := make([]ginternals.Oid, len(parentIDs))
	copy(parents, parentIDs)

	c := &Commit{
		treeID:    treeID,
		parentIDs: parents,
		message:   message,
	}
	c.rawObject = c.ToObject()
	return c
}

// NewCommitFromObject creates a commit from a raw object
//
// A commit has following format:
//
//	tree {sha}
//	parent {sha}
//	{a blank line}
//	{commit message}
//
// Note:
//   - A commit can have 0, 1, or 2 parents lines, in order.
//     The very first commit of a repo has no parents
//     A regular commit as 1 parent
//     A merge commit has 2 parents
//   - The message may contain any number of lines. The newline added
//     after the message during the encoding is removed
func NewCommitFromObject(o *Object) (*Commit, error) {
	if o.Type() != TypeCommit {
		return nil, xerrors.Errorf("object %s is a %s, expected a commit: %w", o.ID(), o.Type(), ErrTypeMismatch)
	}
	ci := &Commit{
		rawObject: o,
		parentIDs: []ginternals.Oid{},
	}

	hasTree := false
	objData := o.Bytes()
	for {
		end := bytes.IndexByte(objData, '\n')
		if end < 0 {
			return nil, xerrors.Errorf("commit %s has no message separator: %w", o.ID(), ErrCommitInvalid)
		}
		line := objData[:end]
		objData = objData[end+1:]

		// if we got an empty line, it means everything from now to the end
		// will be the commit message
		if len(line) == 0 {
			ci.message = strings.TrimSuffix(string(objData), "\n")
			break
		}

		// Otherwise we're getting a key/value pair, separated by a space
		key, value, _ := bytes.Cut(line, []byte{' '})
		switch string(key) {
		case "tree":
			if hasTree {
				return nil, xerrors.Errorf("commit %s has multiple trees: %w", o.ID(), ErrCommitInvalid)
			}
			oid, err := ginternals.NewOidFromChars(value)
			if err != nil {
				return nil, xerrors.Errorf("could not parse tree id %q: %w", value, ErrCommitInvalid)
			}
			ci.treeID = oid
			hasTree = true
		case "parent":
			oid, err := ginternals.NewOidFromChars(value)
			if err != nil {
				return nil, xerrors.Errorf("could not parse parent id %q: %w", value, ErrCommitInvalid)
			}
			ci.parentIDs = append(ci.parentIDs, oid)
		default:
			return nil, xerrors.Errorf("commit %s has unknown field %q: %w", o.ID(), key, ErrCommitInvalid)
		}
	}

	if !hasTree {
		return nil, xerrors.Errorf("commit %s has no tree: %w", o.ID(), ErrCommitInvalid)
	}
	return ci, nil
}

// ID returns the SHA of the commit object
func (c *Commit) ID() ginternals.Oid {
	return c.rawObject.ID()
}

// TreeID returns the SHA of the commit's tree
func (c *Commit) TreeID() ginternals.Oid {
	return c.treeID
}

// ParentIDs returns a copy of the SHAs of the parents, the primary
// parent first
func (c *Commit) ParentIDs() []ginternals.Oid {
	out := make([]ginternals.Oid, len(c.parentIDs))
	copy(out, c.parentIDs)
	return out
}

// Message returns the commit's message
func (c *Commit) Message() string {
	return c.message
}

// ToObject returns the underlying Object
func (c *Commit) ToObject() *Object {
	if c.rawObject != nil {
		return c.rawObject
	}

	// Quick reminder that the Write* methods on bytes.Buffer never fails,
	// the error returned is always nil
	buf := new(bytes.Buffer)
	buf.WriteString("tree ")
	buf.WriteString(c.treeID.String())
	buf.WriteByte('\n')
	for _, parent := range c.parentIDs {
		buf.WriteString("parent ")
		buf.WriteString(parent.String())
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.WriteString(c.message)
	buf.WriteByte('\n')

	return New(TypeCommit, buf.Bytes())
}
