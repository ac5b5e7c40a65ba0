// Package object contains methods and objects to work with the objects
// of the object store
package object

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/Nivl/git-lite/ginternals"
	"golang.org/x/xerrors"
)

var (
	// ErrObjectUnknown represents an error thrown when encountering an
	// unknown object
	ErrObjectUnknown = errors.New("invalid object type")

	// ErrObjectInvalid represents an error thrown when an object contains
	// unexpected data or when the wrong object is provided to a method.
	ErrObjectInvalid = errors.New("invalid object")

	// ErrTypeMismatch represents an error thrown when an object doesn't
	// have the expected type
	ErrTypeMismatch = errors.New("unexpected object type")

	// ErrTreeInvalid represents an error thrown when parsing an invalid
	// tree object
	ErrTreeInvalid = errors.New("invalid tree")

	// ErrEntryKindUnknown represents an error thrown when a tree contains
	// an entry that is neither a blob nor a tree
	ErrEntryKindUnknown = errors.New("unknown tree entry kind")

	// ErrPathSegmentInvalid represents an error thrown when the name of
	// a tree entry cannot be used as a path segment
	ErrPathSegmentInvalid = errors.New("invalid path segment")

	// ErrCommitInvalid represents an error thrown when parsing an invalid
	// commit object
	ErrCommitInvalid = errors.New("invalid commit")
)

// Type represents the type of an object
type Type int8

// List of all the possible object types
const (
	TypeCommit Type = 1
	TypeTree   Type = 2
	TypeBlob   Type = 3
)

func (t Type) String() string {
	switch t {
	case TypeCommit:
		return "commit"
	case TypeTree:
		return "tree"
	case TypeBlob:
		return "blob"
	default:
		return fmt.Sprintf("unknown(%d)", t)
	}
}

// IsValid check id the object type is an existing type
func (t Type) IsValid() bool {
	switch t {
	case TypeCommit, TypeTree, TypeBlob:
		return true
	default:
		return false
	}
}

// NewTypeFromString returns an Type from its string
// representation
func NewTypeFromString(t string) (Type, error) {
	switch t {
	case "commit":
		return TypeCommit, nil
	case "tree":
		return TypeTree, nil
	case "blob":
		return TypeBlob, nil
	default:
		return 0, xerrors.Errorf("type %q: %w", t, ErrObjectUnknown)
	}
}

// Object represents an object of the object store. An object can be
// of multiple types but they all share the same storage format:
//
//	{type}\0{content}
//
// The ID of an object is the SHA1 sum of this representation
type Object struct {
	id      ginternals.Oid
	typ     Type
	content []byte
}

// New creates a new object of the given type
func New(typ Type, content []byte) *Object {
	o := &Object{
		typ:     typ,
		content: content,
	}
	o.id = ginternals.NewOidFromContent(o.Encode())
	return o
}

// Decode parses the stored representation of an object.
// The data are split at the first NULL char
func Decode(data []byte) (*Object, error) {
	i := bytes.IndexByte(data, 0)
	if i < 0 {
		return nil, xerrors.Errorf("could not find the end of the type: %w", ErrObjectInvalid)
	}
	typ, err := NewTypeFromString(string(data[:i]))
	if err != nil {
		return nil, err
	}
	content := make([]byte, len(data)-i-1)
	copy(content, data[i+1:])
	return New(typ, content), nil
}

// ID returns the ID of the object.
func (o *Object) ID() ginternals.Oid {
	return o.id
}

// Size returns the size of the object
func (o *Object) Size() int {
	return len(o.content)
}

// Type returns the Type for this object
func (o *Object) Type() Type {
	return o.typ
}

// Bytes returns the object's contents
func (o *Object) Bytes() []byte {
	return o.content
}

// Encode returns the stored representation of the object:
// The type in ascii, followed by a NULL char, followed by the
// object data
func (o *Object) Encode() []byte {
	// Quick reminder that the Write* methods on bytes.Buffer never fails,
	// the error returned is always nil
	w := new(bytes.Buffer)
	w.Grow(len(o.content) + 7)
	w.WriteString(o.typ.String())
	w.WriteByte(0)
	w.Write(o.content)
	return w.Bytes()
}

// AsBlob parses the object as Blob
func (o *Object) AsBlob() (*Blob, error) {
	if o.typ != TypeBlob {
		return nil, xerrors.Errorf("object %s is a %s, expected a blob: %w", o.id, o.typ, ErrTypeMismatch)
	}
	return NewBlob(o), nil
}

// AsTree parses the object as Tree
func (o *Object) AsTree() (*Tree, error) {
	return NewTreeFromObject(o)
}

// AsCommit parses the object as Commit
func (o *Object) AsCommit() (*Commit, error) {
	return NewCommitFromObject(o)
}
