package ginternals

import (
	"bytes"
	"errors"
	"path"
	"strings"

	"golang.org/x/xerrors"
)

// Common ref names
const (
	// Head is a reference to the current branch, or to a commit if
	// we're detached
	Head = "HEAD"
	// MergeHead is a reference to the commit that is being merged
	// into the current branch. It only exists during an unresolved
	// merge
	MergeHead = "MERGE_HEAD"
	// Master correspond to the default branch name if none was
	// specified
	Master = "master"
	// Origin is the name given to the remote a repository was cloned
	// from
	Origin = "origin"
)

// Refs namespaces. They're kept in UNIX format since that's how they
// are stored
const (
	RefsPrefix        = "refs/"
	RefsHeadsPrefix   = RefsPrefix + "heads/"
	RefsTagsPrefix    = RefsPrefix + "tags/"
	RefsRemotesPrefix = RefsPrefix + "remotes/"

	symbolicPrefix = "ref: "
)

var (
	// ErrRefNotFound is an error thrown when trying to act on a
	// reference that doesn't exists
	ErrRefNotFound = errors.New("reference not found")

	// ErrRefExists is an error thrown when trying to act on a
	// reference that should not exist, but does
	ErrRefExists = errors.New("reference already exists")

	// ErrRefNameInvalid is an error thrown when the name of a reference
	// is not valid
	ErrRefNameInvalid = errors.New("reference name is not valid")

	// ErrRefInvalid is an error thrown when a reference is not valid
	ErrRefInvalid = errors.New("reference is not valid")

	// ErrRefCycle is an error thrown when following symbolic references
	// leads back to a reference that has already been visited
	ErrRefCycle = errors.New("circular symbolic reference")

	// ErrUnknownRefType is an error thrown when the type of a reference
	// is unknown
	ErrUnknownRefType = errors.New("unknown reference type")
)

// ReferenceType represents the type of a reference
type ReferenceType int8

const (
	// OidReference represents a reference that targets an Oid
	OidReference ReferenceType = 1
	// SymbolicReference represents a reference that targets another
	// reference
	SymbolicReference ReferenceType = 2
)

// Reference represents a named pointer to an object, either direct or
// through another reference
type Reference struct {
	name   string
	target string
	id     Oid
	typ    ReferenceType
}

// RefContent represents a method that returns the content of reference
// This is used so we can do the process here, without depending
// on a specific backend or having circular dependencies.
// ErrRefNotFound is expected when the reference doesn't exist
type RefContent func(name string) ([]byte, error)

// NewReference return a new Reference object that targets
// an object
func NewReference(name string, target Oid) *Reference {
	return &Reference{
		typ:  OidReference,
		name: name,
		id:   target,
	}
}

// NewSymbolicReference return a new Reference object that targets
// another reference.
// Example HEAD targeting refs/heads/master
func NewSymbolicReference(name, target string) *Reference {
	return &Reference{
		typ:    SymbolicReference,
		name:   name,
		target: target,
	}
}

// Name returns the full name fo the reference:
// example: refs/heads/master
func (ref *Reference) Name() string {
	return ref.name
}

// Target returns the ID targeted by a reference.
// For a symbolic reference that hasn't been resolved NullOid is
// returned
func (ref *Reference) Target() Oid {
	return ref.id
}

// Type returns the type of a reference
func (ref *Reference) Type() ReferenceType {
	return ref.typ
}

// IsSymbolic returns whether the reference targets another reference
func (ref *Reference) IsSymbolic() bool {
	return ref.typ == SymbolicReference
}

// SymbolicTarget returns the symbolic target of a reference
func (ref *Reference) SymbolicTarget() string {
	return ref.target
}

// Validate checks that the reference has a valid name and a
// non-empty target
func (ref *Reference) Validate() error {
	if !IsRefNameValid(ref.name) {
		return xerrors.Errorf(`ref "%s": %w`, ref.name, ErrRefNameInvalid)
	}
	switch ref.typ {
	case SymbolicReference:
		if ref.target == "" {
			return xerrors.Errorf(`ref "%s" has an empty target: %w`, ref.name, ErrRefInvalid)
		}
	case OidReference:
		if ref.id.IsZero() {
			return xerrors.Errorf(`ref "%s" has an empty target: %w`, ref.name, ErrRefInvalid)
		}
	default:
		return xerrors.Errorf("reference type %d: %w", ref.typ, ErrUnknownRefType)
	}
	return nil
}

// Bytes returns the on-disk representation of the reference
func (ref *Reference) Bytes() []byte {
	if ref.typ == SymbolicReference {
		return []byte(symbolicPrefix + ref.target + "\n")
	}
	return []byte(ref.id.String() + "\n")
}

// ParseReference parses the raw content of a reference without
// following symbolic targets
func ParseReference(name string, data []byte) (*Reference, error) {
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte(symbolicPrefix)) {
		target := strings.TrimSpace(string(data[len(symbolicPrefix):]))
		if target == "" {
			return nil, xerrors.Errorf(`ref "%s": %w`, name, ErrRefInvalid)
		}
		return NewSymbolicReference(name, target), nil
	}

	oid, err := NewOidFromChars(data)
	if err != nil {
		return nil, xerrors.Errorf(`ref "%s" contains "%s": %w`, name, data, ErrRefInvalid)
	}
	return NewReference(name, oid), nil
}

// ResolveReference resolves symbolic references.
// The returned reference keeps the name and symbolic target of the
// first reference, but has the ID of the last one of the chain
func ResolveReference(name string, finder RefContent) (*Reference, error) {
	return resolveRefs(name, finder, map[string]struct{}{})
}

// resolveRefs resolves references recursively
func resolveRefs(name string, finder RefContent, visited map[string]struct{}) (*Reference, error) {
	// we need to protect ourselves against circular references
	// Ex: refs/heads/master is a ref to refs/heads/a which is a ref to
	// refs/heads/master
	if _, ok := visited[name]; ok {
		return nil, xerrors.Errorf(`ref "%s": %w`, name, ErrRefCycle)
	}
	visited[name] = struct{}{}

	if !IsRefNameValid(name) {
		return nil, xerrors.Errorf(`ref "%s": %w`, name, ErrRefNameInvalid)
	}

	data, err := finder(name)
	if err != nil {
		return nil, err
	}
	ref, err := ParseReference(name, data)
	if err != nil {
		return nil, err
	}
	if !ref.IsSymbolic() {
		return ref, nil
	}

	target, err := resolveRefs(ref.target, finder, visited)
	if err != nil {
		return nil, err
	}
	ref.id = target.id
	return ref, nil
}

// ResolvePhysicalName follows the symbolic references starting at name
// and returns the name of the reference that actually holds an Oid,
// or that doesn't exist yet.
// Ex: if HEAD targets refs/heads/master, "refs/heads/master" is returned
// even if master has no commits yet
func ResolvePhysicalName(name string, finder RefContent) (string, error) {
	visited := map[string]struct{}{}
	for {
		if _, ok := visited[name]; ok {
			return "", xerrors.Errorf(`ref "%s": %w`, name, ErrRefCycle)
		}
		visited[name] = struct{}{}

		data, err := finder(name)
		if err != nil {
			if errors.Is(err, ErrRefNotFound) {
				return name, nil
			}
			return "", err
		}
		ref, err := ParseReference(name, data)
		if err != nil {
			return "", err
		}
		if !ref.IsSymbolic() {
			return name, nil
		}
		name = ref.target
	}
}

// IsRefNameValid returns whether the name of a reference is valid or not
// https://stackoverflow.com/a/12093994/382879
func IsRefNameValid(name string) bool {
	// the reference name cannot:
	// - be empty
	// - start by a "/"
	// - end by a "/"
	// - end by .
	if name == "" || name[0] == '/' || name[len(name)-1] == '/' || name[len(name)-1] == '.' {
		return false
	}

	// the reference name cannot contain:
	// - *
	// - ?
	// - ~
	// - :
	// - ^
	// - @{
	// - \
	// - ..
	// - [
	// - a space
	// - an ASCII char below 32 or a DEL (ASCII 127)
	for i, c := range name {
		if c < 32 || c == 127 {
			return false
		}
		if c == '*' || c == '?' || c == '~' || c == '^' {
			return false
		}
		if c == ' ' || c == '[' || c == '\\' || c == ':' {
			return false
		}
		if i < len(name)-1 {
			substr := name[i : i+2]
			if substr == "@{" || substr == ".." {
				return false
			}
		}
	}

	for _, s := range strings.Split(name, "/") {
		// no segment can:
		// - be empty
		// - start by a dot
		// - end by a dot
		// - end by ".lock"
		if s == "" || s[0] == '.' || s[len(s)-1] == '.' || strings.HasSuffix(s, ".lock") {
			return false
		}
	}

	return true
}

// LocalTagFullName returns the full name of a tag
// ex. for `my-tag` returns `refs/tags/my-tag`
func LocalTagFullName(shortName string) string {
	return RefsTagsPrefix + shortName
}

// LocalBranchFullName returns the full name of branch
// ex. for `main` returns `refs/heads/main`
func LocalBranchFullName(shortName string) string {
	return RefsHeadsPrefix + shortName
}

// LocalBranchShortName returns the short name of a branch
// ex. for `refs/heads/main` returns `main`
func LocalBranchShortName(fullName string) string {
	return strings.TrimPrefix(fullName, RefsHeadsPrefix)
}

// IsLocalBranch returns whether the full name of the reference is
// part of the local branches namespace
func IsLocalBranch(fullName string) bool {
	return strings.HasPrefix(fullName, RefsHeadsPrefix)
}

// RemoteBranchFullName returns the full name of the remote-tracking
// branch of the given remote
// ex. for `origin` and `main` returns `refs/remotes/origin/main`
func RemoteBranchFullName(remote, shortName string) string {
	return path.Join(RefsRemotesPrefix, remote, shortName)
}

// RefFullName returns the UNIX path of a ref
// ex. for `heads/main` returns `refs/heads/main`
func RefFullName(shortName string) string {
	return RefsPrefix + shortName
}
