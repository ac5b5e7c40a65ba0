package git

import (
	"sort"
	"strings"

	"github.com/Nivl/git-lite/backend"
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/object"
	"golang.org/x/xerrors"
)

// treeNode represents a directory being built. A node is either a
// directory (children is set) or a file (oid is set)
type treeNode struct {
	children map[string]*treeNode
	oid      ginternals.Oid
}

func newDirNode() *treeNode {
	return &treeNode{
		children: map[string]*treeNode{},
	}
}

func (n *treeNode) isDir() bool {
	return n.children != nil
}

// TreeBuilder is used to build a hierarchy of trees from a flat list
// of files
type TreeBuilder struct {
	Backend *backend.Backend
	root    *treeNode
}

// NewTreeBuilder create a new empty tree builder
func (r *Repository) NewTreeBuilder() *TreeBuilder {
	return &TreeBuilder{
		Backend: r.dotGit,
		root:    newDirNode(),
	}
}

// splitPath splits a slash path into valid segments
func splitPath(path string) ([]string, error) {
	segments := strings.Split(path, "/")
	for _, s := range segments {
		if err := object.ValidateEntryName(s); err != nil {
			return nil, xerrors.Errorf("invalid path %s: %w", path, err)
		}
	}
	return segments, nil
}

// Insert adds a blob at the given slash path. The parent directories
// are created when needed.
// object.ErrTreeInvalid is returned if a file and a directory have
// the same path
func (tb *TreeBuilder) Insert(path string, oid ginternals.Oid) error {
	segments, err := splitPath(path)
	if err != nil {
		return err
	}

	current := tb.root
	for _, dir := range segments[:len(segments)-1] {
		child, ok := current.children[dir]
		if !ok {
			child = newDirNode()
			current.children[dir] = child
		}
		if !child.isDir() {
			return xerrors.Errorf("%s is both a file and a directory: %w", path, object.ErrTreeInvalid)
		}
		current = child
	}

	name := segments[len(segments)-1]
	if child, ok := current.children[name]; ok && child.isDir() {
		return xerrors.Errorf("%s is both a file and a directory: %w", path, object.ErrTreeInvalid)
	}
	current.children[name] = &treeNode{oid: oid}
	return nil
}

// Write creates and persists all the trees, children first, and
// returns the id of the root tree
func (tb *TreeBuilder) Write() (ginternals.Oid, error) {
	return tb.write(tb.root)
}

// write persists the tree of the given directory node and returns its
// id
func (tb *TreeBuilder) write(n *treeNode) (ginternals.Oid, error) {
	names := make([]string, 0, len(n.children))
	for name := range n.children {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]object.TreeEntry, 0, len(names))
	for _, name := range names {
		child := n.children[name]
		if !child.isDir() {
			entries = append(entries, object.TreeEntry{
				Name: name,
				ID:   child.oid,
				Kind: object.TypeBlob,
			})
			continue
		}

		childID, err := tb.write(child)
		if err != nil {
			return ginternals.NullOid, err
		}
		entries = append(entries, object.TreeEntry{
			Name: name,
			ID:   childID,
			Kind: object.TypeTree,
		})
	}

	t, err := object.NewTree(entries)
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not create tree: %w", err)
	}
	oid, err := tb.Backend.WriteObject(t.ToObject())
	if err != nil {
		return ginternals.NullOid, xerrors.Errorf("could not write the object to the odb: %w", err)
	}
	return oid, nil
}
