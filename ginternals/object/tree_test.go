package object_test

import (
	"fmt"
	"testing"

	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree(t *testing.T) {
	t.Parallel()

	blobID, err := ginternals.NewOidFromStr("a921a1ed31bcddeb5a51085e5d7dbdc7cf86b905")
	require.NoError(t, err)
	treeID, err := ginternals.NewOidFromStr("d28c5ff92df044a522508a29cf3fad0b812f672f")
	require.NoError(t, err)

	t.Run("encoding should be canonical", func(t *testing.T) {
		t.Parallel()

		tree, err := object.NewTree([]object.TreeEntry{
			{Name: "README.md", ID: blobID, Kind: object.TypeBlob},
		})
		require.NoError(t, err)
		assert.Equal(t, "63eedbaa67a3ed55e9c4c792869ae2563d50c0a6", tree.ID().String())
		assert.Equal(t, "blob a921a1ed31bcddeb5a51085e5d7dbdc7cf86b905 README.md\n", string(tree.ToObject().Bytes()))
	})

	t.Run("entries should be sorted by their rendered line", func(t *testing.T) {
		t.Parallel()

		entries := []object.TreeEntry{
			{Name: "src", ID: treeID, Kind: object.TypeTree},
			{Name: "b", ID: blobID, Kind: object.TypeBlob},
			{Name: "a", ID: blobID, Kind: object.TypeBlob},
		}
		reversed := []object.TreeEntry{entries[2], entries[1], entries[0]}

		tree, err := object.NewTree(entries)
		require.NoError(t, err)
		tree2, err := object.NewTree(reversed)
		require.NoError(t, err)
		assert.Equal(t, tree.ID(), tree2.ID())

		// blobs come before trees since the kind is the first field
		names := []string{}
		for _, e := range tree.Entries() {
			names = append(names, e.Name)
		}
		assert.Equal(t, []string{"a", "b", "src"}, names)
	})

	t.Run("o.AsTree().ToObject() should return the same object", func(t *testing.T) {
		t.Parallel()

		tree, err := object.NewTree([]object.TreeEntry{
			{Name: "file with spaces.txt", ID: blobID, Kind: object.TypeBlob},
			{Name: "dir", ID: treeID, Kind: object.TypeTree},
		})
		require.NoError(t, err)

		o := object.New(object.TypeTree, tree.ToObject().Bytes())
		parsed, err := o.AsTree()
		require.NoError(t, err)
		assert.Equal(t, tree.Entries(), parsed.Entries())
		assert.Equal(t, tree.ID(), parsed.ToObject().ID())
	})

	t.Run("Entries should be immutable", func(t *testing.T) {
		t.Parallel()

		tree, err := object.NewTree([]object.TreeEntry{
			{Name: "blob", ID: blobID, Kind: object.TypeBlob},
		})
		require.NoError(t, err)

		tree.Entries()[0].ID[0] = 0xe5
		assert.Equal(t, byte(0xa9), tree.Entries()[0].ID[0], "should not update entry ID")

		tree.Entries()[0].Name = "nope"
		assert.Equal(t, "blob", tree.Entries()[0].Name, "should not update entry Name")
	})

	t.Run("empty tree", func(t *testing.T) {
		t.Parallel()

		tree, err := object.NewTree(nil)
		require.NoError(t, err)
		assert.Equal(t, treeID, tree.ID())

		parsed, err := tree.ToObject().AsTree()
		require.NoError(t, err)
		assert.Empty(t, parsed.Entries())
	})
}

func TestNewTreeValidation(t *testing.T) {
	t.Parallel()

	blobID, err := ginternals.NewOidFromStr("a921a1ed31bcddeb5a51085e5d7dbdc7cf86b905")
	require.NoError(t, err)

	testCases := []struct {
		desc          string
		entries       []object.TreeEntry
		expectedError error
	}{
		{
			desc:          "name with a slash",
			entries:       []object.TreeEntry{{Name: "a/b", ID: blobID, Kind: object.TypeBlob}},
			expectedError: object.ErrPathSegmentInvalid,
		},
		{
			desc:          "dot",
			entries:       []object.TreeEntry{{Name: ".", ID: blobID, Kind: object.TypeBlob}},
			expectedError: object.ErrPathSegmentInvalid,
		},
		{
			desc:          "dot dot",
			entries:       []object.TreeEntry{{Name: "..", ID: blobID, Kind: object.TypeBlob}},
			expectedError: object.ErrPathSegmentInvalid,
		},
		{
			desc:          "empty name",
			entries:       []object.TreeEntry{{Name: "", ID: blobID, Kind: object.TypeBlob}},
			expectedError: object.ErrPathSegmentInvalid,
		},
		{
			desc:          "commit entry",
			entries:       []object.TreeEntry{{Name: "sub", ID: blobID, Kind: object.TypeCommit}},
			expectedError: object.ErrEntryKindUnknown,
		},
		{
			desc: "duplicate names",
			entries: []object.TreeEntry{
				{Name: "a", ID: blobID, Kind: object.TypeBlob},
				{Name: "a", ID: blobID, Kind: object.TypeTree},
			},
			expectedError: object.ErrTreeInvalid,
		},
	}
	for i, tc := range testCases {
		tc := tc
		i := i
		t.Run(fmt.Sprintf("%d/%s", i, tc.desc), func(t *testing.T) {
			t.Parallel()

			_, err := object.NewTree(tc.entries)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expectedError)
		})
	}
}

func TestNewTreeFromObject(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc          string
		typ           object.Type
		content       string
		expectedError error
	}{
		{
			desc:          "wrong type",
			typ:           object.TypeBlob,
			content:       "",
			expectedError: object.ErrTypeMismatch,
		},
		{
			desc:          "unknown kind",
			typ:           object.TypeTree,
			content:       "link a921a1ed31bcddeb5a51085e5d7dbdc7cf86b905 a\n",
			expectedError: object.ErrEntryKindUnknown,
		},
		{
			desc:          "commit kind",
			typ:           object.TypeTree,
			content:       "commit a921a1ed31bcddeb5a51085e5d7dbdc7cf86b905 a\n",
			expectedError: object.ErrEntryKindUnknown,
		},
		{
			desc:          "illegal name",
			typ:           object.TypeTree,
			content:       "blob a921a1ed31bcddeb5a51085e5d7dbdc7cf86b905 ..\n",
			expectedError: object.ErrPathSegmentInvalid,
		},
		{
			desc:          "missing fields",
			typ:           object.TypeTree,
			content:       "blob a921a1ed31bcddeb5a51085e5d7dbdc7cf86b905\n",
			expectedError: object.ErrTreeInvalid,
		},
		{
			desc:          "invalid oid",
			typ:           object.TypeTree,
			content:       "blob a921a1 a\n",
			expectedError: object.ErrTreeInvalid,
		},
		{
			desc:          "missing trailing newline",
			typ:           object.TypeTree,
			content:       "blob a921a1ed31bcddeb5a51085e5d7dbdc7cf86b905 a",
			expectedError: object.ErrTreeInvalid,
		},
	}
	for i, tc := range testCases {
		tc := tc
		i := i
		t.Run(fmt.Sprintf("%d/%s", i, tc.desc), func(t *testing.T) {
			t.Parallel()

			_, err := object.NewTreeFromObject(object.New(tc.typ, []byte(tc.content)))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expectedError)
		})
	}
}
