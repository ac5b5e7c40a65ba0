package git_test

import (
	"fmt"
	"testing"

	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTreeFromEntries(t *testing.T) {
	t.Parallel()

	t.Run("should hash a single file", func(t *testing.T) {
		t.Parallel()

		r := newTestRepo(t)
		blob, err := r.NewBlob([]byte("hello\n"))
		require.NoError(t, err)
		require.Equal(t, "a921a1ed31bcddeb5a51085e5d7dbdc7cf86b905", blob.ID().String())

		oid, err := r.WriteTreeFromEntries(map[string]ginternals.Oid{
			"hello.txt": blob.ID(),
		})
		require.NoError(t, err)
		assert.Equal(t, "9b1851144001da94ddb12ab3b5168211f16fa951", oid.String())
	})

	t.Run("should write an empty tree", func(t *testing.T) {
		t.Parallel()

		r := newTestRepo(t)
		oid, err := r.WriteTreeFromEntries(map[string]ginternals.Oid{})
		require.NoError(t, err)
		assert.Equal(t, "d28c5ff92df044a522508a29cf3fad0b812f672f", oid.String())

		files, err := r.ReadTree(oid)
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("should round trip nested files", func(t *testing.T) {
		t.Parallel()

		r := newTestRepo(t)
		entries := map[string]ginternals.Oid{}
		for _, p := range []string{"README", "src/main.go", "src/lib/lib.go", "docs/a/b/c.md"} {
			blob, err := r.NewBlob([]byte(p))
			require.NoError(t, err)
			entries[p] = blob.ID()
		}

		oid, err := r.WriteTreeFromEntries(entries)
		require.NoError(t, err)
		files, err := r.ReadTree(oid)
		require.NoError(t, err)
		assert.Equal(t, entries, files)

		// the same files always give the same tree
		oid2, err := r.WriteTreeFromEntries(files)
		require.NoError(t, err)
		assert.Equal(t, oid, oid2)

		root, err := r.Tree(oid)
		require.NoError(t, err)
		kinds := map[string]object.Type{}
		for _, e := range root.Entries() {
			kinds[e.Name] = e.Kind
		}
		assert.Equal(t, object.TypeTree, kinds["src"])
	})

	t.Run("ReadTree on a null oid should return nothing", func(t *testing.T) {
		t.Parallel()

		r := newTestRepo(t)
		files, err := r.ReadTree(ginternals.NullOid)
		require.NoError(t, err)
		assert.Empty(t, files)
	})

	t.Run("ReadTree on a blob should fail", func(t *testing.T) {
		t.Parallel()

		r := newTestRepo(t)
		blob, err := r.NewBlob([]byte("hello\n"))
		require.NoError(t, err)
		_, err = r.ReadTree(blob.ID())
		require.ErrorIs(t, err, object.ErrTypeMismatch)
	})
}

func TestWriteTreeFromEntriesErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc        string
		paths       []string
		expectedErr error
	}{
		{
			desc:        "dot segment",
			paths:       []string{"a/./b"},
			expectedErr: object.ErrPathSegmentInvalid,
		},
		{
			desc:        "dot dot segment",
			paths:       []string{"../b"},
			expectedErr: object.ErrPathSegmentInvalid,
		},
		{
			desc:        "empty segment",
			paths:       []string{"a//b"},
			expectedErr: object.ErrPathSegmentInvalid,
		},
		{
			desc:        "file and directory with the same name",
			paths:       []string{"a", "a/b"},
			expectedErr: object.ErrTreeInvalid,
		},
	}
	for i, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("%d/%s", i, tc.desc), func(t *testing.T) {
			t.Parallel()

			r := newTestRepo(t)
			blob, err := r.NewBlob([]byte("content"))
			require.NoError(t, err)

			entries := map[string]ginternals.Oid{}
			for _, p := range tc.paths {
				entries[p] = blob.ID()
			}
			_, err = r.WriteTreeFromEntries(entries)
			require.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
