package diff_test

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/Nivl/git-lite/diff"
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory diff.ObjectStore
type memStore struct {
	mu      sync.Mutex
	objects map[ginternals.Oid]*object.Object
}

func newMemStore() *memStore {
	return &memStore{
		objects: map[ginternals.Oid]*object.Object{},
	}
}

func (s *memStore) Object(oid ginternals.Oid) (*object.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[oid]
	if !ok {
		return nil, ginternals.ErrObjectNotFound
	}
	return o, nil
}

func (s *memStore) WriteObject(o *object.Object) (ginternals.Oid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[o.ID()] = o
	return o.ID(), nil
}

// blob stores a blob and returns its id
func (s *memStore) blob(t *testing.T, content string) ginternals.Oid {
	t.Helper()
	oid, err := s.WriteObject(object.New(object.TypeBlob, []byte(content)))
	require.NoError(t, err)
	return oid
}

func TestAlign(t *testing.T) {
	t.Parallel()

	a := ginternals.NewOidFromContent([]byte("a"))
	b := ginternals.NewOidFromContent([]byte("b"))

	rows := diff.Align(
		map[string]ginternals.Oid{"z.txt": a, "a.txt": a},
		map[string]ginternals.Oid{"a.txt": b, "m/n.txt": b},
	)
	expected := []diff.Row{
		{Path: "a.txt", IDs: []ginternals.Oid{a, b}},
		{Path: "m/n.txt", IDs: []ginternals.Oid{ginternals.NullOid, b}},
		{Path: "z.txt", IDs: []ginternals.Oid{a, ginternals.NullOid}},
	}
	assert.Equal(t, expected, rows)

	assert.Empty(t, diff.Align())
}

func TestClassifyChanges(t *testing.T) {
	t.Parallel()

	a := ginternals.NewOidFromContent([]byte("a"))
	b := ginternals.NewOidFromContent([]byte("b"))

	changes := diff.ClassifyChanges(
		map[string]ginternals.Oid{"same": a, "modified": a, "deleted": a},
		map[string]ginternals.Oid{"same": a, "modified": b, "added": b},
	)
	expected := []diff.Change{
		{Path: "added", Action: diff.ActionAdded, To: b},
		{Path: "deleted", Action: diff.ActionDeleted, From: a},
		{Path: "modified", Action: diff.ActionModified, From: a, To: b},
	}
	assert.Equal(t, expected, changes)
}

func TestActionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "new file", diff.ActionAdded.String())
	assert.Equal(t, "deleted", diff.ActionDeleted.String())
	assert.Equal(t, "modified", diff.ActionModified.String())
	assert.Equal(t, "unknown(42)", diff.Action(42).String())
}

func TestDiffTrees(t *testing.T) {
	t.Parallel()

	t.Run("should render added files", func(t *testing.T) {
		t.Parallel()

		s := newMemStore()
		out, err := diff.DiffTrees(s, nil, map[string]ginternals.Oid{
			"a.txt": s.blob(t, "hello\n"),
		})
		require.NoError(t, err)
		assert.Equal(t, "--- /dev/null\n+++ b/a.txt\n@@ -0,0 +1,1 @@\n+hello\n", string(out))
	})

	t.Run("should render deleted files", func(t *testing.T) {
		t.Parallel()

		s := newMemStore()
		out, err := diff.DiffTrees(s, map[string]ginternals.Oid{
			"a.txt": s.blob(t, "hello\n"),
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, "--- a/a.txt\n+++ /dev/null\n@@ -1,1 +0,0 @@\n-hello\n", string(out))
	})

	t.Run("should render modified lines", func(t *testing.T) {
		t.Parallel()

		s := newMemStore()
		out, err := diff.DiffTrees(s,
			map[string]ginternals.Oid{"a.txt": s.blob(t, "a\nb\nc\n")},
			map[string]ginternals.Oid{"a.txt": s.blob(t, "a\nB\nc\n")},
		)
		require.NoError(t, err)
		assert.Contains(t, string(out), "--- a/a.txt\n+++ b/a.txt\n@@ -1,3 +1,3 @@\n a\n")
		assert.Contains(t, string(out), "\n-b\n")
		assert.Contains(t, string(out), "\n+B\n")
		assert.Contains(t, string(out), "\n c\n")
	})

	t.Run("should not render binary files", func(t *testing.T) {
		t.Parallel()

		s := newMemStore()
		out, err := diff.DiffTrees(s,
			map[string]ginternals.Oid{"a.bin": s.blob(t, "a\x00b")},
			map[string]ginternals.Oid{"a.bin": s.blob(t, "a\x00c")},
		)
		require.NoError(t, err)
		assert.Equal(t, "--- a/a.bin\n+++ b/a.bin\nBinary files a/a.bin and b/a.bin differ\n", string(out))
	})

	t.Run("should not render unchanged files", func(t *testing.T) {
		t.Parallel()

		s := newMemStore()
		tree := map[string]ginternals.Oid{"a.txt": s.blob(t, "a")}
		out, err := diff.DiffTrees(s, tree, tree)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("should fail on missing objects", func(t *testing.T) {
		t.Parallel()

		s := newMemStore()
		_, err := diff.DiffTrees(s, nil, map[string]ginternals.Oid{
			"a.txt": ginternals.NewOidFromContent([]byte("nope")),
		})
		require.ErrorIs(t, err, ginternals.ErrObjectNotFound)
	})
}

func TestIsBinary(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc     string
		content  []byte
		expected bool
	}{
		{desc: "empty", content: nil, expected: false},
		{desc: "text", content: []byte("hello\n"), expected: false},
		{desc: "NUL byte", content: []byte("a\x00b"), expected: true},
		{desc: "NUL byte after the sniffed part", content: append([]byte(strings.Repeat(" ", 8000)), 0), expected: false},
	}
	for i, tc := range testCases {
		tc := tc
		t.Run(fmt.Sprintf("%d/%s", i, tc.desc), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, diff.IsBinary(tc.content))
		})
	}
}
