package git_test

import (
	"path/filepath"
	"testing"

	git "github.com/Nivl/git-lite"
	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/object"
	"github.com/Nivl/git-lite/internal/testhelper"
	"github.com/Nivl/git-lite/internal/testhelper/confutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureWorkingTree(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	testhelper.WriteFiles(t, r.Config.FS, r.WorkTreePath(), map[string]string{
		"main.go":    "package main\n",
		"lib/lib.go": "package lib\n",
	})

	files, err := r.CaptureWorkingTree()
	require.NoError(t, err)
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	assert.ElementsMatch(t, []string{"lib/lib.go", "main.go"}, paths, ".gitlite should be skipped")

	// the content has been stored
	blob, err := r.Blob(files["main.go"])
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(blob.Bytes()))
}

func TestCaptureWorkingTreeIgnore(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg := confutil.NewCommonConfig(t, fs, "/repo")
	testhelper.WriteFiles(t, fs, cfg.WorkTreePath, map[string]string{
		".gitliteignore": "*.log\nbuild/\n",
		"main.go":        "package main\n",
		"lib/lib.go":     "package lib\n",
		"debug.log":      "log\n",
		"build/out":      "binary\n",
	})
	r, err := git.InitRepositoryWithParams(cfg, git.InitOptions{})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, r.Close())
	})

	files, err := r.CaptureWorkingTree()
	require.NoError(t, err)
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	assert.ElementsMatch(t, []string{".gitliteignore", "lib/lib.go", "main.go"}, paths)
}

func TestAdd(t *testing.T) {
	t.Parallel()

	t.Run("should stage files and directories", func(t *testing.T) {
		t.Parallel()

		r := newTestRepo(t)
		testhelper.WriteFiles(t, r.Config.FS, r.WorkTreePath(), map[string]string{
			"a.txt":     "a\n",
			"dir/b.txt": "b\n",
			"dir/c.txt": "c\n",
			"other.txt": "other\n",
		})
		require.NoError(t, r.Add("a.txt", filepath.Join(r.WorkTreePath(), "dir")))

		idx, err := r.Backend().ReadIndex()
		require.NoError(t, err)
		assert.Equal(t, []string{"a.txt", "dir/b.txt", "dir/c.txt"}, idx.Paths())

		oid, ok := idx.Get("a.txt")
		require.True(t, ok)
		assert.Equal(t, object.NewBlobFromBytes([]byte("a\n")).ID(), oid)
	})

	t.Run("should remove deleted files", func(t *testing.T) {
		t.Parallel()

		r := newTestRepo(t)
		commitFiles(t, r, map[string]string{
			"a.txt":     "a\n",
			"dir/b.txt": "b\n",
			"dir/c.txt": "c\n",
		}, "first")

		fs := r.Config.FS
		require.NoError(t, fs.Remove(filepath.Join(r.WorkTreePath(), "a.txt")))
		require.NoError(t, fs.Remove(filepath.Join(r.WorkTreePath(), "dir", "b.txt")))
		require.NoError(t, r.Add("a.txt", "dir"))

		idx, err := r.Backend().ReadIndex()
		require.NoError(t, err)
		assert.Equal(t, []string{"dir/c.txt"}, idx.Paths())
	})

	t.Run("should fail on unknown paths", func(t *testing.T) {
		t.Parallel()

		r := newTestRepo(t)
		err := r.Add("nope.txt")
		require.ErrorIs(t, err, git.ErrPathNotFound)
	})

	t.Run("should keep the staged files when failing", func(t *testing.T) {
		t.Parallel()

		r := newTestRepo(t)
		testhelper.WriteFiles(t, r.Config.FS, r.WorkTreePath(), map[string]string{
			"a.txt": "a\n",
		})
		err := r.Add("a.txt", "missing.txt")
		require.ErrorIs(t, err, git.ErrPathNotFound)

		idx, err := r.Backend().ReadIndex()
		require.NoError(t, err)
		assert.Equal(t, []string{"a.txt"}, idx.Paths())
	})

	t.Run("should fail on paths outside of the working tree", func(t *testing.T) {
		t.Parallel()

		r := newTestRepo(t)
		err := r.Add("../nope.txt")
		require.ErrorIs(t, err, git.ErrPathOutsideWorkTree)
	})
}

func TestCheckout(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	c1 := commitFiles(t, r, map[string]string{
		"a.txt":         "a1\n",
		"dir/sub/b.txt": "b1\n",
	}, "first")
	_, err := r.CreateBranch("old", c1)
	require.NoError(t, err)

	fs := r.Config.FS
	require.NoError(t, fs.RemoveAll(filepath.Join(r.WorkTreePath(), "dir")))
	c2 := commitFiles(t, r, map[string]string{
		"a.txt": "a2\n",
		"c.txt": "c2\n",
	}, "second")

	assert.False(t, workingFileExists(t, r, "dir"))

	// back to the first commit, on a branch
	require.NoError(t, r.Checkout("old"))
	assert.Equal(t, "a1\n", readWorkingFile(t, r, "a.txt"))
	assert.Equal(t, "b1\n", readWorkingFile(t, r, "dir/sub/b.txt"))
	assert.False(t, workingFileExists(t, r, "c.txt"))

	branch, ok, err := r.CurrentBranch()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "old", branch)

	idx, err := r.Backend().ReadIndex()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "dir/sub/b.txt"}, idx.Paths())

	// detached on the second commit
	require.NoError(t, r.Checkout(c2.String()))
	assert.Equal(t, "a2\n", readWorkingFile(t, r, "a.txt"))
	assert.False(t, workingFileExists(t, r, "dir"), "empty directories should be removed")

	_, ok, err = r.CurrentBranch()
	require.NoError(t, err)
	assert.False(t, ok)
	head, err := r.Backend().RawReference(ginternals.Head)
	require.NoError(t, err)
	assert.False(t, head.IsSymbolic())
	assert.Equal(t, c2, head.Target())
}

func TestCheckoutTreeKeepsUntrackedFiles(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	c1 := commitFiles(t, r, map[string]string{"a.txt": "a\n"}, "first")
	testhelper.WriteFiles(t, r.Config.FS, r.WorkTreePath(), map[string]string{
		"untracked.txt": "u\n",
	})

	c, err := r.Commit(c1)
	require.NoError(t, err)
	require.NoError(t, r.CheckoutTree(c.TreeID(), true))
	assert.Equal(t, "u\n", readWorkingFile(t, r, "untracked.txt"))
	assert.Equal(t, "a\n", readWorkingFile(t, r, "a.txt"))
}

func TestReset(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	c1 := commitFiles(t, r, map[string]string{"a.txt": "1\n"}, "first")
	commitFiles(t, r, map[string]string{"a.txt": "2\n"}, "second")

	require.NoError(t, r.Reset(c1))

	head, err := r.Head()
	require.NoError(t, err)
	assert.Equal(t, c1, head)

	// only HEAD moves
	branch, ok, err := r.CurrentBranch()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ginternals.Master, branch)
	assert.Equal(t, "2\n", readWorkingFile(t, r, "a.txt"))
}
