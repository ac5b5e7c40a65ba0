package git_test

import (
	"testing"

	"github.com/Nivl/git-lite/ginternals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranches(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)

	names, err := r.BranchNames()
	require.NoError(t, err)
	assert.Empty(t, names, "an unborn branch is not listed")

	c1 := commitFiles(t, r, map[string]string{"a.txt": "a\n"}, "first")

	ref, err := r.CreateBranch("feature/x", c1)
	require.NoError(t, err)
	assert.Equal(t, "refs/heads/feature/x", ref.Name())

	_, err = r.CreateBranch("feature/x", c1)
	require.ErrorIs(t, err, ginternals.ErrRefExists)

	_, err = r.CreateBranch("bad name", c1)
	require.ErrorIs(t, err, ginternals.ErrRefNameInvalid)

	_, err = r.CreateBranch("ghost", ginternals.Oid{1})
	require.ErrorIs(t, err, ginternals.ErrObjectNotFound)

	names, err = r.BranchNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"feature/x", "master"}, names)

	isBranch, err := r.IsBranch("feature/x")
	require.NoError(t, err)
	assert.True(t, isBranch)
	isBranch, err = r.IsBranch("feature")
	require.NoError(t, err)
	assert.False(t, isBranch, "a directory of refs is not a branch")
}

func TestTags(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	c1 := commitFiles(t, r, map[string]string{"a.txt": "a\n"}, "first")

	_, err := r.CreateTag("v1.0.0", c1)
	require.NoError(t, err)
	_, err = r.CreateTag("v1.0.0", c1)
	require.ErrorIs(t, err, ginternals.ErrRefExists)

	names, err := r.TagNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"v1.0.0"}, names)

	oid, err := r.ResolveName("v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, c1, oid)
}
