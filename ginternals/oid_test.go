package ginternals_test

import (
	"fmt"
	"testing"

	"github.com/Nivl/git-lite/ginternals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

func TestNewOidFromStr(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		desc        string
		id          string
		expectError bool
	}{
		{
			desc:        "valid oid should work",
			id:          "0eaf966ff79d8f61958aaefe163620d952606516",
			expectError: false,
		},
		{
			desc:        "invalid char should fail",
			id:          "0eaf96 ff79d8f61958aaefe163620d952606516",
			expectError: true,
		},
		{
			desc:        "invalid size should fail",
			id:          "0eaf96ff79d8f61958aaefe163620d952606",
			expectError: true,
		},
		{
			desc:        "empty string should fail",
			id:          "",
			expectError: true,
		},
	}
	for i, tc := range testCases {
		tc := tc
		i := i
		t.Run(fmt.Sprintf("%d/%s", i, tc.desc), func(t *testing.T) {
			t.Parallel()

			oid, err := ginternals.NewOidFromStr(tc.id)
			if tc.expectError {
				require.Error(t, err)
				assert.Equal(t, ginternals.NullOid, oid)
				assert.True(t, xerrors.Is(err, ginternals.ErrInvalidOid), "invalid error returned: %s", err.Error())
				assert.False(t, ginternals.IsOidString(tc.id))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.id, oid.String())
			assert.True(t, ginternals.IsOidString(tc.id))

			fromChars, err := ginternals.NewOidFromChars([]byte(tc.id))
			require.NoError(t, err)
			assert.Equal(t, oid, fromChars)
		})
	}
}

func TestNewOidFromContent(t *testing.T) {
	t.Parallel()

	// echo -en 'blob\x00hello' | sha1sum
	data := []byte("blob\x00hello")
	oid := ginternals.NewOidFromContent(data)
	assert.Equal(t, "5b211494ba9e0f5c98ca51e8732bda579d8487ef", oid.String())
	assert.False(t, oid.IsZero())
	assert.Len(t, oid.Bytes(), ginternals.OidSize)

	// Same bytes, same id
	assert.Equal(t, oid, ginternals.NewOidFromContent([]byte("blob\x00hello")))
	assert.NotEqual(t, oid, ginternals.NewOidFromContent([]byte("blob\x00hello!")))
}

func TestNullOid(t *testing.T) {
	t.Parallel()

	assert.True(t, ginternals.NullOid.IsZero())
	assert.Equal(t, "0000000000000000000000000000000000000000", ginternals.NullOid.String())
}
