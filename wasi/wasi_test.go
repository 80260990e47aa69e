package wasi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFlagStrings(t *testing.T) {
	require.Equal(t, "0", FdFlags(0).String())
	require.Equal(t, "APPEND|NONBLOCK", (FdFlagsAppend | FdFlagsNonblock).String())
	require.Equal(t, "CREATE|EXCLUSIVE", (OFlagsCreate | OFlagsExclusive).String())
	require.Equal(t, "READ|?", (FileCapsRead | 1<<31).String())
}

func TestFdFlagsSyncFamily(t *testing.T) {
	for _, f := range []FdFlags{FdFlagsDsync, FdFlagsRsync, FdFlagsSync} {
		require.True(t, f.Intersects(FdFlagsSyncFamily), f.String())
	}
	require.False(t, (FdFlagsAppend | FdFlagsNonblock).Intersects(FdFlagsSyncFamily))
}

func TestFileTypeString(t *testing.T) {
	require.Equal(t, "regular_file", FileTypeRegularFile.String())
	require.Equal(t, "socket_dgram", FileTypeSocketDgram.String())
	require.Equal(t, "unknown", FileType(200).String())
}

func TestStringArray(t *testing.T) {
	t.Run("push", func(t *testing.T) {
		a := NewStringArray(0)
		require.NoError(t, a.Push("wasi", "--verbose"))
		require.Equal(t, []string{"wasi", "--verbose"}, a.Elems())
		require.Equal(t, uint64(len("wasi")+1+len("--verbose")+1), a.Size())
	})

	t.Run("nul", func(t *testing.T) {
		a := NewStringArray(0)
		require.NoError(t, a.Push("ok"))
		require.ErrorIs(t, a.Push("fine", "bad\x00"), ErrStringArrayNul)
		require.Equal(t, []string{"ok"}, a.Elems(), "failed batch must not partially apply")
	})

	t.Run("too large", func(t *testing.T) {
		a := NewStringArray(8)
		require.NoError(t, a.Push("abc"))
		require.ErrorIs(t, a.Push("abcd"), ErrStringArrayTooLarge)
		require.Equal(t, 1, a.Len())
		require.NoError(t, a.Push("abc"))
		require.Equal(t, uint64(8), a.Size())
	})

	t.Run("check does not mutate", func(t *testing.T) {
		a := NewStringArray(0)
		require.NoError(t, a.Check("x"))
		require.Equal(t, 0, a.Len())
	})
}
