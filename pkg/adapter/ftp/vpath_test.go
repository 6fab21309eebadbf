package ftp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveVirtual(t *testing.T) {
	tests := []struct {
		name  string
		cwd   string
		input string
		want  string
	}{
		{"EmptyInput", "/", "", "/"},
		{"EmptyInputDeepCwd", "/a/b", "", "/a/b"},
		{"AbsoluteInput", "/a/b", "/x/y", "/x/y"},
		{"RelativeInput", "/a", "b/c", "/a/b/c"},
		{"DotSkipped", "/a", "./b/./c", "/a/b/c"},
		{"DotDotPops", "/a/b", "..", "/a"},
		{"DotDotAtRootIgnored", "/", "..", "/"},
		{"DotDotBeyondRoot", "/", "../../../etc", "/etc"},
		{"AbsoluteTraversal", "/home", "/../../etc", "/etc"},
		{"DoubleSlashes", "/", "a//b///c", "/a/b/c"},
		{"TrailingSlash", "/", "a/b/", "/a/b"},
		{"MixedTraversal", "/a/b", "../c/../d", "/a/d"},
		{"OnlyDots", "/a", "./.", "/a"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, resolveVirtual(tc.cwd, tc.input))
		})
	}
}

func TestToFilesystem(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))

	t.Run("Root", func(t *testing.T) {
		got, err := toFilesystem(root, "/")
		require.NoError(t, err)
		assert.Equal(t, root, got)
	})

	t.Run("Nested", func(t *testing.T) {
		got, err := toFilesystem(root, "/sub/file.txt")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "sub", "file.txt"), got)
	})

	t.Run("MissingTarget", func(t *testing.T) {
		// STOR and MKD targets do not exist yet; mapping must still work.
		got, err := toFilesystem(root, "/sub/new/deep.bin")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "sub", "new", "deep.bin"), got)
	})
}

func TestToFilesystemSymlinkEscape(t *testing.T) {
	outside := t.TempDir()
	root := t.TempDir()
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "leak")))

	_, err := toFilesystem(root, "/leak/secret.txt")
	assert.ErrorIs(t, err, errEscapesRoot)
}

func TestToFilesystemSymlinkInsideRootAllowed(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "real"), 0o755))
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")))

	_, err := toFilesystem(root, "/alias/file.txt")
	assert.NoError(t, err)
}
