package ftp

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatListLine(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "hello.txt")
	require.NoError(t, os.WriteFile(path, []byte("12345"), 0o644))

	now := time.Date(2026, time.June, 15, 12, 0, 0, 0, time.Local)

	t.Run("SameYearShowsClock", func(t *testing.T) {
		mtime := time.Date(2026, time.March, 5, 9, 30, 0, 0, time.Local)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
		info, err := os.Stat(path)
		require.NoError(t, err)

		line := formatListLine(info, now)
		assert.Equal(t, "-rw-r--r--   1 owner    group           5 Mar 05 09:30 hello.txt\r\n", line)
	})

	t.Run("OtherYearShowsYear", func(t *testing.T) {
		mtime := time.Date(2019, time.December, 24, 23, 59, 0, 0, time.Local)
		require.NoError(t, os.Chtimes(path, mtime, mtime))
		info, err := os.Stat(path)
		require.NoError(t, err)

		line := formatListLine(info, now)
		assert.Equal(t, "-rw-r--r--   1 owner    group           5 Dec 24  2019 hello.txt\r\n", line)
	})

	t.Run("Directory", func(t *testing.T) {
		dir := filepath.Join(root, "sub")
		require.NoError(t, os.Mkdir(dir, 0o755))
		info, err := os.Stat(dir)
		require.NoError(t, err)

		line := formatListLine(info, now)
		assert.True(t, strings.HasPrefix(line, "drw-r--r--   1 owner    group    "), "line: %q", line)
		assert.True(t, strings.HasSuffix(line, " sub\r\n"), "line: %q", line)
	})
}

// The permission column is a fixed string regardless of the entry's actual
// mode bits; only the type character varies.
func TestListingPermissionsAreFixed(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "exec.bin"), []byte("x"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "locked"), 0o700))

	var sb strings.Builder
	entries, err := writeListing(&sb, root)
	require.NoError(t, err)
	require.Equal(t, 2, entries)

	for _, line := range strings.Split(strings.TrimSuffix(sb.String(), "\r\n"), "\r\n") {
		switch {
		case strings.HasSuffix(line, " exec.bin"):
			assert.True(t, strings.HasPrefix(line, "-rw-r--r-- "), "line: %q", line)
		case strings.HasSuffix(line, " locked"):
			assert.True(t, strings.HasPrefix(line, "drw-r--r-- "), "line: %q", line)
		default:
			t.Fatalf("unexpected listing line %q", line)
		}
	}
}

func TestWriteListing(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("aa"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("bbb"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir"), 0o755))

	var sb strings.Builder
	entries, err := writeListing(&sb, root)
	require.NoError(t, err)
	assert.Equal(t, 3, entries)

	out := sb.String()
	lines := strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.Regexp(t, `^[-d]rw-r--r-- {3}1 owner    group    [ 0-9]{8} [A-Z][a-z]{2} \d{2} ( \d{4}|\d{2}:\d{2}) \S+$`, line)
	}
	assert.Contains(t, out, " a.txt\r\n")
	assert.Contains(t, out, " b.txt\r\n")
	assert.Contains(t, out, " dir\r\n")
}

func TestWriteListingMissingDir(t *testing.T) {
	var sb strings.Builder
	_, err := writeListing(&sb, filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
	assert.Empty(t, sb.String())
}

func TestWriteListingLargeDir(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 200; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(root, fmt.Sprintf("f%03d", i)), nil, 0o644))
	}

	// 200 lines overflow the 4KB assembly buffer several times over, so
	// this exercises the flush path as well.
	var sb strings.Builder
	entries, err := writeListing(&sb, root)
	require.NoError(t, err)
	assert.Equal(t, 200, entries)
	assert.Equal(t, 200, strings.Count(sb.String(), "\r\n"))
}
