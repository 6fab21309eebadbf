package ftp

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/marmos91/ftpd/pkg/bufpool"
)

// Listings advertise fixed permission strings; only the type character
// reflects the entry. Clients read the first column to tell files from
// directories, not to enforce permissions.
const (
	filePerms = "-rw-r--r--"
	dirPerms  = "drw-r--r--"
)

// formatListLine renders one directory entry in the long Unix listing
// format clients expect from LIST:
//
//	drw-r--r--   1 owner    group        4096 Jan 02 15:04 name
//
// Entries modified in a previous calendar year show the year instead of
// the clock time.
func formatListLine(info fs.FileInfo, now time.Time) string {
	perms := filePerms
	if info.IsDir() {
		perms = dirPerms
	}

	mod := info.ModTime()
	var date string
	if mod.Year() == now.Year() {
		date = mod.Format("Jan 02 15:04")
	} else {
		date = mod.Format("Jan 02  2006")
	}

	return fmt.Sprintf("%s %3d %-8s %-8s %8d %s %s\r\n",
		perms,
		1,
		"owner",
		"group",
		info.Size(),
		date,
		info.Name(),
	)
}

// writeListing writes the long-format listing of dir to w, assembling
// lines in a pooled buffer that is flushed as it fills. Entries that fail
// stat (racing deletion) are skipped. Returns the number of entries
// written.
func writeListing(w io.Writer, dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	buf := bufpool.Get(bufpool.SmallSize)[:0]
	defer bufpool.Put(buf)

	now := time.Now()
	written := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		line := formatListLine(info, now)
		if len(buf)+len(line) > bufpool.SmallSize {
			if _, err := w.Write(buf); err != nil {
				return written, err
			}
			buf = buf[:0]
		}
		buf = append(buf, line...)
		written++
	}
	if len(buf) > 0 {
		if _, err := w.Write(buf); err != nil {
			return written, err
		}
	}
	return written, nil
}
