//go:build linux

package fs

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// AccessTime returns the last access time of the file at path.
// It falls back to the modification time in fi when stat(2) fails.
func AccessTime(path string, fi os.FileInfo) time.Time {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return fi.ModTime()
	}
	return time.Unix(st.Atim.Unix())
}
