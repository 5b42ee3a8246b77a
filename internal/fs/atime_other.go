//go:build !linux && !darwin

package fs

import (
	"os"
	"time"
)

// AccessTime returns the modification time in fi; access times are not
// portable outside Linux and Darwin.
func AccessTime(path string, fi os.FileInfo) time.Time {
	_ = path
	return fi.ModTime()
}
