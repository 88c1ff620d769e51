//go:build linux

package fileop

import (
	"os"
	"syscall"
	"time"
)

// createdAt extracts the inode change time, the closest thing to a birth
// time the portable stat exposes on Linux.
func createdAt(info os.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(stat.Ctim.Sec, stat.Ctim.Nsec)
	}
	return info.ModTime()
}
