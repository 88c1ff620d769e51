//go:build !linux

package fileop

import (
	"os"
	"time"
)

// createdAt falls back to the modification time on platforms where the
// stat result does not expose a change time in a portable shape.
func createdAt(info os.FileInfo) time.Time {
	return info.ModTime()
}
