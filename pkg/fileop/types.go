// Package fileop holds the file-level types and directory scanning shared by
// the watcher, the resolver, and the engine facade.
package fileop

import "time"

// FileRecord describes a single directory entry.
type FileRecord struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	IsDirectory bool      `json:"is_directory"`
	Size        int64     `json:"size"`
	ModifiedAt  time.Time `json:"modified_at"`
	CreatedAt   time.Time `json:"created_at"`
	Permissions string    `json:"permissions"`
}
