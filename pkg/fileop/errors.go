package fileop

import "errors"

// Sentinel errors for the failure modes the engine distinguishes. Callers of
// the public facade never see these raw; stages and scans convert them into
// "no result" or a degraded fallback.
var (
	// ErrPathNotFound means the directory does not exist. Listings surface
	// it as nil rather than passing it through the facade.
	ErrPathNotFound = errors.New("path not found")

	// ErrWatchSetupFailed means the OS denied a watch handle. The watcher
	// degrades to on-demand direct scans.
	ErrWatchSetupFailed = errors.New("watch setup failed")

	// ErrScanDenied means the directory itself is unreadable. Unreadable
	// individual entries are just skipped, never reported.
	ErrScanDenied = errors.New("scan permission denied")

	// ErrCacheCorrupt marks an unreadable cached value. Treated as a miss
	// and recomputed.
	ErrCacheCorrupt = errors.New("cache corrupt")
)
