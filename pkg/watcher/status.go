package watcher

import "time"

// PathStatus describes one watched directory for status reporting.
type PathStatus struct {
	Path        string    `json:"path"`
	State       string    `json:"state"`
	ChangeCount int       `json:"change_count"`
	LastUpdate  time.Time `json:"last_update"`
	Degraded    bool      `json:"degraded"` // true when serving without an OS watch
}

// Status is the watcher-wide snapshot exposed to collaborators.
type Status struct {
	WatchedCount int          `json:"watched_count"`
	CachedCount  int          `json:"cached_count"`
	PerPath      []PathStatus `json:"per_path"`
}

// Status reports the current registry contents.
func (w *Watcher) Status() Status {
	w.mu.Lock()
	defer w.mu.Unlock()

	status := Status{
		WatchedCount: len(w.dirs),
		PerPath:      make([]PathStatus, 0, len(w.dirs)),
	}

	for _, d := range w.dirs {
		if d.listing != nil {
			status.CachedCount++
		}
		status.PerPath = append(status.PerPath, PathStatus{
			Path:        d.path,
			State:       d.state.String(),
			ChangeCount: d.changeCount,
			LastUpdate:  d.lastScan,
			Degraded:    !d.osWatch,
		})
	}
	return status
}
