package detect

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/desinsight/SnapAGENT-filo-sub009/pkg/fileop"
)

// Snapshot is the persisted form of a detection run.
type Snapshot struct {
	DetectedAt time.Time                 `json:"detected_at"`
	Platform   string                    `json:"platform"`
	Username   string                    `json:"username"`
	Paths      map[string][]DetectedPath `json:"paths"`
	Summary    Summary                   `json:"summary"`
}

// Summary gives a quick shape of the snapshot without walking it.
type Summary struct {
	Categories int `json:"categories"`
	TotalPaths int `json:"total_paths"`
}

// snapshotSchema validates the persisted file before it is trusted. A file
// that fails validation is treated as absent, matching the cache-corruption
// rule: recompute, never crash.
const snapshotSchema = `{
  "type": "object",
  "required": ["detected_at", "platform", "paths", "summary"],
  "properties": {
    "detected_at": {"type": "string"},
    "platform": {"type": "string"},
    "username": {"type": "string"},
    "paths": {
      "type": "object",
      "additionalProperties": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["path", "source", "detected_at"],
          "properties": {
            "path": {"type": "string", "minLength": 1},
            "source": {"type": "string"},
            "language": {"type": "string"},
            "detected_at": {"type": "string"}
          }
        }
      }
    },
    "summary": {
      "type": "object",
      "properties": {
        "categories": {"type": "integer"},
        "total_paths": {"type": "integer"}
      }
    }
  }
}`

// NewSnapshot wraps a detection result with its metadata.
func NewSnapshot(platform, username string, paths map[string][]DetectedPath) *Snapshot {
	total := 0
	for _, list := range paths {
		total += len(list)
	}

	return &Snapshot{
		DetectedAt: time.Now(),
		Platform:   platform,
		Username:   username,
		Paths:      paths,
		Summary: Summary{
			Categories: len(paths),
			TotalPaths: total,
		},
	}
}

// SaveSnapshot writes the snapshot as indented JSON, creating the directory
// as needed.
func SaveSnapshot(path string, snap *Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads and validates a persisted snapshot. Returns an error
// for missing, unreadable, or schema-invalid files; callers fall back to a
// fresh detection run.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(snapshotSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, fmt.Errorf("validate snapshot: %w", err)
	}
	if !result.Valid() {
		return nil, fmt.Errorf("%w: snapshot does not match schema: %v", fileop.ErrCacheCorrupt, result.Errors())
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: decode snapshot: %v", fileop.ErrCacheCorrupt, err)
	}
	return &snap, nil
}
