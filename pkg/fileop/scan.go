package fileop

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ScanDirectory reads a directory and returns its entries ordered for
// display: directories first, then files, each group sorted by name with
// locale-aware collation. Unreadable entries are skipped so a partial
// listing is always better than no listing.
func ScanDirectory(path string, locale string) ([]FileRecord, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, fmt.Errorf("%w: %s", ErrPathNotFound, path)
		case os.IsPermission(err):
			return nil, fmt.Errorf("%w: %s", ErrScanDenied, path)
		}
		return nil, fmt.Errorf("read directory %s: %w", path, err)
	}

	records := make([]FileRecord, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			// Entry vanished or is unreadable. Skip, never abort.
			continue
		}

		records = append(records, FileRecord{
			Name:        entry.Name(),
			Path:        filepath.Join(path, entry.Name()),
			IsDirectory: entry.IsDir(),
			Size:        info.Size(),
			ModifiedAt:  info.ModTime(),
			CreatedAt:   createdAt(info),
			Permissions: info.Mode().Perm().String(),
		})
	}

	SortRecords(records, locale)
	return records, nil
}

// SortRecords orders records in place: directories before files, then
// collated name order within each group.
func SortRecords(records []FileRecord, locale string) {
	coll := collatorFor(locale)
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].IsDirectory != records[j].IsDirectory {
			return records[i].IsDirectory
		}
		return coll.CompareString(records[i].Name, records[j].Name) < 0
	})
}

func collatorFor(locale string) *collate.Collator {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return collate.New(tag)
}
